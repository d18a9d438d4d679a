package response

import "math"

// Error codes shared by all handlers
const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeUnavailable  = "SERVICE_UNAVAILABLE"
)

// Response is the JSON envelope for every API response
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorData `json:"error,omitempty"`
}

// ErrorData describes a failed request
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Pagination is the page metadata returned next to list results
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes TotalPages as the ceiling of total/limit
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Success wraps data in a successful envelope
func Success(data any) Response {
	return Response{Success: true, Data: data}
}

// Paginated returns {"<key>": items, "pagination": {...}} as data
func Paginated(key string, items any, page, limit int, total int64) Response {
	return Success(map[string]any{
		key:          items,
		"pagination": NewPagination(page, limit, total),
	})
}

// Error builds a failed envelope
func Error(code, message string) Response {
	return Response{Success: false, Error: &ErrorData{Code: code, Message: message}}
}

// ValidationError carries per-field messages in details
func ValidationError(message string, details any) Response {
	r := Error(ErrCodeValidation, message)
	r.Error.Details = details
	return r
}

func BadRequest(message string) Response {
	return Error(ErrCodeBadRequest, message)
}

func NotFound(message string) Response {
	return Error(ErrCodeNotFound, message)
}

func Unauthorized(message string) Response {
	return Error(ErrCodeUnauthorized, message)
}

func Forbidden(message string) Response {
	return Error(ErrCodeForbidden, message)
}

// InternalError hides the cause; callers log it
func InternalError(message string) Response {
	if message == "" {
		message = "Internal server error"
	}
	return Error(ErrCodeInternal, message)
}
