package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name          string
		limit         int
		total         int64
		expectedPages int
	}{
		{"empty", 20, 0, 0},
		{"exact", 20, 40, 2},
		{"remainder", 20, 41, 3},
		{"single partial", 20, 3, 1},
		{"zero limit", 0, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(1, tt.limit, tt.total)
			assert.Equal(t, tt.expectedPages, p.TotalPages)
		})
	}
}

func TestPaginated_Shape(t *testing.T) {
	body, err := json.Marshal(Paginated("events", []string{}, 2, 20, 25))
	require.NoError(t, err)

	var got struct {
		Success bool `json:"success"`
		Data    struct {
			Events     []string       `json:"events"`
			Pagination map[string]int `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &got))

	assert.True(t, got.Success)
	assert.NotNil(t, got.Data.Events)
	assert.Equal(t, map[string]int{"page": 2, "limit": 20, "total": 25, "totalPages": 2}, got.Data.Pagination)
}

func TestInternalError_DefaultMessage(t *testing.T) {
	r := InternalError("")
	assert.False(t, r.Success)
	assert.Equal(t, ErrCodeInternal, r.Error.Code)
	assert.Equal(t, "Internal server error", r.Error.Message)
}

func TestValidationError_Details(t *testing.T) {
	r := ValidationError("Invalid query parameters", map[string]string{"limit": "must be at most 100"})
	assert.Equal(t, ErrCodeValidation, r.Error.Code)
	assert.NotNil(t, r.Error.Details)
}
