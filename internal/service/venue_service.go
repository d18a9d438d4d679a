package service

import (
	"context"
	"fmt"

	"github.com/dreammeanings/aroundmenow-sub001/internal/domain"
	"github.com/dreammeanings/aroundmenow-sub001/internal/dto"
	"github.com/dreammeanings/aroundmenow-sub001/internal/repository"
	"github.com/dreammeanings/aroundmenow-sub001/internal/search"
)

// venueService implements VenueService
type venueService struct {
	venueRepo repository.VenueRepository
	searcher  SearchService
}

// NewVenueService creates a new VenueService
func NewVenueService(venueRepo repository.VenueRepository, searcher SearchService) VenueService {
	return &venueService{
		venueRepo: venueRepo,
		searcher:  searcher,
	}
}

// CreateVenue creates a new venue
func (s *venueService) CreateVenue(ctx context.Context, req *dto.CreateVenueRequest) (*domain.Venue, error) {
	if valid, msg := req.Validate(); !valid {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidVenue, msg)
	}

	venue, err := domain.NewVenue(req.ToDomain())
	if err != nil {
		return nil, err
	}

	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, err
	}
	return venue, nil
}

// GetVenue retrieves a venue by ID
func (s *venueService) GetVenue(ctx context.Context, id string) (*domain.Venue, error) {
	if !isUUID(id) {
		return nil, domain.ErrVenueNotFound
	}
	return s.venueRepo.GetByID(ctx, id)
}

// ListVenues lists venues with pagination
func (s *venueService) ListVenues(ctx context.Context, filter *dto.VenueListFilter) ([]*domain.Venue, int, error) {
	filter.SetDefaults()
	return s.venueRepo.List(ctx, filter.City, filter.Limit, filter.Offset())
}

// ListVenueEvents runs the event search restricted to one venue
func (s *venueService) ListVenueEvents(ctx context.Context, venueID string, page, limit int) (*domain.SearchResult, error) {
	if !isUUID(venueID) {
		return nil, domain.ErrVenueNotFound
	}

	exists, err := s.venueRepo.Exists(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrVenueNotFound
	}

	return s.searcher.Search(ctx, search.Criteria{VenueID: venueID, Page: page, Limit: limit}, "")
}
