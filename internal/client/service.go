package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-aksi/internal/common"
)

// Service validates and orchestrates client operations.
type Service struct {
	store        Store
	validate     *validator.Validate
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store        Store
	DefaultLimit int
	MaxLimit     int
}

// ListResult contains one page of clients and pagination metadata.
type ListResult struct {
	Items      []Client
	Pagination common.Pagination
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("client: store is required")
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	return &Service{
		store:        cfg.Store,
		validate:     validator.New(),
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// List returns a page of clients sorted by name.
func (s *Service) List(ctx context.Context, page, perPage int) (ListResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.defaultLimit
	}
	if perPage > s.maxLimit {
		perPage = s.maxLimit
	}
	total, err := s.store.Count(ctx)
	if err != nil {
		return ListResult{}, fmt.Errorf("count clients: %w", err)
	}
	items, err := s.store.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return ListResult{}, fmt.Errorf("list clients: %w", err)
	}
	return ListResult{Items: items, Pagination: common.NewPagination(page, perPage, total)}, nil
}

// Search returns clients whose name, phone, or email contains the term.
func (s *Service) Search(ctx context.Context, term string) ([]Client, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, common.BadRequest("BAD_REQUEST", "search term is required", nil)
	}
	items, err := s.store.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("search clients: %w", err)
	}
	return items, nil
}

// Get returns a single client by id.
func (s *Service) Get(ctx context.Context, id string) (Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Client{}, common.BadRequest("BAD_REQUEST", "client id is required", nil)
	}
	c, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Client{}, common.NotFound("client not found")
		}
		return Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// Create validates and inserts a new client. Phone numbers are unique.
func (s *Service) Create(ctx context.Context, input Input) (Client, error) {
	if err := s.validateInput(&input); err != nil {
		return Client{}, err
	}
	c, err := s.store.Insert(ctx, input)
	if err != nil {
		if errors.Is(err, ErrPhoneExists) {
			return Client{}, common.Conflict("PHONE_EXISTS", "a client with this phone number already exists", err)
		}
		return Client{}, fmt.Errorf("insert client: %w", err)
	}
	return c, nil
}

// Update validates and replaces an existing client record.
func (s *Service) Update(ctx context.Context, id string, input Input) (Client, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Client{}, common.BadRequest("BAD_REQUEST", "client id is required", nil)
	}
	if err := s.validateInput(&input); err != nil {
		return Client{}, err
	}
	c, err := s.store.Update(ctx, id, input)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return Client{}, common.NotFound("client not found")
		case errors.Is(err, ErrPhoneExists):
			return Client{}, common.Conflict("PHONE_EXISTS", "a client with this phone number already exists", err)
		}
		return Client{}, fmt.Errorf("update client: %w", err)
	}
	return c, nil
}

// Delete removes a client.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return common.BadRequest("BAD_REQUEST", "client id is required", nil)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFound("client not found")
		}
		return fmt.Errorf("delete client: %w", err)
	}
	return nil
}

func (s *Service) validateInput(input *Input) error {
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Address = strings.TrimSpace(input.Address)
	input.Note = strings.TrimSpace(input.Note)
	if err := s.validate.Struct(*input); err != nil {
		return common.BadRequest("VALIDATION", "invalid client payload", err)
	}
	return nil
}
