package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-aksi/internal/common"
	"github.com/noah-isme/backend-aksi/internal/obs"
)

// Service orchestrates price-list queries, DTO assembly, and caching.
type Service struct {
	store        Store
	cache        *Cache
	validate     *validator.Validate
	defaultPage  int
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store        Store
	Cache        *Cache
	DefaultPage  int
	DefaultLimit int
	MaxLimit     int
}

// ListResult contains list data and pagination metadata.
type ListResult struct {
	Items      []Item
	Pagination common.Pagination
}

// Modifiers aggregates the special modifier categories used by the order form.
type Modifiers struct {
	Coefficients  []Item `json:"coefficients"`
	TextileExtras []Item `json:"textile_extras"`
	LeatherExtras []Item `json:"leather_extras"`
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("catalog: store is required")
	}
	defaultPage := cfg.DefaultPage
	if defaultPage < 1 {
		defaultPage = 1
	}
	defaultLimit := cfg.DefaultLimit
	if defaultLimit < 1 {
		defaultLimit = 20
	}
	maxLimit := cfg.MaxLimit
	if maxLimit < 1 {
		maxLimit = 100
	}
	if defaultLimit > maxLimit {
		defaultLimit = maxLimit
	}
	return &Service{
		store:        cfg.Store,
		cache:        cfg.Cache,
		validate:     validator.New(),
		defaultPage:  defaultPage,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// Categories returns the distinct price-list categories.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	key := "pricelist:categories"
	var cached []string
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		obs.ObservePriceListCache("hit")
		return cached, nil
	}
	obs.ObservePriceListCache("miss")
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	_ = s.cache.SetJSON(ctx, key, categories)
	return categories, nil
}

// ByCategory returns a page of items in the given category.
func (s *Service) ByCategory(ctx context.Context, category string, page, perPage int) (ListResult, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return ListResult{}, common.BadRequest("BAD_REQUEST", "category is required", nil)
	}
	page, perPage = s.clampPage(page, perPage)

	key := fmt.Sprintf("pricelist:category:%s:%d:%d", category, page, perPage)
	var cached ListResult
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		obs.ObservePriceListCache("hit")
		return cached, nil
	}
	obs.ObservePriceListCache("miss")

	total, err := s.store.CountByCategory(ctx, category)
	if err != nil {
		return ListResult{}, fmt.Errorf("count category items: %w", err)
	}
	items, err := s.store.ListByCategory(ctx, category, perPage, (page-1)*perPage)
	if err != nil {
		return ListResult{}, fmt.Errorf("list category items: %w", err)
	}
	result := ListResult{Items: items, Pagination: common.NewPagination(page, perPage, total)}
	_ = s.cache.SetJSON(ctx, key, result)
	return result, nil
}

// Search returns a page of items whose name matches the search term.
func (s *Service) Search(ctx context.Context, term string, page, perPage int) (ListResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return ListResult{}, common.BadRequest("BAD_REQUEST", "search term is required", nil)
	}
	page, perPage = s.clampPage(page, perPage)

	total, err := s.store.CountSearch(ctx, term)
	if err != nil {
		return ListResult{}, fmt.Errorf("count search results: %w", err)
	}
	items, err := s.store.Search(ctx, term, perPage, (page-1)*perPage)
	if err != nil {
		return ListResult{}, fmt.Errorf("search items: %w", err)
	}
	return ListResult{Items: items, Pagination: common.NewPagination(page, perPage, total)}, nil
}

// Get returns a single price-list item by id.
func (s *Service) Get(ctx context.Context, id string) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, common.BadRequest("BAD_REQUEST", "item id is required", nil)
	}
	item, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Item{}, common.NotFound("price list item not found")
		}
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// SpecialModifiers returns the coefficient and surcharge entries grouped by
// modifier category. The payload is cached as a whole since it backs every
// order form load.
func (s *Service) SpecialModifiers(ctx context.Context) (Modifiers, error) {
	key := "pricelist:modifiers"
	var cached Modifiers
	if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
		obs.ObservePriceListCache("hit")
		return cached, nil
	}
	obs.ObservePriceListCache("miss")

	items, err := s.store.ListByCategories(ctx, SpecialCategories)
	if err != nil {
		return Modifiers{}, fmt.Errorf("list modifier items: %w", err)
	}
	mods := Modifiers{
		Coefficients:  []Item{},
		TextileExtras: []Item{},
		LeatherExtras: []Item{},
	}
	for _, item := range items {
		switch item.Category {
		case CategoryCoefficients:
			mods.Coefficients = append(mods.Coefficients, item)
		case CategoryTextileExtras:
			mods.TextileExtras = append(mods.TextileExtras, item)
		case CategoryLeatherExtras:
			mods.LeatherExtras = append(mods.LeatherExtras, item)
		}
	}
	_ = s.cache.SetJSON(ctx, key, mods)
	return mods, nil
}

// Create validates and inserts a new price-list item.
func (s *Service) Create(ctx context.Context, input ItemInput) (Item, error) {
	if err := s.validateInput(input); err != nil {
		return Item{}, err
	}
	item, err := s.store.Insert(ctx, input)
	if err != nil {
		return Item{}, fmt.Errorf("insert item: %w", err)
	}
	s.invalidate(ctx)
	return item, nil
}

// Update validates and replaces an existing price-list item.
func (s *Service) Update(ctx context.Context, id string, input ItemInput) (Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Item{}, common.BadRequest("BAD_REQUEST", "item id is required", nil)
	}
	if err := s.validateInput(input); err != nil {
		return Item{}, err
	}
	item, err := s.store.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Item{}, common.NotFound("price list item not found")
		}
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	s.invalidate(ctx)
	return item, nil
}

// Delete removes a price-list item.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return common.BadRequest("BAD_REQUEST", "item id is required", nil)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFound("price list item not found")
		}
		return fmt.Errorf("delete item: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *Service) validateInput(input ItemInput) error {
	input.Category = strings.TrimSpace(input.Category)
	input.Name = strings.TrimSpace(input.Name)
	if err := s.validate.Struct(input); err != nil {
		return common.BadRequest("VALIDATION", "invalid price list item payload", err)
	}
	return nil
}

func (s *Service) clampPage(page, perPage int) (int, int) {
	if page < 1 {
		page = s.defaultPage
	}
	if perPage < 1 {
		perPage = s.defaultLimit
	}
	if perPage > s.maxLimit {
		perPage = s.maxLimit
	}
	return page, perPage
}

func (s *Service) invalidate(ctx context.Context) {
	_ = s.cache.InvalidatePrefix(ctx, "pricelist:")
}
