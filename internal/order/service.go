package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-aksi/internal/catalog"
	"github.com/noah-isme/backend-aksi/internal/client"
	"github.com/noah-isme/backend-aksi/internal/common"
	"github.com/noah-isme/backend-aksi/internal/obs"
	"github.com/noah-isme/backend-aksi/internal/pricing"
)

// CatalogStore is the price-list lookup the order service needs.
type CatalogStore interface {
	Get(ctx context.Context, id string) (catalog.Item, error)
}

// ClientStore is the client lookup the order service needs.
type ClientStore interface {
	Get(ctx context.Context, id string) (client.Client, error)
}

// Notifier enqueues a client notification about an order status change.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, orderID, orderNumber, clientID string, status string) error
}

// Service prices and persists orders. All line prices and totals are
// recomputed here from the price list; submitted amounts are ignored.
type Service struct {
	store        Store
	catalog      CatalogStore
	clients      ClientStore
	notifier     Notifier
	validate     *validator.Validate
	logger       zerolog.Logger
	strictPrices bool
	defaultLimit int
	maxLimit     int
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Store           Store
	Catalog         CatalogStore
	Clients         ClientStore
	Notifier        Notifier
	Logger          zerolog.Logger
	StrictBasePrice bool
	DefaultLimit    int
	MaxLimit        int
}

// ListResult contains one page of orders and pagination metadata.
type ListResult struct {
	Items      []Order
	Pagination common.Pagination
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("order: store is required")
	}
	if cfg.Catalog == nil {
		return nil, errors.New("order: catalog store is required")
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
		catalog:      cfg.Catalog,
		clients:      cfg.Clients,
		notifier:     cfg.Notifier,
		validate:     validator.New(),
		logger:       cfg.Logger,
		strictPrices: cfg.StrictBasePrice,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}, nil
}

// Create prices the submitted lines against the price list, aggregates
// totals net of the discount, and persists the order. When the payload
// omits a discount the client's stored discount applies.
func (s *Service) Create(ctx context.Context, input CreateInput) (Order, error) {
	if err := s.validate.Struct(input); err != nil {
		obs.ObserveOrderCreated("invalid")
		return Order{}, common.BadRequest("VALIDATION", "invalid order payload", err)
	}

	clientID := strings.TrimSpace(input.ClientID)
	var cl *client.Client
	if clientID != "" && s.clients != nil {
		c, err := s.clients.Get(ctx, clientID)
		if err != nil {
			if errors.Is(err, client.ErrNotFound) {
				obs.ObserveOrderCreated("invalid")
				return Order{}, common.BadRequest("UNKNOWN_CLIENT", "client does not exist", err)
			}
			obs.ObserveOrderCreated("error")
			return Order{}, fmt.Errorf("get client: %w", err)
		}
		cl = &c
	}

	discount := 0.0
	if input.Discount != nil {
		discount = *input.Discount
	} else if cl != nil {
		discount = cl.Discount
	}

	lines := make([]Line, 0, len(input.Lines))
	priced := make([]pricing.PricedLine, 0, len(input.Lines))
	for i, li := range input.Lines {
		line, pl, err := s.priceLine(ctx, li)
		if err != nil {
			obs.ObserveLinePriced("error")
			obs.ObserveOrderCreated("invalid")
			return Order{}, lineError(i, err)
		}
		obs.ObserveLinePriced("ok")
		lines = append(lines, line)
		priced = append(priced, pl)
	}

	totals, err := pricing.ComputeOrderTotals(priced, discount)
	if err != nil {
		obs.ObserveOrderCreated("invalid")
		return Order{}, common.BadRequest("PRICING", err.Error(), err)
	}

	var clientRef *string
	if clientID != "" {
		clientRef = &clientID
	}
	rec, err := s.store.Insert(ctx, InsertParams{
		ClientID: clientRef,
		Status:   StatusNew,
		Lines:    lines,
		Subtotal: totals.Subtotal,
		Discount: discount,
		Payable:  totals.PayableAmount,
		Paid:     input.Paid,
		Urgent:   input.Urgent,
		Comment:  strings.TrimSpace(input.Comment),
		DueDate:  input.DueDate,
	})
	if err != nil {
		obs.ObserveOrderCreated("error")
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	obs.ObserveOrderCreated("ok")
	return s.toOrder(rec, cl), nil
}

// List returns a page of orders, newest first.
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
		return ListResult{}, fmt.Errorf("count orders: %w", err)
	}
	records, err := s.store.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return ListResult{}, fmt.Errorf("list orders: %w", err)
	}
	items := make([]Order, 0, len(records))
	for _, rec := range records {
		items = append(items, s.toOrder(rec, nil))
	}
	return ListResult{Items: items, Pagination: common.NewPagination(page, perPage, total)}, nil
}

// Get returns a single order with its client attached when one is linked.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	rec, err := s.getRecord(ctx, id)
	if err != nil {
		return Order{}, err
	}
	return s.toOrder(rec, s.loadClient(ctx, rec.ClientID)), nil
}

// ChangeStatus sets the order status. Legacy status values are normalised
// before the membership check; transitions to ready or delivered enqueue a
// client notification.
func (s *Service) ChangeStatus(ctx context.Context, id, raw string) (Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Order{}, common.BadRequest("BAD_REQUEST", "order id is required", nil)
	}
	status, ok := NormalizeStatus(strings.TrimSpace(raw))
	if !ok {
		return Order{}, &common.AppError{
			Code:       "INVALID_STATUS",
			Message:    "unknown order status",
			HTTPStatus: http.StatusBadRequest,
			Details:    map[string]any{"allowed": Statuses},
		}
	}
	rec, err := s.store.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Order{}, common.NotFound("order not found")
		}
		return Order{}, fmt.Errorf("update order status: %w", err)
	}
	obs.ObserveStatusChange(string(status))

	if s.notifier != nil && (status == StatusReady || status == StatusDelivered) {
		clientID := ""
		if rec.ClientID != nil {
			clientID = *rec.ClientID
		}
		if err := s.notifier.OrderStatusChanged(ctx, rec.ID, rec.Number, clientID, string(status)); err != nil {
			s.logger.Error().Err(err).Str("order_id", rec.ID).Msg("enqueue status notification")
		}
	}
	return s.toOrder(rec, s.loadClient(ctx, rec.ClientID)), nil
}

// Update changes the order's mutable metadata.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Order{}, common.BadRequest("BAD_REQUEST", "order id is required", nil)
	}
	if err := s.validate.Struct(input); err != nil {
		return Order{}, common.BadRequest("VALIDATION", "invalid order update payload", err)
	}
	rec, err := s.store.UpdateMeta(ctx, id, MetaParams{
		Paid:    input.Paid,
		Urgent:  input.Urgent,
		Comment: input.Comment,
		DueDate: input.DueDate,
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Order{}, common.NotFound("order not found")
		}
		return Order{}, fmt.Errorf("update order: %w", err)
	}
	return s.toOrder(rec, s.loadClient(ctx, rec.ClientID)), nil
}

// Delete removes an order.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return common.BadRequest("BAD_REQUEST", "order id is required", nil)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return common.NotFound("order not found")
		}
		return fmt.Errorf("delete order: %w", err)
	}
	return nil
}

func (s *Service) getRecord(ctx context.Context, id string) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, common.BadRequest("BAD_REQUEST", "order id is required", nil)
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, common.NotFound("order not found")
		}
		return Record{}, fmt.Errorf("get order: %w", err)
	}
	return rec, nil
}

// priceLine resolves the catalog entry for one submitted line and runs the
// price calculator on it. Free-form lines without an item reference use the
// submitted base price as their standard price.
func (s *Service) priceLine(ctx context.Context, input LineInput) (Line, pricing.PricedLine, error) {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	unit := strings.TrimSpace(input.Unit)

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}

	var entry *pricing.CatalogEntry
	if itemID := strings.TrimSpace(input.PriceListItemID); itemID != "" {
		item, err := s.catalog.Get(ctx, itemID)
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				return Line{}, pricing.PricedLine{}, common.BadRequest("UNKNOWN_ITEM", "price list item does not exist", err)
			}
			return Line{}, pricing.PricedLine{}, fmt.Errorf("get price list item: %w", err)
		}
		entry = item.PricingEntry()
		if name == "" {
			name = item.Name
		}
		if category == "" {
			category = item.Category
		}
		if unit == "" {
			unit = item.Unit
		}
	} else {
		if name == "" {
			return Line{}, pricing.PricedLine{}, common.BadRequest("VALIDATION", "free-form line requires a name", nil)
		}
		entry = &pricing.CatalogEntry{StandardPrice: input.BasePrice}
	}

	color, ok := normalizeColor(input.Color)
	if !ok {
		return Line{}, pricing.PricedLine{}, common.BadRequest("INVALID_COLOR", "unknown line color", nil)
	}

	pl, err := pricing.ComputeLinePriceOpts(entry, quantity, color, input.Coefficients, input.Services, pricing.Options{
		StrictBasePrice: s.strictPrices,
	})
	if err != nil {
		return Line{}, pricing.PricedLine{}, common.BadRequest("PRICING", err.Error(), err)
	}

	return Line{
		PriceListItemID: strings.TrimSpace(input.PriceListItemID),
		Name:            name,
		Category:        category,
		Unit:            unit,
		Quantity:        quantity,
		Color:           string(color),
		BasePrice:       pl.BasePrice,
		Coefficients:    pl.AppliedCoefficients,
		Services:        pl.AppliedServices,
		Comment:         strings.TrimSpace(input.Comment),
		FinalPrice:      pl.FinalPrice,
	}, pl, nil
}

func (s *Service) loadClient(ctx context.Context, id *string) *client.Client {
	if id == nil || *id == "" || s.clients == nil {
		return nil
	}
	c, err := s.clients.Get(ctx, *id)
	if err != nil {
		return nil
	}
	return &c
}

func (s *Service) toOrder(rec Record, cl *client.Client) Order {
	return Order{
		ID:        rec.ID,
		Number:    rec.Number,
		ClientID:  rec.ClientID,
		Client:    cl,
		Status:    rec.Status,
		Lines:     rec.Lines,
		Subtotal:  rec.Subtotal,
		Discount:  rec.Discount,
		Payable:   rec.Payable,
		Paid:      rec.Paid,
		Urgent:    rec.Urgent,
		Comment:   rec.Comment,
		DueDate:   rec.DueDate,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}

// normalizeColor maps submitted color values to the calculator's variants.
// An empty color means a non-black article; legacy Ukrainian values are
// accepted for compatibility with stored order forms.
func normalizeColor(raw string) (pricing.Color, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "black", "чорний":
		return pricing.ColorBlack, true
	case "", "other", "кольоровий":
		return pricing.ColorOther, true
	}
	return "", false
}

func lineError(index int, err error) error {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		details := map[string]any{"line": index}
		if m, ok := appErr.Details.(map[string]any); ok {
			for k, v := range m {
				details[k] = v
			}
		}
		return &common.AppError{
			Code:       appErr.Code,
			Message:    appErr.Message,
			HTTPStatus: appErr.HTTPStatus,
			Err:        appErr.Err,
			Details:    details,
		}
	}
	return err
}
