package order_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-aksi/internal/catalog"
	"github.com/noah-isme/backend-aksi/internal/client"
	"github.com/noah-isme/backend-aksi/internal/order"
)

type stubStore struct {
	records map[string]order.Record
	nextID  int
	seq     int
}

func newStubStore() *stubStore {
	return &stubStore{records: map[string]order.Record{}}
}

func (s *stubStore) Insert(ctx context.Context, params order.InsertParams) (order.Record, error) {
	s.nextID++
	s.seq++
	rec := order.Record{
		ID:        "o" + strings.Repeat("0", 2) + string(rune('0'+s.nextID)),
		Number:    "ORD-00000" + string(rune('0'+s.seq)),
		ClientID:  params.ClientID,
		Status:    params.Status,
		Lines:     params.Lines,
		Subtotal:  params.Subtotal,
		Discount:  params.Discount,
		Payable:   params.Payable,
		Paid:      params.Paid,
		Urgent:    params.Urgent,
		Comment:   params.Comment,
		DueDate:   params.DueDate,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.records[rec.ID] = rec
	return rec, nil
}

func (s *stubStore) List(ctx context.Context, limit, offset int) ([]order.Record, error) {
	out := make([]order.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	return out, nil
}

func (s *stubStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.records)), nil
}

func (s *stubStore) Get(ctx context.Context, id string) (order.Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return order.Record{}, order.ErrNotFound
	}
	return rec, nil
}

func (s *stubStore) UpdateStatus(ctx context.Context, id string, status order.Status) (order.Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return order.Record{}, order.ErrNotFound
	}
	rec.Status = status
	s.records[id] = rec
	return rec, nil
}

func (s *stubStore) UpdateMeta(ctx context.Context, id string, params order.MetaParams) (order.Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return order.Record{}, order.ErrNotFound
	}
	if params.Paid != nil {
		rec.Paid = *params.Paid
	}
	if params.Urgent != nil {
		rec.Urgent = *params.Urgent
	}
	if params.Comment != nil {
		rec.Comment = *params.Comment
	}
	if params.DueDate != nil {
		rec.DueDate = params.DueDate
	}
	s.records[id] = rec
	return rec, nil
}

func (s *stubStore) Delete(ctx context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return order.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type stubCatalog struct {
	items map[string]catalog.Item
}

func (s *stubCatalog) Get(ctx context.Context, id string) (catalog.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return catalog.Item{}, catalog.ErrNotFound
	}
	return item, nil
}

type stubClients struct {
	clients map[string]client.Client
}

func (s *stubClients) Get(ctx context.Context, id string) (client.Client, error) {
	c, ok := s.clients[id]
	if !ok {
		return client.Client{}, client.ErrNotFound
	}
	return c, nil
}

type stubNotifier struct {
	calls []string
}

func (s *stubNotifier) OrderStatusChanged(ctx context.Context, orderID, orderNumber, clientID string, status string) error {
	s.calls = append(s.calls, orderID+":"+status)
	return nil
}

func fptr(v float64) *float64 { return &v }

func newTestEnv(t *testing.T) (*chi.Mux, *stubStore, *stubNotifier) {
	t.Helper()
	store := newStubStore()
	notifier := &stubNotifier{}
	cat := &stubCatalog{items: map[string]catalog.Item{
		"coat": {ID: "coat", Category: "cleaning", Name: "Coat cleaning", Unit: "pc", StandardPrice: fptr(100)},
		"bag":  {ID: "bag", Category: "leather", Name: "Bag dyeing", BlackColorPrice: fptr(500), OtherColorPrice: fptr(650)},
	}}
	clients := &stubClients{clients: map[string]client.Client{
		"c1": {ID: "c1", FirstName: "Olena", LastName: "Shevchenko", Phone: "+380501112233", Discount: 10},
	}}
	svc, err := order.NewService(order.ServiceConfig{
		Store:        store,
		Catalog:      cat,
		Clients:      clients,
		Notifier:     notifier,
		Logger:       zerolog.Nop(),
		DefaultLimit: 20,
		MaxLimit:     100,
	})
	require.NoError(t, err)
	h := order.NewHandler(order.HandlerConfig{Service: svc})
	r := chi.NewRouter()
	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Patch("/{id}/status", h.ChangeStatus)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r, store, notifier
}

type orderResponse struct {
	Data order.Order `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func createOrder(t *testing.T, router *chi.Mux, body string) orderResponse {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestCreateOrderRecomputesPrices(t *testing.T) {
	router, _, _ := newTestEnv(t)

	resp := createOrder(t, router, `{
		"client_id": "c1",
		"lines": [{
			"price_list_item_id": "coat",
			"quantity": 2,
			"coefficients": [{"name":"Urgency","factor":1.5}],
			"services": [{"name":"Stain removal","cost":20}]
		}]
	}`)

	require.Equal(t, order.StatusNew, resp.Data.Status)
	require.Len(t, resp.Data.Lines, 1)
	line := resp.Data.Lines[0]
	// (100 * 1.5 + 20) * 2
	require.Equal(t, 340.0, line.FinalPrice)
	require.Equal(t, 100.0, line.BasePrice)
	require.Equal(t, "Coat cleaning", line.Name)
	// client discount 10% applies by default
	require.Equal(t, 10.0, resp.Data.Discount)
	require.Equal(t, 340.0, resp.Data.Subtotal)
	require.Equal(t, 306.0, resp.Data.Payable)
	require.True(t, strings.HasPrefix(resp.Data.Number, "ORD-"))
}

func TestCreateOrderColorDependentPricing(t *testing.T) {
	router, _, _ := newTestEnv(t)

	resp := createOrder(t, router, `{
		"lines": [
			{"price_list_item_id": "bag", "color": "black"},
			{"price_list_item_id": "bag", "color": "чорний"},
			{"price_list_item_id": "bag"}
		]
	}`)

	require.Equal(t, 500.0, resp.Data.Lines[0].FinalPrice)
	require.Equal(t, 500.0, resp.Data.Lines[1].FinalPrice)
	require.Equal(t, 650.0, resp.Data.Lines[2].FinalPrice)
}

func TestCreateOrderExplicitDiscountWins(t *testing.T) {
	router, _, _ := newTestEnv(t)

	resp := createOrder(t, router, `{
		"client_id": "c1",
		"discount": 0,
		"lines": [{"price_list_item_id": "coat"}]
	}`)
	require.Equal(t, 0.0, resp.Data.Discount)
	require.Equal(t, resp.Data.Subtotal, resp.Data.Payable)
}

func TestCreateOrderFreeFormLine(t *testing.T) {
	router, _, _ := newTestEnv(t)

	resp := createOrder(t, router, `{
		"lines": [{"name": "Curtain wash", "base_price": 80, "quantity": 3}]
	}`)
	require.Equal(t, 240.0, resp.Data.Lines[0].FinalPrice)
}

func TestCreateOrderInvalidCoefficientNamesLine(t *testing.T) {
	router, _, _ := newTestEnv(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader(`{
		"lines": [
			{"price_list_item_id": "coat"},
			{"price_list_item_id": "coat", "coefficients": [{"name":"X","factor":-1}]}
		]
	}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "PRICING", resp.Error.Code)
	require.Contains(t, resp.Error.Message, "X")
	require.Equal(t, float64(1), resp.Error.Details["line"])
}

func TestCreateOrderUnknownItem(t *testing.T) {
	router, _, _ := newTestEnv(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader(`{
		"lines": [{"price_list_item_id": "nope"}]
	}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "UNKNOWN_ITEM", resp.Error.Code)
}

func TestCreateOrderRequiresLines(t *testing.T) {
	router, _, _ := newTestEnv(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/orders/", strings.NewReader(`{"lines": []}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChangeStatus(t *testing.T) {
	router, _, notifier := newTestEnv(t)
	created := createOrder(t, router, `{"lines": [{"price_list_item_id": "coat"}]}`)

	t.Run("canonical value", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+created.Data.ID+"/status",
			strings.NewReader(`{"status":"processing"}`)))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp orderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, order.StatusProcessing, resp.Data.Status)
		require.Empty(t, notifier.calls)
	})

	t.Run("legacy value normalised and notifies", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+created.Data.ID+"/status",
			strings.NewReader(`{"status":"готове"}`)))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp orderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, order.StatusReady, resp.Data.Status)
		require.Equal(t, []string{created.Data.ID + ":ready"}, notifier.calls)
	})

	t.Run("unknown value rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/v1/orders/"+created.Data.ID+"/status",
			strings.NewReader(`{"status":"shipped"}`)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "INVALID_STATUS", resp.Error.Code)
		require.NotEmpty(t, resp.Error.Details["allowed"])
	})
}

func TestUpdateOrderMeta(t *testing.T) {
	router, _, _ := newTestEnv(t)
	created := createOrder(t, router, `{"lines": [{"price_list_item_id": "coat"}]}`)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/orders/"+created.Data.ID,
		strings.NewReader(`{"paid": 50, "urgent": true, "comment": "pickup Friday"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 50.0, resp.Data.Paid)
	require.True(t, resp.Data.Urgent)
	require.Equal(t, "pickup Friday", resp.Data.Comment)
	// pricing fields untouched
	require.Equal(t, created.Data.Payable, resp.Data.Payable)
}

func TestGetAndDeleteOrder(t *testing.T) {
	router, _, _ := newTestEnv(t)
	created := createOrder(t, router, `{"client_id":"c1","lines": [{"price_list_item_id": "coat"}]}`)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+created.Data.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.Client)
	require.Equal(t, "Shevchenko", resp.Data.Client.LastName)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/orders/"+created.Data.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+created.Data.ID, nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
