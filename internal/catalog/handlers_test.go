package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-aksi/internal/catalog"
	"github.com/noah-isme/backend-aksi/internal/common"
)

type itemsResponse struct {
	Data       []catalog.Item    `json:"data"`
	Pagination common.Pagination `json:"pagination"`
}

type itemResponse struct {
	Data catalog.Item `json:"data"`
}

type modifiersResponse struct {
	Data catalog.Modifiers `json:"data"`
}

type stubStore struct {
	items      []catalog.Item
	categories []string
	inserted   *catalog.ItemInput
	deleted    string
}

func (s *stubStore) ListCategories(ctx context.Context) ([]string, error) {
	return s.categories, nil
}

func (s *stubStore) ListByCategory(ctx context.Context, category string, limit, offset int) ([]catalog.Item, error) {
	var out []catalog.Item
	for _, it := range s.items {
		if it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubStore) CountByCategory(ctx context.Context, category string) (int64, error) {
	items, _ := s.ListByCategory(ctx, category, 0, 0)
	return int64(len(items)), nil
}

func (s *stubStore) Search(ctx context.Context, term string, limit, offset int) ([]catalog.Item, error) {
	var out []catalog.Item
	for _, it := range s.items {
		if strings.Contains(strings.ToLower(it.Name), strings.ToLower(term)) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubStore) CountSearch(ctx context.Context, term string) (int64, error) {
	items, _ := s.Search(ctx, term, 0, 0)
	return int64(len(items)), nil
}

func (s *stubStore) ListByCategories(ctx context.Context, categories []string) ([]catalog.Item, error) {
	var out []catalog.Item
	for _, it := range s.items {
		for _, c := range categories {
			if it.Category == c {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

func (s *stubStore) Get(ctx context.Context, id string) (catalog.Item, error) {
	for _, it := range s.items {
		if it.ID == id {
			return it, nil
		}
	}
	return catalog.Item{}, catalog.ErrNotFound
}

func (s *stubStore) Insert(ctx context.Context, input catalog.ItemInput) (catalog.Item, error) {
	s.inserted = &input
	return catalog.Item{ID: "new-id", Category: input.Category, Name: input.Name, StandardPrice: input.StandardPrice}, nil
}

func (s *stubStore) Update(ctx context.Context, id string, input catalog.ItemInput) (catalog.Item, error) {
	for _, it := range s.items {
		if it.ID == id {
			return catalog.Item{ID: id, Category: input.Category, Name: input.Name, StandardPrice: input.StandardPrice}, nil
		}
	}
	return catalog.Item{}, catalog.ErrNotFound
}

func (s *stubStore) Delete(ctx context.Context, id string) error {
	for _, it := range s.items {
		if it.ID == id {
			s.deleted = id
			return nil
		}
	}
	return catalog.ErrNotFound
}

func fptr(v float64) *float64 { return &v }

func newTestHandler(t *testing.T, store catalog.Store) *catalog.Handler {
	t.Helper()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Store:        store,
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	})
	require.NoError(t, err)
	return catalog.NewHandler(catalog.HandlerConfig{Service: svc})
}

func newTestRouter(h *catalog.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/pricelist", func(r chi.Router) {
		r.Get("/categories", h.Categories)
		r.Get("/category/{name}", h.ByCategory)
		r.Get("/search", h.Search)
		r.Get("/special/coefficients", h.SpecialCoefficients)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func TestPriceListHandlers(t *testing.T) {
	store := &stubStore{
		categories: []string{"cleaning", "coefficients"},
		items: []catalog.Item{
			{ID: "i1", Category: "cleaning", Name: "Coat cleaning", StandardPrice: fptr(300)},
			{ID: "i2", Category: "cleaning", Name: "Jacket cleaning", StandardPrice: fptr(250)},
			{ID: "c1", Category: "coefficients", Name: "Urgency", Coefficient: fptr(1.5)},
			{ID: "t1", Category: "textile_extras", Name: "Stain removal", StandardPrice: fptr(20)},
		},
	}
	router := newTestRouter(newTestHandler(t, store))

	t.Run("categories", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pricelist/categories", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Data []string `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, []string{"cleaning", "coefficients"}, resp.Data)
	})

	t.Run("by category", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pricelist/category/cleaning", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp itemsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 2)
		require.Equal(t, 2, resp.Pagination.TotalItems)
		require.Equal(t, 1, resp.Pagination.Page)
	})

	t.Run("search", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pricelist/search?term=coat", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp itemsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		require.Equal(t, "Coat cleaning", resp.Data[0].Name)
	})

	t.Run("search requires term", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pricelist/search", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("special coefficients", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pricelist/special/coefficients", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp modifiersResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Coefficients, 1)
		require.Equal(t, "Urgency", resp.Data.Coefficients[0].Name)
		require.Len(t, resp.Data.TextileExtras, 1)
		require.Empty(t, resp.Data.LeatherExtras)
	})

	t.Run("get by id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pricelist/i1", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp itemResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "Coat cleaning", resp.Data.Name)
	})

	t.Run("get missing returns 404 envelope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/pricelist/nope", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
		var resp struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "NOT_FOUND", resp.Error.Code)
	})

	t.Run("create", func(t *testing.T) {
		body := strings.NewReader(`{"category":"cleaning","name":"Dress cleaning","standard_price":280}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/pricelist/", body))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, store.inserted)
		require.Equal(t, "Dress cleaning", store.inserted.Name)
	})

	t.Run("create rejects negative price", func(t *testing.T) {
		body := strings.NewReader(`{"category":"cleaning","name":"Bad","standard_price":-5}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/pricelist/", body))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("create rejects missing name", func(t *testing.T) {
		body := strings.NewReader(`{"category":"cleaning"}`)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/pricelist/", body))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update missing returns 404", func(t *testing.T) {
		body := strings.NewReader(`{"category":"cleaning","name":"X"}`)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/v1/pricelist/nope", body)
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("delete", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/pricelist/i2", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "i2", store.deleted)
	})
}
