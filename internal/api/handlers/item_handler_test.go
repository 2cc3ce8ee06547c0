package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/dferrans/itemstash-be/internal/auth"
	"github.com/dferrans/itemstash-be/internal/models"
	"github.com/dferrans/itemstash-be/internal/services"
)

// stubItemService records the arguments handlers pass down and returns canned
// results.
type stubItemService struct {
	lastOwner  string
	lastQuery  services.ItemQuery
	lastUpdate services.ItemUpdate
	page       models.ItemPage
	item       models.Item
	err        error
}

func (s *stubItemService) ListItems(ownerID string, q services.ItemQuery) (models.ItemPage, error) {
	s.lastOwner, s.lastQuery = ownerID, q
	return s.page, s.err
}

func (s *stubItemService) ListAllItems() ([]models.Item, error) {
	return []models.Item{s.item}, s.err
}

func (s *stubItemService) CreateItem(ownerID, title, description string) (models.Item, error) {
	s.lastOwner = ownerID
	if s.err != nil {
		return models.Item{}, s.err
	}
	return models.Item{UserID: ownerID, Title: title, Description: description}, nil
}

func (s *stubItemService) GetItem(id, ownerID string) (models.Item, error) {
	s.lastOwner = ownerID
	return s.item, s.err
}

func (s *stubItemService) UpdateItem(id, ownerID string, upd services.ItemUpdate) (models.Item, error) {
	s.lastOwner, s.lastUpdate = ownerID, upd
	return s.item, s.err
}

func (s *stubItemService) DeleteItem(id, ownerID string) error {
	s.lastOwner = ownerID
	return s.err
}

// newItemRouter mounts the handler behind a middleware that injects the given
// claims, standing in for the JWT middleware.
func newItemRouter(h *ItemHandler, claims *auth.Claims) *chi.Mux {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), auth.UserClaimsKey, claims)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/items", h.List)
	r.Post("/items", h.Create)
	r.Get("/items/{id}", h.Get)
	r.Put("/items/{id}", h.Update)
	r.Delete("/items/{id}", h.Delete)
	return r
}

var testClaims = &auth.Claims{UserID: "user-1", Username: "ana", Role: models.RoleUser}

func TestListParsesAndDefaultsQueryParams(t *testing.T) {
	stub := &stubItemService{page: models.ItemPage{Items: []models.Item{}}}
	router := newItemRouter(NewItemHandler(stub), testClaims)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?page=3&limit=10&search=foo", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-1", stub.lastOwner)
	require.Equal(t, services.ItemQuery{Page: 3, Limit: 10, Search: "foo"}, stub.lastQuery)

	// Missing and non-numeric values fall back to the defaults.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?page=abc&limit=", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, services.ItemQuery{Page: 1, Limit: 5, Search: ""}, stub.lastQuery)

	// Zero and negative values fall back too.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?page=-2&limit=0", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, services.ItemQuery{Page: 1, Limit: 5, Search: ""}, stub.lastQuery)
}

func TestListReturnsEnvelope(t *testing.T) {
	stub := &stubItemService{page: models.ItemPage{
		Items: []models.Item{{ID: "i1", UserID: "user-1", Title: "Alpha"}},
		Total: 1, Page: 1, Pages: 1,
	}}
	router := newItemRouter(NewItemHandler(stub), testClaims)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items?search=al&limit=1&page=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"total":1`)
	require.Contains(t, rec.Body.String(), `"page":1`)
	require.Contains(t, rec.Body.String(), `"pages":1`)
	require.Contains(t, rec.Body.String(), `"Alpha"`)
}

func TestCreateItem(t *testing.T) {
	stub := &stubItemService{}
	router := newItemRouter(NewItemHandler(stub), testClaims)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"title":"Alpha","description":"first"}`))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "user-1", stub.lastOwner)
	require.Contains(t, rec.Body.String(), `"Alpha"`)
}

func TestCreateItemRejectsMissingTitle(t *testing.T) {
	stub := &stubItemService{err: models.ErrTitleRequired}
	router := newItemRouter(NewItemHandler(stub), testClaims)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(`{"description":"no title"}`))
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"message":"Title is required"}`, rec.Body.String())
}

func TestGetItemNotFound(t *testing.T) {
	stub := &stubItemService{err: models.ErrNotFound}
	router := newItemRouter(NewItemHandler(stub), testClaims)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/missing", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"message":"Not found"}`, rec.Body.String())
}

func TestUpdateItemDecodesAllowList(t *testing.T) {
	stub := &stubItemService{item: models.Item{ID: "i1", Title: "Alpha v2"}}
	router := newItemRouter(NewItemHandler(stub), testClaims)

	// Fields outside the allow-list are dropped on decode.
	body := `{"title":"Alpha v2","userId":"someone-else","createdAt":"2020-01-01T00:00:00Z"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/items/i1", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, stub.lastUpdate.Title)
	require.Equal(t, "Alpha v2", *stub.lastUpdate.Title)
	require.Nil(t, stub.lastUpdate.Description)
}

func TestUpdateItemNotFound(t *testing.T) {
	stub := &stubItemService{err: models.ErrNotFound}
	router := newItemRouter(NewItemHandler(stub), testClaims)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/items/i1", strings.NewReader(`{"title":"x"}`)))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteItemAlwaysAcknowledges(t *testing.T) {
	stub := &stubItemService{}
	router := newItemRouter(NewItemHandler(stub), testClaims)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items/anything", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Deleted"}`, rec.Body.String())
	require.Equal(t, "user-1", stub.lastOwner)
}
