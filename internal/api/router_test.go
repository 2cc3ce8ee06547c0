package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dferrans/itemstash-be/internal/auth"
	"github.com/dferrans/itemstash-be/internal/models"
	"github.com/dferrans/itemstash-be/internal/services"
	"github.com/dferrans/itemstash-be/internal/websocket"
)

type fakeItemService struct{}

func (fakeItemService) ListItems(ownerID string, q services.ItemQuery) (models.ItemPage, error) {
	return models.ItemPage{Items: []models.Item{}}, nil
}
func (fakeItemService) ListAllItems() ([]models.Item, error) { return []models.Item{}, nil }
func (fakeItemService) CreateItem(ownerID, title, description string) (models.Item, error) {
	return models.Item{ID: "i1", UserID: ownerID, Title: title, Description: description}, nil
}
func (fakeItemService) GetItem(id, ownerID string) (models.Item, error) {
	return models.Item{}, models.ErrNotFound
}
func (fakeItemService) UpdateItem(id, ownerID string, upd services.ItemUpdate) (models.Item, error) {
	return models.Item{}, models.ErrNotFound
}
func (fakeItemService) DeleteItem(id, ownerID string) error { return nil }

type fakeUserService struct{}

func (fakeUserService) GetUserByID(id string) (models.User, error) {
	return models.User{ID: id}, nil
}
func (fakeUserService) CreateUser(username, email, password string) (models.User, error) {
	return models.User{ID: "u1", Username: username, Email: email, Role: models.RoleUser}, nil
}
func (fakeUserService) AuthenticateUser(email, password string) (models.User, error) {
	return models.User{ID: "u1", Email: email, Role: models.RoleUser}, nil
}
func (fakeUserService) ListUsers(role string) ([]models.User, error) { return []models.User{}, nil }
func (fakeUserService) UpdateUserRole(id string, role models.Role, actorID string) (models.User, error) {
	return models.User{ID: id, Role: role}, nil
}

type fakeEventService struct{}

func (fakeEventService) CreateEvent(eventType, level, message string, actorID *string) error {
	return nil
}
func (fakeEventService) GetRecentEvents(limit int) ([]models.Event, error) {
	return []models.Event{}, nil
}
func (fakeEventService) PruneEventsBefore(cutoff time.Time) (int64, error) { return 0, nil }

func newTestRouter() http.Handler {
	return NewRouter(websocket.NewHub(), fakeItemService{}, fakeUserService{}, fakeEventService{})
}

func tokenFor(t *testing.T, role models.Role) string {
	t.Helper()
	token, err := auth.GenerateJWT(models.User{ID: "u1", Username: "ana", Role: role})
	require.NoError(t, err)
	return token
}

func TestRouterRequiresAuth(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouterForbidsNonAdminBulkListing(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/items/all", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleUser))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.JSONEq(t, `{"message":"Forbidden"}`, rec.Body.String())
}

func TestRouterAllowsAdminBulkListing(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/items/all", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleAdmin))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAdminOnlyUserEndpoints(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleUser))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleAdmin))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterAuthenticatedItemListing(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/items", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, models.RoleUser))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"items":[]`)
}
