package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dferrans/itemstash-be/internal/models"
	ws "github.com/dferrans/itemstash-be/internal/websocket"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	defaultPageSize = 5
	maxPageSize     = 100
	maxPage         = 10_000_000
	adminListLimit  = 100
)

// ItemQuery carries the listing parameters after HTTP parsing.
type ItemQuery struct {
	Page   int
	Limit  int
	Search string
}

// normalize clamps the paging values into a safe range. Zero or negative
// values from the parser become the defaults, so the pages division below can
// never see a zero limit. Page is capped so the offset multiplication cannot
// overflow; any page that high is far past the data and stays empty.
func (q ItemQuery) normalize() ItemQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > maxPage {
		q.Page = maxPage
	}
	if q.Limit < 1 {
		q.Limit = defaultPageSize
	}
	if q.Limit > maxPageSize {
		q.Limit = maxPageSize
	}
	return q
}

// ItemUpdate is the allow-listed set of mutable item fields. Nil means the
// field is left unchanged; anything else the caller sent is ignored.
type ItemUpdate struct {
	Title       *string
	Description *string
}

// ItemServiceProvider defines the interface for item services.
type ItemServiceProvider interface {
	ListItems(ownerID string, q ItemQuery) (models.ItemPage, error)
	ListAllItems() ([]models.Item, error)
	CreateItem(ownerID, title, description string) (models.Item, error)
	GetItem(id, ownerID string) (models.Item, error)
	UpdateItem(id, ownerID string, upd ItemUpdate) (models.Item, error)
	DeleteItem(id, ownerID string) error
}

// ItemService provides business logic for item management.
type ItemService struct {
	db     *sql.DB
	events EventServiceProvider
	hub    *ws.Hub
}

// NewItemService creates a new ItemService.
func NewItemService(db *sql.DB, events EventServiceProvider, hub *ws.Hub) *ItemService {
	return &ItemService{db: db, events: events, hub: hub}
}

// ListItems returns one page of the owner's items, newest first, with the
// pagination envelope. The search term matches titles as a case-insensitive
// substring; empty search matches everything.
func (s *ItemService) ListItems(ownerID string, q ItemQuery) (models.ItemPage, error) {
	q = q.normalize()
	pattern := "%" + escapeLike(q.Search) + "%"

	var total int
	row := s.db.QueryRow(`SELECT COUNT(*) FROM items WHERE user_id = ? AND title LIKE ? ESCAPE '\'`, ownerID, pattern)
	if err := row.Scan(&total); err != nil {
		return models.ItemPage{}, err
	}

	offset := (q.Page - 1) * q.Limit
	rows, err := s.db.Query(
		`SELECT id, user_id, title, description, created_at FROM items
		 WHERE user_id = ? AND title LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		ownerID, pattern, q.Limit, offset,
	)
	if err != nil {
		return models.ItemPage{}, err
	}
	defer rows.Close()

	items := make([]models.Item, 0, q.Limit)
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Description, &item.CreatedAt); err != nil {
			return models.ItemPage{}, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return models.ItemPage{}, err
	}

	pages := 0
	if total > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}

	return models.ItemPage{Items: items, Total: total, Page: q.Page, Pages: pages}, nil
}

// ListAllItems returns the newest items across all owners, capped at 100.
func (s *ItemService) ListAllItems() ([]models.Item, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, title, description, created_at FROM items
		 ORDER BY created_at DESC LIMIT ?`, adminListLimit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.Item, 0, adminListLimit)
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Description, &item.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateItem creates a new item owned by ownerID.
func (s *ItemService) CreateItem(ownerID, title, description string) (models.Item, error) {
	if strings.TrimSpace(title) == "" {
		return models.Item{}, models.ErrTitleRequired
	}

	item := models.Item{
		ID:          uuid.New().String(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	stmt, err := s.db.Prepare("INSERT INTO items(id, user_id, title, description, created_at) VALUES(?, ?, ?, ?, ?)")
	if err != nil {
		return models.Item{}, err
	}
	defer stmt.Close()

	if _, err = stmt.Exec(item.ID, item.UserID, item.Title, item.Description, item.CreatedAt); err != nil {
		return models.Item{}, err
	}

	s.recordEvent("item.create", ownerID, fmt.Sprintf("Item %q created", item.Title))
	return item, nil
}

// GetItem retrieves a single item scoped to its owner. A record owned by
// someone else is reported as not found, never as someone else's data.
func (s *ItemService) GetItem(id, ownerID string) (models.Item, error) {
	var item models.Item
	row := s.db.QueryRow("SELECT id, user_id, title, description, created_at FROM items WHERE id = ? AND user_id = ?", id, ownerID)
	err := row.Scan(&item.ID, &item.UserID, &item.Title, &item.Description, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Item{}, models.ErrNotFound
		}
		return models.Item{}, err
	}
	return item, nil
}

// UpdateItem applies the allow-listed fields to an owner-scoped item and
// returns the updated record.
func (s *ItemService) UpdateItem(id, ownerID string, upd ItemUpdate) (models.Item, error) {
	item, err := s.GetItem(id, ownerID)
	if err != nil {
		return models.Item{}, err
	}

	if upd.Title != nil {
		if strings.TrimSpace(*upd.Title) == "" {
			return models.Item{}, models.ErrTitleRequired
		}
		item.Title = *upd.Title
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}

	_, err = s.db.Exec("UPDATE items SET title = ?, description = ? WHERE id = ? AND user_id = ?",
		item.Title, item.Description, id, ownerID)
	if err != nil {
		return models.Item{}, err
	}

	s.recordEvent("item.update", ownerID, fmt.Sprintf("Item %q updated", item.Title))
	return item, nil
}

// DeleteItem removes an owner-scoped item. Deleting a record that does not
// exist (or belongs to someone else) is not an error; callers cannot tell the
// two outcomes apart.
func (s *ItemService) DeleteItem(id, ownerID string) error {
	res, err := s.db.Exec("DELETE FROM items WHERE id = ? AND user_id = ?", id, ownerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		s.recordEvent("item.delete", ownerID, "Item deleted")
	}
	return nil
}

// recordEvent logs to the activity feed and broadcasts to connected clients.
// Feed failures never fail the mutation they describe.
func (s *ItemService) recordEvent(eventType, actorID, message string) {
	if s.events != nil {
		if err := s.events.CreateEvent(eventType, "info", message, &actorID); err != nil {
			log.Warn().Err(err).Str("type", eventType).Msg("Failed to record activity event")
		}
	}
	if s.hub != nil {
		if msg := ws.NewEventMessage(eventType, map[string]string{"message": message, "actorId": actorID}); msg != nil {
			s.hub.Broadcast <- msg
		}
	}
}

// escapeLike escapes the LIKE wildcards in a user-supplied search term so it
// is always treated as a literal substring.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
