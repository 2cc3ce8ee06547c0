package models

import "time"

// Event represents a loggable action in the system's activity feed.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`  // e.g., "item.create", "user.role_change"
	Level     string    `json:"level"` // e.g., "info", "warn"
	Message   string    `json:"message"`
	ActorID   *string   `json:"actorId,omitempty"` // Nullable for system events
	CreatedAt time.Time `json:"createdAt"`
}
