package models

import "time"

// Event types published after a successful mutation.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// CatalogEvent describes a committed change to a catalog or staff record.
type CatalogEvent struct {
	Type   string    `json:"type"`
	Entity string    `json:"entity"` // "category", "product" or "user"
	ID     string    `json:"id"`
	Name   string    `json:"name,omitempty"`
	At     time.Time `json:"at"`
}

// RoutingKey returns the key the event is published under, e.g. "product.created".
func (e CatalogEvent) RoutingKey() string {
	return e.Entity + "." + e.Type
}
