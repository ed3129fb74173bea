package models

import "time"

// Card is a persisted greeting record. Once written it is immutable within
// this service; visibility is controlled by is_active only.
type Card struct {
	ID         string    `json:"id"`          // UUID, public share-URL key
	TemplateID string    `json:"template_id"` // opaque reference into the template catalog
	Message    string    `json:"message"`
	SenderName *string   `json:"sender_name"` // nil when the sender stayed anonymous
	UserID     *int64    `json:"user_id"`     // creator identity when a session token was present
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
