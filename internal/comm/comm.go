package comm

import (
	"encoding/json"
	"time"
)

// Response is the JSON envelope every card API endpoint answers with.
type Response struct {
	Message string          `json:"message"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type CreateCardRequest struct {
	TemplateID string  `json:"template_id"`
	Message    string  `json:"message"`
	SenderName *string `json:"sender_name,omitempty"`
}

type CreateCardResponse struct {
	ID string `json:"id"`
}

// CardData is the retrieval payload for a single card.
type CardData struct {
	ID         string    `json:"id"`
	TemplateID string    `json:"template_id"`
	Message    string    `json:"message"`
	SenderName *string   `json:"sender_name"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
