package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sgksm85/beauty-clinic-message-card/internal/cardsvc/models"
)

const (
	MaxMessageLength    = 200 // characters, not bytes
	MaxSenderNameLength = 100
)

// CardStore is the persistence surface the service writes to and reads from.
type CardStore interface {
	Insert(ctx context.Context, card *models.Card) error
	FindActiveByID(ctx context.Context, id string) (*models.Card, error)
}

type CardService struct {
	store CardStore
}

func NewCardService(store CardStore) *CardService {
	return &CardService{store: store}
}

type CreateInput struct {
	TemplateID string
	Message    string
	SenderName *string
	UserID     *int64
}

// Create validates the input, persists a new active card and returns its id.
// TemplateID is accepted as opaque text; existence in the template catalog is
// not checked here.
func (s *CardService) Create(ctx context.Context, input CreateInput) (string, error) {
	if strings.TrimSpace(input.TemplateID) == "" {
		return "", fmt.Errorf("%w: template id is required", ErrInvalidInput)
	}

	if utf8.RuneCountInString(input.Message) > MaxMessageLength {
		return "", fmt.Errorf("%w: message exceeds %d characters", ErrInvalidInput, MaxMessageLength)
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidInput)
	}

	var senderName *string
	if input.SenderName != nil {
		trimmed := strings.TrimSpace(*input.SenderName)
		if utf8.RuneCountInString(trimmed) > MaxSenderNameLength {
			return "", fmt.Errorf("%w: sender name exceeds %d characters", ErrInvalidInput, MaxSenderNameLength)
		}
		if trimmed != "" {
			senderName = &trimmed
		}
	}

	card := &models.Card{
		ID:         uuid.NewString(),
		TemplateID: input.TemplateID,
		Message:    message,
		SenderName: senderName,
		UserID:     input.UserID,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, card); err != nil {
		return "", err
	}

	return card.ID, nil
}

// GetByID is the only read path; inactive cards are as invisible as ones that
// never existed.
func (s *CardService) GetByID(ctx context.Context, id string) (*models.Card, error) {
	card, err := s.store.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, ErrNotFound
	}
	return card, nil
}
