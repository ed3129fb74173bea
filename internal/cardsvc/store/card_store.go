package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sgksm85/beauty-clinic-message-card/internal/cardsvc/models"
)

// ErrDuplicateID is returned when an insert collides with an existing card id.
// Ids are random UUIDs, so hitting this indicates an id-generation defect and
// it is surfaced rather than retried.
var ErrDuplicateID = errors.New("card id already exists")

type CardStore struct {
	db *pgxpool.Pool
}

func NewCardStore(db *pgxpool.Pool) *CardStore {
	return &CardStore{db: db}
}

func (s *CardStore) Insert(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (id, template_id, message, sender_name, user_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		card.ID,
		card.TemplateID,
		card.Message,
		card.SenderName,
		card.UserID,
		card.IsActive,
		card.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("failed to insert card: %w", err)
	}

	return nil
}

// FindActiveByID returns (nil, nil) when the id is unknown or the card is
// inactive; the two cases are deliberately indistinguishable.
func (s *CardStore) FindActiveByID(ctx context.Context, id string) (*models.Card, error) {
	query := `
		SELECT id, template_id, message, sender_name, user_id, is_active, created_at
		FROM cards
		WHERE id = $1 AND is_active
		LIMIT 1
	`

	var card models.Card
	err := s.db.QueryRow(ctx, query, id).Scan(
		&card.ID,
		&card.TemplateID,
		&card.Message,
		&card.SenderName,
		&card.UserID,
		&card.IsActive,
		&card.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get card by id: %w", err)
	}

	return &card, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
