package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"dinner-planner/internal/pkg/common"
)

const maxMessageLength = 2000

// ChatRepository is data access for the event chat board.
type ChatRepository interface {
	Post(ctx context.Context, guestID uuid.UUID, message string) (*ChatMessage, error)
	ListSince(ctx context.Context, afterID int64, limit int) ([]ChatMessageWithGuest, error)
	Delete(ctx context.Context, id int64) error
}

type chatRepository struct {
	db *DB
}

// NewChatRepository creates a chat repository over the pool.
func NewChatRepository(db *DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Post(ctx context.Context, guestID uuid.UUID, message string) (*ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, common.NewValidationError("message is required")
	}
	if len(message) > maxMessageLength {
		return nil, common.NewValidationError(fmt.Sprintf("message exceeds %d characters", maxMessageLength))
	}

	var m ChatMessage
	err := r.db.QueryRow(ctx,
		`INSERT INTO chat_messages (guest_id, message)
		 VALUES ($1, $2)
		 RETURNING id, guest_id, message, created_at`,
		guestID, message,
	).Scan(&m.ID, &m.GuestID, &m.Message, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}
	return &m, nil
}

// ListSince returns messages with an ID greater than afterID in posting
// order, which is what the polling client uses to fetch only new messages.
func (r *chatRepository) ListSince(ctx context.Context, afterID int64, limit int) ([]ChatMessageWithGuest, error) {
	if limit <= 0 || limit > 200 {
		limit = 200
	}

	rows, err := r.db.Query(ctx,
		`SELECT m.id, m.guest_id, m.message, m.created_at, g.first_name, g.last_name
		 FROM chat_messages m
		 JOIN guests g ON g.id = m.guest_id
		 WHERE m.id > $1
		 ORDER BY m.id
		 LIMIT $2`,
		afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []ChatMessageWithGuest{}
	for rows.Next() {
		var m ChatMessageWithGuest
		err := rows.Scan(&m.ID, &m.GuestID, &m.Message, &m.CreatedAt, &m.FirstName, &m.LastName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (r *chatRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM chat_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return common.ErrMessageNotFound
	}
	return nil
}
