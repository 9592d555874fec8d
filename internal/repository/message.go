package repository

import (
	"context"

	"toystore/internal/domain"
)

// MessageRepository defines persistence operations for contact messages.
type MessageRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, msg *domain.ContactMessage) (int64, error)
	// ListNewestFirst returns all messages ordered by received_at descending.
	ListNewestFirst(ctx context.Context) ([]domain.ContactMessage, error)
}
