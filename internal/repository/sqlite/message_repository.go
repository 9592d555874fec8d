package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"toystore/internal/domain"
	"toystore/internal/repository"
)

const createMessagesTable = `
CREATE TABLE IF NOT EXISTS contactos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL,
	message TEXT NOT NULL,
	received_at DATETIME NOT NULL
);
`

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createMessagesTable); err != nil {
		return fmt.Errorf("create contactos table: %w", err)
	}
	return nil
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) (int64, error) {
	if msg.ReceivedAt.IsZero() {
		msg.ReceivedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO contactos (name, email, message, received_at)
VALUES (?, ?, ?, ?)`,
		msg.Name,
		msg.Email,
		msg.Message,
		msg.ReceivedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert contact message: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("contact message last insert id: %w", err)
	}
	msg.ID = id
	return id, nil
}

func (r *MessageRepository) ListNewestFirst(ctx context.Context) ([]domain.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, email, message, received_at
FROM contactos
ORDER BY received_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query contact messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ContactMessage
	for rows.Next() {
		var m domain.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact messages: %w", err)
	}

	return messages, nil
}
