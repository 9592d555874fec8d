package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"toystore/internal/domain"
	"toystore/internal/repository"
)

var (
	// ErrMissingFields indicates a contact submission without all of
	// name, email and message.
	ErrMissingFields = errors.New("missing required fields")
	// ErrInvalidEmail indicates a contact submission with a malformed
	// email address.
	ErrInvalidEmail = errors.New("invalid email format")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MessageService handles the public contact inbox.
type MessageService interface {
	Submit(ctx context.Context, name, email, message string) (*domain.ContactMessage, error)
	ListMessages(ctx context.Context) ([]domain.ContactMessage, error)
}

type messageService struct {
	messages repository.MessageRepository
}

func NewMessageService(messages repository.MessageRepository) MessageService {
	return &messageService{messages: messages}
}

func (s *messageService) Submit(ctx context.Context, name, email, message string) (*domain.ContactMessage, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if name == "" || email == "" || message == "" {
		return nil, ErrMissingFields
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	msg := &domain.ContactMessage{
		Name:    name,
		Email:   email,
		Message: message,
	}
	if _, err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("store contact message: %w", err)
	}
	return msg, nil
}

func (s *messageService) ListMessages(ctx context.Context) ([]domain.ContactMessage, error) {
	messages, err := s.messages.ListNewestFirst(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	return messages, nil
}
