package events

import (
	"context"
	"time"
)

type Type string

const (
	TypeRegistered Type = "account.registered"
	TypeLoggedIn   Type = "account.logged_in"
)

type Event struct {
	Type       Type      `json:"type"`
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Language   string    `json:"language"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type NoopPublisher struct{}

func NewNoopPublisher() NoopPublisher {
	return NoopPublisher{}
}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

func (NoopPublisher) Close() error { return nil }
