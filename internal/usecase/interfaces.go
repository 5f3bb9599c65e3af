package usecase

import (
	"context"

	"github.com/robinblocks/site/internal/entity"
	"github.com/robinblocks/site/internal/infra/integration/loops"
	"github.com/robinblocks/site/internal/infra/queue"
)

type ContactCreator interface {
	Configured() bool
	CreateContact(ctx context.Context, contact entity.Contact) (*loops.ContactResponse, error)
}

type EventPublisher interface {
	PublishSubscribed(ctx context.Context, event queue.SubscribedEvent) error
}
