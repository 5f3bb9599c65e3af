package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/robinblocks/site/internal/entity"
	"github.com/robinblocks/site/internal/infra/integration/loops"
	"github.com/robinblocks/site/internal/infra/queue"
)

type SubscribeUseCase struct {
	Contacts  ContactCreator
	Publisher EventPublisher
	Logger    *zap.Logger
	Now       func() time.Time
}

// NewSubscribeUseCase wires the use case. publisher may be nil.
func NewSubscribeUseCase(contacts ContactCreator, publisher EventPublisher, logger *zap.Logger) *SubscribeUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscribeUseCase{
		Contacts:  contacts,
		Publisher: publisher,
		Logger:    logger,
		Now:       time.Now,
	}
}

func (uc *SubscribeUseCase) Execute(ctx context.Context, input SubscribeInput) (*SubscribeOutput, error) {
	if uc.Contacts == nil || !uc.Contacts.Configured() {
		uc.Logger.Error("LOOPS_API_KEY is not configured")
		return nil, &TechnicalError{Code: CodeServerMisconfiguration, Message: MsgServerConfiguration}
	}

	if verr := ValidateSubscribeInput(input); verr != nil {
		return nil, &DomainError{Code: CodeInputValidation, Message: verr.Message}
	}

	subscriber := entity.NewSubscriber(input.Email, input.FirstName, input.LastName)

	resp, err := uc.Contacts.CreateContact(ctx, subscriber.Contact())
	if err != nil {
		uc.Logger.Error("subscription request failed", zap.Error(err))
		return nil, &TechnicalError{Code: CodeNetworkFailure, Message: MsgNetworkError, Err: err}
	}

	if !json.Valid(resp.Body) {
		err := fmt.Errorf("upstream returned non-JSON body with status %d", resp.StatusCode)
		uc.Logger.Error("subscription request failed", zap.Error(err))
		return nil, &TechnicalError{Code: CodeNetworkFailure, Message: MsgNetworkError, Err: err}
	}

	if !resp.OK() {
		return nil, uc.upstreamError(resp)
	}

	uc.Logger.Info("subscriber created",
		zap.String("email", subscriber.Email),
		zap.Int("attempts", resp.Attempts),
	)
	uc.publish(ctx, subscriber)

	return &SubscribeOutput{
		Success: true,
		Message: MsgSubscribed,
		Data:    json.RawMessage(resp.Body),
	}, nil
}

func (uc *SubscribeUseCase) upstreamError(resp *loops.ContactResponse) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		uc.Logger.Error("upstream rejected the API key")
		return &TechnicalError{
			Code:    CodeServerMisconfiguration,
			Message: MsgServerConfiguration,
			Err:     fmt.Errorf("upstream status %d", resp.StatusCode),
		}
	case http.StatusBadRequest:
		msg := resp.Message()
		if msg == "" {
			msg = MsgInvalidRequest
		}
		return &DomainError{Code: CodeUpstreamRejected, Message: msg}
	case http.StatusTooManyRequests:
		uc.Logger.Warn("upstream still rate limited after retries", zap.Int("attempts", resp.Attempts))
		return &DomainError{Code: CodeUpstreamRateLimited, Message: MsgTooManyRequests}
	default:
		uc.Logger.Error("upstream error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", resp.Body),
		)
		return &TechnicalError{
			Code:    CodeUpstreamUnknownError,
			Message: MsgUnableToProcess,
			Err:     fmt.Errorf("upstream status %d", resp.StatusCode),
		}
	}
}

// publish is best effort; the subscription already succeeded upstream.
func (uc *SubscribeUseCase) publish(ctx context.Context, subscriber entity.Subscriber) {
	if uc.Publisher == nil {
		return
	}
	event := queue.NewSubscribedEvent(subscriber, uc.Now())
	if err := uc.Publisher.PublishSubscribed(ctx, event); err != nil {
		uc.Logger.Warn("failed to publish subscribed event",
			zap.String("event_id", event.ID),
			zap.Error(err),
		)
	}
}
