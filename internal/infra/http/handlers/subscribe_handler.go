package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/robinblocks/site/internal/infra/http/middleware"
	"github.com/robinblocks/site/internal/usecase"
)

const maxSubscribeBody = 64 << 10

// Subscriber is implemented by *usecase.SubscribeUseCase.
type Subscriber interface {
	Execute(ctx context.Context, input usecase.SubscribeInput) (*usecase.SubscribeOutput, error)
}

type SubscribeHandler struct {
	UseCase Subscriber
	Logger  *zap.Logger
}

func NewSubscribeHandler(uc Subscriber, logger *zap.Logger) *SubscribeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubscribeHandler{UseCase: uc, Logger: logger}
}

// Handle serves POST /api/subscribe. It is mounted for every method so that
// the 405 body stays JSON.
func (h *SubscribeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		middleware.RecordSubscription(usecase.CodeMethodNotAllowed)
		writeErrorResponse(w, http.StatusMethodNotAllowed, usecase.MsgMethodNotAllowed)
		return
	}

	var input usecase.SubscribeInput
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubscribeBody)).Decode(&input); err != nil {
		h.Logger.Debug("invalid subscribe body", zap.Error(err))
		middleware.RecordSubscription(usecase.CodeInputValidation)
		writeErrorResponse(w, http.StatusBadRequest, usecase.MsgInvalidBody)
		return
	}

	output, err := h.UseCase.Execute(r.Context(), input)
	recordOutcome(h.Logger, err)
	if err != nil {
		writeErrorResponse(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, output)
}

// recordOutcome counts one use case result and logs the cause of technical
// failures. Both the JSON endpoint and the HTML form go through it.
func recordOutcome(logger *zap.Logger, err error) {
	if err == nil {
		middleware.RecordSubscription(middleware.SubscriptionOK)
		return
	}

	code := usecase.ErrorCode(err)
	if usecase.IsTechnicalError(err) {
		middleware.RecordIntegrationError("loops")
		logger.Error("subscription failed", zap.String("code", code), zap.Error(errorsCause(err)))
	}
	middleware.RecordSubscription(code)
}

// errorsCause returns the wrapped detail of a technical error for logging.
func errorsCause(err error) error {
	var te *usecase.TechnicalError
	if errors.As(err, &te) && te.Err != nil {
		return te.Err
	}
	return err
}
