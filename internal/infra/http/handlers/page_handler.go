package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/robinblocks/site/internal/usecase"
	"github.com/robinblocks/site/internal/web"
	"github.com/robinblocks/site/internal/web/signup"
)

type PageHandler struct {
	Pages   *web.Pages
	UseCase Subscriber
	Logger  *zap.Logger
}

func NewPageHandler(pages *web.Pages, uc Subscriber, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{Pages: pages, UseCase: uc, Logger: logger}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, web.PageIndex, web.IndexData{Form: &signup.Form{}})
}

func (h *PageHandler) Guide(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, web.PageGuide, nil)
}

// Signup handles the HTML form post and re-renders the landing page with the
// resulting form state.
func (h *PageHandler) Signup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSubscribeBody)
	if err := r.ParseForm(); err != nil {
		h.render(w, http.StatusBadRequest, web.PageIndex, web.IndexData{
			Form: &signup.Form{Error: usecase.MsgInvalidBody},
		})
		return
	}

	form := &signup.Form{
		Email:     r.PostFormValue("email"),
		FirstName: r.PostFormValue("firstName"),
	}
	sub := &formSubscriber{uc: h.UseCase, logger: h.Logger}

	status := http.StatusOK
	if err := form.Submit(r.Context(), sub); err != nil {
		if errors.Is(err, signup.ErrEmailRequired) {
			form.Error = usecase.MsgEmailRequired
		}
		status = http.StatusBadRequest
	} else if sub.err != nil {
		status = statusForError(sub.err)
	}

	h.render(w, status, web.PageIndex, web.IndexData{Form: form})
}

// Reset is "sign up another email": a fresh form is an empty Idle form.
func (h *PageHandler) Reset(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) render(w http.ResponseWriter, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.Pages.Render(&buf, page, data); err != nil {
		h.Logger.Error("failed to render page", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// formSubscriber adapts the use case to the form and remembers the last error
// so the page can pick a status code.
type formSubscriber struct {
	uc     Subscriber
	logger *zap.Logger
	err    error
}

func (s *formSubscriber) Subscribe(ctx context.Context, email, firstName string) error {
	_, s.err = s.uc.Execute(ctx, usecase.SubscribeInput{Email: email, FirstName: firstName})
	recordOutcome(s.logger, s.err)
	return s.err
}
