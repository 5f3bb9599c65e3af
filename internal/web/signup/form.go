// Package signup holds the email signup form and its submission lifecycle.
package signup

import (
	"context"
	"errors"
)

type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	ErrEmailRequired = errors.New("signup: email is required")
	ErrInProgress    = errors.New("signup: submission already in progress")
)

// Subscriber performs the actual subscription. A returned error's message is
// shown to the user as is.
type Subscriber interface {
	Subscribe(ctx context.Context, email, firstName string) error
}

// Form is the signup form state. The zero value is an empty Idle form.
type Form struct {
	Email     string
	FirstName string
	Loading   bool
	Success   bool
	Error     string

	state State
}

func (f *Form) State() State {
	return f.state
}

// CanSubmit reports whether the submit button is enabled.
func (f *Form) CanSubmit() bool {
	return !f.Loading && f.Email != ""
}

// Submit runs one submission. Previous errors are cleared before the request
// goes out, so a failed form can be resubmitted directly.
func (f *Form) Submit(ctx context.Context, s Subscriber) error {
	if f.Loading {
		return ErrInProgress
	}
	if f.Email == "" {
		return ErrEmailRequired
	}

	f.state = Submitting
	f.Loading = true
	f.Success = false
	f.Error = ""

	err := s.Subscribe(ctx, f.Email, f.FirstName)

	f.Loading = false
	if err != nil {
		f.state = Failed
		f.Error = err.Error()
		return nil
	}
	f.state = Succeeded
	f.Success = true
	return nil
}

// Reset is the "sign up another email" action.
func (f *Form) Reset() {
	if f.Loading {
		return
	}
	*f = Form{}
}
