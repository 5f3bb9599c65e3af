package usecase

import "errors"

const (
	CodeInputValidation        = "INPUT_VALIDATION"
	CodeMethodNotAllowed       = "METHOD_NOT_ALLOWED"
	CodeServerMisconfiguration = "SERVER_MISCONFIGURATION"
	CodeUpstreamRateLimited    = "UPSTREAM_RATE_LIMITED"
	CodeUpstreamRejected       = "UPSTREAM_REJECTED"
	CodeUpstreamUnknownError   = "UPSTREAM_UNKNOWN_ERROR"
	CodeNetworkFailure         = "NETWORK_FAILURE"
)

// User-facing messages. These are the only texts a caller ever sees.
const (
	MsgEmailRequired       = "Email address is required"
	MsgEmailInvalid        = "Please enter a valid email address"
	MsgInvalidBody         = "Invalid request body"
	MsgMethodNotAllowed    = "Method not allowed"
	MsgServerConfiguration = "Server configuration error"
	MsgInvalidRequest      = "Invalid request. Please check your information."
	MsgTooManyRequests     = "Too many requests. Please try again in a moment."
	MsgUnableToProcess     = "Unable to process subscription. Please try again later."
	MsgNetworkError        = "Network error. Please check your connection and try again."
	MsgSubscribed          = "Successfully subscribed to Robin Blocks!"
)

// DomainError is a failure the caller can fix by changing the request or waiting.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// TechnicalError is a failure on our side or upstream. Message is safe to
// show; Err carries the detail and is only logged.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

// ErrorCode extracts the taxonomy code from err, or "" for foreign errors.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	var te *TechnicalError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
