package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrAlreadyExists = errors.New("resource already exists")

	ErrInvalidRequest = errors.New("invalid request body")
	ErrValidation     = errors.New("validation failed")
	ErrUnauthorized   = errors.New("unauthorized")

	ErrInvalidTransition = errors.New("status transition is not allowed")
	ErrNoRecipient       = errors.New("project has no contact email")
	ErrMailDelivery      = errors.New("failed to send email")
	ErrRateLimited       = errors.New("too many requests")
)

// NotFoundError names the missing resource so handlers can say which one.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
}
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound is a shorthand for &NotFoundError{...}.
func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move from %s to %s", e.From, e.To)
}
func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// MailDeliveryError keeps the provider's reason next to the sentinel.
// Reason goes to the logs only; clients see ErrMailDelivery.
type MailDeliveryError struct {
	Reason string
}

func (e *MailDeliveryError) Error() string {
	return fmt.Sprintf("failed to send email: %s", e.Reason)
}
func (e *MailDeliveryError) Is(target error) bool { return target == ErrMailDelivery }
