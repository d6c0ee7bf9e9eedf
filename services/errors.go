package services

import "errors"

var (
	ErrInvalidID        = errors.New("invalid id")
	ErrRunsheetNotFound = errors.New("Runsheet not found")
	ErrOrderNotFound    = errors.New("Order not found")
)

// Rejection is a business-rule rejection; the reason is surfaced to the
// caller verbatim with a 400.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func Reject(reason string) error {
	return &Rejection{Reason: reason}
}
