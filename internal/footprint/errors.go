package footprint

import (
	"errors"
	"fmt"
)

// ErrDonationNotFound is returned when the requested donation does not
// exist.
var ErrDonationNotFound = errors.New("footprint: donation not found")

// IntegrityError reports upstream data corruption that makes a donation
// uncomputable: a non-positive weight, an ambiguous or missing target, or
// sibling shares overflowing the hard tolerance. It aborts the whole
// computation; resolution gaps never raise it.
type IntegrityError struct {
	DonationID uint
	Detail     string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("footprint: donation %d: %s", e.DonationID, e.Detail)
}

func integrityErrorf(donationID uint, format string, args ...any) *IntegrityError {
	return &IntegrityError{DonationID: donationID, Detail: fmt.Sprintf(format, args...)}
}
