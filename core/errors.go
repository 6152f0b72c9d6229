package core

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidTaskForceID signals a malformed task force identifier. This
// is the only error GetReadiness returns for a live caller; every other
// failure degrades to a structured snapshot.
var ErrInvalidTaskForceID = errors.New("core: invalid task force id")

// Task force identifiers follow the FEMA USAR convention: a two-letter
// state code, a literal "-TF", and a one- or two-digit number.
var taskForceIDPattern = regexp.MustCompile(`^[A-Z]{2}-TF\d{1,2}$`)

// ValidateTaskForceID checks an identifier against the FEMA USAR naming
// convention (CA-TF1, VA-TF2, ...).
func ValidateTaskForceID(id string) error {
	if !taskForceIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q (expected form CA-TF1)", ErrInvalidTaskForceID, id)
	}
	return nil
}
