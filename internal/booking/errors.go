package booking

import (
	"errors"
	"fmt"
)

// ErrNoAvailability means a picked date has zero free slots. Recovered
// locally by re-entering date selection.
var ErrNoAvailability = errors.New("no free slots")

// ValidationError rejects a field value. The step reprompts and the
// session is not mutated.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("booking: invalid %s: %s", e.Field, e.Reason)
}
