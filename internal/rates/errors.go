package rates

import (
	"fmt"
	"time"
)

// UnavailableError is the only fatal outcome of a resolve: the bounded
// backward walk (and, when enabled, the latest-table fallback) found no rate.
// Individual fetch or parse failures are never surfaced; they only advance
// the walk.
type UnavailableError struct {
	Currency      string
	RequestedDate time.Time
	DaysAttempted int
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("no %s rate within %d days of %s",
		e.Currency, e.DaysAttempted, e.RequestedDate.Format("2006-01-02"))
}
