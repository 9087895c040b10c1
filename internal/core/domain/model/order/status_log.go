package order

import "time"

// StatusLog is one entry of an order's append-only audit trail.
// One entry is written per status the order has held, starting with the
// creation entry in WaitingPayment. Entries are immutable records: they are
// only ever appended by the aggregate, never edited or removed.
type StatusLog struct {
	Status      Status
	StatusLabel string
	Timestamp   time.Time
	Comment     string
}

// newStatusLog creates a log entry for the given status, capturing the display
// label at the time of the transition.
func newStatusLog(status Status, comment string, at time.Time) StatusLog {
	return StatusLog{
		Status:      status,
		StatusLabel: status.Label(),
		Timestamp:   at,
		Comment:     comment,
	}
}
