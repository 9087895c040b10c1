package services

import (
	"time"

	"restaurant/internal/core/domain/model/customer"
	"restaurant/internal/core/domain/model/order"
)

const (
	// activeWithinDays is the maximum age in days of the latest completed
	// order for a customer to count as active.
	activeWithinDays = 30

	// atRiskAfterDays is the minimum age in days of the latest completed
	// order for a customer to count as at risk of churning.
	atRiskAfterDays = 60

	// frequentCancellationsMin is the minimum number of cancelled orders
	// before the frequent-cancellations tag can apply.
	frequentCancellationsMin = 3

	// frequentCancellationsRatio is the minimum share of cancelled orders in
	// the customer's history for the frequent-cancellations tag to apply.
	frequentCancellationsRatio = 0.3
)

// TagDiff is the outcome of a tag evaluation: the tags to add to and remove
// from the customer so the persisted set matches the derived target set.
type TagDiff struct {
	Add    []string
	Remove []string
}

// IsEmpty reports whether the diff changes anything.
func (d TagDiff) IsEmpty() bool {
	return len(d.Add) == 0 && len(d.Remove) == 0
}

// TagRuleEngine is a domain service that derives a customer's system-managed
// tags from their complete order history.
//
// The engine computes the full target membership for every managed tag in
// memory and returns the diff against the customer's current tags, so the
// caller persists the outcome with a single write. Because the target set is
// a pure function of the history (plus the two sticky exceptions below),
// evaluation is naturally idempotent: running it twice against the same
// history yields an empty second diff.
//
// Two tags do not derive purely from history:
//   - REEMBOLSOS is sticky: once present it is never removed, even if the
//     refunded orders later disappear from the history.
//   - NUEVO is only ever removed (it is assigned at customer creation), and
//     only once an order exists whose creation date falls on a different
//     calendar day (UTC) than the customer's registration.
//
// Evaluation partitions the history by each order's current status: an order
// that recovered from PaymentFailed back into the flow no longer counts
// toward PAGO_FALLIDO.
type TagRuleEngine struct{}

// NewTagRuleEngine creates a new TagRuleEngine instance.
func NewTagRuleEngine() TagRuleEngine {
	return TagRuleEngine{}
}

// Evaluate computes the tag diff for a customer given their complete order
// history. Only tags listed in managed are considered; the caller passes the
// names of the enabled system-managed tags from the tag catalog, which keeps
// user-managed and disabled tags untouched.
//
// now anchors the day arithmetic for the activity tags.
func (e TagRuleEngine) Evaluate(
	c *customer.Customer,
	history []*order.Order,
	managed []string,
	now time.Time,
) (TagDiff, error) {
	if err := c.Validate(); err != nil {
		return TagDiff{}, err
	}

	facts := collectHistoryFacts(history, now)

	var diff TagDiff
	for _, tag := range managed {
		target, known := e.targetMembership(c, facts, tag)
		if !known {
			continue
		}
		if target && !c.HasTag(tag) {
			diff.Add = append(diff.Add, tag)
		}
		if !target && c.HasTag(tag) {
			diff.Remove = append(diff.Remove, tag)
		}
	}

	return diff, nil
}

// targetMembership returns whether tag should be present for the given
// history facts. The second return value is false for tag names the engine
// has no rule for; those are left untouched.
func (e TagRuleEngine) targetMembership(c *customer.Customer, facts historyFacts, tag string) (bool, bool) {
	switch tag {
	case customer.TagPagoFallido:
		return facts.paymentFailedCount > 0, true

	case customer.TagCancelacionesFrecuentes:
		if facts.totalCount == 0 {
			return false, true
		}
		ratio := float64(facts.cancelledCount) / float64(facts.totalCount)
		return facts.cancelledCount >= frequentCancellationsMin && ratio >= frequentCancellationsRatio, true

	case customer.TagProblemasEntrega:
		return facts.issueCount > 0, true

	case customer.TagReembolsos:
		// Sticky: presence is kept regardless of what the history says now.
		return c.HasTag(customer.TagReembolsos) || facts.refundedCount > 0, true

	case customer.TagPrimerPedido:
		return facts.completedCount == 1, true

	case customer.TagClienteActivo:
		if facts.lastCompletedAt == nil {
			return false, true
		}
		return facts.daysSinceLastCompleted <= activeWithinDays, true

	case customer.TagEnRiesgo:
		if facts.lastCompletedAt == nil {
			return false, true
		}
		return facts.daysSinceLastCompleted >= atRiskAfterDays, true

	case customer.TagNuevo:
		if !c.HasTag(customer.TagNuevo) {
			return false, true
		}
		registrationDay := c.CreatedAt().UTC().Truncate(24 * time.Hour)
		return !facts.hasOrderOnOtherDay(registrationDay), true

	default:
		return false, false
	}
}

// historyFacts are the aggregate counts a single pass over the order history
// yields; every tag predicate is evaluated against these.
type historyFacts struct {
	totalCount         int
	paymentFailedCount int
	cancelledCount     int
	issueCount         int
	refundedCount      int
	completedCount     int

	lastCompletedAt        *time.Time
	daysSinceLastCompleted int

	orderDays map[time.Time]struct{}
}

func collectHistoryFacts(history []*order.Order, now time.Time) historyFacts {
	facts := historyFacts{
		totalCount: len(history),
		orderDays:  make(map[time.Time]struct{}, len(history)),
	}

	for _, o := range history {
		switch o.Status() {
		case order.PaymentFailed:
			facts.paymentFailedCount++
		case order.Cancelled:
			facts.cancelledCount++
		case order.Issue:
			facts.issueCount++
		case order.Refunded:
			facts.refundedCount++
		case order.Completed:
			facts.completedCount++
			if completedAt := o.CompletedAt(); completedAt != nil {
				if facts.lastCompletedAt == nil || completedAt.After(*facts.lastCompletedAt) {
					facts.lastCompletedAt = completedAt
				}
			}
		}

		facts.orderDays[o.CreatedAt().UTC().Truncate(24*time.Hour)] = struct{}{}
	}

	if facts.lastCompletedAt != nil {
		facts.daysSinceLastCompleted = int(now.Sub(*facts.lastCompletedAt).Hours() / 24)
	}

	return facts
}

// hasOrderOnOtherDay reports whether any order was created on a UTC calendar
// day different from day.
func (f historyFacts) hasOrderOnOtherDay(day time.Time) bool {
	for orderDay := range f.orderDays {
		if !orderDay.Equal(day) {
			return true
		}
	}
	return false
}
