package order_test

import (
	"fmt"
	"testing"

	"restaurant/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allStatuses() []order.Status {
	return []order.Status{
		order.WaitingPayment,
		order.PaymentFailed,
		order.Pending,
		order.Cooking,
		order.Ready,
		order.InTransit,
		order.WaitingPickup,
		order.Completed,
		order.Issue,
		order.Cancelled,
		order.Refunded,
	}
}

// allowedEdges mirrors the business transition table. The test below checks
// CanTransitionTo against it for every possible pair, so any graph drift in
// either direction fails loudly.
func allowedEdges() map[order.Status][]order.Status {
	return map[order.Status][]order.Status{
		order.WaitingPayment: {order.Pending, order.PaymentFailed, order.Cancelled, order.Issue},
		order.PaymentFailed:  {order.WaitingPayment, order.Pending, order.Cancelled, order.Issue},
		order.Pending:        {order.Cooking, order.Cancelled, order.Issue},
		order.Cooking:        {order.Ready, order.Issue, order.Cancelled},
		order.Ready:          {order.InTransit, order.WaitingPickup, order.Issue, order.Cancelled},
		order.InTransit:      {order.Completed, order.WaitingPickup, order.Issue, order.Cancelled},
		order.WaitingPickup:  {order.Completed, order.InTransit, order.Issue, order.Cancelled},
		order.Completed:      {order.Refunded},
		order.Issue:          {order.Pending, order.Cooking, order.Ready, order.InTransit, order.WaitingPickup, order.Cancelled},
		order.Cancelled:      {order.Refunded},
		order.Refunded:       {},
	}
}

func TestStatus_CanTransitionTo_FullGraph(t *testing.T) {
	edges := allowedEdges()

	for _, from := range allStatuses() {
		allowed := make(map[order.Status]bool)
		for _, to := range edges[from] {
			allowed[to] = true
		}

		for _, to := range allStatuses() {
			t.Run(fmt.Sprintf("%s_to_%s", from, to), func(t *testing.T) {
				assert.Equal(t, allowed[to], from.CanTransitionTo(to))
			})
		}
	}
}

func TestStatus_CanTransitionTo_SelfAlwaysRejected(t *testing.T) {
	for _, s := range allStatuses() {
		assert.False(t, s.CanTransitionTo(s), "self-transition allowed for %s", s)
	}
}

func TestStatus_CanTransitionTo_RefundedIsTerminal(t *testing.T) {
	for _, to := range allStatuses() {
		assert.False(t, order.Refunded.CanTransitionTo(to), "Refunded -> %s allowed", to)
	}
	assert.True(t, order.Refunded.IsTerminal())
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range allStatuses() {
		if s == order.Refunded {
			continue
		}
		assert.False(t, s.IsTerminal(), "%s reported terminal", s)
	}
}

func TestStatus_IsActive(t *testing.T) {
	inactive := map[order.Status]bool{
		order.Completed: true,
		order.Cancelled: true,
		order.Refunded:  true,
	}

	for _, s := range allStatuses() {
		assert.Equal(t, !inactive[s], s.IsActive(), "IsActive mismatch for %s", s)
	}

	assert.False(t, order.Unknown.IsActive())
}

func TestStatus_Validate(t *testing.T) {
	t.Run("valid statuses", func(t *testing.T) {
		for _, s := range allStatuses() {
			require.NoError(t, s.Validate())
		}
	})

	t.Run("unknown is invalid", func(t *testing.T) {
		require.Error(t, order.Unknown.Validate())
	})

	t.Run("out of range is invalid", func(t *testing.T) {
		require.Error(t, order.Status(99).Validate())
	})
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "WaitingPayment", order.WaitingPayment.String())
	assert.Equal(t, "Refunded", order.Refunded.String())
	assert.Equal(t, "Unknown", order.Status(99).String())
}

func TestStatus_Label(t *testing.T) {
	assert.Equal(t, "Esperando pago", order.WaitingPayment.Label())
	assert.Equal(t, "En preparación", order.Cooking.Label())
	assert.Equal(t, "Desconocido", order.Status(99).Label())
}

func TestStatusFromString(t *testing.T) {
	t.Run("round trips every valid status", func(t *testing.T) {
		for _, s := range allStatuses() {
			assert.Equal(t, s, order.StatusFromString(s.String()))
		}
	})

	t.Run("unrecognized values map to Unknown", func(t *testing.T) {
		assert.Equal(t, order.Unknown, order.StatusFromString("Unknown"))
		assert.Equal(t, order.Unknown, order.StatusFromString("waitingpayment"))
		assert.Equal(t, order.Unknown, order.StatusFromString(""))
	})
}
