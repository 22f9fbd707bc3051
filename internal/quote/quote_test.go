package quote_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenciaiam/crm/internal/quote"
)

func TestCanTransition(t *testing.T) {
	terminals := []quote.Status{
		quote.StatusApproved,
		quote.StatusRejected,
		quote.StatusExpired,
		quote.StatusCancelled,
	}
	nonTerminals := []quote.Status{
		quote.StatusDraft,
		quote.StatusSent,
		quote.StatusPending,
		quote.StatusNegotiating,
		quote.StatusOnHold,
	}

	t.Run("NoWayOutOfTerminalStates", func(t *testing.T) {
		all := append(append([]quote.Status{}, terminals...), nonTerminals...)

		for _, from := range terminals {
			for _, to := range all {
				assert.False(t, quote.CanTransition(from, to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("AnyNonTerminalMayClose", func(t *testing.T) {
		for _, from := range nonTerminals {
			for _, to := range terminals {
				assert.True(t, quote.CanTransition(from, to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("WorkingTransitions", func(t *testing.T) {
		type move struct {
			from, to quote.Status
			want     bool
		}

		moves := []move{
			{quote.StatusDraft, quote.StatusSent, true},
			{quote.StatusDraft, quote.StatusPending, false},
			{quote.StatusDraft, quote.StatusOnHold, false},
			{quote.StatusSent, quote.StatusPending, true},
			{quote.StatusSent, quote.StatusNegotiating, true},
			{quote.StatusSent, quote.StatusOnHold, false},
			{quote.StatusSent, quote.StatusDraft, false},
			{quote.StatusPending, quote.StatusNegotiating, true},
			{quote.StatusPending, quote.StatusOnHold, true},
			{quote.StatusNegotiating, quote.StatusPending, true},
			{quote.StatusNegotiating, quote.StatusOnHold, true},
			{quote.StatusOnHold, quote.StatusPending, true},
			{quote.StatusOnHold, quote.StatusNegotiating, true},
			{quote.StatusOnHold, quote.StatusSent, false},
		}

		for _, m := range moves {
			assert.Equal(t, m.want, quote.CanTransition(m.from, m.to), "%s -> %s", m.from, m.to)
		}
	})
}
