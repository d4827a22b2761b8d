package matcher

import (
	"fmt"
	"testing"

	"github.com/Jacobbrewer1/supportdesk/pkg/entities"
	"github.com/stretchr/testify/require"
)

func subjects(names ...string) []*entities.Subject {
	out := make([]*entities.Subject, 0, len(names))
	for i, n := range names {
		out = append(out, &entities.Subject{ID: fmt.Sprintf("s%d", i), ServerID: "1", Name: n})
	}
	return out
}

func names(ss []*entities.Subject) []string {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.Name)
	}
	return out
}

func TestMatch_PaymentsFirst(t *testing.T) {
	got := Match(subjects("Payments", "Account Access", "Bugs"), "my payment failed", 5)
	require.NotEmpty(t, got)
	require.Equal(t, "Payments", got[0].Name)
	require.NotContains(t, names(got), "Bugs")
}

func TestMatch_ExcludesNoOverlap(t *testing.T) {
	got := Match(subjects("Payments", "Account Access", "Bugs"), "zzz", 5)
	require.Empty(t, got)
}

func TestMatch_Bounded(t *testing.T) {
	pool := subjects("aa", "ab", "ac", "ad", "ae", "af", "ag")
	got := Match(pool, "a", 5)
	require.Len(t, got, 5)

	require.Empty(t, Match(pool, "a", 0))
}

func TestMatch_EmptyInputs(t *testing.T) {
	require.Empty(t, Match(nil, "payments", 5))
	require.Empty(t, Match(subjects("Payments"), "", 5))
	require.Empty(t, Match(subjects("Payments"), "  !! ", 5))
}

func TestRank_StableTies(t *testing.T) {
	// Identical names score identically, so the input order must be kept.
	pool := subjects("Billing", "Billing", "Billing")
	ranked := Rank(pool, "billing")
	require.Len(t, ranked, 3)
	for i, r := range ranked {
		require.Equal(t, fmt.Sprintf("s%d", i), r.Subject.ID)
	}
}

func TestRank_NonIncreasing(t *testing.T) {
	pool := subjects("Payments", "Account Access", "Bugs", "Payment Refunds", "Password reset", "Shipping")
	queries := []string{"my payment failed", "reset my password", "bug", "access", "pay", "shipping refund"}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			ranked := Rank(pool, q)
			for i := 1; i < len(ranked); i++ {
				require.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
			}
			for _, r := range ranked {
				require.Positive(t, r.Score)
			}
		})
	}
}

func TestRank_CaseInsensitive(t *testing.T) {
	ranked := Rank(subjects("ACCOUNT ACCESS"), "account")
	require.Len(t, ranked, 1)
}
