// Package visibility implements the visibility-check pipeline and the
// analytics that read it back: quota admission, provider fan-out, sentiment
// enrichment, persistence, and the score/trend/gap/recommendation math over
// stored checks.
package visibility

import (
	"context"
	"fmt"
	"time"

	"server/internal/domain"
	"server/internal/metrics"
)

// PlanPredicate decides whether a plan admits `requested` additional checks
// given `used` checks so far this billing period.
type PlanPredicate func(plan domain.UserPlan, used, requested int) bool

// QuotaGuard enforces the monthly check budget. Usage is derived by counting
// check rows across every project the account owns since the start of the
// current calendar month; it is never stored as a counter.
//
// Admission is read-then-decide with no reservation: two concurrent batches
// from the same account can each pass and jointly exceed the budget. Known
// limitation, accepted for now.
type QuotaGuard struct {
	checks domain.CheckRepository
	allow  PlanPredicate
	now    func() time.Time
}

func NewQuotaGuard(checks domain.CheckRepository, allow PlanPredicate) *QuotaGuard {
	if allow == nil {
		allow = domain.WithinPlanLimit
	}
	return &QuotaGuard{
		checks: checks,
		allow:  allow,
		now:    time.Now,
	}
}

// PeriodStart returns the first instant of the calendar month containing t,
// in UTC.
func PeriodStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// Admit decides whether the whole batch of `requested` provider checks may
// run. Admission is all-or-nothing: a denied batch runs no provider at all.
// Denial surfaces as domain.ErrPlanLimitReached.
func (g *QuotaGuard) Admit(ctx context.Context, user *domain.User, requested int) error {
	used, err := g.checks.CountForUserSince(ctx, user.ID, PeriodStart(g.now()))
	if err != nil {
		return fmt.Errorf("count period usage: %w", err)
	}
	if !g.allow(user.Plan, used, requested) {
		metrics.QuotaDenials.WithLabelValues(string(user.Plan)).Inc()
		return fmt.Errorf("%w: plan %s used %d, requested %d", domain.ErrPlanLimitReached, user.Plan, used, requested)
	}
	return nil
}
