package domain

import "time"

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// UserPlan enumerates billing plans.
type UserPlan string

const (
	UserPlanFree    UserPlan = "free"
	UserPlanStarter UserPlan = "starter"
	UserPlanPro     UserPlan = "pro"
	UserPlanAgency  UserPlan = "agency"
)

// monthlyCheckLimits bounds how many provider checks an account may run per
// calendar month, summed across every project it owns.
var monthlyCheckLimits = map[UserPlan]int{
	UserPlanFree:    25,
	UserPlanStarter: 250,
	UserPlanPro:     1000,
	UserPlanAgency:  5000,
}

// MonthlyCheckLimit returns the plan's monthly check budget. Unknown plans
// fall back to the free tier.
func MonthlyCheckLimit(plan UserPlan) int {
	if limit, ok := monthlyCheckLimits[plan]; ok {
		return limit
	}
	return monthlyCheckLimits[UserPlanFree]
}

// WithinPlanLimit is the default plan-limit predicate: it admits a batch of
// `requested` checks only when the whole batch fits under the monthly budget.
func WithinPlanLimit(plan UserPlan, used, requested int) bool {
	return used+requested <= MonthlyCheckLimit(plan)
}

// User represents an authenticated account within the platform.
type User struct {
	ID        string
	Email     string
	Name      string
	Locale    string
	Role      UserRole
	Plan      UserPlan
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFree reports whether the user is using the free plan.
func (u User) IsFree() bool {
	return u.Plan == UserPlanFree
}
