// Command userplan assigns a billing plan to a user, by id or email.
// Operator tooling; quota usage is derived from check rows, so changing the
// plan takes effect on the next admission check.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

func main() {
	var (
		idFlag    string
		emailFlag string
		planFlag  string
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&planFlag, "plan", "pro", "plan to assign (free, starter, pro, agency)")
	flag.Parse()

	userID := strings.TrimSpace(idFlag)
	email := strings.TrimSpace(emailFlag)
	plan := domain.UserPlan(strings.TrimSpace(strings.ToLower(planFlag)))

	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}
	switch plan {
	case domain.UserPlanFree, domain.UserPlanStarter, domain.UserPlanPro, domain.UserPlanAgency:
	default:
		exitWithError(fmt.Errorf("unsupported plan %q", plan))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	var (
		updatedID    string
		updatedEmail string
		updatedPlan  string
	)
	row := pool.QueryRow(ctx, `
UPDATE users
SET plan = $1, updated_at = NOW()
WHERE ($2 <> '' AND id = $2::uuid) OR ($2 = '' AND email = $3)
RETURNING id, email, plan;
`, string(plan), userID, email)
	if err := row.Scan(&updatedID, &updatedEmail, &updatedPlan); err != nil {
		exitWithError(fmt.Errorf("failed to update user plan: %w", err))
	}

	fmt.Printf("User %s (%s) updated to plan %s (monthly check limit %d)\n",
		updatedID, updatedEmail, updatedPlan, domain.MonthlyCheckLimit(plan))
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
