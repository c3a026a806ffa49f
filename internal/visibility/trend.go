package visibility

import (
	"fmt"
	"time"

	"server/internal/domain"
)

// Direction labels a week-over-week score movement.
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

const trendWindow = 7 * 24 * time.Hour

// Audience model constants: the assumed monthly search volume behind one
// tracked query, and the assumed fraction of those searches answered by AI
// engines. Both are assumptions, not measurements; the resulting audience
// figure is an order-of-magnitude estimate and callers must present it as one.
const (
	assumedMonthlySearchesPerQuery = 1900
	assumedAIAdoptionShare         = 0.25
)

// Trend compares the latest 7-day window against the 7 days before it.
// Previous is nil when no checks fall in the earlier window; by convention
// Delta is then 0 and Direction stable.
type Trend struct {
	Current         Scorecard  `json:"current"`
	Previous        *Scorecard `json:"previous"`
	Delta           float64    `json:"delta"`
	Direction       Direction  `json:"direction"`
	AudienceCurrent int        `json:"audience_current"`
	AudienceGrowth  float64    `json:"audience_growth_pct"`
	Period          string     `json:"period"`
}

// splitWindows partitions checks into the two half-open windows
// [now-7d, now) and [now-14d, now-7d). Checks older than 14 days fall out.
func splitWindows(checks []domain.VisibilityCheck, now time.Time) (current, previous []domain.VisibilityCheck) {
	cutoff := now.Add(-trendWindow)
	earliest := now.Add(-2 * trendWindow)
	for _, c := range checks {
		switch {
		case !c.CheckedAt.Before(cutoff) && c.CheckedAt.Before(now):
			current = append(current, c)
		case !c.CheckedAt.Before(earliest) && c.CheckedAt.Before(cutoff):
			previous = append(previous, c)
		}
	}
	return current, previous
}

// ISOWeekLabel formats t's ISO-8601 week as "2026-W35". The ISO year is used,
// so edge weeks around new year label correctly.
func ISOWeekLabel(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// AudienceEstimate estimates how many people encountered the brand through AI
// answers in a window: distinct mentioned queries times the assumed search
// volume times the assumed AI adoption share.
func AudienceEstimate(checks []domain.VisibilityCheck) int {
	queries := make(map[string]bool)
	for _, c := range checks {
		if c.BrandMentioned {
			queries[c.Query] = true
		}
	}
	return int(float64(len(queries)) * assumedMonthlySearchesPerQuery * assumedAIAdoptionShare)
}

// TrendAnalyzer recomputes scoring inputs per window from raw checks. The
// backlink signal is a current snapshot, not historized, so the same value
// feeds both windows.
type TrendAnalyzer struct {
	model Model
}

func NewTrendAnalyzer(model Model) *TrendAnalyzer {
	if model == nil {
		model = DefaultModel()
	}
	return &TrendAnalyzer{model: model}
}

func (a *TrendAnalyzer) Trend(checks []domain.VisibilityCheck, backlinkSignal float64, now time.Time) Trend {
	currentChecks, previousChecks := splitWindows(checks, now)

	trend := Trend{
		Current:         a.model.Score(ComputeInputs(currentChecks, backlinkSignal)),
		Direction:       DirectionStable,
		AudienceCurrent: AudienceEstimate(currentChecks),
		Period:          ISOWeekLabel(now),
	}

	if len(previousChecks) == 0 {
		return trend
	}

	previous := a.model.Score(ComputeInputs(previousChecks, backlinkSignal))
	trend.Previous = &previous
	trend.Delta = trend.Current.Overall - previous.Overall
	switch {
	case trend.Delta > 0:
		trend.Direction = DirectionUp
	case trend.Delta < 0:
		trend.Direction = DirectionDown
	}

	if prevAudience := AudienceEstimate(previousChecks); prevAudience > 0 {
		trend.AudienceGrowth = 100 * float64(trend.AudienceCurrent-prevAudience) / float64(prevAudience)
	}
	return trend
}

// ProviderTrend is the week-over-week mention-rate movement of one provider.
type ProviderTrend struct {
	Provider     domain.Provider `json:"provider"`
	CurrentRate  float64         `json:"current_rate"`
	PreviousRate float64         `json:"previous_rate"`
	Delta        float64         `json:"delta"`
	Direction    Direction       `json:"direction"`
}

// ProviderTrends computes mention-rate deltas per provider over the same two
// windows as Trend, independently per provider rather than in aggregate.
// Providers with no checks in either window are omitted; a provider with an
// empty previous window reports delta 0 and a stable direction.
func ProviderTrends(checks []domain.VisibilityCheck, now time.Time) []ProviderTrend {
	currentChecks, previousChecks := splitWindows(checks, now)

	rate := func(window []domain.VisibilityCheck, p domain.Provider) (float64, bool) {
		var total, mentioned int
		for _, c := range window {
			if c.Provider != p {
				continue
			}
			total++
			if c.BrandMentioned {
				mentioned++
			}
		}
		if total == 0 {
			return 0, false
		}
		return float64(mentioned) / float64(total), true
	}

	var trends []ProviderTrend
	for _, p := range domain.AllProviders {
		cur, hasCur := rate(currentChecks, p)
		prev, hasPrev := rate(previousChecks, p)
		if !hasCur && !hasPrev {
			continue
		}
		t := ProviderTrend{Provider: p, CurrentRate: cur, PreviousRate: prev, Direction: DirectionStable}
		if hasPrev {
			t.Delta = cur - prev
			switch {
			case t.Delta > 0:
				t.Direction = DirectionUp
			case t.Delta < 0:
				t.Direction = DirectionDown
			}
		}
		trends = append(trends, t)
	}
	return trends
}
