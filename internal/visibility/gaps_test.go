package visibility

import (
	"reflect"
	"testing"

	"server/internal/domain"
)

func gapCheck(query string, brand bool, competitors ...domain.CompetitorMention) domain.VisibilityCheck {
	return domain.VisibilityCheck{
		Provider:           domain.ProviderChatGPT,
		Query:              query,
		BrandMentioned:     brand,
		CompetitorMentions: competitors,
	}
}

func TestFindGaps(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name   string
		checks []domain.VisibilityCheck
		want   []Gap
	}{
		{
			name: "no_checks",
			want: nil,
		},
		{
			name: "brand_mentioned_once_clears_group",
			checks: []domain.VisibilityCheck{
				gapCheck("best crm", false, mention("rival.com", true)),
				gapCheck("best crm", true),
			},
			want: nil,
		},
		{
			name: "no_competitors_no_gap",
			checks: []domain.VisibilityCheck{
				gapCheck("best crm", false),
				gapCheck("best crm", false, mention("rival.com", false)),
			},
			want: nil,
		},
		{
			name: "union_competitors_across_group",
			checks: []domain.VisibilityCheck{
				gapCheck("best crm", false, mention("rival.com", true)),
				gapCheck("best crm", false, mention("other.io", true), mention("rival.com", true)),
			},
			want: []Gap{{Query: "best crm", CompetitorsCited: []string{"rival.com", "other.io"}}},
		},
		{
			name: "groups_keep_first_appearance_order",
			checks: []domain.VisibilityCheck{
				gapCheck("alt tool", false, mention("rival.com", true)),
				gapCheck("best crm", false, mention("other.io", true)),
				gapCheck("alt tool", false, mention("third.dev", true)),
			},
			want: []Gap{
				{Query: "alt tool", CompetitorsCited: []string{"rival.com", "third.dev"}},
				{Query: "best crm", CompetitorsCited: []string{"other.io"}},
			},
		},
		{
			name: "mixed_outcomes_per_query",
			checks: []domain.VisibilityCheck{
				gapCheck("best crm", true, mention("rival.com", true)),
				gapCheck("alt tool", false, mention("rival.com", true), mention("other.io", true)),
				gapCheck("crm pricing", false),
			},
			want: []Gap{{Query: "alt tool", CompetitorsCited: []string{"rival.com", "other.io"}}},
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := FindGaps(tc.checks)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("FindGaps() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
