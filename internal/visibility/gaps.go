package visibility

import "server/internal/domain"

// Gap is a tracked query where at least one competitor is mentioned and the
// brand never is.
type Gap struct {
	Query            string   `json:"query"`
	CompetitorsCited []string `json:"competitors_cited"`
}

// FindGaps groups checks by exact query text, ORs the brand-mentioned flag
// across each group, and unions the competitor domains marked mentioned
// anywhere in the group. A group gaps when the brand flag is false and the
// competitor set is non-empty. Output order is first appearance of each
// query; competitor order is first time each domain was seen mentioned.
func FindGaps(checks []domain.VisibilityCheck) []Gap {
	type group struct {
		brandMentioned bool
		competitors    []string
		seen           map[string]bool
	}

	groups := make(map[string]*group)
	var order []string
	for _, c := range checks {
		g, ok := groups[c.Query]
		if !ok {
			g = &group{seen: make(map[string]bool)}
			groups[c.Query] = g
			order = append(order, c.Query)
		}
		if c.BrandMentioned {
			g.brandMentioned = true
		}
		for _, cm := range c.CompetitorMentions {
			if cm.Mentioned && !g.seen[cm.Domain] {
				g.seen[cm.Domain] = true
				g.competitors = append(g.competitors, cm.Domain)
			}
		}
	}

	var gaps []Gap
	for _, query := range order {
		g := groups[query]
		if g.brandMentioned || len(g.competitors) == 0 {
			continue
		}
		gaps = append(gaps, Gap{Query: query, CompetitorsCited: g.competitors})
	}
	return gaps
}
