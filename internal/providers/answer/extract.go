package answer

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"server/internal/domain"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>()\[\]"']+`)

// brandToken reduces a domain name to the token a response would mention:
// "www.acme.com" -> "acme".
func brandToken(domainName string) string {
	host := strings.ToLower(strings.TrimSpace(domainName))
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimPrefix(host, "www.")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	if i := strings.IndexByte(host, '.'); i >= 0 {
		host = host[:i]
	}
	return host
}

// firstMention returns the byte offset of the earliest mention of the domain
// in the lowercased text, looking for both the bare domain and its brand
// token, or -1 when absent.
func firstMention(lower, domainName string) int {
	best := -1
	for _, needle := range []string{strings.ToLower(domainName), brandToken(domainName)} {
		if needle == "" {
			continue
		}
		if i := strings.Index(lower, needle); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

func hostMatches(rawURL, domainName string) bool {
	u, err := url.Parse(strings.TrimRight(rawURL, ".,;:!?"))
	if err != nil {
		return false
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	target := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domainName), "www."))
	return host == target || strings.HasSuffix(host, "."+target)
}

// analyzeResponse turns raw answer text into a visibility observation for the
// target domain and its competitors. Competitor domains are deduplicated so a
// check never carries two entries for the same domain. Mention positions are
// 1-based ranks by first appearance among all mentioned entities, the brand
// included.
func analyzeResponse(p domain.Provider, text, targetDomain string, competitors []string) Result {
	lower := strings.ToLower(text)
	res := Result{Provider: p}
	if text != "" {
		t := text
		res.ResponseText = &t
	}

	type hit struct {
		offset int
		idx    int // index into res.CompetitorMentions, -1 for the brand
	}
	var hits []hit

	brandAt := firstMention(lower, targetDomain)
	res.BrandMentioned = brandAt >= 0
	if brandAt >= 0 {
		hits = append(hits, hit{offset: brandAt, idx: -1})
	}

	seen := make(map[string]bool, len(competitors))
	for _, comp := range competitors {
		comp = strings.ToLower(strings.TrimSpace(comp))
		if comp == "" || seen[comp] {
			continue
		}
		seen[comp] = true
		at := firstMention(lower, comp)
		res.CompetitorMentions = append(res.CompetitorMentions, domain.CompetitorMention{
			Domain:    comp,
			Mentioned: at >= 0,
		})
		if at >= 0 {
			hits = append(hits, hit{offset: at, idx: len(res.CompetitorMentions) - 1})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].offset < hits[j].offset })
	for rank, h := range hits {
		pos := rank + 1
		if h.idx < 0 {
			continue
		}
		res.CompetitorMentions[h.idx].Position = &pos
	}

	for i, raw := range urlPattern.FindAllString(text, -1) {
		if !hostMatches(raw, targetDomain) {
			continue
		}
		cited := strings.TrimRight(raw, ".,;:!?")
		pos := i + 1
		res.URLCited = true
		res.CitedURL = &cited
		res.CitationPosition = &pos
		break
	}

	return res
}
