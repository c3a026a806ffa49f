package visibility

import (
	"context"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/providers/backlinks"
)

// ScoreInputs are the four normalized signals fed to the composite model.
// Every field is in [0,1]; a ratio whose denominator is zero is 0, never NaN.
type ScoreInputs struct {
	LLMMentionRate       float64 `json:"llm_mention_rate"`
	AISearchPresenceRate float64 `json:"ai_search_presence_rate"`
	ShareOfVoice         float64 `json:"share_of_voice"`
	BacklinkAuthority    float64 `json:"backlink_authority"`
}

// referringDomainTarget is the referring-domain count treated as full
// authority. Sites above it all score 1.
const referringDomainTarget = 50

// BacklinkSignal normalizes a referring-domain count into [0,1].
func BacklinkSignal(referringDomains int) float64 {
	if referringDomains <= 0 {
		return 0
	}
	signal := float64(referringDomains) / referringDomainTarget
	if signal > 1 {
		return 1
	}
	return signal
}

// ComputeInputs reduces a set of checks into scoring inputs.
//
// Checks are partitioned by modality: the AI-mode search provider feeds
// AISearchPresenceRate, every other provider feeds LLMMentionRate and
// ShareOfVoice. Share of voice counts one brand mention per mentioning check
// against one competitor mention per (check, mentioned competitor domain)
// pair over the conversational subset only; a competitor mentioned in five
// checks counts five times.
func ComputeInputs(checks []domain.VisibilityCheck, backlinkSignal float64) ScoreInputs {
	var llmTotal, llmMentioned, aiTotal, aiMentioned, competitorMentions int
	for _, c := range checks {
		if c.Provider.IsAISearch() {
			aiTotal++
			if c.BrandMentioned {
				aiMentioned++
			}
			continue
		}
		llmTotal++
		if c.BrandMentioned {
			llmMentioned++
		}
		for _, cm := range c.CompetitorMentions {
			if cm.Mentioned {
				competitorMentions++
			}
		}
	}

	in := ScoreInputs{BacklinkAuthority: backlinkSignal}
	if llmTotal > 0 {
		in.LLMMentionRate = float64(llmMentioned) / float64(llmTotal)
	}
	if aiTotal > 0 {
		in.AISearchPresenceRate = float64(aiMentioned) / float64(aiTotal)
	}
	if voices := llmMentioned + competitorMentions; voices > 0 {
		in.ShareOfVoice = float64(llmMentioned) / float64(voices)
	}
	return in
}

// Scorecard is a composite visibility score with its sub-scores, all on a
// 0-100 scale.
type Scorecard struct {
	Overall          float64 `json:"overall"`
	LLMPresence      float64 `json:"llm_presence"`
	AISearchPresence float64 `json:"ai_search_presence"`
	ShareOfVoice     float64 `json:"share_of_voice"`
	Authority        float64 `json:"authority"`
}

// Model combines the four scoring inputs into a composite score.
type Model interface {
	Score(in ScoreInputs) Scorecard
}

// WeightedModel is the default composite model: a weighted sum of the four
// inputs scaled to 0-100.
type WeightedModel struct {
	LLMWeight          float64
	AISearchWeight     float64
	ShareOfVoiceWeight float64
	AuthorityWeight    float64
}

// DefaultModel weights conversational presence heaviest; the weights sum to 1.
func DefaultModel() WeightedModel {
	return WeightedModel{
		LLMWeight:          0.35,
		AISearchWeight:     0.25,
		ShareOfVoiceWeight: 0.25,
		AuthorityWeight:    0.15,
	}
}

func (m WeightedModel) Score(in ScoreInputs) Scorecard {
	return Scorecard{
		Overall: 100 * (in.LLMMentionRate*m.LLMWeight +
			in.AISearchPresenceRate*m.AISearchWeight +
			in.ShareOfVoice*m.ShareOfVoiceWeight +
			in.BacklinkAuthority*m.AuthorityWeight),
		LLMPresence:      100 * in.LLMMentionRate,
		AISearchPresence: 100 * in.AISearchPresenceRate,
		ShareOfVoice:     100 * in.ShareOfVoice,
		Authority:        100 * in.BacklinkAuthority,
	}
}

// BacklinkSource is the external backlink-summary capability.
type BacklinkSource interface {
	Summary(ctx context.Context, domainName string) (*backlinks.Summary, error)
}

// ScoreEngine resolves the backlink signal for a brand domain and scores
// check sets with the configured model.
type ScoreEngine struct {
	backlinks BacklinkSource
	model     Model
	logger    zerolog.Logger
}

func NewScoreEngine(src BacklinkSource, model Model, logger zerolog.Logger) *ScoreEngine {
	if model == nil {
		model = DefaultModel()
	}
	return &ScoreEngine{backlinks: src, model: model, logger: logger}
}

func (e *ScoreEngine) Model() Model {
	return e.model
}

// Signal fetches the current backlink snapshot for the domain. The signal is
// best effort: with no source configured, or on upstream failure, it is 0
// rather than an error, so dashboards stay up when the backlink index is down.
func (e *ScoreEngine) Signal(ctx context.Context, domainName string) float64 {
	if e.backlinks == nil {
		return 0
	}
	summary, err := e.backlinks.Summary(ctx, domainName)
	if err != nil {
		e.logger.Warn().Err(err).Str("domain", domainName).Msg("backlink summary unavailable")
		return 0
	}
	return BacklinkSignal(summary.ReferringDomains)
}

// Score reduces the checks plus the domain's backlink snapshot into a
// composite scorecard.
func (e *ScoreEngine) Score(ctx context.Context, checks []domain.VisibilityCheck, domainName string) (Scorecard, ScoreInputs) {
	in := ComputeInputs(checks, e.Signal(ctx, domainName))
	return e.model.Score(in), in
}
