// Package analyzer is the secondary, LLM-based extraction path. It asks a
// chat model to parse the same page content into the testcase shape the HTML
// parser produces, and degrades to an empty zero-confidence result instead
// of propagating its own failures: this path is advisory, never load-bearing.
package analyzer

import (
	"context"
	"fmt"
	"strings"

	"qamind/pkg/core/extract"
	"qamind/pkg/core/llm"
	"qamind/pkg/core/logging"
	"qamind/pkg/core/utils"
)

const (
	// maxContentChars caps the page content sent to the model.
	maxContentChars = 8000

	// enhancedThreshold triggers block-wise re-analysis when the first pass
	// finds fewer testcases than this.
	enhancedThreshold = 10

	completionTemperature = 0.1
	completionMaxTokens   = 4000
)

// Analysis is the analyzer's output for one page.
type Analysis struct {
	SectionTitle         string
	ChecklistDescription string
	AdditionalContent    string
	FeatureName          string
	FeatureDescription   string
	Testcases            []extract.RawTestCase
	Configs              []string
	Confidence           float64
	Method               string // "llm", "enhanced_llm" or "fallback"
}

// Analyzer drives the LLM extraction path.
type Analyzer struct {
	provider llm.Provider
	enhanced bool
}

// New creates an analyzer. enhanced enables block-wise re-analysis for pages
// where the single-shot pass finds few testcases.
func New(provider llm.Provider, enhanced bool) *Analyzer {
	return &Analyzer{provider: provider, enhanced: enhanced}
}

// Analyze extracts testcases and config references from normalized page
// content. It never returns an error: completion or decode failures degrade
// to the fallback result with confidence 0, letting the HTML path carry the
// page.
func (a *Analyzer) Analyze(ctx context.Context, title, content string) *Analysis {
	log := logging.New("llm-analyzer")

	analysis := a.analyzeOnce(ctx, title, content)

	if a.enhanced && len(analysis.Testcases) < enhancedThreshold {
		log.WithField("testcases", len(analysis.Testcases)).
			Debug("few testcases from single pass, running block analysis")
		analysis.Testcases = a.enhanceExtraction(ctx, content, analysis.Testcases)
		analysis.Method = "enhanced_llm"
	}

	return analysis
}

func (a *Analyzer) analyzeOnce(ctx context.Context, title, content string) *Analysis {
	log := logging.New("llm-analyzer")

	if a.provider == nil {
		return fallbackAnalysis(title, content)
	}

	reply, err := a.provider.Complete(ctx, systemPrompt, userPrompt(title, truncate(content, maxContentChars)), llm.Options{
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		log.WithError(err).Warn("completion failed, degrading to fallback")
		return fallbackAnalysis(title, content)
	}

	payload, err := decodeReply(reply)
	if err != nil {
		log.WithError(err).Warn("could not decode model reply, degrading to fallback")
		return fallbackAnalysis(title, content)
	}

	return &Analysis{
		SectionTitle:         payload.SectionTitle,
		ChecklistDescription: utils.CleanMarkdown(payload.ChecklistDescription),
		AdditionalContent:    utils.CleanMarkdown(payload.AdditionalContent),
		FeatureName:          defaultString(payload.FeatureName, "General"),
		FeatureDescription:   payload.FeatureDescription,
		Testcases:            payload.testcases(),
		Configs:              payload.Configs,
		Confidence:           payload.Confidence,
		Method:               "llm",
	}
}

// decodeReply slices the JSON object out of the raw reply (first '{' through
// last '}') and decodes it leniently.
func decodeReply(reply string) (*replyPayload, error) {
	object, err := utils.ExtractJSONObject(reply)
	if err != nil {
		return nil, err
	}
	var payload replyPayload
	if err := utils.SmartParse(object, &payload); err != nil {
		return nil, fmt.Errorf("decode analyzer reply: %w", err)
	}
	return &payload, nil
}

// fallbackAnalysis is the degraded result used whenever the model path
// fails: empty lists, confidence 0, a content snippet as additional context.
func fallbackAnalysis(title, content string) *Analysis {
	return &Analysis{
		FeatureName:       "General",
		AdditionalContent: truncate(content, 1000),
		Confidence:        0.0,
		Method:            "fallback",
	}
}

// replyPayload mirrors the JSON shape the system prompt specifies.
type replyPayload struct {
	SectionTitle         string      `json:"section_title"`
	ChecklistDescription string      `json:"checklist_description"`
	AdditionalContent    string      `json:"additional_content"`
	FeatureName          string      `json:"feature_name"`
	FeatureDescription   string      `json:"feature_description"`
	Testcases            []replyCase `json:"testcases"`
	Configs              []string    `json:"configs"`
	Confidence           float64     `json:"confidence"`
}

type replyCase struct {
	Step           string  `json:"step"`
	ExpectedResult string  `json:"expected_result"`
	Screenshot     *string `json:"screenshot"`
	Priority       *string `json:"priority"`
	TestGroup      *string `json:"test_group"`
	Functionality  *string `json:"functionality"`
	Config         *string `json:"config"`
	QAAutoCoverage *string `json:"qa_auto_coverage"`
	OrderIndex     int     `json:"order_index"`
}

// testcases converts the model's loose records into RawTestCase values.
// Unknown priorities become nil; a missing test_group defaults to GENERAL.
func (p *replyPayload) testcases() []extract.RawTestCase {
	out := make([]extract.RawTestCase, 0, len(p.Testcases))
	for i, rc := range p.Testcases {
		group := extract.GroupGeneral
		if rc.TestGroup != nil && strings.EqualFold(*rc.TestGroup, string(extract.GroupCustom)) {
			group = extract.GroupCustom
		}
		var priority *extract.Priority
		if rc.Priority != nil {
			priority = extract.ParsePriority(*rc.Priority)
		}
		out = append(out, extract.RawTestCase{
			Step:           strings.TrimSpace(rc.Step),
			ExpectedResult: strings.TrimSpace(rc.ExpectedResult),
			Priority:       priority,
			TestGroup:      group,
			Functionality:  emptyToNil(rc.Functionality),
			Config:         emptyToNil(rc.Config),
			QAAutoCoverage: emptyToNil(rc.QAAutoCoverage),
			Screenshot:     emptyToNil(rc.Screenshot),
			OrderIndex:     i,
		})
	}
	return out
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
