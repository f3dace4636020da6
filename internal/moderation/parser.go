package moderation

import (
	"modboard/internal/models"
	"modboard/internal/normalize"
)

// Candidate field names for each canonical verdict field, evaluated in
// priority order. Verdict payloads come from several generations of an LLM
// prompt and disagree on spelling.
var (
	reasonKeys     = []string{"reasons", "issues"}
	confidenceKeys = []string{"confidence"}
	violationKeys  = []string{"has_violation", "violation", "blocked"}
)

const defaultConfidence = 0.8

// Parse converts a raw verdict payload of any of the known shapes into a
// canonical ModerationRecord. It never fails: anything unrecognizable
// collapses to the default safe record.
func Parse(raw any) models.ModerationRecord {
	payload, ok := raw.(map[string]any)
	if !ok {
		return models.DefaultModeration()
	}

	analysis := locateAnalysis(payload)
	decision := deriveDecision(analysis)
	isSafe, needsReview, isBlocked := decision.Flags()

	rec := models.ModerationRecord{
		IsSafe:          isSafe,
		NeedsReview:     needsReview,
		IsBlocked:       isBlocked,
		Reasons:         stringList(normalize.FirstRaw(analysis, reasonKeys...)),
		Confidence:      floatOr(normalize.FirstRaw(analysis, confidenceKeys...), defaultConfidence),
		CommentsBlocked: isBlocked,
		Results: models.VerdictResults{
			Overall: models.OverallVerdict{
				Decision:                decision,
				HasViolentContent:       truthy(analysis["violent_content"]),
				HasInappropriateContent: truthy(analysis["inappropriate_content"]),
				HasEmotionalContent:     truthy(analysis["emotional_content"]),
				HasExcessiveSlang:       truthy(analysis["excessive_slang"]),
			},
			Text:     parseContent(firstOf(payload, analysis, "text")),
			Image:    parseContent(firstOf(payload, analysis, "image")),
			Comments: parseComments(firstOf(payload, analysis, "comments")),
		},
	}
	return rec
}

// locateAnalysis finds the analysis object at one of the three known nesting
// depths: the payload itself, payload.analysis, or payload.overall.analysis.
func locateAnalysis(payload map[string]any) map[string]any {
	analysis := payload
	if a, ok := payload["analysis"].(map[string]any); ok {
		analysis = a
	}
	if overall, ok := payload["overall"].(map[string]any); ok {
		if a, ok := overall["analysis"].(map[string]any); ok {
			analysis = a
		}
	}
	return analysis
}

// deriveDecision resolves the decision string in priority order:
// final_decision, decision, then the is_safe / needs_review booleans.
func deriveDecision(analysis map[string]any) models.Decision {
	if s, ok := analysis["final_decision"].(string); ok && s != "" {
		return models.ParseDecision(s)
	}
	if s, ok := analysis["decision"].(string); ok && s != "" {
		return models.ParseDecision(s)
	}
	if b, ok := analysis["is_safe"].(bool); ok && !b {
		return models.DecisionBlock
	}
	if b, ok := analysis["needs_review"].(bool); ok && b {
		return models.DecisionReview
	}
	return models.DecisionSafe
}

// parseContent reads a text/image sub-verdict with the same shape tolerance
// as the top level. Missing input defaults to safe.
func parseContent(raw any) models.ContentVerdict {
	sub, ok := raw.(map[string]any)
	if !ok {
		return models.ContentVerdict{IsSafe: true, Reasons: []string{}, Confidence: defaultConfidence}
	}

	verdict := models.ContentVerdict{
		IsSafe:     !explicitlyFalse(sub["is_safe"]),
		Reasons:    stringList(normalize.FirstRaw(sub, reasonKeys...)),
		Confidence: floatOr(normalize.FirstRaw(sub, confidenceKeys...), defaultConfidence),
	}
	if truthy(normalize.FirstRaw(sub, violationKeys...)) {
		verdict.IsSafe = false
	}
	return verdict
}

func parseComments(raw any) models.CommentsVerdict {
	sub, ok := raw.(map[string]any)
	if !ok {
		return models.CommentsVerdict{IsSafe: true, Reasons: []string{}, Confidence: defaultConfidence}
	}
	return models.CommentsVerdict{
		IsSafe:       !explicitlyFalse(sub["is_safe"]),
		Reasons:      stringList(normalize.FirstRaw(sub, reasonKeys...)),
		Confidence:   floatOr(normalize.FirstRaw(sub, confidenceKeys...), defaultConfidence),
		BlockedCount: normalize.SafeParseInt(sub["blocked_count"], 0),
	}
}

// firstOf prefers the sub-verdict on the payload root over one nested in the
// analysis object.
func firstOf(payload, analysis map[string]any, key string) any {
	if v, ok := payload[key]; ok && v != nil {
		return v
	}
	return analysis[key]
}

func stringList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s := normalize.Stringify(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return []string{}
		}
		return []string{v}
	default:
		return []string{}
	}
}

func floatOr(raw any, def float64) float64 {
	switch v := raw.(type) {
	case float64:
		if v >= 0 && v <= 1 {
			return v
		}
		return def
	case int:
		if v == 0 || v == 1 {
			return float64(v)
		}
		return def
	default:
		return def
	}
}

func truthy(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		return v == "true" || v == "yes"
	case float64:
		return v != 0
	default:
		return false
	}
}

func explicitlyFalse(raw any) bool {
	b, ok := raw.(bool)
	return ok && !b
}
