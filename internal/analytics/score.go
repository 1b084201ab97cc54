package analytics

// ScoreTier is the ordinal lead quality tier.
type ScoreTier string

const (
	TierLow    ScoreTier = "low"
	TierMedium ScoreTier = "medium"
	TierHigh   ScoreTier = "high"
)

// ScoreInputs are the behavioral signals collected on the page and passed in
// at submission time.
type ScoreInputs struct {
	TimeOnPageSeconds       int `json:"time_on_page"`
	ScrollDepthPercent      int `json:"scroll_depth"`
	CTAClicks               int `json:"cta_clicks"`
	SectionViews            int `json:"section_views"`
	CompletedOptionalFields int `json:"completed_optional_fields"`
}

// CalculateLeadScore derives the quality tier by additive point scoring with
// fixed thresholds. Pure function; it never blocks or fails the pipeline.
func CalculateLeadScore(in ScoreInputs) ScoreTier {
	score := 0

	if in.TimeOnPageSeconds > 120 {
		score += 2
	} else if in.TimeOnPageSeconds > 60 {
		score++
	}

	if in.ScrollDepthPercent >= 75 {
		score += 2
	} else if in.ScrollDepthPercent >= 50 {
		score++
	}

	if in.CTAClicks >= 2 {
		score++
	}
	if in.SectionViews >= 4 {
		score++
	}
	if in.CompletedOptionalFields >= 2 {
		score++
	}

	switch {
	case score >= 6:
		return TierHigh
	case score >= 3:
		return TierMedium
	default:
		return TierLow
	}
}
