package structs

import "pitchpilot/models"

// AnalyzePitchRequest mirrors the analysis API's analyze-pitch body minus
// user_id, which is taken from the authenticated session.
type AnalyzePitchRequest struct {
	StartupIdea     string `json:"startup_idea"`
	PitchDeckText   string `json:"pitch_deck_text,omitempty"`
	InvestorStage   string `json:"investor_stage" binding:"required,oneof=seed series_a series_b growth"`
	InvestorPersona string `json:"investor_persona" binding:"required,oneof=saas angel growth_vc institutional"`
	Industry        string `json:"industry"`
}

type AnalyzePitchResponse struct {
	PitchID string                `json:"pitchId"`
	Result  models.AnalysisResult `json:"result"`
}

// DashboardResponse aggregates the user's pitch history. Zero-valued
// stats, never NaN, when the history is empty.
type DashboardResponse struct {
	TotalPitches int            `json:"totalPitches"`
	AverageScore float64        `json:"averageScore"`
	BestScore    float64        `json:"bestScore"`
	Industries   int            `json:"industries"`
	Pitches      []models.Pitch `json:"pitches"`
}

type UpdateProfileRequest struct {
	DisplayName string `json:"displayName,omitempty"`
	Company     string `json:"company,omitempty"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}
