package dto

type UpdatePreferenceRequest struct {
	EmailEnabled     *bool     `json:"email_enabled"`
	EmailAddress     *string   `json:"email_address" validate:"omitempty,email"`
	DropThresholdPct *float64  `json:"drop_threshold_pct" validate:"omitempty,gt=0,lt=1"`
	MutedKinds       *[]string `json:"muted_kinds"`
}

type PreferenceResponse struct {
	EmailEnabled     bool     `json:"email_enabled"`
	EmailAddress     string   `json:"email_address"`
	DropThresholdPct float64  `json:"drop_threshold_pct"`
	MutedKinds       []string `json:"muted_kinds"`
}
