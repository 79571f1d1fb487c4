package model

// SkillLevel is the self-declared experience level of the user
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// UserProfile tailors chat responses. It is supplied by the caller per
// chat turn; the server keeps no profile state.
type UserProfile struct {
	SkillLevel      SkillLevel `json:"skillLevel"`
	Role            string     `json:"role"`            // content-editor, developer, designer, site-owner, other
	PreferredDetail string     `json:"preferredDetail"` // step-by-step, summary, technical
}

// ScanRequest is the body of POST /api/scan
type ScanRequest struct {
	URL string `json:"url"`
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	ScanID      string       `json:"scanId"`
	Message     string       `json:"message"`
	UserProfile *UserProfile `json:"userProfile,omitempty"`
}

// ChatResponse is a rendered answer plus the IDs of the report issues it
// cites. Citations never reference an issue absent from the report.
type ChatResponse struct {
	Response          string   `json:"response"`
	Citations         []string `json:"citations"`
	NeedsProfileSetup bool     `json:"needsProfileSetup,omitempty"`
}
