package model

import "time"

// Campaign 상태
const (
	CampaignGenerating = "generating"
	CampaignCompleted  = "completed"
	CampaignFailed     = "failed"
)

// Asset 타입
const (
	AssetText              = "text"
	AssetSocialMediaPost   = "social_media_post"
	AssetAdCopy            = "ad_copy"
	AssetEmailSubjectLines = "email_subject_lines"
	AssetImage             = "image"
	AssetEmail             = "email"
)

// WorkflowLog 상태
const (
	LogCompleted = "completed"
	LogFailed    = "failed"
)

// Brief - 사용자가 입력한 캠페인 브리프
// Tagline/Description은 Writer 단계 완료 후 Orchestrator가 채움
type Brief struct {
	Goal                 string   `json:"goal"`
	Tone                 string   `json:"tone"`
	Audience             string   `json:"audience"`
	Keywords             []string `json:"keywords,omitempty"`
	BrandName            string   `json:"brand_name,omitempty"`
	BrandColors          []string `json:"brand_colors,omitempty"`
	BrandFont            string   `json:"brand_font,omitempty"`
	BrandThemes          string   `json:"brand_themes,omitempty"`
	ImageryPreference    string   `json:"imagery_preference,omitempty"`
	VisualStyle          string   `json:"visual_style,omitempty"`
	ImageModel           string   `json:"image_model,omitempty"`
	TemplateInstructions string   `json:"template_instructions,omitempty"`
	Tagline              string   `json:"tagline,omitempty"`
	Description          string   `json:"description,omitempty"`
}

// Campaign - 생성 실행 단위 (1 캠페인 = 1 워크플로우 실행)
type Campaign struct {
	ID        string    `json:"campaign_id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"campaign_name"`
	Brief     Brief     `json:"brief"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Asset - 단계별 생성 결과물
// Content 형태는 Type에 따라 달라짐, URL은 image 타입에만 존재
type Asset struct {
	ID          string         `json:"asset_id"`
	CampaignID  string         `json:"campaign_id"`
	Type        string         `json:"asset_type"`
	Content     map[string]any `json:"content"`
	URL         string         `json:"url,omitempty"`
	Selected    bool           `json:"selected"`
	ViewCount   int            `json:"view_count"`
	ExportCount int            `json:"export_count"`
	CreatedAt   time.Time      `json:"created_at"`
}

// WorkflowLogEntry - 단계 실행 감사 기록 (append-only, 수정/삭제 없음)
type WorkflowLogEntry struct {
	ID         string         `json:"log_id,omitempty"`
	CampaignID string         `json:"campaign_id"`
	AgentName  string         `json:"agent_name"`
	Status     string         `json:"status"`
	DurationMS int64          `json:"duration_ms"`
	Input      map[string]any `json:"input,omitempty"`
	Output     map[string]any `json:"output,omitempty"`
	Summary    string         `json:"summary"`
	CreatedAt  time.Time      `json:"created_at,omitempty"`
}

// IsTextLike - 텍스트 계열 Asset 여부 (content merge 허용 대상)
func IsTextLike(assetType string) bool {
	switch assetType {
	case AssetText, AssetSocialMediaPost, AssetAdCopy, AssetEmailSubjectLines, AssetEmail:
		return true
	}
	return false
}
