package regenerate

// 텍스트 재생성 대상 타입
const (
	ContentTagline = "tagline"
	ContentSocial  = "social"
	ContentAdCopy  = "adCopy"
)

// RegenerateTextRequest - 텍스트 재생성 요청
// steering 필드는 전부 optional, 있는 것만 프롬프트에 반영됨
type RegenerateTextRequest struct {
	ContentType        string   `json:"content_type"` // tagline | social | adCopy
	Feedback           string   `json:"feedback,omitempty"`
	ToneAdjustment     string   `json:"tone_adjustment,omitempty"`
	LengthPreference   string   `json:"length_preference,omitempty"`
	StyleTags          []string `json:"style_tags,omitempty"`
	CustomInstructions string   `json:"custom_instructions,omitempty"`
}

// RegenerateTextResponse - 재생성된 content 반환
type RegenerateTextResponse struct {
	AssetID     string         `json:"asset_id"`
	ContentType string         `json:"content_type"`
	Content     map[string]any `json:"content"`
}

// RegenerateImageRequest - 이미지 재생성 요청
// Prompt가 없으면 캠페인의 텍스트 asset + brief로 브랜드 프롬프트 재조립
type RegenerateImageRequest struct {
	Prompt         string  `json:"prompt,omitempty"`
	Model          string  `json:"model,omitempty"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	GuidanceScale  float64 `json:"guidance_scale,omitempty"`
	Steps          int     `json:"steps,omitempty"`
}

// RegenerateImageResponse - 새 이미지 URL과 사용된 모델/프로바이더
type RegenerateImageResponse struct {
	AssetID  string `json:"asset_id"`
	URL      string `json:"url"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
}
