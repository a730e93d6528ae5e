package campaign

import "campaignforge-server/modules/common/model"

// CreateCampaignRequest - 캠페인 생성 요청 바디
type CreateCampaignRequest struct {
	CampaignName string      `json:"campaign_name"`
	Brief        model.Brief `json:"brief"`
}

// CreateCampaignResponse - 생성 직후 반환 (워크플로우 완료를 기다리지 않음)
type CreateCampaignResponse struct {
	CampaignID   string `json:"campaign_id"`
	CampaignName string `json:"campaign_name"`
	Status       string `json:"status"`
}

// SocialPosts - 플랫폼별 소셜 포스트
type SocialPosts struct {
	Twitter   string `json:"twitter"`
	LinkedIn  string `json:"linkedin"`
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
}

// AdCopy - 디스플레이 광고 카피
type AdCopy struct {
	Headline   string `json:"headline"`
	Body       string `json:"body"`
	CTA        string `json:"cta"`
	DisplayURL string `json:"display_url"`
}

// WriterOutput - Writer 단계 구조화 출력
type WriterOutput struct {
	Tagline           string      `json:"tagline"`
	Description       string      `json:"description"`
	SocialPosts       SocialPosts `json:"social_posts"`
	AdCopy            AdCopy      `json:"ad_copy"`
	EmailSubjectLines []string    `json:"email_subject_lines"`
}

// BrandCheckOutput - BrandChecker 단계 구조화 출력
type BrandCheckOutput struct {
	Verdict  string `json:"verdict"` // passed | failed | warning
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// LegalOutput - Legal 단계 구조화 출력
type LegalOutput struct {
	Approved       bool     `json:"approved"`
	Issues         []string `json:"issues"`
	Recommendation string   `json:"recommendation"`
}

// EmailContent - Email 단계 구조화 출력
type EmailContent struct {
	Subject   string `json:"subject"`
	Preheader string `json:"preheader"`
	Headline  string `json:"headline"`
	Body      string `json:"body"`
	CTAText   string `json:"cta_text"`
	CTAURL    string `json:"cta_url"`
}
