package gemini

import "google.golang.org/genai"

// 플랫폼별 소셜 포스트 글자수 제한
const (
	maxTwitterLen   = 280
	maxLinkedInLen  = 700
	maxInstagramLen = 400
	maxFacebookLen  = 500
)

// socialPostsSchema - 4개 플랫폼용 소셜 포스트
func socialPostsSchema() *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: "Social media posts tailored per platform",
		Properties: map[string]*genai.Schema{
			"twitter": {
				Type:        genai.TypeString,
				Description: "Twitter/X post, punchy and hashtag-friendly",
				MaxLength:   genai.Ptr(int64(maxTwitterLen)),
			},
			"linkedin": {
				Type:        genai.TypeString,
				Description: "LinkedIn post, professional tone",
				MaxLength:   genai.Ptr(int64(maxLinkedInLen)),
			},
			"instagram": {
				Type:        genai.TypeString,
				Description: "Instagram caption, casual with emoji allowed",
				MaxLength:   genai.Ptr(int64(maxInstagramLen)),
			},
			"facebook": {
				Type:        genai.TypeString,
				Description: "Facebook post, conversational",
				MaxLength:   genai.Ptr(int64(maxFacebookLen)),
			},
		},
		Required: []string{"twitter", "linkedin", "instagram", "facebook"},
	}
}

// adCopySchema - 디스플레이 광고 카피
func adCopySchema() *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeObject,
		Description: "Display ad copy with character limits",
		Properties: map[string]*genai.Schema{
			"headline": {
				Type:        genai.TypeString,
				Description: "Ad headline",
				MaxLength:   genai.Ptr(int64(30)),
			},
			"body": {
				Type:        genai.TypeString,
				Description: "Ad body text",
				MaxLength:   genai.Ptr(int64(90)),
			},
			"cta": {
				Type:        genai.TypeString,
				Description: "Call-to-action button text",
				MaxLength:   genai.Ptr(int64(15)),
			},
			"display_url": {
				Type:        genai.TypeString,
				Description: "Display URL shown on the ad",
				MaxLength:   genai.Ptr(int64(35)),
			},
		},
		Required: []string{"headline", "body", "cta", "display_url"},
	}
}

// WriterSchema - Writer 단계 출력 스키마
// tagline/description + 소셜 포스트 4종 + 광고 카피 + 이메일 제목 3안
func WriterSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tagline": {
				Type:        genai.TypeString,
				Description: "Short memorable campaign tagline",
				MaxLength:   genai.Ptr(int64(100)),
			},
			"description": {
				Type:        genai.TypeString,
				Description: "Campaign description, 2-3 sentences",
				MaxLength:   genai.Ptr(int64(600)),
			},
			"social_posts": socialPostsSchema(),
			"ad_copy":      adCopySchema(),
			"email_subject_lines": {
				Type:        genai.TypeArray,
				Description: "Exactly three alternative email subject lines",
				Items: &genai.Schema{
					Type:      genai.TypeString,
					MaxLength: genai.Ptr(int64(80)),
				},
				MinItems: genai.Ptr(int64(3)),
				MaxItems: genai.Ptr(int64(3)),
			},
		},
		Required: []string{"tagline", "description", "social_posts", "ad_copy", "email_subject_lines"},
	}
}

// BrandCheckSchema - BrandChecker 단계 출력 스키마
func BrandCheckSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"verdict": {
				Type:        genai.TypeString,
				Description: "Overall brand consistency verdict",
				Enum:        []string{"passed", "failed", "warning"},
			},
			"score": {
				Type:        genai.TypeInteger,
				Description: "Brand consistency score",
				Minimum:     genai.Ptr(0.0),
				Maximum:     genai.Ptr(100.0),
			},
			"feedback": {
				Type:        genai.TypeString,
				Description: "Free-text feedback for a human reviewer",
			},
		},
		Required: []string{"verdict", "score", "feedback"},
	}
}

// LegalSchema - Legal 단계 출력 스키마
func LegalSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"approved": {
				Type:        genai.TypeBoolean,
				Description: "Whether the copy passes a compliance review",
			},
			"issues": {
				Type:        genai.TypeArray,
				Description: "List of potential compliance issues found",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"recommendation": {
				Type:        genai.TypeString,
				Description: "Free-text recommendation",
			},
		},
		Required: []string{"approved", "issues", "recommendation"},
	}
}

// EmailSchema - Email 단계 출력 스키마
func EmailSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"subject":   {Type: genai.TypeString, Description: "Email subject line"},
			"preheader": {Type: genai.TypeString, Description: "Preview text shown next to the subject"},
			"headline":  {Type: genai.TypeString, Description: "Headline inside the email body"},
			"body":      {Type: genai.TypeString, Description: "Main email body text"},
			"cta_text":  {Type: genai.TypeString, Description: "Call-to-action button text"},
			"cta_url":   {Type: genai.TypeString, Description: "Call-to-action URL placeholder"},
		},
		Required: []string{"subject", "preheader", "headline", "body", "cta_text", "cta_url"},
	}
}

// TaglineSchema - tagline 재생성용 (Writer 서브 스키마)
func TaglineSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"tagline": {
				Type:        genai.TypeString,
				Description: "Short memorable campaign tagline",
				MaxLength:   genai.Ptr(int64(100)),
			},
		},
		Required: []string{"tagline"},
	}
}

// SocialSchema - 소셜 포스트 재생성용 (Writer 서브 스키마)
func SocialSchema() *genai.Schema {
	return socialPostsSchema()
}

// AdCopySchema - 광고 카피 재생성용 (Writer 서브 스키마)
func AdCopySchema() *genai.Schema {
	return adCopySchema()
}
