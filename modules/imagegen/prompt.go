package imagegen

import "strings"

// PromptParams - 브랜드 프롬프트 조립 입력
// 전부 optional (BaseContext 제외), 빈 값은 절에서 생략
type PromptParams struct {
	BaseContext       string
	ImageryPreference string
	VisualStyle       string
	BrandColors       []string
	BrandThemes       string
	Tone              string
	Audience          string
}

// imageryDescriptors - imagery preference → 스타일 묘사 구문
var imageryDescriptors = map[string]string{
	"photography":  "professional photography, realistic lighting, shallow depth of field",
	"illustration": "clean vector illustration, flat design, bold shapes",
	"3d":           "polished 3D render, soft studio lighting, smooth materials",
	"abstract":     "abstract composition, geometric forms, dynamic negative space",
}

// visualStyleDescriptors - visual style → 묘사 구문
// 테이블에 없는 값은 raw 값 그대로 사용
var visualStyleDescriptors = map[string]string{
	"minimal":   "minimalist aesthetic, generous whitespace, restrained palette",
	"vibrant":   "vibrant saturated colors, high energy, strong contrast",
	"elegant":   "elegant and refined, premium feel, subtle gradients",
	"playful":   "playful and fun, rounded shapes, friendly mood",
	"corporate": "corporate and trustworthy, clean lines, muted professional tones",
}

const qualitySuffix = "High quality, professional marketing visual, sharp focus. " +
	"No text, no words, no letters, no watermarks, no logos."

// BuildBrandPrompt - 브리프 필드를 이미지 생성 프롬프트로 조립
// 순수 함수: 같은 입력이면 항상 같은 문자열 (regenerate preview 재현성)
func BuildBrandPrompt(params PromptParams) string {
	var b strings.Builder

	b.WriteString(strings.TrimSpace(params.BaseContext))

	if desc, ok := imageryDescriptors[params.ImageryPreference]; ok {
		b.WriteString(". Style: ")
		b.WriteString(desc)
	}

	if params.VisualStyle != "" {
		desc, ok := visualStyleDescriptors[params.VisualStyle]
		if !ok {
			desc = params.VisualStyle
		}
		b.WriteString(". Visual direction: ")
		b.WriteString(desc)
	}

	// 색이 3개 이상이면 프롬프트가 흐려져서 앞의 2개만 사용
	if len(params.BrandColors) > 0 {
		colors := params.BrandColors
		if len(colors) > 2 {
			colors = colors[:2]
		}
		b.WriteString(". Brand color palette: ")
		b.WriteString(strings.Join(colors, " and "))
	}

	if params.BrandThemes != "" {
		b.WriteString(". Brand themes: ")
		b.WriteString(params.BrandThemes)
	}

	if params.Tone != "" {
		b.WriteString(". Mood: ")
		b.WriteString(params.Tone)
	}

	if params.Audience != "" {
		b.WriteString(". Designed to appeal to ")
		b.WriteString(params.Audience)
	}

	b.WriteString(". ")
	b.WriteString(qualitySuffix)

	return b.String()
}
