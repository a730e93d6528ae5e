package campaign

import (
	"fmt"
	"html"
	"strings"

	"campaignforge-server/modules/common/model"
)

// 브랜드 필드가 비어 있을 때 쓰는 기본값
const (
	defaultBrandColor = "#4F46E5"
	defaultBrandFont  = "Helvetica, Arial, sans-serif"
)

// renderEmailHTML - EmailContent를 HTML 문서로 렌더링
// 순수 함수: 같은 입력이면 항상 같은 문서 (LLM 호출 없음)
func renderEmailHTML(content *EmailContent, brief model.Brief) string {
	color := defaultBrandColor
	if len(brief.BrandColors) > 0 && brief.BrandColors[0] != "" {
		color = brief.BrandColors[0]
	}

	font := defaultBrandFont
	if brief.BrandFont != "" {
		font = brief.BrandFont
	}

	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(content.Subject))
	b.WriteString("</head>\n")
	fmt.Fprintf(&b, "<body style=\"margin:0;padding:0;font-family:%s;background-color:#f4f4f5;\">\n", html.EscapeString(font))

	// preheader: 받은편지함 미리보기 텍스트 (본문에는 보이지 않음)
	fmt.Fprintf(&b, "<div style=\"display:none;max-height:0;overflow:hidden;\">%s</div>\n",
		html.EscapeString(content.Preheader))

	b.WriteString("<table role=\"presentation\" width=\"100%\" cellpadding=\"0\" cellspacing=\"0\">\n")
	b.WriteString("<tr><td align=\"center\" style=\"padding:24px;\">\n")
	b.WriteString("<table role=\"presentation\" width=\"600\" cellpadding=\"0\" cellspacing=\"0\" style=\"background-color:#ffffff;border-radius:8px;\">\n")

	// 헤더 밴드 (브랜드 컬러)
	fmt.Fprintf(&b, "<tr><td style=\"background-color:%s;padding:32px;border-radius:8px 8px 0 0;\">\n",
		html.EscapeString(color))
	fmt.Fprintf(&b, "<h1 style=\"margin:0;color:#ffffff;font-size:28px;\">%s</h1>\n",
		html.EscapeString(content.Headline))
	b.WriteString("</td></tr>\n")

	// 본문
	b.WriteString("<tr><td style=\"padding:32px;\">\n")
	fmt.Fprintf(&b, "<p style=\"margin:0 0 24px 0;color:#374151;font-size:16px;line-height:1.6;\">%s</p>\n",
		html.EscapeString(content.Body))

	// CTA 버튼
	fmt.Fprintf(&b, "<a href=\"%s\" style=\"display:inline-block;background-color:%s;color:#ffffff;padding:14px 28px;border-radius:6px;text-decoration:none;font-weight:bold;\">%s</a>\n",
		html.EscapeString(content.CTAURL), html.EscapeString(color), html.EscapeString(content.CTAText))
	b.WriteString("</td></tr>\n")

	b.WriteString("</table>\n</td></tr>\n</table>\n")
	b.WriteString("</body>\n</html>\n")

	return b.String()
}

// renderEmailText - plain-text 버전 렌더링 (멀티파트 전송용)
func renderEmailText(content *EmailContent) string {
	var b strings.Builder

	b.WriteString(content.Headline)
	b.WriteString("\n\n")
	b.WriteString(content.Body)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s: %s\n", content.CTAText, content.CTAURL)

	return b.String()
}
