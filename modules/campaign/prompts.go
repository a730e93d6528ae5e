package campaign

import (
	"fmt"
	"strings"

	"campaignforge-server/modules/common/model"
)

// buildWriterPrompt - Writer 단계 프롬프트 조립
func buildWriterPrompt(brief model.Brief) string {
	var b strings.Builder

	b.WriteString("You are a senior marketing copywriter. Create complete campaign copy for the following brief.\n\n")
	fmt.Fprintf(&b, "Campaign goal: %s\n", brief.Goal)
	fmt.Fprintf(&b, "Tone of voice: %s\n", brief.Tone)
	fmt.Fprintf(&b, "Target audience: %s\n", brief.Audience)

	if len(brief.Keywords) > 0 {
		fmt.Fprintf(&b, "Keywords to work in: %s\n", strings.Join(brief.Keywords, ", "))
	}
	if brief.BrandName != "" {
		fmt.Fprintf(&b, "Brand name: %s\n", brief.BrandName)
	}
	if brief.BrandThemes != "" {
		fmt.Fprintf(&b, "Brand themes: %s\n", brief.BrandThemes)
	}
	if brief.TemplateInstructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", brief.TemplateInstructions)
	}

	b.WriteString("\nProduce a tagline, a short campaign description, platform-native social posts, ")
	b.WriteString("display ad copy within the character limits, and exactly three alternative email subject lines.")

	return b.String()
}

// buildBrandCheckPrompt - BrandChecker 단계 프롬프트 (Writer 출력 검토)
func buildBrandCheckPrompt(brief model.Brief, writer *WriterOutput) string {
	var b strings.Builder

	b.WriteString("You are a brand consistency reviewer. Evaluate whether the campaign copy below matches the brand profile.\n\n")
	fmt.Fprintf(&b, "Brand tone: %s\n", brief.Tone)
	fmt.Fprintf(&b, "Target audience: %s\n", brief.Audience)
	if brief.BrandName != "" {
		fmt.Fprintf(&b, "Brand name: %s\n", brief.BrandName)
	}
	if brief.BrandThemes != "" {
		fmt.Fprintf(&b, "Brand themes: %s\n", brief.BrandThemes)
	}

	b.WriteString("\nCopy under review:\n")
	fmt.Fprintf(&b, "Tagline: %s\n", writer.Tagline)
	fmt.Fprintf(&b, "Description: %s\n", writer.Description)
	fmt.Fprintf(&b, "Twitter: %s\n", writer.SocialPosts.Twitter)
	fmt.Fprintf(&b, "LinkedIn: %s\n", writer.SocialPosts.LinkedIn)
	fmt.Fprintf(&b, "Ad headline: %s / body: %s\n", writer.AdCopy.Headline, writer.AdCopy.Body)

	b.WriteString("\nReturn a verdict (passed, failed, or warning), a 0-100 consistency score, and actionable feedback.")

	return b.String()
}

// buildLegalPrompt - Legal 단계 프롬프트 (컴플라이언스 검토)
func buildLegalPrompt(writer *WriterOutput) string {
	var b strings.Builder

	b.WriteString("You are a marketing compliance reviewer. Check the copy below for legal or regulatory issues: ")
	b.WriteString("unsubstantiated claims, misleading superlatives, guarantees, medical or financial promises.\n\n")
	fmt.Fprintf(&b, "Tagline: %s\n", writer.Tagline)
	fmt.Fprintf(&b, "Description: %s\n", writer.Description)
	fmt.Fprintf(&b, "Ad copy: %s - %s (%s)\n", writer.AdCopy.Headline, writer.AdCopy.Body, writer.AdCopy.CTA)

	b.WriteString("\nReturn whether the copy is approved, a list of specific issues found (empty if none), and a recommendation.")

	return b.String()
}

// buildEmailPrompt - Email 단계 프롬프트
func buildEmailPrompt(brief model.Brief, writer *WriterOutput) string {
	var b strings.Builder

	b.WriteString("You are an email marketing specialist. Write a complete marketing email for this campaign.\n\n")
	fmt.Fprintf(&b, "Campaign goal: %s\n", brief.Goal)
	fmt.Fprintf(&b, "Tone: %s\n", brief.Tone)
	fmt.Fprintf(&b, "Audience: %s\n", brief.Audience)
	fmt.Fprintf(&b, "Tagline: %s\n", writer.Tagline)
	fmt.Fprintf(&b, "Description: %s\n", writer.Description)
	if len(writer.EmailSubjectLines) > 0 {
		fmt.Fprintf(&b, "Candidate subject lines: %s\n", strings.Join(writer.EmailSubjectLines, " | "))
	}
	if brief.BrandName != "" {
		fmt.Fprintf(&b, "Brand name: %s\n", brief.BrandName)
	}

	b.WriteString("\nProduce a subject line, preheader text, a headline, body copy, CTA button text, and a CTA URL placeholder.")

	return b.String()
}
