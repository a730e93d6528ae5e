package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campaignforge-server/modules/common/model"
)

func testEmailContent() *EmailContent {
	return &EmailContent{
		Subject:   "Ship faster today",
		Preheader: "Your builds, but faster",
		Headline:  "Ship faster",
		Body:      "Cut build times in half.",
		CTAText:   "Get started",
		CTAURL:    "https://example.com/start",
	}
}

func TestRenderEmailHTMLDeterministic(t *testing.T) {
	content := testEmailContent()
	brief := model.Brief{BrandColors: []string{"#FF5500"}, BrandFont: "Georgia, serif"}

	first := renderEmailHTML(content, brief)
	second := renderEmailHTML(content, brief)

	assert.Equal(t, first, second)
}

func TestRenderEmailHTMLUsesBrandFields(t *testing.T) {
	brief := model.Brief{BrandColors: []string{"#FF5500"}, BrandFont: "Georgia, serif"}

	html := renderEmailHTML(testEmailContent(), brief)

	assert.Contains(t, html, "#FF5500")
	assert.Contains(t, html, "Georgia, serif")
	assert.Contains(t, html, "Ship faster")
	assert.Contains(t, html, "https://example.com/start")
	assert.Contains(t, html, "Your builds, but faster")
}

func TestRenderEmailHTMLDefaults(t *testing.T) {
	html := renderEmailHTML(testEmailContent(), model.Brief{})

	assert.Contains(t, html, defaultBrandColor)
	assert.Contains(t, html, defaultBrandFont)
}

func TestRenderEmailHTMLEscapesContent(t *testing.T) {
	content := testEmailContent()
	content.Headline = `<script>alert("x")</script>`

	html := renderEmailHTML(content, model.Brief{})

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestRenderEmailText(t *testing.T) {
	text := renderEmailText(testEmailContent())

	assert.Contains(t, text, "Ship faster")
	assert.Contains(t, text, "Cut build times in half.")
	assert.Contains(t, text, "Get started: https://example.com/start")
	assert.NotContains(t, text, "<", "plain-text rendering must not contain markup")
}
