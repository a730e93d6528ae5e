package imagegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildBrandPromptDeterministic(t *testing.T) {
	params := PromptParams{
		BaseContext:       "Marketing campaign visual for: Launch day. Our new product.",
		ImageryPreference: "photography",
		VisualStyle:       "vibrant",
		BrandColors:       []string{"#FF0000", "#00FF00"},
		BrandThemes:       "innovation, speed",
		Tone:              "energetic",
		Audience:          "young professionals",
	}

	first := BuildBrandPrompt(params)
	second := BuildBrandPrompt(params)

	assert.Equal(t, first, second, "identical inputs must produce identical prompts")
}

func TestBuildBrandPromptClauses(t *testing.T) {
	prompt := BuildBrandPrompt(PromptParams{
		BaseContext:       "Product launch",
		ImageryPreference: "illustration",
		VisualStyle:       "minimal",
		BrandColors:       []string{"navy blue"},
		BrandThemes:       "trust",
		Tone:              "calm",
		Audience:          "enterprise buyers",
	})

	assert.Contains(t, prompt, "Product launch")
	assert.Contains(t, prompt, "vector illustration")
	assert.Contains(t, prompt, "minimalist")
	assert.Contains(t, prompt, "navy blue")
	assert.Contains(t, prompt, "trust")
	assert.Contains(t, prompt, "calm")
	assert.Contains(t, prompt, "enterprise buyers")
	assert.Contains(t, prompt, "No text, no words")
}

func TestBuildBrandPromptUnknownVisualStyleFallsBack(t *testing.T) {
	prompt := BuildBrandPrompt(PromptParams{
		BaseContext: "Product launch",
		VisualStyle: "brutalist concrete",
	})

	// 테이블에 없는 값은 raw 값 그대로 들어감
	assert.Contains(t, prompt, "brutalist concrete")
}

func TestBuildBrandPromptCapsColorsAtTwo(t *testing.T) {
	prompt := BuildBrandPrompt(PromptParams{
		BaseContext: "Product launch",
		BrandColors: []string{"red", "green", "blue"},
	})

	assert.Contains(t, prompt, "red and green")
	assert.NotContains(t, prompt, "blue")
}

func TestBuildBrandPromptOmitsEmptyClauses(t *testing.T) {
	prompt := BuildBrandPrompt(PromptParams{BaseContext: "Product launch"})

	assert.NotContains(t, prompt, "Brand color palette")
	assert.NotContains(t, prompt, "Brand themes")
	assert.NotContains(t, prompt, "Mood:")
	assert.NotContains(t, prompt, "Designed to appeal to")
	assert.Contains(t, prompt, "No text, no words")
}
