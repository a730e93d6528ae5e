package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"google.golang.org/genai"

	"campaignforge-server/modules/common/config"
)

// GenerationFailure - 구조화 생성 실패
// 어느 단계에서 실패했는지와 원인을 함께 전달, 재시도 여부는 호출자가 결정
type GenerationFailure struct {
	Stage string
	Err   error
}

func (e *GenerationFailure) Error() string {
	return fmt.Sprintf("%s generation failed: %v", e.Stage, e.Err)
}

func (e *GenerationFailure) Unwrap() error {
	return e.Err
}

// Client - 스키마 제약 Gemini 호출 클라이언트
// 순수 request/response, 재시도/저장 없음
type Client struct {
	genai *genai.Client
	model string
}

// NewClient - Gemini 클라이언트 생성
func NewClient(ctx context.Context) (*Client, error) {
	cfg := config.GetConfig()

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Genai client: %w", err)
	}

	log.Printf("✅ Gemini client initialized: %s", cfg.GeminiTextModel)
	return &Client{
		genai: genaiClient,
		model: cfg.GeminiTextModel,
	}, nil
}

// GenerateStructured - 스키마에 맞는 JSON을 생성해서 out으로 파싱
// 모델 에러/스키마 불일치는 전부 GenerationFailure로 래핑
func (c *Client) GenerateStructured(ctx context.Context, stage string, prompt string, schema *genai.Schema, out any) error {
	log.Printf("🤖 [%s] Calling Gemini (prompt: %d chars)", stage, len(prompt))

	result, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return &GenerationFailure{Stage: stage, Err: err}
	}

	raw := result.Text()
	if raw == "" {
		return &GenerationFailure{Stage: stage, Err: fmt.Errorf("model returned empty response")}
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return &GenerationFailure{Stage: stage, Err: fmt.Errorf("model output does not match schema: %w", err)}
	}

	log.Printf("✅ [%s] Structured output received (%d chars)", stage, len(raw))
	return nil
}
