package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const hfDefaultBaseURL = "https://api-inference.huggingface.co"

// hfProvider - Hugging Face Inference API (동기 방식)
// 요청 1번에 이미지 바이너리가 바로 돌아옴
type hfProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func newHFProvider(apiKey string) *hfProvider {
	return &hfProvider{
		apiKey:  apiKey,
		baseURL: hfDefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// hfParameters - HF inference 요청의 parameters 블록
type hfParameters struct {
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

// generate - 단일 호출로 이미지 생성
func (p *hfProvider) generate(ctx context.Context, remoteID string, model string, req Request) ([]byte, error) {
	log.Printf("🎨 [HF] Generating image with %s (prompt: %d chars)", remoteID, len(req.Prompt))

	body, err := json.Marshal(hfRequest{
		Inputs: req.Prompt,
		Parameters: hfParameters{
			NegativePrompt:    req.NegativePrompt,
			Width:             req.Width,
			Height:            req.Height,
			GuidanceScale:     req.GuidanceScale,
			NumInferenceSteps: req.Steps,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", p.baseURL, remoteID)
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		log.Printf("❌ [HF] Request failed: %v", err)
		return nil, &ProviderError{
			Provider:  ProviderHuggingFace,
			Model:     model,
			Message:   fmt.Sprintf("image generation with %s timed out or could not reach the provider - please try again", model),
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	// 상태 코드별로 사용자에게 보여줄 수 있는 메시지로 번역
	switch {
	case resp.StatusCode == http.StatusServiceUnavailable:
		return nil, &ProviderError{
			Provider:  ProviderHuggingFace,
			Model:     model,
			Message:   fmt.Sprintf("model %s is warming up - please retry in a moment", model),
			Retryable: true,
		}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &ProviderError{
			Provider:  ProviderHuggingFace,
			Model:     model,
			Message:   fmt.Sprintf("rate limit reached for %s - wait a moment and retry, or switch models", model),
			Retryable: true,
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, &ProviderError{
			Provider:  ProviderHuggingFace,
			Model:     model,
			Message:   "image provider rejected the credentials - please contact support",
			Retryable: false,
		}
	case resp.StatusCode != http.StatusOK:
		log.Printf("❌ [HF] Unexpected status %d for %s", resp.StatusCode, remoteID)
		return nil, &ProviderError{
			Provider:  ProviderHuggingFace,
			Model:     model,
			Message:   fmt.Sprintf("image generation with %s failed (status %d) - please try again", model, resp.StatusCode),
			Retryable: true,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image response: %w", err)
	}

	// provider가 겉보기만 정상인 빈 payload를 주는 경우 방어
	if len(data) < minImageBytes {
		log.Printf("❌ [HF] Response too small: %d bytes", len(data))
		return nil, &ProviderError{
			Provider:  ProviderHuggingFace,
			Model:     model,
			Message:   fmt.Sprintf("model %s returned an empty image - please try again", model),
			Retryable: true,
		}
	}

	log.Printf("✅ [HF] Image generated: %d bytes", len(data))
	return data, nil
}
