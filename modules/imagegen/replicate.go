package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const replicateDefaultBaseURL = "https://api.replicate.com"

// replicateProvider - Replicate predictions API (비동기 job + polling)
// job 생성 → 1초 간격 polling (최대 60회) → 결과 URL 다운로드
type replicateProvider struct {
	token          string
	baseURL        string
	createClient   *http.Client // job 생성: 10s
	downloadClient *http.Client // 결과 다운로드: 30s
	poller         Poller
}

func newReplicateProvider(token string) *replicateProvider {
	return &replicateProvider{
		token:          token,
		baseURL:        replicateDefaultBaseURL,
		createClient:   &http.Client{Timeout: 10 * time.Second},
		downloadClient: &http.Client{Timeout: 30 * time.Second},
		poller: Poller{
			Interval:    time.Second,
			MaxAttempts: 60,
		},
	}
}

// replicateInput - prediction input 블록
type replicateInput struct {
	Prompt            string  `json:"prompt"`
	NegativePrompt    string  `json:"negative_prompt,omitempty"`
	Width             int     `json:"width,omitempty"`
	Height            int     `json:"height,omitempty"`
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
}

type replicateCreateRequest struct {
	Version string         `json:"version"`
	Input   replicateInput `json:"input"`
}

type replicatePrediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// generate - job 생성 후 완료까지 polling, 결과 이미지 다운로드
func (p *replicateProvider) generate(ctx context.Context, version string, model string, req Request) ([]byte, error) {
	log.Printf("🎨 [Replicate] Creating prediction for %s", model)

	prediction, err := p.createPrediction(ctx, version, req)
	if err != nil {
		return nil, err
	}

	log.Printf("⏳ [Replicate] Polling prediction %s (1s interval, max %d attempts)",
		prediction.ID, p.poller.MaxAttempts)

	var final *replicatePrediction
	pollErr := p.poller.Poll(ctx, func(ctx context.Context) (bool, error) {
		current, err := p.fetchPrediction(ctx, prediction.ID)
		if err != nil {
			return false, err
		}

		switch current.Status {
		case "succeeded":
			final = current
			return true, nil
		case "failed":
			detail := current.Error
			if detail == "" {
				detail = "the provider reported a failure without detail"
			}
			return false, &ProviderError{
				Provider:  ProviderReplicate,
				Model:     model,
				Message:   fmt.Sprintf("image generation with %s failed: %s", model, detail),
				Retryable: false,
			}
		case "canceled":
			return false, &ProviderError{
				Provider:  ProviderReplicate,
				Model:     model,
				Message:   fmt.Sprintf("image generation with %s was canceled by the provider", model),
				Retryable: false,
			}
		default:
			// starting / processing - 계속 대기
			return false, nil
		}
	})

	if pollErr != nil {
		if errors.Is(pollErr, ErrPollExhausted) {
			return nil, &ProviderError{
				Provider:  ProviderReplicate,
				Model:     model,
				Message:   fmt.Sprintf("image generation with %s timed out after %d seconds - try a faster model", model, p.poller.MaxAttempts),
				Retryable: true,
			}
		}
		return nil, pollErr
	}

	outputURL, err := extractOutputURL(final.Output)
	if err != nil {
		return nil, &ProviderError{
			Provider:  ProviderReplicate,
			Model:     model,
			Message:   fmt.Sprintf("model %s finished without producing an image - please try again", model),
			Retryable: true,
		}
	}

	return p.downloadImage(ctx, outputURL, model)
}

// createPrediction - POST /v1/predictions
func (p *replicateProvider) createPrediction(ctx context.Context, version string, req Request) (*replicatePrediction, error) {
	body, err := json.Marshal(replicateCreateRequest{
		Version: version,
		Input: replicateInput{
			Prompt:            req.Prompt,
			NegativePrompt:    req.NegativePrompt,
			Width:             req.Width,
			Height:            req.Height,
			GuidanceScale:     req.GuidanceScale,
			NumInferenceSteps: req.Steps,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prediction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/predictions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.createClient.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{
			Provider:  ProviderReplicate,
			Message:   "could not reach the image provider to start the job - please try again",
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &ProviderError{
			Provider:  ProviderReplicate,
			Message:   "image provider rejected the credentials - please contact support",
			Retryable: false,
		}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		log.Printf("❌ [Replicate] Create prediction failed: status=%d", resp.StatusCode)
		return nil, &ProviderError{
			Provider:  ProviderReplicate,
			Message:   fmt.Sprintf("image provider refused the job (status %d) - please try again", resp.StatusCode),
			Retryable: true,
		}
	}

	var prediction replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to parse prediction response: %w", err)
	}

	if prediction.ID == "" {
		return nil, fmt.Errorf("provider returned a prediction without an id")
	}

	return &prediction, nil
}

// fetchPrediction - GET /v1/predictions/{id}
func (p *replicateProvider) fetchPrediction(ctx context.Context, id string) (*replicatePrediction, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", p.baseURL+"/v1/predictions/"+id, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create poll request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.token)

	resp, err := p.createClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to poll prediction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("poll returned status %d", resp.StatusCode)
	}

	var prediction replicatePrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("failed to parse poll response: %w", err)
	}

	return &prediction, nil
}

// downloadImage - 결과 URL에서 이미지 다운로드 (30s 타임아웃)
func (p *replicateProvider) downloadImage(ctx context.Context, url string, model string) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := p.downloadClient.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{
			Provider:  ProviderReplicate,
			Model:     model,
			Message:   fmt.Sprintf("downloading the generated image for %s timed out - please try again", model),
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Provider:  ProviderReplicate,
			Model:     model,
			Message:   fmt.Sprintf("could not download the generated image (status %d) - please try again", resp.StatusCode),
			Retryable: true,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	if len(data) < minImageBytes {
		return nil, &ProviderError{
			Provider:  ProviderReplicate,
			Model:     model,
			Message:   fmt.Sprintf("model %s returned an empty image - please try again", model),
			Retryable: true,
		}
	}

	log.Printf("✅ [Replicate] Image downloaded: %d bytes", len(data))
	return data, nil
}

// extractOutputURL - output이 문자열 또는 문자열 배열 양쪽 모두 올 수 있음
func extractOutputURL(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", fmt.Errorf("empty output")
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) > 0 && list[0] != "" {
			return list[0], nil
		}
		return "", fmt.Errorf("output list is empty")
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil && single != "" {
		return single, nil
	}

	return "", fmt.Errorf("unrecognized output shape")
}
