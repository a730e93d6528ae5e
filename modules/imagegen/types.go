package imagegen

import (
	"errors"
	"fmt"
)

// 지원 모델 ID (고정 목록)
const (
	ModelFluxSchnell = "flux-schnell"
	ModelSDXL        = "sdxl"
	ModelFluxDev     = "flux-dev"
	ModelSeedream    = "seedream"

	DefaultModel = ModelFluxSchnell
)

// Provider 이름
const (
	ProviderHuggingFace = "huggingface"
	ProviderReplicate   = "replicate"
)

// 이 크기 미만의 응답은 placeholder/빈 이미지로 간주
const minImageBytes = 1024

type modelSpec struct {
	provider string
	remoteID string
}

// modelTable - 모델 ID → provider 라우팅 테이블
var modelTable = map[string]modelSpec{
	ModelFluxSchnell: {provider: ProviderHuggingFace, remoteID: "black-forest-labs/FLUX.1-schnell"},
	ModelSDXL:        {provider: ProviderHuggingFace, remoteID: "stabilityai/stable-diffusion-xl-base-1.0"},
	ModelFluxDev:     {provider: ProviderReplicate, remoteID: "6e4a938bc9f7bbbfa6a8b8ee84d19f4e1e4f8a8f2b15c26e049cc7f3e0a58eab"},
	ModelSeedream:    {provider: ProviderReplicate, remoteID: "8d0b1ba949a49b67a2b1c8dbcfb8f0e98e9a6e07f925d4e4b33e45aac5e36a2c"},
}

// Request - provider-agnostic 이미지 생성 요청
type Request struct {
	Model          string  `json:"model,omitempty"`
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	GuidanceScale  float64 `json:"guidance_scale,omitempty"`
	Steps          int     `json:"steps,omitempty"`
}

// Result - 생성 결과 (실제 사용된 모델/프로바이더 포함)
type Result struct {
	Bytes    []byte
	Model    string
	Provider string
}

// ErrEmptyPrompt - 빈 프롬프트 (네트워크 호출 전에 거부)
var ErrEmptyPrompt = errors.New("image prompt is empty")

// ConfigError - 크레덴셜 미설정 (transient 에러와 구분, 재시도 무의미)
type ConfigError struct {
	Credential string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("image provider is not configured: %s is missing", e.Credential)
}

// InvalidModelError - 지원 목록에 없는 모델
type InvalidModelError struct {
	Model string
}

func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("unsupported image model: %q", e.Model)
}

// ProviderError - provider가 보고한 실패
// Message는 그대로 사용자에게 노출 가능해야 함 (스택/시크릿/원본 페이로드 금지)
type ProviderError struct {
	Provider  string
	Model     string
	Message   string
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Message
}
