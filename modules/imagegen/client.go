package imagegen

import (
	"context"
	"log"
	"strings"

	"campaignforge-server/modules/common/config"
)

// Client - 모델 ID 기준으로 HF/Replicate 중 맞는 provider로 라우팅
// 크레덴셜이 없는 provider는 nil로 두고 첫 사용 시점에 ConfigError로 표면화
type Client struct {
	hf        *hfProvider
	replicate *replicateProvider
}

// NewClient - 설정에 있는 크레덴셜만으로 provider 구성
func NewClient() *Client {
	cfg := config.GetConfig()

	client := &Client{}

	if cfg.HFAPIKey != "" {
		client.hf = newHFProvider(cfg.HFAPIKey)
		log.Printf("✅ [ImageGen] Hugging Face provider ready")
	} else {
		log.Printf("⚠️ [ImageGen] HF_API_KEY not set - Hugging Face models disabled")
	}

	if cfg.ReplicateAPIToken != "" {
		client.replicate = newReplicateProvider(cfg.ReplicateAPIToken)
		log.Printf("✅ [ImageGen] Replicate provider ready")
	} else {
		log.Printf("⚠️ [ImageGen] REPLICATE_API_TOKEN not set - Replicate models disabled")
	}

	return client
}

// SupportedModel - 모델 ID가 라우팅 테이블에 있는지
func SupportedModel(model string) bool {
	_, ok := modelTable[model]
	return ok
}

// Generate - 요청 검증 후 모델에 맞는 provider로 전달
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	req.Prompt = strings.TrimSpace(req.Prompt)
	if req.Prompt == "" {
		return nil, ErrEmptyPrompt
	}

	if req.Model == "" {
		req.Model = DefaultModel
	}

	spec, ok := modelTable[req.Model]
	if !ok {
		return nil, &InvalidModelError{Model: req.Model}
	}

	var (
		data []byte
		err  error
	)

	switch spec.provider {
	case ProviderHuggingFace:
		if c.hf == nil {
			return nil, &ConfigError{Credential: "HF_API_KEY"}
		}
		data, err = c.hf.generate(ctx, spec.remoteID, req.Model, req)
	case ProviderReplicate:
		if c.replicate == nil {
			return nil, &ConfigError{Credential: "REPLICATE_API_TOKEN"}
		}
		data, err = c.replicate.generate(ctx, spec.remoteID, req.Model, req)
	}

	if err != nil {
		return nil, err
	}

	return &Result{
		Bytes:    data,
		Model:    req.Model,
		Provider: spec.provider,
	}, nil
}
