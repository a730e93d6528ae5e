package regenerate

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"campaignforge-server/modules/common/model"
	"campaignforge-server/modules/imagegen"
)

// fakeStore - in-memory Store 구현
type fakeStore struct {
	assets    map[string]*model.Asset
	campaigns map[string]*model.Campaign
	logs      []*model.WorkflowLogEntry

	failContentUpdate bool
	failImageUpdate   bool
}

func (f *fakeStore) FetchAsset(ctx context.Context, assetID string) (*model.Asset, error) {
	asset, ok := f.assets[assetID]
	if !ok {
		return nil, fmt.Errorf("asset not found: %s", assetID)
	}
	copied := *asset
	return &copied, nil
}

func (f *fakeStore) FetchCampaign(ctx context.Context, campaignID string) (*model.Campaign, error) {
	campaign, ok := f.campaigns[campaignID]
	if !ok {
		return nil, fmt.Errorf("campaign not found: %s", campaignID)
	}
	return campaign, nil
}

func (f *fakeStore) FetchCampaignAssetByType(ctx context.Context, campaignID string, assetType string) (*model.Asset, error) {
	for _, asset := range f.assets {
		if asset.CampaignID == campaignID && asset.Type == assetType {
			return asset, nil
		}
	}
	return nil, fmt.Errorf("no %s asset for campaign %s", assetType, campaignID)
}

func (f *fakeStore) UpdateAssetContent(ctx context.Context, assetID string, content map[string]any) error {
	if f.failContentUpdate {
		return fmt.Errorf("database unavailable")
	}
	f.assets[assetID].Content = content
	return nil
}

func (f *fakeStore) UpdateAssetImage(ctx context.Context, assetID string, url string, content map[string]any) error {
	if f.failImageUpdate {
		return fmt.Errorf("database unavailable")
	}
	f.assets[assetID].URL = url
	f.assets[assetID].Content = content
	return nil
}

func (f *fakeStore) CreateWorkflowLog(ctx context.Context, entry *model.WorkflowLogEntry) error {
	f.logs = append(f.logs, entry)
	return nil
}

// fakeText - canned JSON을 out으로 파싱해주는 TextGenerator
type fakeText struct {
	response map[string]any
	err      error
	calls    int
}

func (f *fakeText) GenerateStructured(ctx context.Context, stage string, prompt string, schema *genai.Schema, out any) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	raw, _ := json.Marshal(f.response)
	return json.Unmarshal(raw, out)
}

// fakeImages - 고정 결과 ImageGenerator
type fakeImages struct {
	err   error
	calls int
}

func (f *fakeImages) Generate(ctx context.Context, req imagegen.Request) (*imagegen.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &imagegen.Result{
		Bytes:    []byte("fake-image-bytes"),
		Model:    imagegen.DefaultModel,
		Provider: imagegen.ProviderHuggingFace,
	}, nil
}

// fakeObjects - 업로드 없이 URL만 생성
type fakeObjects struct {
	err error
}

func (f *fakeObjects) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.test/bucket/" + key, nil
}

func newTestStore() *fakeStore {
	return &fakeStore{
		campaigns: map[string]*model.Campaign{
			"camp-1": {
				ID:     "camp-1",
				UserID: "user-1",
				Status: model.CampaignCompleted,
				Brief: model.Brief{
					Goal:     "Launch the new build tool",
					Tone:     "confident",
					Audience: "developers",
				},
			},
		},
		assets: map[string]*model.Asset{
			"text-1": {
				ID:         "text-1",
				CampaignID: "camp-1",
				Type:       model.AssetText,
				Content:    map[string]any{"tagline": "A", "description": "B"},
			},
			"social-1": {
				ID:         "social-1",
				CampaignID: "camp-1",
				Type:       model.AssetSocialMediaPost,
				Content:    map[string]any{"twitter": "x", "linkedin": "y", "instagram": "z", "facebook": "w"},
			},
			"image-1": {
				ID:         "image-1",
				CampaignID: "camp-1",
				Type:       model.AssetImage,
				URL:        "https://cdn.test/bucket/old.webp",
				Content:    map[string]any{"model": "flux-schnell"},
			},
		},
	}
}

func TestRegenerateTaglineMergesContent(t *testing.T) {
	store := newTestStore()
	text := &fakeText{response: map[string]any{"tagline": "C"}}

	svc := NewService(store, text, &fakeImages{}, &fakeObjects{})
	resp, err := svc.RegenerateText(context.Background(), "user-1", "text-1", &RegenerateTextRequest{
		ContentType: ContentTagline,
	})

	require.NoError(t, err)
	assert.Equal(t, "C", resp.Content["tagline"])
	assert.Equal(t, "B", resp.Content["description"], "description must survive tagline regeneration")
	assert.Equal(t, "B", store.assets["text-1"].Content["description"])
}

func TestRegenerateSocialReplacesContent(t *testing.T) {
	store := newTestStore()
	store.assets["social-1"].Content["legacy_field"] = "stale"
	text := &fakeText{response: map[string]any{
		"twitter": "nx", "linkedin": "ny", "instagram": "nz", "facebook": "nw",
	}}

	svc := NewService(store, text, &fakeImages{}, &fakeObjects{})
	resp, err := svc.RegenerateText(context.Background(), "user-1", "social-1", &RegenerateTextRequest{
		ContentType: ContentSocial,
	})

	require.NoError(t, err)
	assert.Equal(t, "nx", resp.Content["twitter"])
	assert.NotContains(t, resp.Content, "legacy_field", "full replacement must drop stale keys")
	assert.Len(t, resp.Content, 4)
}

func TestRegenerateTextTypeMismatchRejectedBeforeGeneration(t *testing.T) {
	store := newTestStore()
	text := &fakeText{response: map[string]any{"tagline": "C"}}

	svc := NewService(store, text, &fakeImages{}, &fakeObjects{})
	_, err := svc.RegenerateText(context.Background(), "user-1", "image-1", &RegenerateTextRequest{
		ContentType: ContentTagline,
	})

	require.Error(t, err)
	assert.Zero(t, text.calls, "no model call may happen for a mismatched asset type")
}

func TestRegenerateTextUnknownContentType(t *testing.T) {
	store := newTestStore()
	text := &fakeText{}

	svc := NewService(store, text, &fakeImages{}, &fakeObjects{})
	_, err := svc.RegenerateText(context.Background(), "user-1", "text-1", &RegenerateTextRequest{
		ContentType: "haiku",
	})

	require.Error(t, err)
	assert.Zero(t, text.calls)
}

func TestRegenerateTextWrongOwnerRejected(t *testing.T) {
	store := newTestStore()
	text := &fakeText{}

	svc := NewService(store, text, &fakeImages{}, &fakeObjects{})
	_, err := svc.RegenerateText(context.Background(), "intruder", "text-1", &RegenerateTextRequest{
		ContentType: ContentTagline,
	})

	require.Error(t, err)
	assert.Zero(t, text.calls)
}

func TestRegenerateTextIncompleteOutputRejected(t *testing.T) {
	store := newTestStore()
	// facebook 필드 누락
	text := &fakeText{response: map[string]any{"twitter": "nx", "linkedin": "ny", "instagram": "nz"}}

	svc := NewService(store, text, &fakeImages{}, &fakeObjects{})
	_, err := svc.RegenerateText(context.Background(), "user-1", "social-1", &RegenerateTextRequest{
		ContentType: ContentSocial,
	})

	require.Error(t, err)
	// 기존 content는 건드리지 않음
	assert.Equal(t, "x", store.assets["social-1"].Content["twitter"])
}

func TestRegenerateTextPersistFailureDistinguished(t *testing.T) {
	store := newTestStore()
	store.failContentUpdate = true
	text := &fakeText{response: map[string]any{"tagline": "C"}}

	svc := NewService(store, text, &fakeImages{}, &fakeObjects{})
	_, err := svc.RegenerateText(context.Background(), "user-1", "text-1", &RegenerateTextRequest{
		ContentType: ContentTagline,
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be saved")
	assert.NotContains(t, err.Error(), "database unavailable", "internal error detail must not leak")
}

func TestRegenerateImageOverwritesAsset(t *testing.T) {
	store := newTestStore()
	images := &fakeImages{}

	svc := NewService(store, &fakeText{}, images, &fakeObjects{})
	resp, err := svc.RegenerateImage(context.Background(), "user-1", "image-1", &RegenerateImageRequest{})

	require.NoError(t, err)
	assert.Equal(t, 1, images.calls)
	assert.NotEqual(t, "https://cdn.test/bucket/old.webp", resp.URL)
	assert.Equal(t, resp.URL, store.assets["image-1"].URL)
	assert.Equal(t, imagegen.DefaultModel, resp.Model)

	// content 메타데이터 갱신 확인
	content := store.assets["image-1"].Content
	assert.Equal(t, imagegen.ProviderHuggingFace, content["provider"])
	assert.NotEmpty(t, content["prompt"])
	assert.NotEmpty(t, content["generated_at"])
}

func TestRegenerateImageUsesCustomPrompt(t *testing.T) {
	store := newTestStore()
	// 텍스트 asset 없이도 custom prompt가 있으면 동작해야 함
	delete(store.assets, "text-1")

	svc := NewService(store, &fakeText{}, &fakeImages{}, &fakeObjects{})
	resp, err := svc.RegenerateImage(context.Background(), "user-1", "image-1", &RegenerateImageRequest{
		Prompt: "a custom neon skyline",
	})

	require.NoError(t, err)
	assert.Equal(t, "a custom neon skyline", store.assets["image-1"].Content["prompt"])
	assert.NotEmpty(t, resp.URL)
}

func TestRegenerateImageRebuildsPromptWithoutTextAsset(t *testing.T) {
	store := newTestStore()
	delete(store.assets, "text-1")

	svc := NewService(store, &fakeText{}, &fakeImages{}, &fakeObjects{})
	_, err := svc.RegenerateImage(context.Background(), "user-1", "image-1", &RegenerateImageRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "custom prompt")
}

func TestRegenerateImageOnTextAssetRejected(t *testing.T) {
	store := newTestStore()
	images := &fakeImages{}

	svc := NewService(store, &fakeText{}, images, &fakeObjects{})
	_, err := svc.RegenerateImage(context.Background(), "user-1", "text-1", &RegenerateImageRequest{})

	require.Error(t, err)
	assert.Zero(t, images.calls)
}

func TestRegenerateImageGenerationFailureSurfaced(t *testing.T) {
	store := newTestStore()
	images := &fakeImages{err: &imagegen.ProviderError{
		Provider:  imagegen.ProviderHuggingFace,
		Model:     imagegen.DefaultModel,
		Message:   "model flux-schnell is warming up - please retry in a moment",
		Retryable: true,
	}}

	svc := NewService(store, &fakeText{}, images, &fakeObjects{})
	_, err := svc.RegenerateImage(context.Background(), "user-1", "image-1", &RegenerateImageRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "warming up")
	// 실패 시 기존 URL 유지
	assert.Equal(t, "https://cdn.test/bucket/old.webp", store.assets["image-1"].URL)
}

func TestRegenerateImagePersistFailureDistinguished(t *testing.T) {
	store := newTestStore()
	store.failImageUpdate = true

	svc := NewService(store, &fakeText{}, &fakeImages{}, &fakeObjects{})
	_, err := svc.RegenerateImage(context.Background(), "user-1", "image-1", &RegenerateImageRequest{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be saved")
}

func TestRegenerationWritesDistinctAuditLog(t *testing.T) {
	store := newTestStore()
	text := &fakeText{response: map[string]any{"tagline": "C"}}

	svc := NewService(store, text, &fakeImages{}, &fakeObjects{})
	_, err := svc.RegenerateText(context.Background(), "user-1", "text-1", &RegenerateTextRequest{
		ContentType: ContentTagline,
		Feedback:    "make it punchier",
	})

	require.NoError(t, err)
	require.Len(t, store.logs, 1)
	assert.Equal(t, "regenerate_tagline", store.logs[0].AgentName)
	assert.NotNil(t, store.logs[0].Input["request"])
}
