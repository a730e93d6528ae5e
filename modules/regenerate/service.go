package regenerate

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"campaignforge-server/modules/common/model"
	"campaignforge-server/modules/common/utils"
	"campaignforge-server/modules/gemini"
	"campaignforge-server/modules/imagegen"
)

const webpQuality = 85

// TextGenerator - 구조화 텍스트 생성 (gemini.Client가 구현)
type TextGenerator interface {
	GenerateStructured(ctx context.Context, stage string, prompt string, schema *genai.Schema, out any) error
}

// ImageGenerator - 이미지 생성 (imagegen.Client가 구현)
type ImageGenerator interface {
	Generate(ctx context.Context, req imagegen.Request) (*imagegen.Result, error)
}

// ObjectStore - 바이너리 업로드 (storage.Gateway가 구현)
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Store - asset 영속화 (database.Client가 구현)
type Store interface {
	FetchAsset(ctx context.Context, assetID string) (*model.Asset, error)
	FetchCampaign(ctx context.Context, campaignID string) (*model.Campaign, error)
	FetchCampaignAssetByType(ctx context.Context, campaignID string, assetType string) (*model.Asset, error)
	UpdateAssetContent(ctx context.Context, assetID string, content map[string]any) error
	UpdateAssetImage(ctx context.Context, assetID string, url string, content map[string]any) error
	CreateWorkflowLog(ctx context.Context, entry *model.WorkflowLogEntry) error
}

// Service - asset 단위 재생성 (동기: 이벤트 버스 대신 직접 결과 반환)
type Service struct {
	db      Store
	text    TextGenerator
	images  ImageGenerator
	objects ObjectStore
}

// NewService - Service 생성
func NewService(db Store, text TextGenerator, images ImageGenerator, objects ObjectStore) *Service {
	return &Service{db: db, text: text, images: images, objects: objects}
}

// contentTypeAssetMap - content_type 태그 → 기대 asset 타입
var contentTypeAssetMap = map[string]string{
	ContentTagline: model.AssetText,
	ContentSocial:  model.AssetSocialMediaPost,
	ContentAdCopy:  model.AssetAdCopy,
}

// RegenerateText - 텍스트 asset 재생성
// tagline은 기존 content에 병합 (description 유지), social/adCopy는 전체 교체
func (s *Service) RegenerateText(ctx context.Context, userID, assetID string, req *RegenerateTextRequest) (*RegenerateTextResponse, error) {
	expectedType, ok := contentTypeAssetMap[req.ContentType]
	if !ok {
		return nil, fmt.Errorf("unsupported content type: %q", req.ContentType)
	}

	// 모델 호출 전에 타입/소유권 검증
	asset, campaign, err := s.fetchOwnedAsset(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}
	if asset.Type != expectedType {
		return nil, fmt.Errorf("asset %s is %s, not %s", assetID, asset.Type, expectedType)
	}

	start := time.Now()
	prompt := buildTextPrompt(campaign.Brief, asset.Content, req)

	var newContent map[string]any
	switch req.ContentType {
	case ContentTagline:
		var out struct {
			Tagline string `json:"tagline"`
		}
		if err := s.text.GenerateStructured(ctx, "regenerate_tagline", prompt, gemini.TaglineSchema(), &out); err != nil {
			return nil, fmt.Errorf("tagline generation failed - please try again")
		}
		if strings.TrimSpace(out.Tagline) == "" {
			return nil, fmt.Errorf("tagline generation returned empty output - please try again")
		}
		// 병합: 같은 asset의 description 등 다른 필드는 유지
		newContent = make(map[string]any, len(asset.Content)+1)
		for k, v := range asset.Content {
			newContent[k] = v
		}
		newContent["tagline"] = out.Tagline

	case ContentSocial:
		var out struct {
			Twitter   string `json:"twitter"`
			LinkedIn  string `json:"linkedin"`
			Instagram string `json:"instagram"`
			Facebook  string `json:"facebook"`
		}
		if err := s.text.GenerateStructured(ctx, "regenerate_social", prompt, gemini.SocialSchema(), &out); err != nil {
			return nil, fmt.Errorf("social post generation failed - please try again")
		}
		if out.Twitter == "" || out.LinkedIn == "" || out.Instagram == "" || out.Facebook == "" {
			return nil, fmt.Errorf("social post generation returned incomplete output - please try again")
		}
		// 전체 교체: 이전 content의 키는 남기지 않음
		newContent = map[string]any{
			"twitter":   out.Twitter,
			"linkedin":  out.LinkedIn,
			"instagram": out.Instagram,
			"facebook":  out.Facebook,
		}

	case ContentAdCopy:
		var out struct {
			Headline   string `json:"headline"`
			Body       string `json:"body"`
			CTA        string `json:"cta"`
			DisplayURL string `json:"display_url"`
		}
		if err := s.text.GenerateStructured(ctx, "regenerate_adCopy", prompt, gemini.AdCopySchema(), &out); err != nil {
			return nil, fmt.Errorf("ad copy generation failed - please try again")
		}
		if out.Headline == "" || out.Body == "" || out.CTA == "" || out.DisplayURL == "" {
			return nil, fmt.Errorf("ad copy generation returned incomplete output - please try again")
		}
		newContent = map[string]any{
			"headline":    out.Headline,
			"body":        out.Body,
			"cta":         out.CTA,
			"display_url": out.DisplayURL,
		}
	}

	// 생성은 됐지만 저장 실패 → 저장 실패로 구분해서 보고 (저장 안 된 결과는 없는 것)
	if err := s.db.UpdateAssetContent(ctx, assetID, newContent); err != nil {
		log.Printf("❌ Regenerated %s but failed to save asset %s: %v", req.ContentType, assetID, err)
		return nil, fmt.Errorf("content was generated but could not be saved - please try again")
	}

	s.logRegeneration(ctx, campaign.ID, "regenerate_"+req.ContentType, start, req, newContent)

	return &RegenerateTextResponse{
		AssetID:     assetID,
		ContentType: req.ContentType,
		Content:     newContent,
	}, nil
}

// RegenerateImage - 이미지 asset 재생성
// 기존 asset의 URL/content를 덮어씀 (새 asset을 만들지 않음)
func (s *Service) RegenerateImage(ctx context.Context, userID, assetID string, req *RegenerateImageRequest) (*RegenerateImageResponse, error) {
	asset, campaign, err := s.fetchOwnedAsset(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}
	if asset.Type != model.AssetImage {
		return nil, fmt.Errorf("asset %s is %s, not an image", assetID, asset.Type)
	}

	start := time.Now()

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt, err = s.rebuildBrandPrompt(ctx, campaign)
		if err != nil {
			return nil, err
		}
	}

	imageModel := req.Model
	if imageModel == "" {
		imageModel = campaign.Brief.ImageModel
	}

	result, err := s.images.Generate(ctx, imagegen.Request{
		Model:          imageModel,
		Prompt:         prompt,
		NegativePrompt: req.NegativePrompt,
		GuidanceScale:  req.GuidanceScale,
		Steps:          req.Steps,
	})
	if err != nil {
		log.Printf("❌ Image regeneration failed for asset %s: %v", assetID, err)
		return nil, err
	}

	data := result.Bytes
	contentType := "image/webp"
	ext := "webp"

	webpData, err := utils.ConvertToWebP(result.Bytes, webpQuality)
	if err != nil {
		log.Printf("⚠️  WebP conversion failed, uploading original: %v", err)
		contentType = "image/png"
		ext = "png"
	} else {
		data = webpData
	}

	key := fmt.Sprintf("campaigns/%s/regen_%d.%s", campaign.ID, time.Now().UnixMilli(), ext)

	url, err := s.objects.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, fmt.Errorf("image was generated but could not be uploaded - please try again")
	}

	newContent := map[string]any{
		"model":        result.Model,
		"provider":     result.Provider,
		"prompt":       prompt,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}

	if err := s.db.UpdateAssetImage(ctx, assetID, url, newContent); err != nil {
		log.Printf("❌ Regenerated image but failed to save asset %s: %v", assetID, err)
		return nil, fmt.Errorf("image was generated but could not be saved - please try again")
	}

	s.logRegeneration(ctx, campaign.ID, "regenerate_image", start, req, newContent)

	return &RegenerateImageResponse{
		AssetID:  assetID,
		URL:      url,
		Model:    result.Model,
		Provider: result.Provider,
	}, nil
}

// fetchOwnedAsset - asset + 소유 캠페인 조회, 소유권 검증
func (s *Service) fetchOwnedAsset(ctx context.Context, userID, assetID string) (*model.Asset, *model.Campaign, error) {
	asset, err := s.db.FetchAsset(ctx, assetID)
	if err != nil {
		return nil, nil, fmt.Errorf("asset not found")
	}

	campaign, err := s.db.FetchCampaign(ctx, asset.CampaignID)
	if err != nil {
		return nil, nil, fmt.Errorf("campaign not found")
	}
	if campaign.UserID != userID {
		return nil, nil, fmt.Errorf("asset does not belong to this user")
	}

	return asset, campaign, nil
}

// rebuildBrandPrompt - 캠페인의 Writer 결과 + brief로 표준 브랜드 프롬프트 재조립
func (s *Service) rebuildBrandPrompt(ctx context.Context, campaign *model.Campaign) (string, error) {
	textAsset, err := s.db.FetchCampaignAssetByType(ctx, campaign.ID, model.AssetText)
	if err != nil {
		return "", fmt.Errorf("campaign copy not found - provide a custom prompt instead")
	}

	tagline, _ := textAsset.Content["tagline"].(string)
	description, _ := textAsset.Content["description"].(string)

	return imagegen.BuildBrandPrompt(imagegen.PromptParams{
		BaseContext:       fmt.Sprintf("Marketing campaign visual for: %s. %s", tagline, description),
		ImageryPreference: campaign.Brief.ImageryPreference,
		VisualStyle:       campaign.Brief.VisualStyle,
		BrandColors:       campaign.Brief.BrandColors,
		BrandThemes:       campaign.Brief.BrandThemes,
		Tone:              campaign.Brief.Tone,
		Audience:          campaign.Brief.Audience,
	}), nil
}

// logRegeneration - 재생성 감사 기록
// agent 이름을 regenerate_* 로 구분해서 초기 생성 로그와 분리
func (s *Service) logRegeneration(ctx context.Context, campaignID, agent string, start time.Time, input any, output map[string]any) {
	inputMap := map[string]any{"request": input}

	entry := &model.WorkflowLogEntry{
		CampaignID: campaignID,
		AgentName:  agent,
		Status:     model.LogCompleted,
		DurationMS: time.Since(start).Milliseconds(),
		Input:      inputMap,
		Output:     output,
		Summary:    fmt.Sprintf("User-triggered %s", agent),
	}

	if err := s.db.CreateWorkflowLog(ctx, entry); err != nil {
		log.Printf("⚠️  Failed to write regeneration log for %s: %v", campaignID, err)
	}
}

// buildTextPrompt - 재생성 프롬프트 조립
// 이전 content와 steering 힌트는 있는 것만 포함
func buildTextPrompt(brief model.Brief, previous map[string]any, req *RegenerateTextRequest) string {
	var b strings.Builder

	switch req.ContentType {
	case ContentTagline:
		b.WriteString("You are a senior marketing copywriter. Write a new campaign tagline.\n\n")
	case ContentSocial:
		b.WriteString("You are a senior marketing copywriter. Rewrite the social media posts for this campaign.\n\n")
	case ContentAdCopy:
		b.WriteString("You are a senior marketing copywriter. Rewrite the display ad copy for this campaign.\n\n")
	}

	fmt.Fprintf(&b, "Campaign goal: %s\n", brief.Goal)
	fmt.Fprintf(&b, "Tone of voice: %s\n", brief.Tone)
	fmt.Fprintf(&b, "Target audience: %s\n", brief.Audience)
	if brief.BrandName != "" {
		fmt.Fprintf(&b, "Brand name: %s\n", brief.BrandName)
	}

	if len(previous) > 0 {
		b.WriteString("\nPrevious version (improve on this, keep continuity):\n")
		for key, value := range previous {
			if s, ok := value.(string); ok && s != "" {
				fmt.Fprintf(&b, "%s: %s\n", key, s)
			}
		}
	}

	if req.Feedback != "" {
		fmt.Fprintf(&b, "\nUser feedback: %s\n", req.Feedback)
	}
	if req.ToneAdjustment != "" {
		fmt.Fprintf(&b, "Adjust the tone to be: %s\n", req.ToneAdjustment)
	}
	if req.LengthPreference != "" {
		fmt.Fprintf(&b, "Length preference: %s\n", req.LengthPreference)
	}
	if len(req.StyleTags) > 0 {
		fmt.Fprintf(&b, "Style tags: %s\n", strings.Join(req.StyleTags, ", "))
	}
	if req.CustomInstructions != "" {
		fmt.Fprintf(&b, "Additional instructions: %s\n", req.CustomInstructions)
	}

	return b.String()
}
