package campaign

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"google.golang.org/genai"

	"campaignforge-server/modules/common/events"
	"campaignforge-server/modules/common/model"
	"campaignforge-server/modules/common/utils"
	"campaignforge-server/modules/gemini"
	"campaignforge-server/modules/imagegen"
)

// QueueKey - 캠페인 생성 작업 큐
const QueueKey = "campaigns:queue"

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

// Store - 캠페인 영속화 (database.Client가 구현)
type Store interface {
	FetchCampaign(ctx context.Context, campaignID string) (*model.Campaign, error)
	UpdateCampaignStatus(ctx context.Context, campaignID string, status string) error
	UpdateCampaignBrief(ctx context.Context, campaignID string, brief model.Brief) error
	CreateAsset(ctx context.Context, asset *model.Asset) error
	CreateWorkflowLog(ctx context.Context, entry *model.WorkflowLogEntry) error
}

// Publisher - 진행 이벤트 발행 (events.Bus가 구현)
type Publisher interface {
	Publish(campaignID string, event events.Event)
}

// Orchestrator - 캠페인 워크플로우 실행기
// Writer → BrandChecker → Legal → Designer → Email 순서 고정
type Orchestrator struct {
	store      Store
	text       TextGenerator
	images     ImageGenerator
	objects    ObjectStore
	bus        Publisher
	imageCount int
}

// NewOrchestrator - 오케스트레이터 생성
func NewOrchestrator(store Store, text TextGenerator, images ImageGenerator, objects ObjectStore, bus Publisher, imageCount int) *Orchestrator {
	if imageCount <= 0 {
		imageCount = 3
	}
	return &Orchestrator{
		store:      store,
		text:       text,
		images:     images,
		objects:    objects,
		bus:        bus,
		imageCount: imageCount,
	}
}

// StartWorker - Redis Queue Worker 시작
// LPUSH로 들어온 campaign_id를 BRPOP으로 꺼내서 워크플로우 실행
func StartWorker(rdb *redis.Client, orchestrator *Orchestrator) {
	log.Println("🔄 Campaign Queue Worker starting...")
	log.Printf("👀 Watching queue: %s", QueueKey)

	ctx := context.Background()

	for {
		result, err := rdb.BRPop(ctx, 0, QueueKey).Result()
		if err != nil {
			log.Printf("❌ Redis BRPOP error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		// result[0]은 큐 이름, result[1]이 campaign_id
		campaignID := result[1]
		log.Printf("🎯 Received campaign job: %s", campaignID)

		go orchestrator.Run(ctx, campaignID)
	}
}

// Run - 단일 캠페인 워크플로우 실행
// 실패는 전부 여기서 흡수됨: 상태를 failed로 기록하고 이벤트 발행, rethrow 없음
// (생성 요청은 이 함수가 시작되기 전에 이미 반환됨)
func (o *Orchestrator) Run(ctx context.Context, campaignID string) {
	start := time.Now()
	log.Printf("🚀 Starting campaign workflow: %s", campaignID)

	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Workflow panic for campaign %s: %v", campaignID, r)
			o.fail(ctx, campaignID, "campaign generation failed unexpectedly - please try again")
		}
	}()

	campaign, err := o.store.FetchCampaign(ctx, campaignID)
	if err != nil {
		log.Printf("❌ Failed to fetch campaign %s: %v", campaignID, err)
		o.fail(ctx, campaignID, "campaign could not be loaded - please try again")
		return
	}

	// Stage 1: Writer (실패 시 캠페인 전체 중단)
	writer, err := o.runWriter(ctx, campaign)
	if err != nil {
		log.Printf("❌ Writer stage failed for %s: %v", campaignID, err)
		o.fail(ctx, campaignID, "copy generation failed - please try again")
		return
	}

	// Stage 2: BrandChecker (verdict는 참고용, 실패해도 계속)
	if err := o.runBrandCheck(ctx, campaign, writer); err != nil {
		log.Printf("❌ BrandChecker stage failed for %s: %v", campaignID, err)
		o.fail(ctx, campaignID, "brand review failed - please try again")
		return
	}

	// Stage 3: Legal (disapproved여도 파이프라인 계속)
	if err := o.runLegal(ctx, campaign, writer); err != nil {
		log.Printf("❌ Legal stage failed for %s: %v", campaignID, err)
		o.fail(ctx, campaignID, "compliance review failed - please try again")
		return
	}

	// Stage 4: Designer (이미지별 개별 실패 허용, 0장 성공도 캠페인 실패 아님)
	o.runDesigner(ctx, campaign, writer)

	// Stage 5: Email
	if err := o.runEmail(ctx, campaign, writer); err != nil {
		log.Printf("❌ Email stage failed for %s: %v", campaignID, err)
		o.fail(ctx, campaignID, "email generation failed - please try again")
		return
	}

	if err := o.store.UpdateCampaignStatus(ctx, campaignID, model.CampaignCompleted); err != nil {
		log.Printf("❌ Failed to mark campaign %s completed: %v", campaignID, err)
		o.fail(ctx, campaignID, "campaign could not be saved - please try again")
		return
	}

	elapsed := time.Since(start).Milliseconds()
	o.bus.Publish(campaignID, events.Event{
		Type:       events.EventWorkflowComplete,
		Message:    "Campaign generation complete",
		DurationMS: elapsed,
	})

	log.Printf("🏁 Campaign %s completed in %dms", campaignID, elapsed)
}

// fail - 캠페인을 failed로 기록하고 에러 이벤트 발행
func (o *Orchestrator) fail(ctx context.Context, campaignID string, message string) {
	if err := o.store.UpdateCampaignStatus(ctx, campaignID, model.CampaignFailed); err != nil {
		log.Printf("❌ Failed to mark campaign %s failed: %v", campaignID, err)
	}

	o.bus.Publish(campaignID, events.Event{
		Type:    events.EventWorkflowError,
		Message: message,
	})
}

// runWriter - Stage 1: 캠페인 카피 생성
// text / social_media_post / ad_copy / email_subject_lines 4개 asset 저장
func (o *Orchestrator) runWriter(ctx context.Context, campaign *model.Campaign) (*WriterOutput, error) {
	stageStart := time.Now()
	o.publishStageStarted(campaign.ID, "writer", "Writing campaign copy...")

	prompt := buildWriterPrompt(campaign.Brief)

	var output WriterOutput
	if err := o.text.GenerateStructured(ctx, "writer", prompt, gemini.WriterSchema(), &output); err != nil {
		o.logStage(ctx, campaign.ID, "writer", model.LogFailed, stageStart, nil, nil, err.Error())
		return nil, err
	}

	assets := []*model.Asset{
		{
			ID:         uuid.New().String(),
			CampaignID: campaign.ID,
			Type:       model.AssetText,
			Content: map[string]any{
				"tagline":     output.Tagline,
				"description": output.Description,
			},
		},
		{
			ID:         uuid.New().String(),
			CampaignID: campaign.ID,
			Type:       model.AssetSocialMediaPost,
			Content: map[string]any{
				"twitter":   output.SocialPosts.Twitter,
				"linkedin":  output.SocialPosts.LinkedIn,
				"instagram": output.SocialPosts.Instagram,
				"facebook":  output.SocialPosts.Facebook,
			},
		},
		{
			ID:         uuid.New().String(),
			CampaignID: campaign.ID,
			Type:       model.AssetAdCopy,
			Content: map[string]any{
				"headline":    output.AdCopy.Headline,
				"body":        output.AdCopy.Body,
				"cta":         output.AdCopy.CTA,
				"display_url": output.AdCopy.DisplayURL,
			},
		},
		{
			ID:         uuid.New().String(),
			CampaignID: campaign.ID,
			Type:       model.AssetEmailSubjectLines,
			Content: map[string]any{
				"subject_lines": output.EmailSubjectLines,
			},
		},
	}

	for _, asset := range assets {
		if err := o.store.CreateAsset(ctx, asset); err != nil {
			o.logStage(ctx, campaign.ID, "writer", model.LogFailed, stageStart, nil, nil, "failed to save generated copy")
			return nil, fmt.Errorf("failed to save %s asset: %w", asset.Type, err)
		}
	}

	// 이후 단계가 tagline/description을 참조할 수 있도록 brief에 반영
	campaign.Brief.Tagline = output.Tagline
	campaign.Brief.Description = output.Description
	if err := o.store.UpdateCampaignBrief(ctx, campaign.ID, campaign.Brief); err != nil {
		o.logStage(ctx, campaign.ID, "writer", model.LogFailed, stageStart, nil, nil, "failed to save campaign brief")
		return nil, fmt.Errorf("failed to update campaign brief: %w", err)
	}

	summary := "Generated tagline, description, 4 social posts, ad copy, 3 subject lines"
	o.logStage(ctx, campaign.ID, "writer", model.LogCompleted, stageStart,
		map[string]any{"goal": campaign.Brief.Goal, "tone": campaign.Brief.Tone},
		map[string]any{"tagline": output.Tagline}, summary)
	o.publishStageCompleted(campaign.ID, "writer", summary)

	return &output, nil
}

// runBrandCheck - Stage 2: 브랜드 일관성 검토 (asset 없음, 로그만)
func (o *Orchestrator) runBrandCheck(ctx context.Context, campaign *model.Campaign, writer *WriterOutput) error {
	stageStart := time.Now()
	o.publishStageStarted(campaign.ID, "brand_checker", "Reviewing brand consistency...")

	prompt := buildBrandCheckPrompt(campaign.Brief, writer)

	var output BrandCheckOutput
	if err := o.text.GenerateStructured(ctx, "brand_checker", prompt, gemini.BrandCheckSchema(), &output); err != nil {
		o.logStage(ctx, campaign.ID, "brand_checker", model.LogFailed, stageStart, nil, nil, err.Error())
		return err
	}

	// failed/warning verdict는 사람이 검토할 기록일 뿐, 파이프라인을 멈추지 않음
	if output.Verdict != "passed" {
		log.Printf("⚠️  Brand check verdict for %s: %s (score %d)", campaign.ID, output.Verdict, output.Score)
	}

	summary := fmt.Sprintf("Brand check %s: score %d/100", output.Verdict, output.Score)
	o.logStage(ctx, campaign.ID, "brand_checker", model.LogCompleted, stageStart,
		map[string]any{"tagline": writer.Tagline},
		map[string]any{"verdict": output.Verdict, "score": output.Score, "feedback": output.Feedback}, summary)
	o.publishStageCompleted(campaign.ID, "brand_checker", summary)

	return nil
}

// runLegal - Stage 3: 컴플라이언스 검토 (asset 없음, 로그만)
func (o *Orchestrator) runLegal(ctx context.Context, campaign *model.Campaign, writer *WriterOutput) error {
	stageStart := time.Now()
	o.publishStageStarted(campaign.ID, "legal", "Running compliance review...")

	prompt := buildLegalPrompt(writer)

	var output LegalOutput
	if err := o.text.GenerateStructured(ctx, "legal", prompt, gemini.LegalSchema(), &output); err != nil {
		o.logStage(ctx, campaign.ID, "legal", model.LogFailed, stageStart, nil, nil, err.Error())
		return err
	}

	if !output.Approved {
		log.Printf("⚠️  Legal review flagged %d issues for %s", len(output.Issues), campaign.ID)
	}

	summary := fmt.Sprintf("Legal review: approved=%v, %d issues", output.Approved, len(output.Issues))
	o.logStage(ctx, campaign.ID, "legal", model.LogCompleted, stageStart,
		map[string]any{"tagline": writer.Tagline},
		map[string]any{"approved": output.Approved, "issues": output.Issues, "recommendation": output.Recommendation}, summary)
	o.publishStageCompleted(campaign.ID, "legal", summary)

	return nil
}

// runDesigner - Stage 4: 브랜드 이미지 생성
// 이미지별 개별 실패 허용: 실패한 장은 건너뛰고 다음 장 진행, 0장 성공도 stage 실패 아님
func (o *Orchestrator) runDesigner(ctx context.Context, campaign *model.Campaign, writer *WriterOutput) {
	stageStart := time.Now()
	o.publishStageStarted(campaign.ID, "designer", fmt.Sprintf("Generating %d campaign images...", o.imageCount))

	prompt := imagegen.BuildBrandPrompt(imagegen.PromptParams{
		BaseContext:       fmt.Sprintf("Marketing campaign visual for: %s. %s", writer.Tagline, writer.Description),
		ImageryPreference: campaign.Brief.ImageryPreference,
		VisualStyle:       campaign.Brief.VisualStyle,
		BrandColors:       campaign.Brief.BrandColors,
		BrandThemes:       campaign.Brief.BrandThemes,
		Tone:              campaign.Brief.Tone,
		Audience:          campaign.Brief.Audience,
	})

	succeeded := 0
	var failures []string

	for i := 1; i <= o.imageCount; i++ {
		log.Printf("🎨 Generating image %d/%d for campaign %s...", i, o.imageCount, campaign.ID)

		url, err := o.generateAndStoreImage(ctx, campaign, prompt, i)
		if err != nil {
			log.Printf("❌ Image %d/%d failed for campaign %s: %v", i, o.imageCount, campaign.ID, err)
			failures = append(failures, fmt.Sprintf("image %d: %v", i, err))
			continue
		}

		succeeded++
		o.bus.Publish(campaign.ID, events.Event{
			Type:  events.EventImageGenerated,
			Stage: "designer",
			URL:   url,
			Index: i,
			Total: o.imageCount,
		})
	}

	status := model.LogCompleted
	if succeeded == 0 {
		// 0장 성공은 캠페인 실패가 아니지만 로그에는 failed로 남김
		status = model.LogFailed
	}

	summary := fmt.Sprintf("Generated %d/%d images", succeeded, o.imageCount)
	output := map[string]any{"succeeded": succeeded, "requested": o.imageCount}
	if len(failures) > 0 {
		output["failures"] = failures
	}

	o.logStage(ctx, campaign.ID, "designer", status, stageStart,
		map[string]any{"prompt": prompt}, output, summary)
	o.publishStageCompleted(campaign.ID, "designer", summary)
}

// generateAndStoreImage - 이미지 1장 생성 → WebP 변환 → 업로드 → asset 저장
func (o *Orchestrator) generateAndStoreImage(ctx context.Context, campaign *model.Campaign, prompt string, seq int) (string, error) {
	result, err := o.images.Generate(ctx, imagegen.Request{
		Model:  campaign.Brief.ImageModel,
		Prompt: prompt,
	})
	if err != nil {
		return "", err
	}

	data := result.Bytes
	contentType := "image/webp"
	ext := "webp"

	// WebP 변환 실패 시 원본 그대로 업로드
	webpData, err := utils.ConvertToWebP(result.Bytes, webpQuality)
	if err != nil {
		log.Printf("⚠️  WebP conversion failed, uploading original: %v", err)
		contentType = "image/png"
		ext = "png"
	} else {
		data = webpData
	}

	key := fmt.Sprintf("campaigns/%s/%d_%d.%s", campaign.ID, seq, time.Now().UnixMilli(), ext)

	url, err := o.objects.Upload(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	// 새로 생성된 이미지는 기본 선택 상태
	asset := &model.Asset{
		ID:         uuid.New().String(),
		CampaignID: campaign.ID,
		Type:       model.AssetImage,
		URL:        url,
		Selected:   true,
		Content: map[string]any{
			"model":    result.Model,
			"provider": result.Provider,
			"prompt":   prompt,
			"index":    seq,
		},
	}
	if err := o.store.CreateAsset(ctx, asset); err != nil {
		return "", fmt.Errorf("failed to save image asset: %w", err)
	}

	return url, nil
}

// runEmail - Stage 5: 이메일 콘텐츠 생성 + HTML/텍스트 렌더링
func (o *Orchestrator) runEmail(ctx context.Context, campaign *model.Campaign, writer *WriterOutput) error {
	stageStart := time.Now()
	o.publishStageStarted(campaign.ID, "email", "Composing marketing email...")

	prompt := buildEmailPrompt(campaign.Brief, writer)

	var content EmailContent
	if err := o.text.GenerateStructured(ctx, "email", prompt, gemini.EmailSchema(), &content); err != nil {
		o.logStage(ctx, campaign.ID, "email", model.LogFailed, stageStart, nil, nil, err.Error())
		return err
	}

	asset := &model.Asset{
		ID:         uuid.New().String(),
		CampaignID: campaign.ID,
		Type:       model.AssetEmail,
		Content: map[string]any{
			"subject":   content.Subject,
			"preheader": content.Preheader,
			"headline":  content.Headline,
			"body":      content.Body,
			"cta_text":  content.CTAText,
			"cta_url":   content.CTAURL,
			"html":      renderEmailHTML(&content, campaign.Brief),
			"text":      renderEmailText(&content),
		},
	}
	if err := o.store.CreateAsset(ctx, asset); err != nil {
		o.logStage(ctx, campaign.ID, "email", model.LogFailed, stageStart, nil, nil, "failed to save email")
		return fmt.Errorf("failed to save email asset: %w", err)
	}

	summary := fmt.Sprintf("Email composed: %s", truncate(content.Subject, 60))
	o.logStage(ctx, campaign.ID, "email", model.LogCompleted, stageStart,
		map[string]any{"tagline": writer.Tagline},
		map[string]any{"subject": content.Subject}, summary)
	o.publishStageCompleted(campaign.ID, "email", summary)

	return nil
}

// logStage - 단계 실행 기록 (append-only, 실패해도 워크플로우는 계속)
func (o *Orchestrator) logStage(ctx context.Context, campaignID, agent, status string, start time.Time, input, output map[string]any, summary string) {
	entry := &model.WorkflowLogEntry{
		CampaignID: campaignID,
		AgentName:  agent,
		Status:     status,
		DurationMS: time.Since(start).Milliseconds(),
		Input:      input,
		Output:     output,
		Summary:    summary,
	}

	if err := o.store.CreateWorkflowLog(ctx, entry); err != nil {
		log.Printf("⚠️  Failed to write workflow log for %s/%s: %v", campaignID, agent, err)
	}
}

func (o *Orchestrator) publishStageStarted(campaignID, stage, message string) {
	o.bus.Publish(campaignID, events.Event{
		Type:    events.EventStageStarted,
		Stage:   stage,
		Message: message,
	})
}

func (o *Orchestrator) publishStageCompleted(campaignID, stage, summary string) {
	o.bus.Publish(campaignID, events.Event{
		Type:    events.EventStageCompleted,
		Stage:   stage,
		Summary: summary,
	})
}

// truncate - 로그/summary용 문자열 자르기 (rune 단위, 멀티바이트 안전)
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
