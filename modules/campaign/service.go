package campaign

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"campaignforge-server/modules/common/database"
	"campaignforge-server/modules/common/model"
)

// Service - 캠페인 생성/조회 비즈니스 로직
type Service struct {
	db  *database.Client
	rdb *redis.Client
}

// NewService - Service 생성
func NewService(db *database.Client, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

// CreateCampaign - 캠페인 생성 후 워크플로우 큐에 등록
// 워크플로우 완료를 기다리지 않고 바로 반환 (진행 상황은 이벤트 구독으로 확인)
func (s *Service) CreateCampaign(ctx context.Context, userID string, req *CreateCampaignRequest) (*CreateCampaignResponse, error) {
	if strings.TrimSpace(req.Brief.Goal) == "" {
		return nil, fmt.Errorf("campaign goal is required")
	}

	name := strings.TrimSpace(req.CampaignName)
	if name == "" {
		name = "Untitled Campaign"
	}

	campaign := &model.Campaign{
		ID:     uuid.New().String(),
		UserID: userID,
		Name:   name,
		Brief:  req.Brief,
		Status: model.CampaignGenerating,
	}

	if err := s.db.CreateCampaign(ctx, campaign); err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	// 큐 등록 실패 시 캠페인이 generating으로 방치되지 않도록 failed 처리
	if err := s.rdb.LPush(ctx, QueueKey, campaign.ID).Err(); err != nil {
		log.Printf("❌ Failed to enqueue campaign %s: %v", campaign.ID, err)
		if updateErr := s.db.UpdateCampaignStatus(ctx, campaign.ID, model.CampaignFailed); updateErr != nil {
			log.Printf("❌ Failed to mark campaign %s failed: %v", campaign.ID, updateErr)
		}
		return nil, fmt.Errorf("failed to start campaign generation: %w", err)
	}

	log.Printf("📤 Campaign %s enqueued for generation", campaign.ID)

	return &CreateCampaignResponse{
		CampaignID:   campaign.ID,
		CampaignName: campaign.Name,
		Status:       campaign.Status,
	}, nil
}

// FetchOwnedCampaign - 캠페인 조회 + 소유권 검증
func (s *Service) FetchOwnedCampaign(ctx context.Context, userID, campaignID string) (*model.Campaign, error) {
	campaign, err := s.db.FetchCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	if campaign.UserID != userID {
		return nil, fmt.Errorf("campaign %s does not belong to this user", campaignID)
	}

	return campaign, nil
}

// FetchCampaignAssets - 캠페인 asset 목록 (소유권 검증 포함)
func (s *Service) FetchCampaignAssets(ctx context.Context, userID, campaignID string) ([]model.Asset, error) {
	if _, err := s.FetchOwnedCampaign(ctx, userID, campaignID); err != nil {
		return nil, err
	}
	return s.db.FetchCampaignAssets(ctx, campaignID)
}

// UpdateAssetContent - 텍스트 계열 asset의 content 부분 병합
// 이미지 asset은 이 경로로 수정 불가 (regenerate 전용)
func (s *Service) UpdateAssetContent(ctx context.Context, userID, assetID string, patch map[string]any) (*model.Asset, error) {
	asset, err := s.db.FetchAsset(ctx, assetID)
	if err != nil {
		return nil, err
	}

	if _, err := s.FetchOwnedCampaign(ctx, userID, asset.CampaignID); err != nil {
		return nil, err
	}

	if !model.IsTextLike(asset.Type) {
		return nil, fmt.Errorf("asset type %s cannot be edited directly", asset.Type)
	}

	merged := MergeContent(asset.Content, patch)
	if err := s.db.UpdateAssetContent(ctx, assetID, merged); err != nil {
		return nil, err
	}

	asset.Content = merged
	return asset, nil
}

// MergeContent - patch를 기존 content에 병합 (얕은 병합, patch 우선)
func MergeContent(existing, patch map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(patch))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}
