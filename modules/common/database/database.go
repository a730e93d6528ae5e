package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/supabase-community/supabase-go"

	"campaignforge-server/modules/common/config"
	"campaignforge-server/modules/common/model"
)

// Supabase 테이블명
const (
	TableCampaigns    = "forge_campaigns"
	TableAssets       = "forge_assets"
	TableWorkflowLogs = "forge_workflow_logs"
)

type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient() (*Client, error) {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	return &Client{supabase: supabaseClient}, nil
}

// CreateCampaign - 캠페인 생성 (status: generating)
func (c *Client) CreateCampaign(ctx context.Context, campaign *model.Campaign) error {
	log.Printf("💾 Creating campaign: %s (%s)", campaign.ID, campaign.Name)

	insertData := map[string]any{
		"campaign_id":   campaign.ID,
		"user_id":       campaign.UserID,
		"campaign_name": campaign.Name,
		"brief":         campaign.Brief,
		"status":        campaign.Status,
	}

	_, _, err := c.supabase.From(TableCampaigns).
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert campaign: %w", err)
	}

	log.Printf("✅ Campaign created: %s", campaign.ID)
	return nil
}

// FetchCampaign - 캠페인 조회
func (c *Client) FetchCampaign(ctx context.Context, campaignID string) (*model.Campaign, error) {
	var campaigns []model.Campaign

	data, _, err := c.supabase.From(TableCampaigns).
		Select("*", "exact", false).
		Eq("campaign_id", campaignID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query campaigns: %w", err)
	}

	if err := json.Unmarshal(data, &campaigns); err != nil {
		return nil, fmt.Errorf("failed to parse campaign response: %w", err)
	}

	if len(campaigns) == 0 {
		return nil, fmt.Errorf("campaign not found: %s", campaignID)
	}

	return &campaigns[0], nil
}

// UpdateCampaignStatus - 캠페인 상태 업데이트 (generating → completed/failed)
func (c *Client) UpdateCampaignStatus(ctx context.Context, campaignID string, status string) error {
	log.Printf("📝 Updating campaign %s status to: %s", campaignID, status)

	_, _, err := c.supabase.From(TableCampaigns).
		Update(map[string]any{"status": status}, "", "").
		Eq("campaign_id", campaignID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update campaign status: %w", err)
	}

	log.Printf("✅ Campaign %s status updated to: %s", campaignID, status)
	return nil
}

// UpdateCampaignBrief - 브리프 업데이트 (Writer 단계가 tagline/description을 채움)
func (c *Client) UpdateCampaignBrief(ctx context.Context, campaignID string, brief model.Brief) error {
	_, _, err := c.supabase.From(TableCampaigns).
		Update(map[string]any{"brief": brief}, "", "").
		Eq("campaign_id", campaignID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update campaign brief: %w", err)
	}

	return nil
}

// CreateAsset - Asset 레코드 생성
func (c *Client) CreateAsset(ctx context.Context, asset *model.Asset) error {
	log.Printf("💾 Creating asset: campaign=%s, type=%s", asset.CampaignID, asset.Type)

	insertData := map[string]any{
		"asset_id":    asset.ID,
		"campaign_id": asset.CampaignID,
		"asset_type":  asset.Type,
		"content":     asset.Content,
		"selected":    asset.Selected,
	}
	if asset.URL != "" {
		insertData["url"] = asset.URL
	}

	_, _, err := c.supabase.From(TableAssets).
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}

	log.Printf("✅ Asset created: %s (%s)", asset.ID, asset.Type)
	return nil
}

// FetchAsset - Asset 조회
func (c *Client) FetchAsset(ctx context.Context, assetID string) (*model.Asset, error) {
	var assets []model.Asset

	data, _, err := c.supabase.From(TableAssets).
		Select("*", "exact", false).
		Eq("asset_id", assetID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}

	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse asset response: %w", err)
	}

	if len(assets) == 0 {
		return nil, fmt.Errorf("asset not found: %s", assetID)
	}

	return &assets[0], nil
}

// FetchCampaignAssets - 캠페인의 모든 Asset 조회
func (c *Client) FetchCampaignAssets(ctx context.Context, campaignID string) ([]model.Asset, error) {
	var assets []model.Asset

	data, _, err := c.supabase.From(TableAssets).
		Select("*", "exact", false).
		Eq("campaign_id", campaignID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query campaign assets: %w", err)
	}

	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse assets response: %w", err)
	}

	return assets, nil
}

// FetchCampaignAssetByType - 캠페인의 특정 타입 Asset 조회 (첫 번째)
func (c *Client) FetchCampaignAssetByType(ctx context.Context, campaignID string, assetType string) (*model.Asset, error) {
	var assets []model.Asset

	data, _, err := c.supabase.From(TableAssets).
		Select("*", "exact", false).
		Eq("campaign_id", campaignID).
		Eq("asset_type", assetType).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query assets by type: %w", err)
	}

	if err := json.Unmarshal(data, &assets); err != nil {
		return nil, fmt.Errorf("failed to parse assets response: %w", err)
	}

	if len(assets) == 0 {
		return nil, fmt.Errorf("no %s asset found for campaign: %s", assetType, campaignID)
	}

	return &assets[0], nil
}

// UpdateAssetContent - Asset content 덮어쓰기 (merge는 호출자 책임)
func (c *Client) UpdateAssetContent(ctx context.Context, assetID string, content map[string]any) error {
	_, _, err := c.supabase.From(TableAssets).
		Update(map[string]any{"content": content}, "", "").
		Eq("asset_id", assetID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update asset content: %w", err)
	}

	log.Printf("✅ Asset content updated: %s", assetID)
	return nil
}

// UpdateAssetImage - 이미지 Asset의 URL + content 덮어쓰기 (재생성용)
func (c *Client) UpdateAssetImage(ctx context.Context, assetID string, url string, content map[string]any) error {
	_, _, err := c.supabase.From(TableAssets).
		Update(map[string]any{"url": url, "content": content}, "", "").
		Eq("asset_id", assetID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update asset image: %w", err)
	}

	log.Printf("✅ Asset image updated: %s → %s", assetID, url)
	return nil
}

// CreateWorkflowLog - 워크플로우 로그 생성 (append-only)
func (c *Client) CreateWorkflowLog(ctx context.Context, entry *model.WorkflowLogEntry) error {
	insertData := map[string]any{
		"campaign_id": entry.CampaignID,
		"agent_name":  entry.AgentName,
		"status":      entry.Status,
		"duration_ms": entry.DurationMS,
		"input":       entry.Input,
		"output":      entry.Output,
		"summary":     entry.Summary,
	}

	_, _, err := c.supabase.From(TableWorkflowLogs).
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to insert workflow log: %w", err)
	}

	log.Printf("📋 Workflow log created: campaign=%s, agent=%s, status=%s (%dms)",
		entry.CampaignID, entry.AgentName, entry.Status, entry.DurationMS)
	return nil
}

// FetchWorkflowLogs - 캠페인의 워크플로우 로그 조회
func (c *Client) FetchWorkflowLogs(ctx context.Context, campaignID string) ([]model.WorkflowLogEntry, error) {
	var entries []model.WorkflowLogEntry

	data, _, err := c.supabase.From(TableWorkflowLogs).
		Select("*", "exact", false).
		Eq("campaign_id", campaignID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query workflow logs: %w", err)
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse workflow logs: %w", err)
	}

	return entries, nil
}
