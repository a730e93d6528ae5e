package campaign

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"campaignforge-server/modules/common/auth"
	"campaignforge-server/modules/common/events"
	"campaignforge-server/modules/common/model"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// 개발용 - 모든 origin 허용
		return true
	},
}

// CampaignService - 핸들러가 사용하는 서비스 표면 (Service가 구현)
type CampaignService interface {
	CreateCampaign(ctx context.Context, userID string, req *CreateCampaignRequest) (*CreateCampaignResponse, error)
	FetchOwnedCampaign(ctx context.Context, userID, campaignID string) (*model.Campaign, error)
	FetchCampaignAssets(ctx context.Context, userID, campaignID string) ([]model.Asset, error)
	UpdateAssetContent(ctx context.Context, userID, assetID string, patch map[string]any) (*model.Asset, error)
}

// Handler - 캠페인 HTTP/WebSocket 핸들러
type Handler struct {
	service CampaignService
	bus     *events.Bus
}

// NewHandler - Handler 생성
func NewHandler(service CampaignService, bus *events.Bus) *Handler {
	return &Handler{service: service, bus: bus}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(api *mux.Router, ws *mux.Router) {
	api.HandleFunc("/campaigns", h.HandleCreateCampaign).Methods("POST", "OPTIONS")
	api.HandleFunc("/campaigns/{campaignId}", h.HandleGetCampaign).Methods("GET", "OPTIONS")
	api.HandleFunc("/campaigns/{campaignId}/assets", h.HandleGetAssets).Methods("GET", "OPTIONS")
	api.HandleFunc("/assets/{assetId}/content", h.HandleUpdateAssetContent).Methods("PATCH", "OPTIONS")

	ws.HandleFunc("/campaigns/{campaignId}", h.HandleSubscribe).Methods("GET")
}

// HandleCreateCampaign - POST /api/campaigns
// 캠페인 생성 후 즉시 반환, 생성 파이프라인은 백그라운드 실행
func (h *Handler) HandleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.CreateCampaign(r.Context(), userID, &req)
	if err != nil {
		log.Printf("❌ Create campaign failed: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleGetCampaign - GET /api/campaigns/{campaignId}
func (h *Handler) HandleGetCampaign(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	campaignID := mux.Vars(r)["campaignId"]

	campaign, err := h.service.FetchOwnedCampaign(r.Context(), userID, campaignID)
	if err != nil {
		writeError(w, http.StatusNotFound, "campaign not found")
		return
	}

	writeJSON(w, http.StatusOK, campaign)
}

// HandleGetAssets - GET /api/campaigns/{campaignId}/assets
func (h *Handler) HandleGetAssets(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	campaignID := mux.Vars(r)["campaignId"]

	assets, err := h.service.FetchCampaignAssets(r.Context(), userID, campaignID)
	if err != nil {
		writeError(w, http.StatusNotFound, "campaign not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"assets": assets})
}

// HandleUpdateAssetContent - PATCH /api/assets/{assetId}/content
// 텍스트 계열 asset만 수정 가능, patch는 기존 content에 병합
func (h *Handler) HandleUpdateAssetContent(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	assetID := mux.Vars(r)["assetId"]

	var patch map[string]any
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	asset, err := h.service.UpdateAssetContent(r.Context(), userID, assetID, patch)
	if err != nil {
		log.Printf("❌ Update asset content failed: %v", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, asset)
}

// HandleSubscribe - GET /ws/campaigns/{campaignId}
// 캠페인 진행 이벤트 WebSocket 스트림
// 구독 직후 저장된 상태 기반의 status 이벤트 1회 전송, terminal 이벤트 후 종료
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	campaignID := mux.Vars(r)["campaignId"]

	if _, err := h.service.FetchOwnedCampaign(r.Context(), userID, campaignID); err != nil {
		writeError(w, http.StatusNotFound, "campaign not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	// 구독을 먼저 건 다음 저장된 상태를 다시 읽음
	// (상태 확인 후에 구독하면 그 사이에 발행된 terminal 이벤트를 놓침)
	sub := h.bus.Subscribe(campaignID)
	defer sub.Close()

	campaign, err := h.service.FetchOwnedCampaign(r.Context(), userID, campaignID)
	if err != nil {
		return
	}

	// 워크플로우 종료 후에 붙은 구독자는 이 합성 이벤트로 최종 상태만 확인함
	// (중간 단계 이벤트는 버퍼링되지 않음)
	initial := events.Event{
		Type:   events.EventStatus,
		Status: campaign.Status,
	}
	if err := conn.WriteJSON(initial); err != nil {
		return
	}

	// 이미 종료된 캠페인이면 이벤트를 기다릴 필요 없음
	if campaign.Status != model.CampaignGenerating {
		return
	}

	// 클라이언트 disconnect 감지 (read 전용 goroutine)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, open := <-sub.C:
			if !open {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("⚠️  WebSocket write failed for campaign %s: %v", campaignID, err)
				return
			}
			if event.Terminal() {
				log.Printf("🏁 Closing subscription for campaign %s (terminal event)", campaignID)
				return
			}
		case <-done:
			return
		}
	}
}

// writeJSON - JSON 응답 헬퍼
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("⚠️  Failed to encode response: %v", err)
	}
}

// writeError - 에러 응답 헬퍼
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
