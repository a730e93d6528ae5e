package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"campaignforge-server/modules/campaign"
	"campaignforge-server/modules/common/auth"
	"campaignforge-server/modules/common/config"
	"campaignforge-server/modules/common/database"
	"campaignforge-server/modules/common/events"
	commonredis "campaignforge-server/modules/common/redis"
	"campaignforge-server/modules/common/storage"
	"campaignforge-server/modules/gemini"
	"campaignforge-server/modules/imagegen"
	"campaignforge-server/modules/regenerate"
)

// CORS 헤더 추가
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "campaignforge-server",
	})
}

func main() {
	ctx := context.Background()

	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// 의존성 초기화
	db, err := database.NewClient()
	if err != nil {
		log.Fatalf("❌ Failed to create database client: %v", err)
	}

	rdb, err := commonredis.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}

	objectStore, err := storage.NewGateway(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to create storage gateway: %v", err)
	}

	textClient, err := gemini.NewClient(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to create Gemini client: %v", err)
	}

	imageClient := imagegen.NewClient()
	bus := events.NewBus()

	// 캠페인 워크플로우 Worker 시작 (백그라운드)
	orchestrator := campaign.NewOrchestrator(db, textClient, imageClient, objectStore, bus, cfg.ImagesPerCampaign)
	go campaign.StartWorker(rdb, orchestrator)

	// 서비스/핸들러 배선
	campaignService := campaign.NewService(db, rdb)
	campaignHandler := campaign.NewHandler(campaignService, bus)

	regenerateService := regenerate.NewService(db, textClient, imageClient, objectStore)
	regenerateHandler := regenerate.NewHandler(regenerateService)

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")

	// 인증 필요한 라우트
	api := r.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware)

	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(auth.Middleware)

	campaignHandler.RegisterRoutes(api, ws)
	regenerateHandler.RegisterRoutes(api)

	log.Printf("🚀 CampaignForge Server starting on port %s", cfg.Port)
	log.Printf("📡 Progress WebSocket: ws://localhost:%s/ws/campaigns/{campaignId}", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
