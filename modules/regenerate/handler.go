package regenerate

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"campaignforge-server/modules/common/auth"
)

// Handler - 재생성 HTTP 핸들러
type Handler struct {
	service *Service
}

// NewHandler - Handler 생성
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes - 라우트 등록
func (h *Handler) RegisterRoutes(api *mux.Router) {
	api.HandleFunc("/assets/{assetId}/regenerate-text", h.HandleRegenerateText).Methods("POST", "OPTIONS")
	api.HandleFunc("/assets/{assetId}/regenerate-image", h.HandleRegenerateImage).Methods("POST", "OPTIONS")
}

// HandleRegenerateText - POST /api/assets/{assetId}/regenerate-text
func (h *Handler) HandleRegenerateText(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	assetID := mux.Vars(r)["assetId"]

	var req RegenerateTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.RegenerateText(r.Context(), userID, assetID, &req)
	if err != nil {
		log.Printf("❌ Text regeneration failed for asset %s: %v", assetID, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRegenerateImage - POST /api/assets/{assetId}/regenerate-image
func (h *Handler) HandleRegenerateImage(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	assetID := mux.Vars(r)["assetId"]

	var req RegenerateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.service.RegenerateImage(r.Context(), userID, assetID, &req)
	if err != nil {
		log.Printf("❌ Image regeneration failed for asset %s: %v", assetID, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("⚠️  Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
