package handler

import (
	"net/http"
	"time"

	"github.com/zhouzirui/voice-companion/backend/pkg/utils"
)

// healthTimeFormat matches JavaScript's Date.toISOString output.
const healthTimeFormat = "2006-01-02T15:04:05.000Z"

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, healthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(healthTimeFormat),
	})
}
