package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskledger/backend/internal/infrastructure/monitor"
	"github.com/taskledger/backend/pkg/httpcontext"
)

type HealthHandler struct {
	baseHandler
	monitor *monitor.Monitor
}

func NewHealthHandler(mon *monitor.Monitor, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

// @Summary Health check
// @Tags health
// @Router /api/health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()

	state := "ok"
	if !status.Store {
		state = "degraded"
	}

	// Always 200: callers poll this endpoint for the dependency breakdown,
	// not as a load-balancer liveness gate.
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"status":    state,
		"timestamp": time.Now().UTC(),
		"services": map[string]interface{}{
			"store": map[string]interface{}{
				"driver": status.StoreDriver,
				"online": status.Store,
			},
			"redis": status.Redis,
			"journal": map[string]interface{}{
				"online": status.Journal,
				"size":   status.JournalSize,
			},
		},
	})
}
