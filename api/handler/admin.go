package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskledger/backend/pkg/httpcontext"
	maintenanceUC "github.com/taskledger/backend/usecase/maintenance"
)

type AdminHandler struct {
	baseHandler
	uc *maintenanceUC.UseCase
}

func NewAdminHandler(uc *maintenanceUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Wipe all tasks and ledgers
// @Tags admin
// @Router /api/admin/cleanup [delete]
func (h *AdminHandler) Cleanup(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.Wipe(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}
