package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskledger/backend/api/transport"
	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/pkg/httpcontext"
	tasksUC "github.com/taskledger/backend/usecase/tasks"
)

type TaskHandler struct {
	baseHandler
	uc *tasksUC.UseCase
}

func NewTaskHandler(uc *tasksUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx, "")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.List(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Create task
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.Create(stdCtx, tasksUC.CreateInput{
		UserID:      h.userID(ctx, req.UserID),
		Description: req.ResolveDescription(),
		PointReward: req.ResolvePointReward(),
		TimeReward:  req.TimeReward.Int64(),
		Category:    req.Category,
		Priority:    req.Priority,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update a pending task
// @Tags tasks
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	id := pathID(ctx)
	if id == "" {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}

	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, domain.ErrInvalidPayload)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.Update(stdCtx, id, tasksUC.UpdateInput{
		Description: req.ResolveDescription(),
		PointReward: req.ResolvePointReward(),
		TimeReward:  req.TimeReward.Int64(),
		Category:    req.Category,
		Priority:    req.Priority,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Complete a task and credit its rewards
// @Tags tasks
// @Router /api/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(ctx *fasthttp.RequestCtx) {
	id := pathID(ctx)
	if id == "" {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}

	// The body is optional; an absent or malformed one falls back to the
	// query arg and then the default user.
	var req transport.CompleteRequest
	_ = json.Unmarshal(ctx.PostBody(), &req)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	completed, err := h.uc.Complete(stdCtx, id, h.userID(ctx, req.UserID))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, completed)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	id := pathID(ctx)
	if id == "" {
		h.respondError(ctx, domain.ErrTaskNotFound)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Delete(stdCtx, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.DeleteResponse{Deleted: true})
}
