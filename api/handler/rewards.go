package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskledger/backend/api/transport"
	"github.com/taskledger/backend/pkg/httpcontext"
	rewardsUC "github.com/taskledger/backend/usecase/rewards"
)

type RewardsHandler struct {
	baseHandler
	uc *rewardsUC.UseCase
}

func NewRewardsHandler(uc *rewardsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *RewardsHandler {
	return &RewardsHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Spend points
// @Tags rewards
// @Router /api/rewards/use [post]
func (h *RewardsHandler) SpendPoints(ctx *fasthttp.RequestCtx) {
	// Malformed bodies degrade to a zero amount, which the use case rejects
	// with the same validation error a missing amount gets.
	var req transport.SpendPointsRequest
	_ = json.Unmarshal(ctx.PostBody(), &req)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.SpendPoints(stdCtx, h.userID(ctx, req.UserID), req.Amount.Int64(), req.Description)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.SpendPointsResponse{
		Spent:      result.Spent,
		NewBalance: result.NewBalance,
	})
}

// @Summary Spend time
// @Tags rewards
// @Router /api/rewards/use-time [post]
func (h *RewardsHandler) SpendTime(ctx *fasthttp.RequestCtx) {
	var req transport.SpendTimeRequest
	_ = json.Unmarshal(ctx.PostBody(), &req)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.uc.SpendTime(stdCtx, h.userID(ctx, req.UserID), req.Minutes.Int64(), req.Activity)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, transport.SpendTimeResponse{
		Spent:          result.Spent,
		NewTimeBalance: result.NewBalance,
		Activity:       req.Activity,
	})
}

// @Summary Reward summary
// @Tags rewards
// @Router /api/rewards/summary [get]
func (h *RewardsHandler) Summary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.uc.Summary(stdCtx, h.userID(ctx, ""))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, summary)
}

// @Summary Recent spend activity
// @Tags rewards
// @Router /api/rewards/activity [get]
func (h *RewardsHandler) Activity(ctx *fasthttp.RequestCtx) {
	limit, _ := strconv.Atoi(string(ctx.QueryArgs().Peek("limit")))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	entries, err := h.uc.RecentActivity(stdCtx, h.userID(ctx, ""), limit)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, entries)
}
