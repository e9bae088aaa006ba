package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskledger/backend/api/transport"
	"github.com/taskledger/backend/domain"
	"github.com/taskledger/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	h.respondJSON(ctx, status, transport.NewError(code, err.Error(), errorMeta(err)))
}

// userID resolves the acting user: explicit body value, then the userId
// query arg, then the shared default. Identity is trusted as given.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if q := string(ctx.QueryArgs().Peek("userId")); q != "" {
		return q
	}
	return domain.DefaultUserID
}

// pathID extracts the {id} route segment.
func pathID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusBadRequest, string(domain.ErrCodeInvalid)
	case domain.IsDomainError(err, domain.ErrCodeAlreadyCompleted):
		return http.StatusBadRequest, string(domain.ErrCodeAlreadyCompleted)
	case domain.IsDomainError(err, domain.ErrCodeInsufficientBalance):
		return http.StatusBadRequest, string(domain.ErrCodeInsufficientBalance)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}

// errorMeta surfaces the numbers behind a rejected spend so clients can show
// the current balance next to the requested amount.
func errorMeta(err error) interface{} {
	var shortfall *domain.BalanceShortfall
	if errors.As(err, &shortfall) {
		return map[string]interface{}{
			"currency":  shortfall.Currency,
			"balance":   shortfall.Balance,
			"requested": shortfall.Requested,
		}
	}
	return nil
}
