package router

import (
	"github.com/fasthttp/router"

	apiHandler "github.com/taskledger/backend/api/handler"
)

type Handlers struct {
	Task    *apiHandler.TaskHandler
	Rewards *apiHandler.RewardsHandler
	Admin   *apiHandler.AdminHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers) *router.Router {
	r := router.New()

	r.GET("/api/health", handlers.Health.Check)

	// Task lifecycle
	r.GET("/api/tasks", handlers.Task.List)
	r.POST("/api/tasks", handlers.Task.Create)
	r.PUT("/api/tasks/{id}", handlers.Task.Update)
	r.DELETE("/api/tasks/{id}", handlers.Task.Delete)
	r.POST("/api/tasks/{id}/complete", handlers.Task.Complete)

	// Reward ledger
	r.POST("/api/rewards/use", handlers.Rewards.SpendPoints)
	r.POST("/api/rewards/use-time", handlers.Rewards.SpendTime)
	r.GET("/api/rewards/summary", handlers.Rewards.Summary)
	r.GET("/api/rewards/activity", handlers.Rewards.Activity)

	// Pre-launch reset; no confirmation step
	r.DELETE("/api/admin/cleanup", handlers.Admin.Cleanup)

	return r
}
