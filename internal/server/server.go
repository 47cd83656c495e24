// Package server exposes the HTTP surface: the cron trigger for the
// reconciliation run and the token-authenticated product endpoints.
package server

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"priceping/internal/model"
)

type reconcileRunner interface {
	Run(ctx context.Context) (*model.RunReport, error)
}

type onboardService interface {
	Onboard(ctx context.Context, userID, url string) (*model.Product, bool, error)
}

type productStore interface {
	ListByUser(ctx context.Context, userID string) ([]model.Product, error)
	GetByID(ctx context.Context, id string) (*model.Product, error)
	Delete(ctx context.Context, id, userID string) error
}

type historyStore interface {
	ListByProduct(ctx context.Context, productID string) ([]model.PriceHistory, error)
}

type tokenAuthenticator interface {
	GetByToken(ctx context.Context, token string) (*model.User, error)
}

type runGuard interface {
	Acquire(ctx context.Context) (release func(), err error)
}

type Server struct {
	Reconciler reconcileRunner
	Onboarder  onboardService
	Products   productStore
	History    historyStore
	Users      tokenAuthenticator

	// CronSecret protects the trigger endpoint. Empty means the trigger
	// is disabled: every call is rejected.
	CronSecret string
	// Guard serializes runs; nil disables overlap protection.
	Guard runGuard
}

func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	cron := r.Group("/api/cron")
	cron.GET("/check-prices", s.liveness)
	cron.POST("/check-prices", s.trigger)

	api := r.Group("/api", s.requireUser())
	api.POST("/products", s.createProduct)
	api.GET("/products", s.listProducts)
	api.GET("/products/:id/history", s.productHistory)
	api.DELETE("/products/:id", s.deleteProduct)

	return r
}

// bearerToken extracts the credential from an Authorization header.
func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(h, "Bearer ")
}
