package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/maxviazov/catalog-service/internal/service"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Products service.ProductService
	Roles    service.RoleService
}

// Register mounts all public routes on the given engine.
func Register(r *gin.Engine, repo Pinger, svc Services, defaultPageSize int) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewProductHandler(svc.Products, defaultPageSize).Register(api)
		NewRoleHandler(svc.Roles, defaultPageSize).Register(api)
	}
}
