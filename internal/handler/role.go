package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/catalog-service/internal/service"
	"github.com/maxviazov/catalog-service/pkg/response"
)

type RoleHandler struct {
	svc             service.RoleService
	defaultPageSize int
}

func NewRoleHandler(svc service.RoleService, defaultPageSize int) *RoleHandler {
	return &RoleHandler{svc: svc, defaultPageSize: defaultPageSize}
}

func (h *RoleHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/roles")
	{
		g.GET("/paginated-data", h.paginated)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.POST("", h.create)
		g.PUT("", h.update)
		g.DELETE("/:id", h.delete)
	}
}

func (h *RoleHandler) paginated(c *gin.Context) {
	q, err := pageQuery(c, h.defaultPageSize)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	page, err := h.svc.GetPaginated(c.Request.Context(), q)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, page)
}

func (h *RoleHandler) list(c *gin.Context) {
	items, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, items)
}

func (h *RoleHandler) getByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	r, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, r)
}

func (h *RoleHandler) create(c *gin.Context) {
	var req service.RoleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, malformedBody())
		return
	}
	r, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMessage(c, http.StatusCreated, "role saved", r)
}

func (h *RoleHandler) update(c *gin.Context) {
	var req service.RoleUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, malformedBody())
		return
	}
	r, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMessage(c, http.StatusOK, "role updated", r)
}

func (h *RoleHandler) delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMessage(c, http.StatusOK, "role deleted", nil)
}
