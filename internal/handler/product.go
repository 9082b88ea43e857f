package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/catalog-service/internal/service"
	"github.com/maxviazov/catalog-service/pkg/response"
)

type ProductHandler struct {
	svc             service.ProductService
	defaultPageSize int
}

func NewProductHandler(svc service.ProductService, defaultPageSize int) *ProductHandler {
	return &ProductHandler{svc: svc, defaultPageSize: defaultPageSize}
}

func (h *ProductHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/products")
	{
		g.GET("/paginated-data", h.paginated)
		g.GET("", h.list)
		g.GET("/:id", h.getByID)
		g.GET("/:id/price", h.priceCheck)
		g.POST("", h.create)
		g.PUT("", h.update)
		g.DELETE("/:id", h.delete)
	}
}

func (h *ProductHandler) paginated(c *gin.Context) {
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

func (h *ProductHandler) list(c *gin.Context) {
	items, err := h.svc.GetAll(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, items)
}

func (h *ProductHandler) getByID(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	p, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, p)
}

func (h *ProductHandler) priceCheck(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	price, err := h.svc.PriceCheck(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"id": id, "price": price})
}

func (h *ProductHandler) create(c *gin.Context) {
	var req service.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, malformedBody())
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMessage(c, http.StatusCreated, "product saved", p)
}

func (h *ProductHandler) update(c *gin.Context) {
	var req service.ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, malformedBody())
		return
	}
	p, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMessage(c, http.StatusOK, "product updated", p)
}

func (h *ProductHandler) delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteMessage(c, http.StatusOK, "product deleted", nil)
}
