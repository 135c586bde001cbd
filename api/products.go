package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/service/catalog"
)

type ProductHandler struct {
	service catalog.CatalogUseCase
}

type productRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	PriceTugrik int64  `json:"price_tugrik"`
	Stock       int    `json:"stock"`
	Photo       string `json:"photo"`
	Description string `json:"description"`
}

type productResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	PriceTugrik int64  `json:"price_tugrik"`
	Stock       int    `json:"stock"`
	Photo       string `json:"photo"`
	Description string `json:"description"`
}

func NewProductHandler(service catalog.CatalogUseCase) *ProductHandler {
	return &ProductHandler{service: service}
}

func (h *ProductHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
}

func (h *ProductHandler) RegisterProtected(router *gin.RouterGroup) {
	herder := router.Group("/", RequireRole(domain.RoleHerder, domain.RoleAdmin))
	herder.POST("/", h.create)
	herder.PUT("/:id", h.update)
	herder.DELETE("/:id", h.delete)
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		PriceTugrik: p.PriceTugrik,
		Stock:       p.Stock,
		Photo:       p.Photo,
		Description: p.Description,
	}
}

func (h *ProductHandler) list(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]productResponse, 0, len(products))
	for i := range products {
		resp = append(resp, toProductResponse(&products[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	product, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := productFromRequest(req)
	if err := h.service.Create(c.Request.Context(), currentUser(c), product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProductResponse(product))
}

func (h *ProductHandler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product := productFromRequest(req)
	product.ID = id
	if err := h.service.Update(c.Request.Context(), currentUser(c), product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.service.Delete(c.Request.Context(), currentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func productFromRequest(req productRequest) *domain.Product {
	return &domain.Product{
		Name:        req.Name,
		Category:    req.Category,
		PriceTugrik: req.PriceTugrik,
		Stock:       req.Stock,
		Photo:       req.Photo,
		Description: req.Description,
	}
}
