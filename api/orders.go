package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/repository"
)

type OrderHandler struct {
	orders repository.OrderRepository
}

type orderItemWire struct {
	ProductID   int64  `json:"product_id"`
	Name        string `json:"name"`
	PriceTugrik int64  `json:"price_tugrik"`
	Quantity    int    `json:"quantity"`
}

type orderResponse struct {
	Number         string          `json:"number"`
	Status         string          `json:"status"`
	SubtotalTugrik int64           `json:"subtotal_tugrik"`
	FeeTugrik      int64           `json:"fee_tugrik"`
	TotalTugrik    int64           `json:"total_tugrik"`
	Items          []orderItemWire `json:"items"`
	CreatedAt      string          `json:"created_at"`
}

type invoiceResponse struct {
	Number         string `json:"number"`
	SubtotalTugrik int64  `json:"subtotal_tugrik"`
	FeeTugrik      int64  `json:"fee_tugrik"`
	TotalTugrik    int64  `json:"total_tugrik"`
	IssuedAt       string `json:"issued_at"`
}

func NewOrderHandler(orders repository.OrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.listMine)
	router.GET("/:number", h.get)
}

func (h *OrderHandler) RegisterInvoices(router *gin.RouterGroup) {
	router.GET("/:number", h.getInvoice)
}

func toOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		Number:         o.Number,
		Status:         string(o.Status),
		SubtotalTugrik: o.SubtotalTugrik,
		FeeTugrik:      o.FeeTugrik,
		TotalTugrik:    o.TotalTugrik,
		Items:          make([]orderItemWire, 0, len(o.Items)),
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
	for _, item := range o.Items {
		resp.Items = append(resp.Items, orderItemWire{
			ProductID:   item.ProductID,
			Name:        item.Name,
			PriceTugrik: item.PriceTugrik,
			Quantity:    item.Quantity,
		})
	}
	return resp
}

func (h *OrderHandler) listMine(c *gin.Context) {
	orders, err := h.orders.ListByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]orderResponse, 0, len(orders))
	for i := range orders {
		resp = append(resp, toOrderResponse(&orders[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrderHandler) get(c *gin.Context) {
	order, err := h.orders.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}

	user := currentUser(c)
	if order.UserID != user.ID && user.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *OrderHandler) getInvoice(c *gin.Context) {
	invoice, err := h.orders.GetInvoiceByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		respondError(c, err)
		return
	}

	user := currentUser(c)
	if invoice.UserID != user.ID && user.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	c.JSON(http.StatusOK, invoiceResponse{
		Number:         invoice.Number,
		SubtotalTugrik: invoice.SubtotalTugrik,
		FeeTugrik:      invoice.FeeTugrik,
		TotalTugrik:    invoice.TotalTugrik,
		IssuedAt:       invoice.IssuedAt.Format(time.RFC3339),
	})
}
