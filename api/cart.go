package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/service/checkout"
)

type CartHandler struct {
	service checkout.CheckoutUseCase
}

type addProductRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type addBookingRequest struct {
	CampID    int64  `json:"camp_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Guests    int    `json:"guests"`
}

type checkoutRequest struct {
	Email          string `json:"email"`
	IdempotencyKey string `json:"idempotency_key"`
}

type cartResponse struct {
	Products       []domain.ProductLine `json:"products"`
	Bookings       []cartBookingWire    `json:"bookings"`
	SubtotalTugrik int64                `json:"subtotal_tugrik"`
}

type cartBookingWire struct {
	CampID        int64  `json:"camp_id"`
	CampName      string `json:"camp_name"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Guests        int    `json:"guests"`
	PricePerNight int64  `json:"price_per_night"`
	Nights        int    `json:"nights"`
}

type checkoutResponse struct {
	OrderNumber    string            `json:"order_number"`
	InvoiceNumber  string            `json:"invoice_number"`
	SubtotalTugrik int64             `json:"subtotal_tugrik"`
	FeeTugrik      int64             `json:"fee_tugrik"`
	TotalTugrik    int64             `json:"total_tugrik"`
	Bookings       []bookingResponse `json:"bookings"`
}

func NewCartHandler(service checkout.CheckoutUseCase) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.get)
	router.DELETE("/", h.clear)
	router.POST("/products", h.addProduct)
	router.DELETE("/products/:id", h.removeProduct)
	router.POST("/bookings", h.addBooking)
	router.DELETE("/bookings", h.removeBooking)
	router.POST("/checkout", h.checkout)
}

func toCartResponse(cart *domain.Cart) cartResponse {
	resp := cartResponse{
		Products:       cart.Products,
		Bookings:       make([]cartBookingWire, 0, len(cart.Bookings)),
		SubtotalTugrik: cart.Subtotal(),
	}
	if resp.Products == nil {
		resp.Products = make([]domain.ProductLine, 0)
	}
	for _, b := range cart.Bookings {
		resp.Bookings = append(resp.Bookings, cartBookingWire{
			CampID:        b.CampID,
			CampName:      b.CampName,
			StartDate:     b.StartDate.Format(time.DateOnly),
			EndDate:       b.EndDate.Format(time.DateOnly),
			Guests:        b.Guests,
			PricePerNight: b.PricePerNight,
			Nights:        domain.Nights(b.StartDate, b.EndDate),
		})
	}
	return resp
}

func (h *CartHandler) get(c *gin.Context) {
	cart, err := h.service.GetCart(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) clear(c *gin.Context) {
	if err := h.service.ClearCart(c.Request.Context(), currentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) addProduct(c *gin.Context) {
	var req addProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.service.AddProduct(c.Request.Context(), currentUser(c).ID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) removeProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	cart, err := h.service.RemoveProduct(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) addBooking(c *gin.Context) {
	var req addBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		respondError(c, err)
		return
	}

	cart, err := h.service.AddBooking(c.Request.Context(), currentUser(c).ID, checkout.AddBookingInput{
		CampID:    req.CampID,
		StartDate: start,
		EndDate:   end,
		Guests:    req.Guests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) removeBooking(c *gin.Context) {
	campID, err := strconv.ParseInt(c.Query("camp_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid camp_id"})
		return
	}
	start, err := domain.ParseDate(c.Query("start_date"))
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := domain.ParseDate(c.Query("end_date"))
	if err != nil {
		respondError(c, err)
		return
	}

	cart, err := h.service.RemoveBooking(c.Request.Context(), currentUser(c).ID, campID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)
	email := req.Email
	if email == "" {
		email = user.Email
	}

	result, shortages, err := h.service.Checkout(c.Request.Context(), checkout.CheckoutInput{
		UserID:         user.ID,
		Email:          email,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		if len(shortages) > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "shortages": shortages})
			return
		}
		respondError(c, err)
		return
	}

	resp := checkoutResponse{
		OrderNumber:    result.Order.Number,
		InvoiceNumber:  result.Invoice.Number,
		SubtotalTugrik: result.Order.SubtotalTugrik,
		FeeTugrik:      result.Order.FeeTugrik,
		TotalTugrik:    result.Order.TotalTugrik,
		Bookings:       make([]bookingResponse, 0, len(result.Bookings)),
	}
	for _, b := range result.Bookings {
		resp.Bookings = append(resp.Bookings, toBookingResponse(b))
	}
	c.JSON(http.StatusCreated, resp)
}
