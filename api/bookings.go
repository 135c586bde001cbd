package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	CampID    int64  `json:"camp_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Guests    int    `json:"guests"`
	Email     string `json:"email"`
}

type bookingResponse struct {
	Token       string `json:"token"`
	CampID      int64  `json:"camp_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Guests      int    `json:"guests"`
	Nights      int    `json:"nights"`
	TotalTugrik int64  `json:"total_tugrik"`
	Status      string `json:"status"`
	ExpiresAt   string `json:"expires_at"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.listMine)
	router.GET("/quote", h.quote)
	router.PUT("/:token", h.confirm)
	router.DELETE("/:token", h.cancel)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		Token:       b.Token,
		CampID:      b.CampID,
		StartDate:   b.StartDate.Format(time.DateOnly),
		EndDate:     b.EndDate.Format(time.DateOnly),
		Guests:      b.Guests,
		Nights:      b.Nights,
		TotalTugrik: b.TotalTugrik,
		Status:      string(b.Status),
		ExpiresAt:   b.ExpiresAt.Format(time.RFC3339),
	}
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
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

	user := currentUser(c)
	email := req.Email
	if email == "" {
		email = user.Email
	}

	result, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		CampID:    req.CampID,
		UserID:    user.ID,
		StartDate: start,
		EndDate:   end,
		Guests:    req.Guests,
		Email:     email,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingResponse(result))
}

func (h *BookingHandler) listMine(c *gin.Context) {
	bookings, err := h.service.ListUserBookings(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		resp = append(resp, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) quote(c *gin.Context) {
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

	quote, err := h.service.Quote(c.Request.Context(), booking.QuoteInput{
		CampID:    campID,
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h *BookingHandler) confirm(c *gin.Context) {
	result, err := h.service.ConfirmBooking(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(result))
}

func (h *BookingHandler) cancel(c *gin.Context) {
	result, err := h.service.CancelBooking(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(result))
}
