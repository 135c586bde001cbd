package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/repository"
	"github.com/malchincamp/campbooking/internal/service/booking"
	"github.com/malchincamp/campbooking/internal/service/camps"
)

type CampHandler struct {
	service  camps.CampUseCase
	bookings booking.BookingUseCase
	saved    repository.SavedCampRepository
}

type campRequest struct {
	Name          string   `json:"name"`
	Province      string   `json:"province"`
	Location      string   `json:"location"`
	PricePerNight int64    `json:"price_per_night"`
	Capacity      int      `json:"capacity"`
	Amenities     []string `json:"amenities"`
	Photos        []string `json:"photos"`
	Description   string   `json:"description"`
}

type campResponse struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Province      string   `json:"province"`
	Location      string   `json:"location"`
	PricePerNight int64    `json:"price_per_night"`
	Capacity      int      `json:"capacity"`
	Amenities     []string `json:"amenities"`
	Photos        []string `json:"photos"`
	Description   string   `json:"description"`
}

type campListResponse struct {
	Camps      []campResponse `json:"camps"`
	NextCursor int64          `json:"next_cursor,omitempty"`
}

type availabilityResponse struct {
	CampID int64           `json:"camp_id"`
	Booked []dateRangeWire `json:"booked"`
}

type dateRangeWire struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func NewCampHandler(service camps.CampUseCase, bookings booking.BookingUseCase, saved repository.SavedCampRepository) *CampHandler {
	return &CampHandler{service: service, bookings: bookings, saved: saved}
}

func (h *CampHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/availability", h.availability)
}

func (h *CampHandler) RegisterProtected(router *gin.RouterGroup) {
	herder := router.Group("/", RequireRole(domain.RoleHerder, domain.RoleAdmin))
	herder.POST("/", h.create)
	herder.PUT("/:id", h.update)
	herder.DELETE("/:id", h.delete)

	router.PUT("/:id/save", h.save)
	router.DELETE("/:id/save", h.unsave)
}

func toCampResponse(c *domain.Camp) campResponse {
	return campResponse{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		Province:      c.Province,
		Location:      c.Location,
		PricePerNight: c.PricePerNight,
		Capacity:      c.Capacity,
		Amenities:     c.Amenities,
		Photos:        c.Photos,
		Description:   c.Description,
	}
}

func (h *CampHandler) list(c *gin.Context) {
	first, _ := strconv.Atoi(c.DefaultQuery("first", "20"))
	after, _ := strconv.ParseInt(c.DefaultQuery("after", "0"), 10, 64)
	minCapacity, _ := strconv.Atoi(c.DefaultQuery("min_capacity", "0"))

	result, err := h.service.List(c.Request.Context(), repository.CampFilter{
		Province:    c.Query("province"),
		MinCapacity: minCapacity,
		First:       first,
		AfterID:     after,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	resp := campListResponse{Camps: make([]campResponse, 0, len(result))}
	for i := range result {
		resp.Camps = append(resp.Camps, toCampResponse(&result[i]))
	}
	if len(result) > 0 {
		resp.NextCursor = result[len(result)-1].ID
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CampHandler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	camp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCampResponse(camp))
}

func (h *CampHandler) availability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	ranges, err := h.bookings.Availability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := availabilityResponse{CampID: id, Booked: make([]dateRangeWire, 0, len(ranges))}
	for _, r := range ranges {
		resp.Booked = append(resp.Booked, dateRangeWire{
			StartDate: r.StartDate.Format(time.DateOnly),
			EndDate:   r.EndDate.Format(time.DateOnly),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CampHandler) create(c *gin.Context) {
	var req campRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	camp := campFromRequest(req)
	if err := h.service.Create(c.Request.Context(), currentUser(c), camp); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCampResponse(camp))
}

func (h *CampHandler) update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req campRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	camp := campFromRequest(req)
	camp.ID = id
	if err := h.service.Update(c.Request.Context(), currentUser(c), camp); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCampResponse(camp))
}

func (h *CampHandler) delete(c *gin.Context) {
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

func (h *CampHandler) save(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	if err := h.saved.Save(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CampHandler) unsave(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.saved.Unsave(c.Request.Context(), currentUser(c).ID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SavedCamps is mounted under /me by the bootstrap.
func (h *CampHandler) SavedCamps(c *gin.Context) {
	camps, err := h.saved.ListByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]campResponse, 0, len(camps))
	for i := range camps {
		resp = append(resp, toCampResponse(&camps[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func campFromRequest(req campRequest) *domain.Camp {
	return &domain.Camp{
		Name:          req.Name,
		Province:      req.Province,
		Location:      req.Location,
		PricePerNight: req.PricePerNight,
		Capacity:      req.Capacity,
		Amenities:     req.Amenities,
		Photos:        req.Photos,
		Description:   req.Description,
	}
}
