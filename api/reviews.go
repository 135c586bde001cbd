package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malchincamp/campbooking/internal/domain"
	"github.com/malchincamp/campbooking/internal/repository"
)

type ReviewHandler struct {
	reviews repository.ReviewRepository
	camps   repository.CampRepository
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type reviewResponse struct {
	ID        int64  `json:"id"`
	CampID    int64  `json:"camp_id"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

func NewReviewHandler(reviews repository.ReviewRepository, camps repository.CampRepository) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, camps: camps}
}

func (h *ReviewHandler) Register(router *gin.RouterGroup) {
	router.GET("/camps/:id/reviews", h.listByCamp)
}

func (h *ReviewHandler) RegisterProtected(router *gin.RouterGroup) {
	router.POST("/camps/:id/reviews", h.create)
	router.DELETE("/reviews/:id", h.delete)
}

func (h *ReviewHandler) listByCamp(c *gin.Context) {
	campID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	reviews, err := h.reviews.ListByCamp(c.Request.Context(), campID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		resp = append(resp, reviewResponse{
			ID:        r.ID,
			CampID:    r.CampID,
			UserName:  r.UserName,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt.Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ReviewHandler) create(c *gin.Context) {
	campID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		respondError(c, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrInvalidInput))
		return
	}
	if _, err := h.camps.GetByID(c.Request.Context(), campID); err != nil {
		respondError(c, err)
		return
	}

	user := currentUser(c)
	review := &domain.Review{
		CampID:  campID,
		UserID:  user.ID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := h.reviews.Create(c.Request.Context(), review); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reviewResponse{
		ID:        review.ID,
		CampID:    review.CampID,
		UserName:  user.Name,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt.Format(time.RFC3339),
	})
}

func (h *ReviewHandler) delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	review, err := h.reviews.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	user := currentUser(c)
	if review.UserID != user.ID && user.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.reviews.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
