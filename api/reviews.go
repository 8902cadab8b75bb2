package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magicalboonies/safaribook/internal/auth"
	"github.com/magicalboonies/safaribook/internal/captcha"
	"github.com/magicalboonies/safaribook/internal/domain"
	"github.com/magicalboonies/safaribook/internal/repository"
	"github.com/magicalboonies/safaribook/internal/service/reviews"
)

type ReviewHandler struct {
	service reviews.ReviewUseCase
}

type submitReviewRequest struct {
	PackageID    string `json:"package_id"`
	Rating       int    `json:"rating"`
	Title        string `json:"title"`
	Comment      string `json:"comment"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	CaptchaToken string `json:"captcha_token"`
}

type reviewResponse struct {
	ID          string `json:"id"`
	PackageID   string `json:"package_id"`
	Rating      int    `json:"rating"`
	Title       string `json:"title"`
	Comment     string `json:"comment"`
	Name        string `json:"name"`
	IsApproved  bool   `json:"is_approved"`
	IsVerified  bool   `json:"is_verified"`
	SubmittedAt string `json:"submitted_at"`
	UpdatedAt   string `json:"updated_at"`
}

func NewReviewHandler(service reviews.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Register wires the review routes. The submit route expects the group to
// carry the session middleware and the rate limiter; the listing route is
// registered separately on the public group.
func (h *ReviewHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.submit)
}

func (h *ReviewHandler) RegisterPublic(router *gin.RouterGroup) {
	router.GET("/", h.listApproved)
}

func (h *ReviewHandler) listApproved(c *gin.Context) {
	packageID := c.Query("package_id")
	if packageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "package_id is required"})
		return
	}

	list, err := h.service.ListApproved(c.Request.Context(), packageID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toReviewResponses(list))
}

func (h *ReviewHandler) submit(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Submit(c.Request.Context(), user, reviews.SubmitReviewInput{
		PackageID:    req.PackageID,
		Rating:       req.Rating,
		Title:        req.Title,
		Comment:      req.Comment,
		Name:         req.Name,
		Email:        req.Email,
		CaptchaToken: req.CaptchaToken,
		RemoteIP:     c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
		case errors.Is(err, captcha.ErrVerificationFailed):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	c.JSON(status, toReviewResponse(*result.Review))
}

func toReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:          r.ID,
		PackageID:   r.PackageID,
		Rating:      r.Rating,
		Title:       r.Title,
		Comment:     r.Comment,
		Name:        r.Name,
		IsApproved:  r.IsApproved,
		IsVerified:  r.IsVerified,
		SubmittedAt: r.SubmittedAt.Format(timeLayout),
		UpdatedAt:   r.UpdatedAt.Format(timeLayout),
	}
}

func toReviewResponses(list []domain.Review) []reviewResponse {
	resp := make([]reviewResponse, 0, len(list))
	for _, r := range list {
		resp = append(resp, toReviewResponse(r))
	}
	return resp
}
