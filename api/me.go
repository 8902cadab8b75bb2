package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magicalboonies/safaribook/internal/auth"
	"github.com/magicalboonies/safaribook/internal/service/reviews"
)

// MeHandler serves the signed-in user's own profile and submissions.
type MeHandler struct {
	reviews reviews.ReviewUseCase
}

type profileResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

func NewMeHandler(reviewService reviews.ReviewUseCase) *MeHandler {
	return &MeHandler{reviews: reviewService}
}

func (h *MeHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.profile)
	router.GET("/reviews", h.myReviews)
}

func (h *MeHandler) profile(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	c.JSON(http.StatusOK, profileResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		AvatarURL: user.AvatarURL,
	})
}

func (h *MeHandler) myReviews(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}
	list, err := h.reviews.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toReviewResponses(list))
}
