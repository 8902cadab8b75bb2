package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/magicalboonies/safaribook/internal/domain"
	"github.com/magicalboonies/safaribook/internal/repository"
	"github.com/magicalboonies/safaribook/internal/service/packages"
)

type PackageHandler struct {
	service packages.PackageUseCase
}

type packageResponse struct {
	ID                  string   `json:"id"`
	Slug                string   `json:"slug"`
	Title               string   `json:"title"`
	Duration            string   `json:"duration"`
	GroupSize           string   `json:"group_size"`
	Overview            string   `json:"overview"`
	ItineraryHighlights []string `json:"itinerary_highlights"`
	Inclusions          []string `json:"inclusions"`
	Exclusions          []string `json:"exclusions"`
	BestTravelSeason    string   `json:"best_travel_season"`
	PriceCents          int64    `json:"price_cents"`
	Tags                []string `json:"tags"`
	Rating              float64  `json:"rating"`
	ImageURL            string   `json:"image_url"`
	DestinationCategory string   `json:"destination_category"`
	PackageCategory     string   `json:"package_category"`
}

func NewPackageHandler(service packages.PackageUseCase) *PackageHandler {
	return &PackageHandler{service: service}
}

func (h *PackageHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:idOrSlug", h.get)
}

func (h *PackageHandler) list(c *gin.Context) {
	filter := repository.PackageFilter{
		DestinationCategory: c.Query("destination_category"),
		PackageCategory:     c.Query("package_category"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		filter.Limit = limit
	}

	list, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]packageResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toPackageResponse(&list[i]))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PackageHandler) get(c *gin.Context) {
	pkg, err := h.service.Get(c.Request.Context(), c.Param("idOrSlug"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toPackageResponse(pkg))
}

func toPackageResponse(p *domain.SafariPackage) packageResponse {
	return packageResponse{
		ID:                  p.ID,
		Slug:                p.Slug,
		Title:               p.Title,
		Duration:            p.Duration,
		GroupSize:           p.GroupSize,
		Overview:            p.Overview,
		ItineraryHighlights: p.ItineraryHighlights,
		Inclusions:          p.Inclusions,
		Exclusions:          p.Exclusions,
		BestTravelSeason:    p.BestTravelSeason,
		PriceCents:          p.PriceCents,
		Tags:                p.Tags,
		Rating:              p.Rating,
		ImageURL:            p.ImageURL,
		DestinationCategory: p.DestinationCategory,
		PackageCategory:     p.PackageCategory,
	}
}
