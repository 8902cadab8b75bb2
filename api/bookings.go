package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magicalboonies/safaribook/internal/auth"
	"github.com/magicalboonies/safaribook/internal/domain"
	"github.com/magicalboonies/safaribook/internal/repository"
	"github.com/magicalboonies/safaribook/internal/service/booking"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = time.RFC3339
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	PackageID       string `json:"package_id"`
	StartDate       string `json:"start_date"`
	Adults          int    `json:"adults"`
	Children        int    `json:"children"`
	SpecialRequests string `json:"special_requests"`
	ContactName     string `json:"contact_name"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone"`
	ContactCountry  string `json:"contact_country"`
}

type bookingResponse struct {
	ID               string `json:"id"`
	PackageID        string `json:"package_id"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	Adults           int    `json:"adults"`
	Children         int    `json:"children"`
	SpecialRequests  string `json:"special_requests,omitempty"`
	ContactName      string `json:"contact_name"`
	ContactEmail     string `json:"contact_email"`
	ContactPhone     string `json:"contact_phone"`
	ContactCountry   string `json:"contact_country"`
	TotalCents       int64  `json:"total_cents"`
	Status           string `json:"status"`
	PaymentReference string `json:"payment_reference,omitempty"`
	CreatedAt        string `json:"created_at"`
}

type createBookingResponse struct {
	Booking bookingResponse `json:"booking"`
	Payment paymentSession  `json:"payment"`
}

type paymentSession struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
	AccessCode       string `json:"access_code"`
}

type userBookingResponse struct {
	bookingResponse
	PackageTitle        string `json:"package_title,omitempty"`
	PackageImageURL     string `json:"package_image_url,omitempty"`
	PackageDuration     string `json:"package_duration,omitempty"`
	DestinationCategory string `json:"destination_category,omitempty"`
}

type availabilityResponse struct {
	Available bool   `json:"available"`
	Capacity  int    `json:"capacity"`
	Booked    int    `json:"booked"`
	Requested int    `json:"requested"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register wires the booking routes. The group must already carry the
// session middleware: every route here needs an authenticated caller.
func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/availability", h.availability)
	router.POST("/", h.create)
	router.DELETE("/:id", h.cancel)
}

func (h *BookingHandler) availability(c *gin.Context) {
	packageID := c.Query("package_id")
	start, err := time.Parse(dateLayout, c.Query("start_date"))
	if packageID == "" || err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "package_id and start_date are required"})
		return
	}
	adults, err := strconv.Atoi(c.DefaultQuery("adults", "0"))
	if err != nil || adults < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid adults"})
		return
	}
	children, err := strconv.Atoi(c.DefaultQuery("children", "0"))
	if err != nil || children < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid children"})
		return
	}

	availability, err := h.service.CheckAvailability(c.Request.Context(), packageID, start, adults, children)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
			return
		}
		// Non-definitive answer: the client must block submission.
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, availabilityResponse{
		Available: availability.Available,
		Capacity:  availability.Capacity,
		Booked:    availability.Booked,
		Requested: availability.Requested,
		StartDate: availability.StartDate.Format(dateLayout),
		EndDate:   availability.EndDate.Format(dateLayout),
	})
}

func (h *BookingHandler) create(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var start time.Time
	if req.StartDate != "" {
		parsed, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		start = parsed
	}

	created, err := h.service.CreateBooking(c.Request.Context(), user, booking.CreateBookingInput{
		PackageID:       req.PackageID,
		StartDate:       start,
		Adults:          req.Adults,
		Children:        req.Children,
		SpecialRequests: req.SpecialRequests,
		ContactName:     req.ContactName,
		ContactEmail:    req.ContactEmail,
		ContactPhone:    req.ContactPhone,
		ContactCountry:  req.ContactCountry,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "package not found"})
		case errors.Is(err, booking.ErrUnavailable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, createBookingResponse{
		Booking: toBookingResponse(created.Booking),
		Payment: paymentSession{
			AuthorizationURL: created.PaymentURL,
			Reference:        created.PaymentReference,
			AccessCode:       created.AccessCode,
		},
	})
}

func (h *BookingHandler) list(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	bookings, err := h.service.ListUserBookings(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]userBookingResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, userBookingResponse{
			bookingResponse:     toBookingResponse(&b.Booking),
			PackageTitle:        b.PackageTitle,
			PackageImageURL:     b.PackageImageURL,
			PackageDuration:     b.PackageDuration,
			DestinationCategory: b.DestinationCategory,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
		return
	}

	cancelled, err := h.service.CancelBooking(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, booking.ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toBookingResponse(cancelled))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:               b.ID,
		PackageID:        b.PackageID,
		StartDate:        b.StartDate.Format(dateLayout),
		EndDate:          b.EndDate.Format(dateLayout),
		Adults:           b.Adults,
		Children:         b.Children,
		SpecialRequests:  b.SpecialRequests,
		ContactName:      b.ContactName,
		ContactEmail:     b.ContactEmail,
		ContactPhone:     b.ContactPhone,
		ContactCountry:   b.ContactCountry,
		TotalCents:       b.TotalCents,
		Status:           string(b.Status),
		PaymentReference: b.PaymentReference,
		CreatedAt:        b.CreatedAt.Format(timeLayout),
	}
}
