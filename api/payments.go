package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magicalboonies/safaribook/internal/domain"
	"github.com/magicalboonies/safaribook/internal/repository"
	"github.com/magicalboonies/safaribook/internal/service/booking"
)

// PaymentHandler receives the browser back from the hosted checkout page.
// The gateway redirect carries only a reference; the booking status is
// settled by a server-side verify call, never by trusting the redirect.
type PaymentHandler struct {
	service booking.BookingUseCase
}

type verifyResponse struct {
	Reference string          `json:"reference"`
	Status    string          `json:"status"`
	Booking   bookingResponse `json:"booking"`
}

func NewPaymentHandler(service booking.BookingUseCase) *PaymentHandler {
	return &PaymentHandler{service: service}
}

func (h *PaymentHandler) Register(router *gin.RouterGroup) {
	router.GET("/callback", h.verify)
	router.GET("/verify", h.verify)
}

func (h *PaymentHandler) verify(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		reference = c.Query("trxref")
	}
	if reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reference is required"})
		return
	}

	b, err := h.service.ConfirmFromReference(c.Request.Context(), reference)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no booking for reference"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	status := http.StatusOK
	if b.Status != domain.BookingStatusConfirmed {
		// Charge did not go through; surface it so the client can show
		// the failure view with a support contact.
		status = http.StatusPaymentRequired
	}
	c.JSON(status, verifyResponse{
		Reference: reference,
		Status:    string(b.Status),
		Booking:   toBookingResponse(b),
	})
}
