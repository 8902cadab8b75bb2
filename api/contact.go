package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/magicalboonies/safaribook/internal/contact"
)

// ContactSender relays a contact-form message to the configured endpoint.
type ContactSender interface {
	Send(ctx context.Context, msg contact.Message) error
}

type ContactHandler struct {
	relay ContactSender
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func NewContactHandler(relay ContactSender) *ContactHandler {
	return &ContactHandler{relay: relay}
}

func (h *ContactHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.send)
}

func (h *ContactHandler) send(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, email and message are required"})
		return
	}

	err := h.relay.Send(c.Request.Context(), contact.Message{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Subject: req.Subject,
		Body:    req.Message,
	})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "sent"})
}
