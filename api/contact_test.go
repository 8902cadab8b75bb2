package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/magicalboonies/safaribook/internal/contact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockContactSender struct {
	mock.Mock
}

func (m *MockContactSender) Send(ctx context.Context, msg contact.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func TestContactHandler_send(t *testing.T) {
	mockSender := &MockContactSender{}
	handler := NewContactHandler(mockSender)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(contactRequest{
		Name:    "Amina Odhiambo",
		Email:   "amina@example.com",
		Phone:   "+254700000000",
		Subject: "Group discount",
		Message: "Do you offer rates for parties of ten?",
	})
	c.Request = httptest.NewRequest("POST", "/contact", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockSender.On("Send", c.Request.Context(), contact.Message{
		Name:    "Amina Odhiambo",
		Email:   "amina@example.com",
		Phone:   "+254700000000",
		Subject: "Group discount",
		Body:    "Do you offer rates for parties of ten?",
	}).Return(nil)

	handler.send(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	mockSender.AssertExpectations(t)
}

func TestContactHandler_sendMissingFields(t *testing.T) {
	mockSender := &MockContactSender{}
	handler := NewContactHandler(mockSender)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/contact", bytes.NewReader([]byte(`{"name":"Amina"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.send(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestContactHandler_sendRelayDown(t *testing.T) {
	mockSender := &MockContactSender{}
	handler := NewContactHandler(mockSender)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(contactRequest{Name: "Amina", Email: "amina@example.com", Message: "hello"})
	c.Request = httptest.NewRequest("POST", "/contact", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockSender.On("Send", c.Request.Context(), mock.Anything).Return(errors.New("relay returned status 502"))

	handler.send(c)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	mockSender.AssertExpectations(t)
}
