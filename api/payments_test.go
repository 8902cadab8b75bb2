package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/magicalboonies/safaribook/internal/domain"
	"github.com/magicalboonies/safaribook/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestPaymentHandler_verifyConfirms(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/payments/callback?reference=ref-123", nil)

	mockService.On("ConfirmFromReference", c.Request.Context(), "ref-123").Return(testBooking(domain.BookingStatusConfirmed), nil)

	handler.verify(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response verifyResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ref-123", response.Reference)
	assert.Equal(t, string(domain.BookingStatusConfirmed), response.Status)

	mockService.AssertExpectations(t)
}

func TestPaymentHandler_verifyFailedCharge(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	// Paystack appends both trxref and reference; either works.
	c.Request = httptest.NewRequest("GET", "/payments/callback?trxref=ref-123", nil)

	mockService.On("ConfirmFromReference", c.Request.Context(), "ref-123").Return(testBooking(domain.BookingStatusFailed), nil)

	handler.verify(c)

	assert.Equal(t, http.StatusPaymentRequired, w.Code)

	var response verifyResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, string(domain.BookingStatusFailed), response.Status)

	mockService.AssertExpectations(t)
}

func TestPaymentHandler_verifyMissingReference(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/payments/callback", nil)

	handler.verify(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "ConfirmFromReference", mock.Anything, mock.Anything)
}

func TestPaymentHandler_verifyUnknownReference(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewPaymentHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/payments/verify?reference=ref-unknown", nil)

	mockService.On("ConfirmFromReference", c.Request.Context(), "ref-unknown").Return(nil, repository.ErrNotFound)

	handler.verify(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockService.AssertExpectations(t)
}
