package captcha

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/magicalboonies/safaribook/config"
	"github.com/stretchr/testify/assert"
)

func TestRecaptchaVerifier_Verify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "shh", r.PostForm.Get("secret"))
		assert.Equal(t, "tok", r.PostForm.Get("response"))
		json.NewEncoder(w).Encode(siteverifyResponse{Success: true})
	}))
	defer srv.Close()

	v := NewRecaptchaVerifier(config.CaptchaConfig{Secret: "shh", VerifyURL: srv.URL})
	assert.NoError(t, v.Verify(context.Background(), "tok", "1.2.3.4"))
}

func TestRecaptchaVerifier_Verify_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(siteverifyResponse{Success: false, ErrorCodes: []string{"invalid-input-response"}})
	}))
	defer srv.Close()

	v := NewRecaptchaVerifier(config.CaptchaConfig{Secret: "shh", VerifyURL: srv.URL})
	err := v.Verify(context.Background(), "bad", "")
	assert.ErrorIs(t, err, ErrVerificationFailed)
}

func TestRecaptchaVerifier_Verify_EmptyToken(t *testing.T) {
	v := NewRecaptchaVerifier(config.CaptchaConfig{Secret: "shh", VerifyURL: "http://unused"})
	assert.ErrorIs(t, v.Verify(context.Background(), "", ""), ErrVerificationFailed)
}
