package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/magicalboonies/safaribook/config"
	"github.com/magicalboonies/safaribook/internal/domain"
)

const userContextKey = "auth.user"

// Claims is the session token shape issued by the identity provider.
type Claims struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	AvatarURL string `json:"avatar_url"`
	jwt.RegisteredClaims
}

type Middleware struct {
	secret []byte
	issuer string
}

func NewMiddleware(cfg config.AuthConfig) *Middleware {
	return &Middleware{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer}
}

// Require rejects requests without a valid session. Absence of a session is
// anonymous, and anonymous users cannot reach booking or account routes.
func (m *Middleware) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := m.userFromRequest(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		SetUser(c, user)
		c.Next()
	}
}

// Optional attaches the session when present and lets the request through
// either way.
func (m *Middleware) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if user, ok := m.userFromRequest(c); ok {
			SetUser(c, user)
		}
		c.Next()
	}
}

func (m *Middleware) userFromRequest(c *gin.Context) (domain.User, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return domain.User{}, false
	}

	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, "Bearer "), claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, opts...)
	if err != nil || !token.Valid || claims.Subject == "" {
		return domain.User{}, false
	}

	return domain.User{
		ID:        claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		AvatarURL: claims.AvatarURL,
	}, true
}

// SetUser attaches a session identity to the request. Handler tests use it
// to simulate a signed-in caller without minting a token.
func SetUser(c *gin.Context, user domain.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the session identity attached by Require or Optional.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)
	return user, ok
}
