package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jwtSecret string

func (s jwtSecret) GetJWTAccessSecret() string { return string(s) }

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newAuthRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthRequired(jwtSecret(secret)), func(c *gin.Context) {
		id := MustGetIdentity(c)
		if id == nil {
			return
		}
		OK(c, gin.H{"staffId": id.StaffID(), "staffName": id.StaffName(), "admin": id.HasRole("admin")})
	})
	return r
}

func TestAuthRequiredAcceptsAccessToken(t *testing.T) {
	r := newAuthRouter("s3cret")
	token := signToken(t, "s3cret", jwt.MapClaims{
		"sub":   "staff-1",
		"name":  "Sarah Johnson",
		"type":  "access",
		"roles": []string{"admin"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "staff-1", body["staffId"])
	assert.Equal(t, "Sarah Johnson", body["staffName"])
	assert.Equal(t, true, body["admin"])
}

func TestAuthRequiredRejects(t *testing.T) {
	r := newAuthRouter("s3cret")

	cases := map[string]string{
		"missing":      "",
		"wrong secret": "Bearer " + signToken(t, "other", jwt.MapClaims{"sub": "staff-1", "type": "access"}),
		"refresh type": "Bearer " + signToken(t, "s3cret", jwt.MapClaims{"sub": "staff-1", "type": "refresh"}),
		"no subject":   "Bearer " + signToken(t, "s3cret", jwt.MapClaims{"type": "access"}),
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewIPRateLimiter(0, 1, nil)
	r := gin.New()
	r.GET("/x", limiter.RateLimit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRequestIDEchoesInboundHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(ContextRequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "abc-123", rec.Body.String())
}
