package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminToken_RoundTrip(t *testing.T) {
	token, err := NewAdminToken(testSecret, "release-bot", time.Hour)
	require.NoError(t, err)

	subject, err := ParseAdminToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "release-bot", subject)
}

func TestNewAdminToken_Validation(t *testing.T) {
	_, err := NewAdminToken("", "admin", time.Hour)
	assert.Error(t, err)

	_, err = NewAdminToken(testSecret, "", time.Hour)
	assert.Error(t, err)
}

func TestParseAdminToken_Rejects(t *testing.T) {
	expired, err := NewAdminToken(testSecret, "admin", -time.Minute)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "admin",
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"no expiry", noExpiry},
		{"wrong algorithm", wrongAlg},
		{"garbage", "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAdminToken(testSecret, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestAdminAuth_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	valid, err := NewAdminToken(testSecret, "admin", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		secret   string
		header   string
		expected int
	}{
		{"open when secret unset", "", "", http.StatusOK},
		{"missing header", testSecret, "", http.StatusUnauthorized},
		{"wrong scheme", testSecret, "Basic " + valid, http.StatusUnauthorized},
		{"valid bearer", testSecret, "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", testSecret, "bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/admin", AdminAuth(tt.secret), func(c *gin.Context) {
				subject, _ := c.Get(adminSubjectKey)
				c.JSON(http.StatusOK, gin.H{"subject": subject})
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expected, w.Code)
			if tt.expected == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), "Unauthorized")
			}
		})
	}
}
