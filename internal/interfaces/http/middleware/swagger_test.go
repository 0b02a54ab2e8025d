package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp/catalog/internal/interfaces/http/dto"
	"github.com/erp/catalog/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg SwaggerConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "swagger"})
	})
	return router
}

func serveFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection_Disabled(t *testing.T) {
	w := serveFrom(swaggerRouter(SwaggerConfig{Enabled: false}), "127.0.0.1:1234")
	testutil.AssertErrorResponse(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
}

func TestSwaggerProtection_Enabled_NoRestrictions(t *testing.T) {
	w := serveFrom(swaggerRouter(SwaggerConfig{Enabled: true}), "203.0.113.9:1234")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSwaggerProtection_AllowList(t *testing.T) {
	router := swaggerRouter(SwaggerConfig{
		Enabled:    true,
		AllowedIPs: []string{"127.0.0.1", "10.0.0.0/8"},
	})

	tests := []struct {
		name       string
		remoteAddr string
		wantStatus int
	}{
		{"exact address", "127.0.0.1:5000", http.StatusOK},
		{"inside network", "10.1.2.3:5000", http.StatusOK},
		{"outside", "192.168.1.10:5000", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveFrom(router, tt.remoteAddr)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusForbidden {
				testutil.AssertErrorResponse(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
			}
		})
	}
}

func TestSwaggerProtection_InvalidEntriesAdmitNobody(t *testing.T) {
	router := swaggerRouter(SwaggerConfig{
		Enabled:    true,
		AllowedIPs: []string{"not-an-ip", "10.0.0.0/99"},
	})

	w := serveFrom(router, "127.0.0.1:5000")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestParseAllowList(t *testing.T) {
	ips, nets := parseAllowList([]string{" 192.168.1.1 ", "10.0.0.0/8", "::1", "bogus"})

	assert.Len(t, ips, 2)
	assert.Len(t, nets, 1)
	assert.True(t, nets[0].Contains(net.ParseIP("10.200.0.1")))
}

func TestIsIPAllowed(t *testing.T) {
	ips, nets := parseAllowList([]string{"192.168.1.1", "::1", "10.0.0.0/8"})

	tests := []struct {
		name string
		ip   string
		want bool
	}{
		{"exact IPv4 match", "192.168.1.1", true},
		{"no match", "192.168.1.2", false},
		{"CIDR match", "10.0.0.5", true},
		{"CIDR no match", "11.0.0.5", false},
		{"IPv6 localhost", "::1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isIPAllowed(net.ParseIP(tt.ip), ips, nets))
		})
	}

	assert.False(t, isIPAllowed(nil, ips, nets))
}
