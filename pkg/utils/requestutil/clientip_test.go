package requestutil

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{
			name:       "public forwarded-for wins",
			xff:        "203.0.113.9, 10.0.0.1",
			xri:        "198.51.100.2",
			remoteAddr: "10.0.0.2:34567",
			want:       "203.0.113.9",
		},
		{
			name:       "private forwarded-for falls back to real-ip",
			xff:        "192.168.1.5",
			xri:        "198.51.100.2",
			remoteAddr: "10.0.0.2:34567",
			want:       "198.51.100.2",
		},
		{
			name:       "garbage headers fall back to remote addr",
			xff:        "not-an-ip",
			xri:        "also-not-an-ip",
			remoteAddr: "10.0.0.2:34567",
			want:       "10.0.0.2",
		},
		{
			name:       "loopback forwarded-for rejected",
			xff:        "127.0.0.1",
			remoteAddr: "10.0.0.2:34567",
			want:       "10.0.0.2",
		},
		{
			name:       "no headers",
			remoteAddr: "198.51.100.7:8080",
			want:       "198.51.100.7",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "198.51.100.7",
			want:       "198.51.100.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}

func TestIsPublicIP(t *testing.T) {
	assert.True(t, IsPublicIP("203.0.113.9"))
	assert.True(t, IsPublicIP("2001:db8::1"))

	assert.False(t, IsPublicIP("127.0.0.1"))
	assert.False(t, IsPublicIP("10.1.2.3"))
	assert.False(t, IsPublicIP("192.168.0.1"))
	assert.False(t, IsPublicIP("172.16.0.1"))
	assert.False(t, IsPublicIP("169.254.1.1"))
	assert.False(t, IsPublicIP("0.0.0.0"))
	assert.False(t, IsPublicIP("224.0.0.1"))
	assert.False(t, IsPublicIP(""))
	assert.False(t, IsPublicIP("not-an-ip"))
}

func TestFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "198.51.100.7:8080"
	r.Header.Set("User-Agent", "test-agent/1.0")

	cc := FromRequest(r)
	assert.Equal(t, "198.51.100.7", cc.IP)
	assert.Equal(t, "test-agent/1.0", cc.UserAgent)
}
