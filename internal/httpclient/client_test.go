package httpclient

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/apigen/errors"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		allowPrivate bool
		wantErr      string
	}{
		{name: "https", url: "https://example.com/openapi.yaml"},
		{name: "http", url: "http://example.com"},
		{name: "file scheme", url: "file:///etc/passwd", wantErr: "scheme"},
		{name: "ftp scheme", url: "ftp://example.com/a.yaml", wantErr: "scheme"},
		{name: "credentials", url: "http://evil.com@localhost/", wantErr: "credentials"},
		{name: "localhost", url: "http://localhost/admin", wantErr: "localhost"},
		{name: "subdomain of localhost", url: "http://api.localhost/", wantErr: "localhost"},
		{name: "loopback", url: "http://127.0.0.1:8080/", wantErr: "private"},
		{name: "rfc1918", url: "http://10.1.2.3/", wantErr: "private"},
		{name: "metadata service", url: "http://169.254.169.254/latest", wantErr: "private"},
		{name: "ipv6 loopback", url: "http://[::1]/", wantErr: "private"},
		{name: "private allowed", url: "http://127.0.0.1:8080/", allowPrivate: true},
		{name: "no host", url: "http:///path", wantErr: "hostname"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			require.NoError(t, err)
			err = ValidateURL(u, tt.allowPrivate)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestIsPrivate(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"8.8.8.8", false},
		{"2606:4700:4700::1111", false},
		{"127.0.0.1", true},
		{"10.0.0.1", true},
		{"172.16.5.4", true},
		{"192.168.1.1", true},
		{"100.64.0.1", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"::1", true},
		{"fe80::1", true},
		{"fd00::1", true},
		{"2001:db8::1", true},
		{"::ffff:10.0.0.1", true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPrivate(netip.MustParseAddr(tt.addr)))
		})
	}
}

func TestClientBlocksLoopbackAtDial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	_, err := New(Options{}).Get(srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBlocked))

	resp, err := New(Options{AllowPrivate: true}).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestClientRedirectLimit(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/again", http.StatusFound)
	}))
	defer srv.Close()

	_, err := New(Options{AllowPrivate: true, MaxRedirects: 2}).Get(srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after 2 redirects")
}
