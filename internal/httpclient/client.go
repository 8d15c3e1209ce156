// Package httpclient builds the HTTP client used to download remote API
// descriptions. It refuses private and loopback addresses unless told
// otherwise, so an apigen.toml from an untrusted checkout cannot point the
// generator at internal services.
package httpclient

import (
	"context"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/teranos/apigen/errors"
)

// ErrBlocked marks a request refused by the address policy.
var ErrBlocked = errors.New("request blocked")

// Options configures New.
type Options struct {
	Timeout      time.Duration // whole request, 0 = none
	MaxRedirects int           // 0 = 10
	AllowPrivate bool          // permit non-public targets
}

var allowedSchemes = []string{"http", "https"}

// New returns a client enforcing opts on the first request and every
// redirect. Private addresses are checked after DNS resolution too.
func New(opts Options) *http.Client {
	maxRedirects := opts.MaxRedirects
	if maxRedirects == 0 {
		maxRedirects = 10
	}

	client := &http.Client{Timeout: opts.Timeout}
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errors.Newf("stopped after %d redirects", maxRedirects)
		}
		if err := ValidateURL(req.URL, opts.AllowPrivate); err != nil {
			return errors.Wrap(err, "redirect blocked")
		}
		return nil
	}

	if opts.AllowPrivate {
		return client
	}

	dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
	client.Transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, errors.Wrap(err, "invalid address")
			}
			ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to resolve host %q", host)
			}
			for _, ip := range ips {
				if IsPrivate(ip) {
					return nil, errors.Wrapf(ErrBlocked, "%s resolves to private address %s", host, ip)
				}
			}
			return dialer.DialContext(ctx, network, addr)
		},
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return client
}

// ValidateURL checks u against the scheme and address policy without
// resolving it.
func ValidateURL(u *url.URL, allowPrivate bool) error {
	scheme := strings.ToLower(u.Scheme)
	if !slices.Contains(allowedSchemes, scheme) {
		return errors.Wrapf(ErrBlocked, "scheme %q not allowed", u.Scheme)
	}
	if u.User != nil {
		// http://evil.com@localhost/
		return errors.Wrap(ErrBlocked, "credentials in URL")
	}
	host := u.Hostname()
	if host == "" {
		return errors.New("URL missing hostname")
	}
	if allowPrivate {
		return nil
	}
	if isLocalhost(host) {
		return errors.Wrap(ErrBlocked, "localhost")
	}
	if ip, err := netip.ParseAddr(host); err == nil && IsPrivate(ip) {
		return errors.Wrapf(ErrBlocked, "private address %s", host)
	}
	return nil
}

var specialPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"), // carrier-grade NAT
	netip.MustParsePrefix("224.0.0.0/4"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("2001:db8::/32"),
	netip.MustParsePrefix("fec0::/10"),
}

// IsPrivate reports whether ip is anything but a public unicast address.
func IsPrivate(ip netip.Addr) bool {
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsMulticast() || ip.IsUnspecified() {
		return true
	}
	for _, p := range specialPrefixes {
		if p.Contains(ip) {
			return true
		}
	}
	return false
}

func isLocalhost(host string) bool {
	host = strings.ToLower(host)
	return host == "localhost" ||
		host == "localhost.localdomain" ||
		strings.HasSuffix(host, ".localhost")
}
