package operator

import (
	"context"
	"net"
	"net/url"

	"github.com/pkg/errors"
	"golang.org/x/net/proxy"
)

// Dial connects to the controller at addr, through proxyURL when it is set
// (e.g. socks5://127.0.0.1:1080).
func Dial(ctx context.Context, addr, proxyURL string) (net.Conn, error) {
	var dialer proxy.Dialer = proxy.Direct
	if proxyURL != "" {
		u, err := url.Parse(proxyURL)
		if err != nil {
			return nil, errors.Wrap(err, "bad proxy url")
		}
		if dialer, err = proxy.FromURL(u, proxy.Direct); err != nil {
			return nil, errors.Wrap(err, "unusable proxy")
		}
	}

	if cd, ok := dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, "tcp", addr)
	}
	return dialer.Dial("tcp", addr)
}
