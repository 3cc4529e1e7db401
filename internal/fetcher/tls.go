package fetcher

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

// utlsConn wraps a utls.UConn and satisfies the ConnectionState interface
// net/http2 expects.
type utlsConn struct {
	*utls.UConn
}

func (c *utlsConn) ConnectionState() tls.ConnectionState {
	cs := c.UConn.ConnectionState()
	return tls.ConnectionState{
		Version:                    cs.Version,
		HandshakeComplete:          cs.HandshakeComplete,
		CipherSuite:                cs.CipherSuite,
		NegotiatedProtocol:         cs.NegotiatedProtocol,
		NegotiatedProtocolIsMutual: cs.NegotiatedProtocolIsMutual,
		ServerName:                 cs.ServerName,
		PeerCertificates:           cs.PeerCertificates,
		VerifiedChains:             cs.VerifiedChains,
		OCSPResponse:               cs.OCSPResponse,
		TLSUnique:                  cs.TLSUnique,
	}
}

// browserTransport dials https origins with a Firefox ClientHello and routes
// the connection to HTTP/1.1 or HTTP/2 based on ALPN. Some outlets sit behind
// CDNs that serve challenge pages to Go's default TLS fingerprint.
type browserTransport struct {
	dialer *net.Dialer
	h1     *http.Transport
	h2     *http2.Transport
}

func newBrowserTransport(timeout time.Duration) *browserTransport {
	dialer := &net.Dialer{Timeout: timeout, KeepAlive: 30 * time.Second}
	return &browserTransport{
		dialer: dialer,
		h1: &http.Transport{
			DialContext:        dialer.DialContext,
			DisableCompression: true,
		},
		h2: &http2.Transport{DisableCompression: true},
	}
}

func (bt *browserTransport) dialUTLS(ctx context.Context, network, addr string) (net.Conn, string, error) {
	conn, err := bt.dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, "", err
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	tlsConn := utls.UClient(conn, &utls.Config{ServerName: host}, utls.HelloFirefox_120)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, "", err
	}

	return &utlsConn{tlsConn}, tlsConn.ConnectionState().NegotiatedProtocol, nil
}

func (bt *browserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return bt.h1.RoundTrip(req)
	}

	addr := req.URL.Host
	if _, _, err := net.SplitHostPort(addr); err != nil {
		addr += ":443"
	}

	conn, alpn, err := bt.dialUTLS(req.Context(), "tcp", addr)
	if err != nil {
		return nil, err
	}

	if alpn == "h2" {
		h2conn, err := bt.h2.NewClientConn(conn)
		if err != nil {
			conn.Close()
			return nil, err
		}
		resp, err := h2conn.RoundTrip(req)
		if err != nil {
			h2conn.Close()
			return nil, err
		}
		return closeWithBody(resp, h2conn.Close), nil
	}

	oneShot := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return conn, nil
		},
		DisableCompression: true,
		DisableKeepAlives:  true,
	}
	resp, err := oneShot.RoundTrip(req)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return closeWithBody(resp, conn.Close), nil
}

// connBody releases the connection a response was read from once the body
// is closed. Each fingerprinted request owns its connection.
type connBody struct {
	io.ReadCloser
	release func() error
	once    sync.Once
}

func (b *connBody) Close() error {
	err := b.ReadCloser.Close()
	b.once.Do(func() { b.release() })
	return err
}

func closeWithBody(resp *http.Response, release func() error) *http.Response {
	resp.Body = &connBody{ReadCloser: resp.Body, release: release}
	return resp
}

// CloseIdleConnections satisfies the interface http.Client looks for.
func (bt *browserTransport) CloseIdleConnections() {
	bt.h1.CloseIdleConnections()
}
