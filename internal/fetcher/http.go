package fetcher

import (
	"compress/gzip"
	"compress/zlib"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/dustin/go-humanize"
	"golang.org/x/net/publicsuffix"

	"github.com/IshaanNene/HeadlineGoat/internal/config"
	"github.com/IshaanNene/HeadlineGoat/internal/types"
)

// HTTPFetcher implements Fetcher using net/http with a browser-like header set.
type HTTPFetcher struct {
	client *http.Client
	cfg    *config.FetcherConfig
	logger *slog.Logger
}

// NewHTTPFetcher creates a new HTTP fetcher.
func NewHTTPFetcher(cfg *config.FetcherConfig, logger *slog.Logger) (*HTTPFetcher, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	var transport http.RoundTripper
	if cfg.TLSFingerprint {
		transport = newBrowserTransport(cfg.ListingTimeout)
	} else {
		transport = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        cfg.MaxIdleConns,
			MaxIdleConnsPerHost: max(cfg.MaxIdleConns/2, 1),
			IdleConnTimeout:     cfg.IdleConnTimeout,
			TLSHandshakeTimeout: 10 * time.Second,
			ForceAttemptHTTP2:   true,
			DisableCompression:  true, // brotli is decoded in decompressReader
		}
	}

	maxRedirects := cfg.MaxRedirects
	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("max redirects (%d) reached", maxRedirects)
		}
		return nil
	}

	client := &http.Client{
		Transport:     transport,
		Jar:           jar,
		CheckRedirect: redirectPolicy,
	}

	return &HTTPFetcher{
		client: client,
		cfg:    cfg,
		logger: logger.With("component", "http_fetcher"),
	}, nil
}

// Fetch executes a GET request and returns the decoded response. Non-2xx
// statuses and transport failures come back as *types.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeoutFor(req))
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URLString(), nil)
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Kind: types.FetchNetwork, Err: err}
	}
	f.setHeaders(httpReq, req)

	start := time.Now()
	httpResp, err := f.client.Do(httpReq)
	duration := time.Since(start)
	if err != nil {
		return nil, &types.FetchError{
			URL:     req.URLString(),
			Kind:    types.FetchNetwork,
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(httpResp.Body, 4096))
		return nil, &types.FetchError{
			URL:        req.URLString(),
			Kind:       types.FetchHTTPStatus,
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("HTTP %d", httpResp.StatusCode),
		}
	}

	reader, err := decompressReader(httpResp, httpResp.Body)
	if err != nil {
		return nil, &types.FetchError{URL: req.URLString(), Kind: types.FetchNetwork, Err: err}
	}

	body, err := readLimited(reader, f.cfg.MaxBodySize)
	if err != nil {
		return nil, &types.FetchError{
			URL:     req.URLString(),
			Kind:    types.FetchNetwork,
			Timeout: isTimeout(err),
			Err:     err,
		}
	}
	if len(body) == 0 {
		return nil, &types.FetchError{URL: req.URLString(), Kind: types.FetchNetwork, Err: types.ErrEmptyResponse}
	}

	resp := types.NewResponse(req, httpResp, body, duration)

	f.logger.Debug("fetch complete",
		"url", req.URLString(),
		"kind", req.Kind,
		"status", resp.StatusCode,
		"size", humanize.Bytes(uint64(len(body))),
		"duration", duration,
	)

	return resp, nil
}

// Close releases resources.
func (f *HTTPFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// Type returns the fetcher type identifier.
func (f *HTTPFetcher) Type() string {
	if f.cfg.TLSFingerprint {
		return "http+utls"
	}
	return "http"
}

func (f *HTTPFetcher) timeoutFor(req *types.Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	if req.Kind == types.KindArticle {
		return f.cfg.ArticleTimeout
	}
	return f.cfg.ListingTimeout
}

func (f *HTTPFetcher) setHeaders(httpReq *http.Request, req *types.Request) {
	h := httpReq.Header
	h.Set("User-Agent", f.cfg.UserAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Accept-Encoding", "gzip, deflate, br")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-User", "?1")
	if f.cfg.Referer != "" {
		h.Set("Referer", f.cfg.Referer)
	}

	for key, values := range req.Headers {
		for _, v := range values {
			h.Set(key, v)
		}
	}
}

// decompressReader wraps a reader with the decompressor matching the
// response Content-Encoding. Handles gzip, deflate, and brotli (br).
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		// HTTP deflate is zlib-wrapped.
		return zlib.NewReader(reader)
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}

// readLimited reads at most limit bytes from r. Bodies over the limit are
// truncated rather than rejected; news front pages occasionally exceed it.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		return io.ReadAll(r)
	}
	return io.ReadAll(io.LimitReader(r, limit))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
