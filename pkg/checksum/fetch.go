package checksum

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const maxManifestSize = 1 << 20

// Source yields checksum manifests
type Source interface {
	Manifest(ctx context.Context, url string) (Manifest, error)
}

// HTTPSource fetches manifests over HTTP
type HTTPSource struct {
	Client *http.Client
}

// NewHTTPSource builds a source with a client configured with sane timeouts
func NewHTTPSource() *HTTPSource {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &HTTPSource{
		Client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				Proxy:                 http.ProxyFromEnvironment,
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   5 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
			},
		},
	}
}

// Manifest downloads and parses the manifest at url
func (s *HTTPSource) Manifest(ctx context.Context, url string) (Manifest, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, ErrFetch.Wrap(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, ErrFetch.Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, ErrFetch.Wrapf("GET %s: %s", url, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize+1))
	if err != nil {
		return nil, ErrFetch.Wrap(fmt.Errorf("GET %s: %w", url, err))
	}
	if len(body) > maxManifestSize {
		return nil, ErrFetch.Wrapf("GET %s: manifest exceeds %d bytes", url, maxManifestSize)
	}
	return Parse(body)
}

// StaticSource serves a fixed manifest, whatever the URL
type StaticSource Manifest

// Manifest returns the static manifest
func (s StaticSource) Manifest(_ context.Context, _ string) (Manifest, error) {
	return Manifest(s), nil
}
