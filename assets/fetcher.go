// Package assets retrieves remote contact photos and normalizes them to
// JPEG so they can be stored in a photo row.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
)

const (
	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBytes is the default response size limit (10MB).
	DefaultMaxBytes = 10 * 1024 * 1024

	jpegQuality = 100
)

// ErrFetchFailed wraps every error returned by Fetch.
var ErrFetchFailed = errors.New("assets: fetch failed")

// Config holds fetcher configuration.
type Config struct {
	Timeout         time.Duration
	MaxBytes        int64
	MaxIdleConns    int
	IdleConnTimeout time.Duration
	UserAgent       string
}

// DefaultConfig returns the default fetcher configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		MaxBytes:        DefaultMaxBytes,
		MaxIdleConns:    16,
		IdleConnTimeout: 90 * time.Second,
		UserAgent:       "cardsync",
	}
}

// Fetcher downloads images over HTTP and re-encodes them as JPEG.
type Fetcher struct {
	client    *http.Client
	logger    ectologger.Logger
	maxBytes  int64
	userAgent string
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg Config, logger ectologger.Logger) *Fetcher {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: cfg.IdleConnTimeout,
	}
	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger:    logger,
		maxBytes:  cfg.MaxBytes,
		userAgent: cfg.UserAgent,
	}
}

// Fetch downloads the image at url and returns it encoded as JPEG. GIF, PNG
// and JPEG sources are accepted.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	log := f.logger.WithContext(ctx).WithField("url", url)

	body, err := f.get(ctx, url)
	if err != nil {
		log.WithError(err).Debug("Photo download failed")
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	img, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		log.WithError(err).Debug("Photo is not a decodable image")
		return nil, fmt.Errorf("%w: decoding image: %w", ErrFetchFailed, err)
	}

	var out bytes.Buffer
	if err := jpeg.Encode(&out, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("%w: encoding jpeg: %w", ErrFetchFailed, err)
	}

	log.WithFields(map[string]any{
		"format":   format,
		"bytes":    out.Len(),
		"duration": time.Since(start).String(),
	}).Debug("Fetched photo")
	return out.Bytes(), nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return nil, fmt.Errorf("response too large: %d bytes (max %d)", resp.ContentLength, f.maxBytes)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, fmt.Errorf("response body too large (max %d)", f.maxBytes)
	}
	return body, nil
}
