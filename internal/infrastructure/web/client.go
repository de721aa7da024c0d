package web

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"TNSBot/internal/domain"
)

const defaultUserAgent = "TNSBot/1.0"

// Options configures a resty client for TNS pages.
type Options struct {
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests; zero disables pacing.
	RequestsPerSecond float64
	UserAgent         string
}

// NewClient builds a resty client with a timeout, a user agent and optional pacing.
func NewClient(opts Options) *resty.Client {
	client := resty.New()
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	client.SetTimeout(opts.Timeout)

	ua := opts.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	client.SetHeader("User-Agent", ua)

	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
		client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return limiter.Wait(req.Context())
		})
	}

	return client
}

// DocumentFetcher loads HTML pages as goquery documents.
type DocumentFetcher struct {
	client *resty.Client
}

// NewDocumentFetcher wraps a resty client; nil builds a default one.
func NewDocumentFetcher(client *resty.Client) *DocumentFetcher {
	if client == nil {
		client = NewClient(Options{})
	}
	return &DocumentFetcher{client: client}
}

// Fetch GETs pageURL and parses the body. Transport failures and non-2xx
// statuses wrap domain.ErrFetch; unparsable bodies wrap domain.ErrParse.
func (f *DocumentFetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	res, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", "text/html").
		Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: request %s: %w", domain.ErrFetch, pageURL, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s returned %s", domain.ErrFetch, pageURL, res.Status())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", domain.ErrParse, pageURL, err)
	}
	return doc, nil
}
