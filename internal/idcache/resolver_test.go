package idcache

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newPageServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
}

func testResolver(opts PageResolverOptions) *PageResolver {
	if opts.RateLimit == 0 {
		opts.RateLimit = time.Millisecond
	}
	return NewPageResolver(opts, nil)
}

func TestPageResolverExtractsIdentifier(t *testing.T) {
	server := newPageServer(t, `<html><body>
		<div id="fi_info_imdb"><a href="https://www.imdb.com/title/tt1375666/">IMDb</a></div>
	</body></html>`)
	defer server.Close()

	resolver := testResolver(PageResolverOptions{})
	id, found, err := resolver.Resolve(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !found {
		t.Fatal("expected identifier to be found")
	}
	if id != "tt1375666" {
		t.Fatalf("expected tt1375666, got %q", id)
	}
}

func TestPageResolverMissingLink(t *testing.T) {
	server := newPageServer(t, `<html><body><div id="fi_info_other"></div></body></html>`)
	defer server.Close()

	resolver := testResolver(PageResolverOptions{})
	_, found, err := resolver.Resolve(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("missing link should not be an error, got %v", err)
	}
	if found {
		t.Fatal("expected found=false when the link is absent")
	}
}

func TestPageResolverMalformedLink(t *testing.T) {
	server := newPageServer(t, `<html><body>
		<div id="fi_info_imdb"><a href="https://www.imdb.com/search?q=inception">IMDb</a></div>
	</body></html>`)
	defer server.Close()

	resolver := testResolver(PageResolverOptions{})
	_, _, err := resolver.Resolve(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected ResolutionError for malformed link")
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected *ResolutionError, got %T", err)
	}
}

func TestPageResolverHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	resolver := testResolver(PageResolverOptions{})
	if _, _, err := resolver.Resolve(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestPageResolverCancelledContext(t *testing.T) {
	server := newPageServer(t, "<html></html>")
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := testResolver(PageResolverOptions{RateLimit: time.Second})
	if _, _, err := resolver.Resolve(ctx, server.URL); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFetchURLStripsSuffix(t *testing.T) {
	resolver := testResolver(PageResolverOptions{StripSuffix: "rating/someuser"})

	got := resolver.fetchURL("https://example.com/film/inception/rating/someuser")
	if got != "https://example.com/film/inception/" {
		t.Fatalf("expected stripped URL, got %q", got)
	}

	// URLs without the suffix pass through untouched.
	got = resolver.fetchURL("https://example.com/film/inception")
	if got != "https://example.com/film/inception" {
		t.Fatalf("expected unchanged URL, got %q", got)
	}
}

func TestFetchURLNoSuffixConfigured(t *testing.T) {
	resolver := testResolver(PageResolverOptions{})
	url := "https://example.com/film/inception/rating/someuser"
	if got := resolver.fetchURL(url); got != url {
		t.Fatalf("expected unchanged URL, got %q", got)
	}
}
