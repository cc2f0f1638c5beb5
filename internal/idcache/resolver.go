package idcache

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"reelsync/internal/logging"
)

// identifierLinkSelector locates the external identifier anchor on a film page.
const identifierLinkSelector = "div#fi_info_imdb a"

var identifierLinkPattern = regexp.MustCompile(`imdb\.com/title/([^/]+)/?$`)

// ResolutionError reports an identifier link whose target did not match the
// expected pattern. Absence of the link is not an error; see StatusNoIdentifier.
type ResolutionError struct {
	Link string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("no external id in link %q", e.Link)
}

// PageResolver fetches a record's film page and extracts the external
// identifier from its embedded link. A fixed delay precedes every fetch to
// respect the remote service.
type PageResolver struct {
	httpClient  *http.Client
	logger      *slog.Logger
	userAgent   string
	stripSuffix string
	rateLimit   time.Duration
}

// PageResolverOptions configures a PageResolver.
type PageResolverOptions struct {
	// StripSuffix is the account-specific trailing path removed from source
	// URLs before fetching, e.g. "rating/someuser".
	StripSuffix string
	RateLimit   time.Duration
	Timeout     time.Duration
	UserAgent   string
	HTTPClient  *http.Client
}

// NewPageResolver builds a PageResolver.
func NewPageResolver(opts PageResolverOptions, logger *slog.Logger) *PageResolver {
	if opts.RateLimit <= 0 {
		opts.RateLimit = 50 * time.Millisecond
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &PageResolver{
		httpClient:  client,
		logger:      logging.NewComponentLogger(logger, "idcache"),
		userAgent:   opts.UserAgent,
		stripSuffix: strings.Trim(opts.StripSuffix, "/"),
		rateLimit:   opts.RateLimit,
	}
}

var _ Lookup = (*PageResolver)(nil)

// Resolve fetches the film page derived from sourceURL and extracts the
// external identifier from its identifier link. found is false when the page
// has no such link at all.
func (r *PageResolver) Resolve(ctx context.Context, sourceURL string) (string, bool, error) {
	fetchURL := r.fetchURL(sourceURL)

	select {
	case <-ctx.Done():
		return "", false, ctx.Err()
	case <-time.After(r.rateLimit):
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return "", false, fmt.Errorf("build request: %w", err)
	}
	if r.userAgent != "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("fetch film page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false, fmt.Errorf("film page %s returned %d", fetchURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("parse film page: %w", err)
	}

	anchor := doc.Find(identifierLinkSelector).First()
	if anchor.Length() == 0 {
		return "", false, nil
	}

	link, _ := anchor.Attr("href")
	m := identifierLinkPattern.FindStringSubmatch(link)
	if m == nil {
		return "", false, &ResolutionError{Link: link}
	}

	r.logger.Debug("resolved external identifier",
		logging.String("url", fetchURL),
		logging.String("external_id", m[1]))
	return m[1], true, nil
}

func (r *PageResolver) fetchURL(sourceURL string) string {
	if r.stripSuffix == "" {
		return sourceURL
	}
	trimmed := strings.TrimRight(sourceURL, "/")
	if strings.HasSuffix(trimmed, "/"+r.stripSuffix) {
		// Keep the trailing slash left behind by the removed suffix.
		return strings.TrimSuffix(trimmed, r.stripSuffix)
	}
	return sourceURL
}
