// Package icon resolves a favicon and a small preview for a shortcut URL.
//
// Candidates come from an ordered list of providers and are tried one at a
// time, each bounded by the same timeout. The first candidate that answers
// with an image wins. When every candidate fails the resolver returns
// model.FallbackGlyph; callers never see an error.
package icon

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/sc/internal/model"
)

// DefaultTimeout bounds each candidate attempt.
const DefaultTimeout = 5 * time.Second

// maxProbeBytes is how much of a candidate body is read to sniff its type.
const maxProbeBytes = 512

// Provider derives a candidate icon URL from a shortcut URL.
type Provider struct {
	Name      string
	Candidate func(u *url.URL) string
}

// GoogleProvider uses Google's favicon service.
func GoogleProvider() Provider {
	return Provider{
		Name: "google",
		Candidate: func(u *url.URL) string {
			return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(u.Hostname()) + "&sz=64"
		},
	}
}

// DuckDuckGoProvider uses DuckDuckGo's icon service.
func DuckDuckGoProvider() Provider {
	return Provider{
		Name: "duckduckgo",
		Candidate: func(u *url.URL) string {
			return "https://icons.duckduckgo.com/ip3/" + u.Hostname() + ".ico"
		},
	}
}

// SiteProvider asks the site itself for a file at path.
func SiteProvider(path string) Provider {
	return Provider{
		Name: "site" + path,
		Candidate: func(u *url.URL) string {
			return u.Scheme + "://" + u.Host + path
		},
	}
}

// DefaultProviders returns the providers in priority order.
func DefaultProviders() []Provider {
	return []Provider{
		GoogleProvider(),
		DuckDuckGoProvider(),
		SiteProvider("/favicon.ico"),
		SiteProvider("/favicon.png"),
		SiteProvider("/apple-touch-icon.png"),
	}
}

// ResolverParams holds parameters for creating a Resolver.
type ResolverParams struct {
	Client         *http.Client  // nil uses a client with a redirect limit
	Providers      []Provider    // nil uses DefaultProviders
	Timeout        time.Duration // per attempt; <= 0 uses DefaultTimeout
	FetchMetadata  bool          // parse the page for title, description, og:image
	PreviewService string        // screenshot URL template containing {url}
	Logger         *zap.Logger
}

// Resolver looks up icons and previews. It is safe for concurrent use.
type Resolver struct {
	client         *http.Client
	providers      []Provider
	timeout        time.Duration
	fetchMetadata  bool
	previewService string
	logger         *zap.Logger
}

// NewResolver creates a Resolver, filling defaults for zero-valued params.
func NewResolver(params ResolverParams) *Resolver {
	r := &Resolver{
		client:         params.Client,
		providers:      params.Providers,
		timeout:        params.Timeout,
		fetchMetadata:  params.FetchMetadata,
		previewService: params.PreviewService,
		logger:         params.Logger,
	}
	if r.client == nil {
		r.client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow redirects but limit to 10
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}
	if r.providers == nil {
		r.providers = DefaultProviders()
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

// Result is the outcome of resolving one URL.
type Result struct {
	ID      string // shortcut ID the result belongs to, if any
	Icon    string
	Preview *model.Preview
}

// Icon returns the first candidate icon URL that loads, or model.FallbackGlyph.
func (r *Resolver) Icon(ctx context.Context, rawURL string) string {
	u, ok := parseTarget(rawURL)
	if !ok {
		return model.FallbackGlyph
	}
	if found := r.firstImage(ctx, u); found != "" {
		return found
	}
	return model.FallbackGlyph
}

// Preview returns display metadata for a URL, or nil if it cannot be parsed.
func (r *Resolver) Preview(ctx context.Context, rawURL string) *model.Preview {
	u, ok := parseTarget(rawURL)
	if !ok {
		return nil
	}
	return r.preview(ctx, u, r.firstImage(ctx, u))
}

// Resolve looks up both icon and preview, probing the candidates once.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) Result {
	u, ok := parseTarget(rawURL)
	if !ok {
		return Result{Icon: model.FallbackGlyph}
	}

	found := r.firstImage(ctx, u)
	result := Result{
		Icon:    found,
		Preview: r.preview(ctx, u, found),
	}
	if result.Icon == "" {
		result.Icon = model.FallbackGlyph
	}
	return result
}

// preview builds host-based defaults and lets page metadata override them.
// The screenshot service is only asked when no image was found.
func (r *Resolver) preview(ctx context.Context, u *url.URL, image string) *model.Preview {
	host := u.Hostname()
	p := &model.Preview{
		Title:       host,
		Description: "Site: " + host,
		Image:       image,
	}

	if r.fetchMetadata {
		if meta, ok := r.fetchPageMetadata(ctx, u.String()); ok {
			if meta.Title != "" {
				p.Title = meta.Title
			}
			if meta.Description != "" {
				p.Description = meta.Description
			}
			if img := resolveReference(u, meta.Image); img != "" {
				p.Image = img
			}
		}
	}

	if p.Image == "" && r.previewService != "" {
		candidate := strings.ReplaceAll(r.previewService, "{url}", url.QueryEscape(u.String()))
		if r.probe(ctx, candidate) {
			p.Image = candidate
		}
	}

	return p
}

// firstImage tries each provider in order and returns the first candidate
// that loads as an image, or "".
func (r *Resolver) firstImage(ctx context.Context, u *url.URL) string {
	for _, p := range r.providers {
		if ctx.Err() != nil {
			return ""
		}
		candidate := p.Candidate(u)
		if candidate == "" {
			continue
		}
		if r.probe(ctx, candidate) {
			r.logger.Debug("icon resolved",
				zap.String("host", u.Host), zap.String("provider", p.Name))
			return candidate
		}
	}
	r.logger.Debug("no icon found, using fallback", zap.String("host", u.Host))
	return ""
}

// probe fetches a candidate within the per-attempt timeout and reports
// whether it answered 2xx with an image body.
func (r *Resolver) probe(ctx context.Context, candidate string) bool {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, candidate, nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("icon candidate failed",
			zap.String("candidate", candidate), zap.String("reason", normalizeError(err.Error())))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		r.logger.Debug("icon candidate rejected",
			zap.String("candidate", candidate), zap.Int("status", resp.StatusCode))
		return false
	}

	head, _ := io.ReadAll(io.LimitReader(resp.Body, maxProbeBytes))
	if !isImage(resp.Header.Get("Content-Type"), head) {
		r.logger.Debug("icon candidate is not an image",
			zap.String("candidate", candidate), zap.String("contentType", resp.Header.Get("Content-Type")))
		return false
	}
	return true
}

// isImage accepts image/* and the icon types some servers use, falling
// back to sniffing the body when no usable Content-Type is sent.
func isImage(contentType string, head []byte) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err == nil {
		if strings.HasPrefix(mediaType, "image/") {
			return true
		}
		switch mediaType {
		case "application/ico", "application/x-ico", "application/x-icon":
			return true
		}
		if mediaType != "application/octet-stream" {
			return false
		}
	}
	if len(head) == 0 {
		return false
	}
	return strings.HasPrefix(http.DetectContentType(head), "image/")
}

// parseTarget accepts absolute http(s) URLs with a host.
func parseTarget(rawURL string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return nil, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, false
	}
	return u, true
}

// resolveReference makes a possibly relative reference absolute against base.
func resolveReference(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return base.ResolveReference(refURL).String()
}

// normalizeError simplifies verbose error messages into readable categories.
func normalizeError(errStr string) string {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "no such host"):
		return "DNS failure"
	case strings.Contains(lower, "context deadline exceeded"),
		strings.Contains(lower, "timeout"):
		return "Timeout"
	case strings.Contains(lower, "connection refused"):
		return "Connection refused"
	case strings.Contains(lower, "certificate"), strings.Contains(lower, "tls:"):
		return "TLS error"
	case strings.Contains(lower, "network is unreachable"):
		return "Network unreachable"
	default:
		return errStr
	}
}
