package icon

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxPageBytes caps how much of a page is parsed for metadata.
const maxPageBytes = 1 << 20

// PageMetadata is what a page says about itself in its <head>.
type PageMetadata struct {
	Title       string
	Description string
	Image       string // may be relative
}

// fetchPageMetadata downloads the page within the per-attempt timeout and
// parses its head. ok is false for non-HTML or failed responses.
func (r *Resolver) fetchPageMetadata(ctx context.Context, pageURL string) (PageMetadata, bool) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return PageMetadata{}, false
	}
	req.Header.Set("Accept", "text/html")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("page metadata fetch failed",
			zap.String("url", pageURL), zap.String("reason", normalizeError(err.Error())))
		return PageMetadata{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return PageMetadata{}, false
	}
	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && mediaType != "text/html" {
		return PageMetadata{}, false
	}

	meta, err := ParseMetadata(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		r.logger.Debug("page metadata parse failed", zap.String("url", pageURL), zap.Error(err))
		return PageMetadata{}, false
	}
	return meta, true
}

// ParseMetadata extracts the title, description and preview image from an
// HTML document. og: properties take precedence over plain tags.
func ParseMetadata(r io.Reader) (PageMetadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return PageMetadata{}, err
	}

	var meta PageMetadata
	var ogTitle, ogDescription string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if meta.Title == "" {
					meta.Title = nodeText(n)
				}
				return
			case atom.Meta:
				content := strings.TrimSpace(attrValue(n, "content"))
				if content == "" {
					return
				}
				switch name, prop := strings.ToLower(attrValue(n, "name")), strings.ToLower(attrValue(n, "property")); {
				case name == "description" && meta.Description == "":
					meta.Description = content
				case prop == "og:title" && ogTitle == "":
					ogTitle = content
				case prop == "og:description" && ogDescription == "":
					ogDescription = content
				case prop == "og:image" && meta.Image == "":
					meta.Image = content
				}
				return
			case atom.Body:
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if ogTitle != "" {
		meta.Title = ogTitle
	}
	if ogDescription != "" {
		meta.Description = ogDescription
	}
	return meta, nil
}

// nodeText joins the text below n with single spaces.
func nodeText(n *html.Node) string {
	var words []string
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			words = append(words, strings.Fields(n.Data)...)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(words, " ")
}

// attrValue returns the value of key on n; the parser lowercases attribute
// names.
func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
