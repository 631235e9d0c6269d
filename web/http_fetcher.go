package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes = 5 * 1024 * 1024

	defaultUserAgent = "chisel-fetch/1.0"
)

// HTTPFetcher retrieves pages with a plain HTTP GET and extracts the text
// of HTML responses. It does not execute scripts, so pages rendered
// entirely client-side come back close to empty.
type HTTPFetcher struct {
	Client       *http.Client
	MaxBodyBytes int64
	UserAgent    string
}

var _ Fetcher = &HTTPFetcher{}

// NewHTTPFetcher creates an HTTPFetcher with a default client and limits.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:       &http.Client{Timeout: 30 * time.Second},
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Fetch downloads the page at input.URL and returns its text content.
// Non-2xx responses fail with a FetchError carrying the status code.
func (f *HTTPFetcher) Fetch(ctx context.Context, input *FetchInput) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, input.URL, nil)
	if err != nil {
		return nil, err
	}
	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	for key, value := range input.Headers {
		req.Header.Set(key, value)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, NewFetchError(resp.StatusCode, fmt.Errorf("failed to fetch %s", input.URL))
	}

	limit := f.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}

	doc := &Document{
		Metadata: &DocumentMetadata{
			URL:         input.URL,
			ContentType: contentType,
		},
	}
	switch {
	case isHTML(contentType) || looksLikeHTML(body):
		extractHTML(doc, body, resp.Request.URL)
	case isTextual(contentType):
		doc.Content = string(body)
	default:
		return nil, fmt.Errorf("unsupported content type %q", contentType)
	}
	return doc, nil
}

// skipElements have their entire text content dropped during extraction.
var skipElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"iframe":   true,
	"svg":      true,
	"template": true,
}

// blockElements separate surrounding text with a line break.
var blockElements = map[string]bool{
	"article": true, "blockquote": true, "br": true, "div": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "td": true, "tr": true, "ul": true,
}

// extractHTML walks the page token by token, collecting visible text, the
// title and meta description, and resolved links.
func extractHTML(doc *Document, body []byte, base *url.URL) {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	var text strings.Builder
	var title strings.Builder
	seenLinks := make(map[string]bool)
	skipDepth := 0
	inTitle := false

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			// EOF or malformed markup; keep whatever was collected.
			break
		}
		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			name := token.Data
			if skipElements[name] {
				if tt == html.StartTagToken {
					skipDepth++
				}
				continue
			}
			switch name {
			case "title":
				inTitle = true
			case "a":
				for _, attr := range token.Attr {
					if attr.Key != "href" {
						continue
					}
					link := resolveLink(base, attr.Val)
					if link != "" && !seenLinks[link] {
						seenLinks[link] = true
						doc.Links = append(doc.Links, link)
					}
				}
			case "meta":
				var metaName, metaContent string
				for _, attr := range token.Attr {
					switch attr.Key {
					case "name":
						metaName = attr.Val
					case "content":
						metaContent = attr.Val
					}
				}
				if strings.EqualFold(metaName, "description") {
					doc.Metadata.Description = metaContent
				}
			}
			if blockElements[name] {
				text.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			tag := string(name)
			if skipElements[tag] {
				if skipDepth > 0 {
					skipDepth--
				}
				continue
			}
			if tag == "title" {
				inTitle = false
			}
			if blockElements[tag] {
				text.WriteByte('\n')
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			if inTitle {
				title.Write(tokenizer.Text())
				continue
			}
			text.Write(tokenizer.Text())
		}
	}

	doc.Metadata.Title = strings.TrimSpace(title.String())
	doc.Content = normalizeText(text.String())
}

// normalizeText collapses intra-line whitespace and runs of blank lines.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blanks := 0
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blanks++
			if blanks > 1 {
				continue
			}
		} else {
			blanks = 0
		}
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// resolveLink resolves href against the response URL and keeps only
// http(s) targets.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := ref
	if base != nil {
		resolved = base.ResolveReference(ref)
	}
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

func isHTML(contentType string) bool {
	mediaType := mediaTypeOf(contentType)
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func isTextual(contentType string) bool {
	mediaType := mediaTypeOf(contentType)
	if strings.HasPrefix(mediaType, "text/") {
		return true
	}
	switch mediaType {
	case "application/json", "application/xml", "application/javascript",
		"application/yaml", "application/x-yaml":
		return true
	}
	return strings.HasSuffix(mediaType, "+json") || strings.HasSuffix(mediaType, "+xml")
}

func mediaTypeOf(contentType string) string {
	if idx := strings.IndexByte(contentType, ';'); idx >= 0 {
		contentType = contentType[:idx]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func looksLikeHTML(body []byte) bool {
	head := body
	if len(head) > 1024 {
		head = head[:1024]
	}
	lowered := bytes.ToLower(head)
	return bytes.Contains(lowered, []byte("<!doctype html")) ||
		bytes.Contains(lowered, []byte("<html"))
}
