package toolkit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/deepnoodle-ai/chisel"
	"github.com/deepnoodle-ai/chisel/retry"
	"github.com/deepnoodle-ai/chisel/schema"
	"github.com/deepnoodle-ai/chisel/web"
)

const (
	DefaultFetchMaxSize    = 1024 * 500 // 500k runes
	DefaultFetchMaxRetries = 1
	DefaultFetchTimeout    = 15 * time.Second
)

var (
	_ chisel.TypedTool[*web.FetchInput]          = &FetchTool{}
	_ chisel.TypedToolPreviewer[*web.FetchInput] = &FetchTool{}
)

// FetchToolOptions configures the behavior of [FetchTool].
type FetchToolOptions struct {
	// MaxSize caps the returned text, in runes. Defaults to 500k.
	MaxSize int

	// MaxRetries is the total number of fetch attempts. Defaults to 1.
	MaxRetries int

	// Timeout bounds the whole call, retries included. Defaults to 15s.
	Timeout time.Duration

	// Fetcher retrieves pages. Defaults to a plain HTTP fetcher.
	Fetcher web.Fetcher
}

// FetchTool retrieves a web page and returns its text content, prefixed
// with the page title and description when available. Transient upstream
// failures (rate limits, 5xx) are retried; other failures are not.
type FetchTool struct {
	fetcher    web.Fetcher
	maxSize    int
	maxRetries int
	timeout    time.Duration
}

// NewFetchTool creates a new FetchTool with the given options.
// If no options are provided, defaults are used.
func NewFetchTool(opts ...FetchToolOptions) *chisel.TypedToolAdapter[*web.FetchInput] {
	var resolvedOpts FetchToolOptions
	if len(opts) > 0 {
		resolvedOpts = opts[0]
	}
	if resolvedOpts.MaxSize <= 0 {
		resolvedOpts.MaxSize = DefaultFetchMaxSize
	}
	if resolvedOpts.MaxRetries <= 0 {
		resolvedOpts.MaxRetries = DefaultFetchMaxRetries
	}
	if resolvedOpts.Timeout <= 0 {
		resolvedOpts.Timeout = DefaultFetchTimeout
	}
	if resolvedOpts.Fetcher == nil {
		resolvedOpts.Fetcher = web.NewHTTPFetcher()
	}
	return chisel.ToolAdapter(&FetchTool{
		fetcher:    resolvedOpts.Fetcher,
		maxSize:    resolvedOpts.MaxSize,
		maxRetries: resolvedOpts.MaxRetries,
		timeout:    resolvedOpts.Timeout,
	})
}

// Name returns "fetch_page" as the tool identifier.
func (t *FetchTool) Name() string {
	return "fetch_page"
}

// Description returns detailed usage instructions for the caller.
func (t *FetchTool) Description() string {
	return `Fetch a web page and extract its text content.

Parameters:
- url: URL of the web page to fetch

Returns the extracted text content of the web page. HTML markup, scripts,
and styles are stripped; plain-text pages are returned as-is.`
}

// Schema returns the JSON schema describing the tool's input parameters.
func (t *FetchTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     "object",
		Required: []string{"url"},
		Properties: map[string]*schema.Property{
			"url": {
				Type:        "string",
				Description: "The URL of the web page to fetch, e.g. 'https://www.example.com'",
			},
		},
	}
}

// Annotations returns metadata hints about the tool's behavior.
func (t *FetchTool) Annotations() *chisel.ToolAnnotations {
	return &chisel.ToolAnnotations{
		Title:           "Fetch Page",
		ReadOnlyHint:    true,
		DestructiveHint: false,
		IdempotentHint:  true,
		OpenWorldHint:   true,
	}
}

// PreviewCall returns a summary of what the call will do.
func (t *FetchTool) PreviewCall(ctx context.Context, input *web.FetchInput) *chisel.ToolCallPreview {
	return &chisel.ToolCallPreview{
		Summary: fmt.Sprintf("Fetch %s", input.URL),
	}
}

// Call fetches the page and returns its text content.
func (t *FetchTool) Call(ctx context.Context, input *web.FetchInput) (*chisel.ToolResult, error) {
	if input.URL == "" {
		return chisel.NewToolResultError("error: 'url' is required"), nil
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	var response *web.Document
	err := retry.Do(ctx, func() error {
		var err error
		response, err = t.fetcher.Fetch(ctx, input)
		if err != nil {
			return err
		}
		return nil
	}, retry.WithMaxRetries(t.maxRetries))

	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: failed to fetch url after %d attempts: %s", t.maxRetries, err)), nil
	}

	var sb strings.Builder
	if response.Metadata != nil {
		metadata := *response.Metadata
		if metadata.Title != "" {
			sb.WriteString(fmt.Sprintf("# %s\n\n", metadata.Title))
		}
		if metadata.Description != "" {
			sb.WriteString(fmt.Sprintf("## %s\n\n", metadata.Description))
		}
	}
	sb.WriteString(response.Content)

	result := truncateText(sb.String(), t.maxSize)
	display := fmt.Sprintf("Fetched %s (%d chars)", input.URL, len(result))
	return chisel.NewToolResultText(result).WithDisplay(display), nil
}

func truncateText(text string, maxSize int) string {
	runes := []rune(text)
	if len(runes) <= maxSize {
		return text
	}
	return string(runes[:maxSize]) + "..."
}
