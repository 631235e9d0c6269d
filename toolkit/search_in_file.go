package toolkit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/deepnoodle-ai/chisel"
	"github.com/deepnoodle-ai/chisel/schema"
	"github.com/deepnoodle-ai/chisel/textfile"
)

var (
	_ chisel.TypedTool[*SearchInFileInput]          = &SearchInFileTool{}
	_ chisel.TypedToolPreviewer[*SearchInFileInput] = &SearchInFileTool{}
)

// DefaultMaxMatches is the default cap on reported search matches.
const DefaultMaxMatches = 100

// SearchInFileInput represents the input parameters for the search_in_file tool.
type SearchInFileInput struct {
	// Path is the file to search. Required.
	Path string `json:"path"`

	// Pattern is the regular expression to search for. Required.
	Pattern string `json:"pattern"`

	// CaseSensitive controls case sensitivity. Defaults to true.
	CaseSensitive *bool `json:"case_sensitive,omitempty"`

	// MaxMatches caps how many matches are returned. Defaults to 100;
	// a negative value returns all matches.
	MaxMatches int `json:"max_matches,omitempty"`
}

// SearchInFileToolOptions configures the behavior of [SearchInFileTool].
type SearchInFileToolOptions struct {
	// WorkspaceDir restricts reads to paths within this directory.
	// Defaults to the current working directory if empty.
	WorkspaceDir string

	// DenyPaths are doublestar patterns rejected even inside the workspace.
	DenyPaths []string

	// MaxFileSize caps the size of files that will be opened, in bytes.
	// Zero means no limit.
	MaxFileSize int

	// MaxMatches is the match cap applied when a request does not set its
	// own. Defaults to [DefaultMaxMatches].
	MaxMatches int
}

// SearchMatch is one reported match: the line it was found on, that line's
// full content, and the matched substring with its rune offset.
type SearchMatch struct {
	LineNumber int    `json:"line_number"`
	Content    string `json:"content"`
	Text       string `json:"text"`
	Offset     int    `json:"offset"`
}

type searchInFileResponse struct {
	Matches    []SearchMatch `json:"matches"`
	MatchCount int           `json:"match_count"`
	Truncated  bool          `json:"truncated"`
}

// SearchInFileTool searches a file with a regular expression and reports
// matches in file order.
type SearchInFileTool struct {
	pathValidator *PathValidator
	workspaceDir  string
	maxFileSize   int
	maxMatches    int
	configErr     error
}

// NewSearchInFileTool creates a new SearchInFileTool with the given options.
// If no options are provided, defaults are used.
func NewSearchInFileTool(opts ...SearchInFileToolOptions) *chisel.TypedToolAdapter[*SearchInFileInput] {
	var resolvedOpts SearchInFileToolOptions
	if len(opts) > 0 {
		resolvedOpts = opts[0]
	}
	if resolvedOpts.MaxMatches == 0 {
		resolvedOpts.MaxMatches = DefaultMaxMatches
	}

	pathValidator, configErr := NewPathValidator(resolvedOpts.WorkspaceDir, resolvedOpts.DenyPaths...)
	if configErr != nil {
		configErr = fmt.Errorf("invalid workspace configuration for WorkspaceDir %q: %w", resolvedOpts.WorkspaceDir, configErr)
	}

	return chisel.ToolAdapter(&SearchInFileTool{
		pathValidator: pathValidator,
		workspaceDir:  resolvedOpts.WorkspaceDir,
		maxFileSize:   resolvedOpts.MaxFileSize,
		maxMatches:    resolvedOpts.MaxMatches,
		configErr:     configErr,
	})
}

// Name returns "search_in_file" as the tool identifier.
func (t *SearchInFileTool) Name() string {
	return "search_in_file"
}

// Description returns detailed usage instructions for the caller.
func (t *SearchInFileTool) Description() string {
	return `Search for patterns in a file using regular expressions.

Parameters:
- path: Path to the file to search (required)
- pattern: Regular expression pattern to search for (required)
- case_sensitive: Whether the search is case-sensitive (default: true)
- max_matches: Maximum number of matches to return (default: 100, use -1 for all matches)

Examples:
- Find function definitions: {"path": "script.py", "pattern": "def\\s+\\w+\\s*\\("}
- Find TODO comments: {"path": "main.go", "pattern": "TODO", "case_sensitive": false}

Returns matches with line numbers, line content, the matched text, and its offset.`
}

// Schema returns the JSON schema describing the tool's input parameters.
func (t *SearchInFileTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     "object",
		Required: []string{"path", "pattern"},
		Properties: map[string]*schema.Property{
			"path": {
				Type:        "string",
				Description: "Path to the file to search.",
			},
			"pattern": {
				Type:        "string",
				Description: "Regular expression pattern to search for.",
			},
			"case_sensitive": {
				Type:        "boolean",
				Description: "Whether the search is case-sensitive (default: true).",
			},
			"max_matches": {
				Type:        "integer",
				Description: "Maximum number of matches to return (default: 100, use -1 for all matches).",
			},
		},
	}
}

// Annotations returns metadata hints about the tool's behavior.
func (t *SearchInFileTool) Annotations() *chisel.ToolAnnotations {
	return &chisel.ToolAnnotations{
		Title:          "Search In File",
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  false,
	}
}

// PreviewCall returns a summary of what the call will do.
func (t *SearchInFileTool) PreviewCall(ctx context.Context, input *SearchInFileInput) *chisel.ToolCallPreview {
	return &chisel.ToolCallPreview{
		Summary: fmt.Sprintf("Search %s for %q", input.Path, input.Pattern),
	}
}

// Call searches the file and returns matches as a JSON object.
func (t *SearchInFileTool) Call(ctx context.Context, input *SearchInFileInput) (*chisel.ToolResult, error) {
	if t.configErr != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", t.configErr.Error())), nil
	}
	if input.Path == "" {
		return chisel.NewToolResultError("error: 'path' is required"), nil
	}
	if input.Pattern == "" {
		return chisel.NewToolResultError("error: 'pattern' is required"), nil
	}
	path, err := t.pathValidator.ValidateRead(input.Path)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}
	if err := ensureFileSize(path, t.maxFileSize); err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}

	buf, err := textfile.Load(path)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}

	caseSensitive := true
	if input.CaseSensitive != nil {
		caseSensitive = *input.CaseSensitive
	}

	found, err := buf.Search(input.Pattern, caseSensitive)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}

	limit := input.MaxMatches
	if limit == 0 {
		limit = t.maxMatches
	}
	truncated := limit > 0 && len(found) >= limit
	if limit > 0 && len(found) > limit {
		found = found[:limit]
	}

	matches := make([]SearchMatch, 0, len(found))
	for _, m := range found {
		line, _ := buf.Line(m.Line)
		matches = append(matches, SearchMatch{
			LineNumber: m.Line,
			Content:    line,
			Text:       m.Text,
			Offset:     m.Offset,
		})
	}

	response := searchInFileResponse{
		Matches:    matches,
		MatchCount: len(matches),
		Truncated:  truncated,
	}
	resultJSON, err := json.Marshal(response)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error marshaling result: %s", err.Error())), nil
	}

	display := fmt.Sprintf("Found %d matches for %q in %s", len(matches), input.Pattern, input.Path)
	if truncated {
		display += " (truncated)"
	}
	return chisel.NewToolResultText(string(resultJSON)).WithDisplay(display), nil
}
