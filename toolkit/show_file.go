package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/chisel"
	"github.com/deepnoodle-ai/chisel/schema"
	"github.com/deepnoodle-ai/chisel/textfile"
)

var (
	_ chisel.TypedTool[*ShowFileInput]          = &ShowFileTool{}
	_ chisel.TypedToolPreviewer[*ShowFileInput] = &ShowFileTool{}
)

// ShowFileInput represents the input parameters for the show_file tool.
type ShowFileInput struct {
	// Path is the file to display. Required.
	Path string `json:"path"`

	// StartLine is the 1-based line to start from. Defaults to 1; values
	// below 1 are treated as 1.
	StartLine int `json:"start_line,omitempty"`

	// NumLines is how many lines to show. Defaults to the rest of the file.
	NumLines int `json:"num_lines,omitempty"`
}

// ShowFileToolOptions configures the behavior of [ShowFileTool].
type ShowFileToolOptions struct {
	// WorkspaceDir restricts reads to paths within this directory.
	// Defaults to the current working directory if empty.
	WorkspaceDir string

	// DenyPaths are doublestar patterns rejected even inside the workspace.
	DenyPaths []string

	// MaxFileSize caps the size of files that will be opened, in bytes.
	// Zero means no limit.
	MaxFileSize int
}

// ShowFileViewLine is one displayed line in a show_file response.
type ShowFileViewLine struct {
	Line int    `json:"line"`
	Text string `json:"text"`
}

type showFileResponse struct {
	Content    string             `json:"content"`
	Lines      []ShowFileViewLine `json:"lines"`
	LinesShown int                `json:"lines_shown"`
	TotalLines int                `json:"total_lines"`
	StartLine  int                `json:"start_line"`
	EndLine    int                `json:"end_line"`
}

// ShowFileTool displays file contents with optional line ranges.
type ShowFileTool struct {
	pathValidator *PathValidator
	workspaceDir  string
	maxFileSize   int
	configErr     error
}

// NewShowFileTool creates a new ShowFileTool with the given options.
// If no options are provided, defaults are used.
func NewShowFileTool(opts ...ShowFileToolOptions) *chisel.TypedToolAdapter[*ShowFileInput] {
	var resolvedOpts ShowFileToolOptions
	if len(opts) > 0 {
		resolvedOpts = opts[0]
	}

	pathValidator, configErr := NewPathValidator(resolvedOpts.WorkspaceDir, resolvedOpts.DenyPaths...)
	if configErr != nil {
		configErr = fmt.Errorf("invalid workspace configuration for WorkspaceDir %q: %w", resolvedOpts.WorkspaceDir, configErr)
	}

	return chisel.ToolAdapter(&ShowFileTool{
		pathValidator: pathValidator,
		workspaceDir:  resolvedOpts.WorkspaceDir,
		maxFileSize:   resolvedOpts.MaxFileSize,
		configErr:     configErr,
	})
}

// Name returns "show_file" as the tool identifier.
func (t *ShowFileTool) Name() string {
	return "show_file"
}

// Description returns detailed usage instructions for the caller.
func (t *ShowFileTool) Description() string {
	return `Show contents of a file with options to display specific line ranges.

Parameters:
- path: Path to the file to display (required)
- start_line: Line number to start from (1-based, defaults to 1)
- num_lines: Number of lines to display (defaults to all lines)

Examples:
- Show entire file: {"path": "notes.txt"}
- Show first 10 lines: {"path": "notes.txt", "num_lines": 10}
- Show lines 5-15: {"path": "notes.txt", "start_line": 5, "num_lines": 10}

Returns the content and information about the lines shown.`
}

// Schema returns the JSON schema describing the tool's input parameters.
func (t *ShowFileTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     "object",
		Required: []string{"path"},
		Properties: map[string]*schema.Property{
			"path": {
				Type:        "string",
				Description: "Path to the file to display.",
			},
			"start_line": {
				Type:        "integer",
				Description: "Line number to start from (1-based indexing, defaults to 1).",
			},
			"num_lines": {
				Type:        "integer",
				Description: "Number of lines to display (defaults to all lines).",
			},
		},
	}
}

// Annotations returns metadata hints about the tool's behavior.
func (t *ShowFileTool) Annotations() *chisel.ToolAnnotations {
	return &chisel.ToolAnnotations{
		Title:          "Show File",
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  false,
	}
}

// PreviewCall returns a summary of what the call will do.
func (t *ShowFileTool) PreviewCall(ctx context.Context, input *ShowFileInput) *chisel.ToolCallPreview {
	summary := fmt.Sprintf("Show %s", input.Path)
	if input.StartLine > 1 || input.NumLines > 0 {
		summary = fmt.Sprintf("Show %s from line %d", input.Path, max(1, input.StartLine))
	}
	return &chisel.ToolCallPreview{Summary: summary}
}

// Call reads the requested line range and returns it as a JSON object.
//
// A start line beyond the end of the file is an error result naming the
// file's length, matching how callers probe for file size.
func (t *ShowFileTool) Call(ctx context.Context, input *ShowFileInput) (*chisel.ToolResult, error) {
	if t.configErr != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", t.configErr.Error())), nil
	}
	if input.Path == "" {
		return chisel.NewToolResultError("error: 'path' is required"), nil
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

	startLine := input.StartLine
	if startLine < 1 {
		startLine = 1
	}
	totalLines := buf.Len()
	if startLine > totalLines {
		return chisel.NewToolResultError(fmt.Sprintf(
			"error: start line %d is beyond the file length (%d lines)", startLine, totalLines)), nil
	}

	view := buf.View(startLine, input.NumLines)

	lines := make([]ShowFileViewLine, 0, len(view))
	texts := make([]string, 0, len(view))
	for _, vl := range view {
		lines = append(lines, ShowFileViewLine{Line: vl.Number, Text: vl.Text})
		texts = append(texts, vl.Text)
	}
	endLine := startLine - 1 + len(view)

	response := showFileResponse{
		Content:    strings.Join(texts, "\n"),
		Lines:      lines,
		LinesShown: len(view),
		TotalLines: totalLines,
		StartLine:  startLine,
		EndLine:    endLine,
	}
	resultJSON, err := json.Marshal(response)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error marshaling result: %s", err.Error())), nil
	}

	display := fmt.Sprintf("Showed %s lines %d-%d of %d", input.Path, startLine, endLine, totalLines)
	return chisel.NewToolResultText(string(resultJSON)).WithDisplay(display), nil
}
