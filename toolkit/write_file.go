package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/deepnoodle-ai/chisel"
	"github.com/deepnoodle-ai/chisel/schema"
	"github.com/deepnoodle-ai/chisel/textfile"
)

var (
	_ chisel.TypedTool[*WriteFileInput]          = &WriteFileTool{}
	_ chisel.TypedToolPreviewer[*WriteFileInput] = &WriteFileTool{}
)

// WriteFileInput represents the input parameters for the write_file tool.
type WriteFileInput struct {
	// Path is the file to write. Required.
	Path string `json:"path"`

	// Content is written verbatim.
	Content string `json:"content"`

	// Mode selects "w" to replace the file or "a" to append. Default "w".
	Mode string `json:"mode,omitempty"`
}

// WriteFileToolOptions configures the behavior of [WriteFileTool].
type WriteFileToolOptions struct {
	// WorkspaceDir restricts writes to paths within this directory.
	// Defaults to the current working directory if empty.
	WorkspaceDir string

	// DenyPaths are doublestar patterns rejected even inside the workspace.
	DenyPaths []string
}

type writeFileResponse struct {
	Success      bool   `json:"success"`
	BytesWritten int    `json:"bytes_written"`
	Mode         string `json:"mode"`
	Created      bool   `json:"created"`
}

// WriteFileTool writes content to a file, either replacing it atomically or
// appending. The parent directory must already exist.
type WriteFileTool struct {
	pathValidator *PathValidator
	configErr     error
}

// NewWriteFileTool creates a new WriteFileTool with the given options.
// If no options are provided, defaults are used.
func NewWriteFileTool(opts ...WriteFileToolOptions) *chisel.TypedToolAdapter[*WriteFileInput] {
	var resolvedOpts WriteFileToolOptions
	if len(opts) > 0 {
		resolvedOpts = opts[0]
	}

	pathValidator, configErr := NewPathValidator(resolvedOpts.WorkspaceDir, resolvedOpts.DenyPaths...)
	if configErr != nil {
		configErr = fmt.Errorf("invalid workspace configuration for WorkspaceDir %q: %w", resolvedOpts.WorkspaceDir, configErr)
	}

	return chisel.ToolAdapter(&WriteFileTool{
		pathValidator: pathValidator,
		configErr:     configErr,
	})
}

// Name returns "write_file" as the tool identifier.
func (t *WriteFileTool) Name() string {
	return "write_file"
}

// Description returns detailed usage instructions for the caller.
func (t *WriteFileTool) Description() string {
	return `Write content to a file.

Parameters:
- path: Path to the file to write
- content: Content to write to the file
- mode: Write mode, 'w' to overwrite or 'a' to append (default: 'w')

Overwrites replace the file atomically: a reader never observes a partially
written file. Appends add to the end of the file, creating it if needed.
The parent directory must exist in both modes.`
}

// Schema returns the JSON schema describing the tool's input parameters.
func (t *WriteFileTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     "object",
		Required: []string{"path", "content"},
		Properties: map[string]*schema.Property{
			"path": {
				Type:        "string",
				Description: "Path to the file to write.",
			},
			"content": {
				Type:        "string",
				Description: "Content to write to the file.",
			},
			"mode": {
				Type:        "string",
				Description: "Write mode: 'w' to overwrite or 'a' to append (default: 'w').",
				Enum:        []string{"w", "a"},
			},
		},
	}
}

// Annotations returns metadata hints about the tool's behavior.
func (t *WriteFileTool) Annotations() *chisel.ToolAnnotations {
	return &chisel.ToolAnnotations{
		Title:              "Write File",
		ReadOnlyHint:       false,
		IdempotentHint:     false,
		DestructiveHint:    true,
		OpenWorldHint:      false,
		EditHint:           true,
		DisableParallelUse: true,
	}
}

// PreviewCall returns a summary of what the call will do.
func (t *WriteFileTool) PreviewCall(ctx context.Context, input *WriteFileInput) *chisel.ToolCallPreview {
	verb := "Write"
	if input.Mode == "a" {
		verb = "Append to"
	}
	return &chisel.ToolCallPreview{
		Summary: fmt.Sprintf("%s %s (%d bytes)", verb, input.Path, len(input.Content)),
	}
}

// Call writes the content and returns a summary as a JSON object.
func (t *WriteFileTool) Call(ctx context.Context, input *WriteFileInput) (*chisel.ToolResult, error) {
	if t.configErr != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", t.configErr.Error())), nil
	}
	if input.Path == "" {
		return chisel.NewToolResultError("error: 'path' is required"), nil
	}

	var writeMode textfile.WriteMode
	switch input.Mode {
	case "", "w":
		writeMode = textfile.Overwrite
	case "a":
		writeMode = textfile.Append
	default:
		return chisel.NewToolResultError(fmt.Sprintf("error: invalid mode %q, use 'w' for write or 'a' for append", input.Mode)), nil
	}

	path, err := t.pathValidator.ValidateWrite(input.Path)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}

	_, statErr := os.Stat(path)
	existed := statErr == nil

	if err := textfile.Commit(path, input.Content, writeMode); err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}

	mode := input.Mode
	if mode == "" {
		mode = "w"
	}
	response := writeFileResponse{
		Success:      true,
		BytesWritten: len(input.Content),
		Mode:         mode,
		Created:      !existed,
	}
	resultJSON, err := json.Marshal(response)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error marshaling result: %s", err.Error())), nil
	}

	verb := "Wrote"
	if writeMode == textfile.Append {
		verb = "Appended"
	}
	display := fmt.Sprintf("%s %d bytes to %s", verb, len(input.Content), input.Path)
	return chisel.NewToolResultText(string(resultJSON)).WithDisplay(display), nil
}
