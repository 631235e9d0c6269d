package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/chisel"
	"github.com/deepnoodle-ai/chisel/schema"
	"github.com/deepnoodle-ai/chisel/textfile"
	"github.com/pmezard/go-difflib/difflib"
)

var (
	_ chisel.TypedTool[*EditFileInput]          = &EditFileTool{}
	_ chisel.TypedToolPreviewer[*EditFileInput] = &EditFileTool{}
)

// EditFileReplacement is one exact string replacement, applied to every
// occurrence unless Count bounds it.
type EditFileReplacement struct {
	Old   string `json:"old"`
	New   string `json:"new"`
	Count int    `json:"count,omitempty"`
}

// EditFileLineOperation is one line-level operation. Operation selects the
// kind: "insert" (before Line, content required), "replace" (overwrite
// Line), or "delete" (inclusive StartLine..EndLine range).
type EditFileLineOperation struct {
	Operation string `json:"operation"`
	Line      int    `json:"line,omitempty"`
	StartLine int    `json:"start_line,omitempty"`
	EndLine   int    `json:"end_line,omitempty"`
	Content   any    `json:"content,omitempty"`
}

// EditFileInput represents the input parameters for the edit_file tool.
type EditFileInput struct {
	// Path is the file to edit. Required.
	Path string `json:"path"`

	// Replacements are exact string replacements, applied in order; each
	// one operates on the result of the previous.
	Replacements []EditFileReplacement `json:"replacements,omitempty"`

	// LineOperations are line-level edits. Their line numbers refer to the
	// file as it stands after all replacements have been applied.
	LineOperations []EditFileLineOperation `json:"line_operations,omitempty"`

	// CreateIfMissing starts from an empty file when the path does not
	// exist. The parent directory must still exist.
	CreateIfMissing bool `json:"create_if_missing,omitempty"`

	// DryRun computes the edit and returns a unified diff without
	// writing anything to disk.
	DryRun bool `json:"dry_run,omitempty"`
}

// EditFileToolOptions configures the behavior of [EditFileTool].
type EditFileToolOptions struct {
	// WorkspaceDir restricts edits to paths within this directory.
	// Defaults to the current working directory if empty.
	WorkspaceDir string

	// DenyPaths are doublestar patterns rejected even inside the workspace.
	DenyPaths []string

	// MaxFileSize caps the size of files that will be opened, in bytes.
	// Zero means no limit.
	MaxFileSize int
}

type editFileResponse struct {
	OriginalSize     int            `json:"original_size"`
	NewSize          int            `json:"new_size"`
	Changed          bool           `json:"changed"`
	ReplacementsMade map[string]int `json:"replacements_made"`
	LineOperations   int            `json:"line_operations_performed"`
	DryRun           bool           `json:"dry_run,omitempty"`
	Diff             string         `json:"diff,omitempty"`
}

// EditFileTool applies string replacements and line operations to a file
// in a single all-or-nothing call.
//
// Replacements are content-addressed and run first; line operations then
// address the post-replacement line numbers. A plan whose line operations
// are out of range or overlap each other is rejected without touching the
// file. Successful edits are written atomically.
type EditFileTool struct {
	pathValidator *PathValidator
	workspaceDir  string
	maxFileSize   int
	configErr     error
}

// NewEditFileTool creates a new EditFileTool with the given options.
// If no options are provided, defaults are used.
func NewEditFileTool(opts ...EditFileToolOptions) *chisel.TypedToolAdapter[*EditFileInput] {
	var resolvedOpts EditFileToolOptions
	if len(opts) > 0 {
		resolvedOpts = opts[0]
	}

	pathValidator, configErr := NewPathValidator(resolvedOpts.WorkspaceDir, resolvedOpts.DenyPaths...)
	if configErr != nil {
		configErr = fmt.Errorf("invalid workspace configuration for WorkspaceDir %q: %w", resolvedOpts.WorkspaceDir, configErr)
	}

	return chisel.ToolAdapter(&EditFileTool{
		pathValidator: pathValidator,
		workspaceDir:  resolvedOpts.WorkspaceDir,
		maxFileSize:   resolvedOpts.MaxFileSize,
		configErr:     configErr,
	})
}

// Name returns "edit_file" as the tool identifier.
func (t *EditFileTool) Name() string {
	return "edit_file"
}

// Description returns detailed usage instructions for the caller.
func (t *EditFileTool) Description() string {
	return `Edit a file with string replacements and line-based operations.

Two modes of operation that can be combined in one call:
1. String replacements: replace exact text strings throughout the file
2. Line operations: insert, replace, or delete specific lines by number

Replacements are applied first, in order. Line operations then address line
numbers as they stand after the replacements. All line operations in one call
must target disjoint, in-range lines; otherwise the whole edit is rejected
and the file is left untouched.

Examples:
- Replace text: {"path": "config.json", "replacements": [{"old": "\"debug\": false", "new": "\"debug\": true"}]}
- Insert at line 5: {"path": "script.py", "line_operations": [{"operation": "insert", "line": 5, "content": "# New comment"}]}
- Delete lines 10-15: {"path": "file.txt", "line_operations": [{"operation": "delete", "start_line": 10, "end_line": 15}]}
- Replace line 20: {"path": "file.txt", "line_operations": [{"operation": "replace", "line": 20, "content": "Updated content"}]}
- Preview only: add "dry_run": true to get a unified diff without writing

Returns a summary of all changes made to the file.`
}

// Schema returns the JSON schema describing the tool's input parameters.
func (t *EditFileTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     "object",
		Required: []string{"path"},
		Properties: map[string]*schema.Property{
			"path": {
				Type:        "string",
				Description: "Path to the file to edit.",
			},
			"replacements": {
				Type:        "array",
				Description: "Ordered exact string replacements.",
				Items: &schema.Property{
					Type:     "object",
					Required: []string{"old", "new"},
					Properties: map[string]*schema.Property{
						"old":   {Type: "string", Description: "Exact text to replace."},
						"new":   {Type: "string", Description: "Replacement text."},
						"count": {Type: "integer", Description: "Maximum occurrences to replace (default: all)."},
					},
				},
			},
			"line_operations": {
				Type:        "array",
				Description: "Line-level operations applied after the replacements.",
				Items: &schema.Property{
					Type:     "object",
					Required: []string{"operation"},
					Properties: map[string]*schema.Property{
						"operation":  {Type: "string", Description: "One of 'insert', 'replace', 'delete'.", Enum: []string{"insert", "replace", "delete"}},
						"line":       {Type: "integer", Description: "Target line for insert/replace (1-based)."},
						"start_line": {Type: "integer", Description: "First line of a delete range (1-based)."},
						"end_line":   {Type: "integer", Description: "Last line of a delete range (defaults to start_line)."},
						"content":    {Type: "string", Description: "Content for insert/replace; a string or an array of strings."},
					},
				},
			},
			"create_if_missing": {
				Type:        "boolean",
				Description: "Create the file (starting empty) if it does not exist (default: false).",
			},
			"dry_run": {
				Type:        "boolean",
				Description: "Compute the edit and return a unified diff without writing (default: false).",
			},
		},
	}
}

// Annotations returns metadata hints about the tool's behavior.
func (t *EditFileTool) Annotations() *chisel.ToolAnnotations {
	return &chisel.ToolAnnotations{
		Title:              "Edit File",
		ReadOnlyHint:       false,
		IdempotentHint:     false,
		DestructiveHint:    true,
		OpenWorldHint:      false,
		EditHint:           true,
		DisableParallelUse: true,
	}
}

// PreviewCall returns a summary of what the call will do.
func (t *EditFileTool) PreviewCall(ctx context.Context, input *EditFileInput) *chisel.ToolCallPreview {
	summary := fmt.Sprintf("Edit %s (%d replacements, %d line operations)",
		input.Path, len(input.Replacements), len(input.LineOperations))
	if input.DryRun {
		summary = fmt.Sprintf("Preview edit of %s", input.Path)
	}
	return &chisel.ToolCallPreview{Summary: summary}
}

// Call applies the edit and returns a change summary as a JSON object.
//
// A rejected plan, a load failure, or a write failure produces an error
// result and leaves the file exactly as it was.
func (t *EditFileTool) Call(ctx context.Context, input *EditFileInput) (*chisel.ToolResult, error) {
	if t.configErr != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", t.configErr.Error())), nil
	}
	if input.Path == "" {
		return chisel.NewToolResultError("error: 'path' is required"), nil
	}
	path, err := t.pathValidator.ValidateWrite(input.Path)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}
	if err := ensureFileSize(path, t.maxFileSize); err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}

	buf, err := textfile.Load(path)
	if err != nil {
		if textfile.IsNotFound(err) && input.CreateIfMissing {
			buf = textfile.NewBuffer("")
		} else {
			return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
		}
	}

	plan, err := buildEditPlan(input)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}

	edited, err := buf.Apply(plan)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}

	originalContent := buf.Content()
	newContent := edited.Content()

	response := editFileResponse{
		OriginalSize:     len(originalContent),
		NewSize:          len(newContent),
		Changed:          originalContent != newContent,
		ReplacementsMade: countReplacements(originalContent, input.Replacements),
		LineOperations:   len(input.LineOperations),
		DryRun:           input.DryRun,
	}

	display := fmt.Sprintf("Edited %s (%d replacements, %d line operations)",
		input.Path, len(response.ReplacementsMade), response.LineOperations)

	if input.DryRun {
		diff, err := unifiedDiff(input.Path, originalContent, newContent)
		if err != nil {
			return chisel.NewToolResultError(fmt.Sprintf("error generating diff: %s", err.Error())), nil
		}
		response.Diff = diff
		display = fmt.Sprintf("Previewed edit of %s", input.Path)
	} else {
		if err := textfile.Commit(path, newContent, textfile.Overwrite); err != nil {
			return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
		}
	}

	resultJSON, err := json.Marshal(response)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error marshaling result: %s", err.Error())), nil
	}
	return chisel.NewToolResultText(string(resultJSON)).WithDisplay(display), nil
}

// buildEditPlan converts the tool input to an edit plan, rejecting unknown
// operation kinds and malformed content before anything touches the engine.
func buildEditPlan(input *EditFileInput) (textfile.Plan, error) {
	plan := make(textfile.Plan, 0, len(input.Replacements)+len(input.LineOperations))
	for _, r := range input.Replacements {
		if r.Old == "" {
			return nil, fmt.Errorf("replacement 'old' must not be empty")
		}
		plan = append(plan, textfile.ReplaceString{
			Source:      r.Old,
			Replacement: r.New,
			Count:       r.Count,
		})
	}
	for _, op := range input.LineOperations {
		switch strings.ToLower(op.Operation) {
		case "insert":
			lines, err := coerceContentLines(op.Content)
			if err != nil {
				return nil, err
			}
			plan = append(plan, textfile.InsertLines{Line: op.Line, Lines: lines})
		case "replace":
			lines, err := coerceContentLines(op.Content)
			if err != nil {
				return nil, err
			}
			plan = append(plan, textfile.ReplaceLine{Line: op.Line, Text: strings.Join(lines, "\n")})
		case "delete":
			end := op.EndLine
			if end == 0 {
				end = op.StartLine
			}
			plan = append(plan, textfile.DeleteLines{StartLine: op.StartLine, EndLine: end})
		default:
			return nil, fmt.Errorf("unknown operation type: %q", op.Operation)
		}
	}
	return plan, nil
}

// coerceContentLines accepts a string or an array of strings, matching the
// loose JSON callers send. Missing content means one empty line.
func coerceContentLines(content any) ([]string, error) {
	switch v := content.(type) {
	case nil:
		return []string{""}, nil
	case string:
		return []string{v}, nil
	case []any:
		lines := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("content must be a string or an array of strings")
			}
			lines = append(lines, s)
		}
		if len(lines) == 0 {
			lines = []string{""}
		}
		return lines, nil
	default:
		return nil, fmt.Errorf("content must be a string or an array of strings")
	}
}

// countReplacements reports how many occurrences each replacement actually
// replaced, chaining them in order the same way the edit engine does.
// Sources with zero occurrences are omitted.
func countReplacements(text string, replacements []EditFileReplacement) map[string]int {
	counts := make(map[string]int)
	for _, r := range replacements {
		limit := r.Count
		if limit <= 0 {
			limit = -1
		}
		n := strings.Count(text, r.Old)
		if limit > 0 && n > limit {
			n = limit
		}
		if n > 0 {
			counts[r.Old] += n
			text = strings.Replace(text, r.Old, r.New, limit)
		}
	}
	return counts
}

// unifiedDiff renders the change as a unified diff for dry runs.
func unifiedDiff(path, oldContent, newContent string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: path,
		ToFile:   path,
		FromDate: "original",
		ToDate:   "modified",
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(diff)
}
