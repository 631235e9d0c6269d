// Package toolkit provides the tools served over the MCP boundary: file
// viewing, searching, and editing, plain writes, shell command execution,
// and web page fetching.
//
// # Tools
//
//   - [ShowFileTool]: Show file contents with optional line ranges
//   - [SearchInFileTool]: Search a file with regular expressions
//   - [EditFileTool]: Apply string replacements and line operations in one call
//   - [WriteFileTool]: Write or append content to a file
//   - [CommandTool]: Execute a command from an argument array
//   - [FetchTool]: Fetch a web page and extract its text
//
// # Path Validation
//
// Tools that touch the filesystem use [PathValidator] to enforce workspace
// boundaries and deny patterns, with symlinks resolved before checking so a
// link cannot escape the workspace.
//
// # Creating Tools
//
// Each tool has a constructor (e.g. [NewEditFileTool]) that accepts an
// options struct and returns a [chisel.TypedToolAdapter] ready to serve:
//
//	editTool := toolkit.NewEditFileTool(toolkit.EditFileToolOptions{
//	    WorkspaceDir: "/path/to/workspace",
//	})
//
// File mutations are all-or-nothing: a rejected edit plan or failed write
// leaves the target file untouched.
package toolkit

import "github.com/deepnoodle-ai/chisel"

var (
	// NewToolResultError creates a tool result indicating an error occurred.
	// The message is returned to the caller as the call's content.
	NewToolResultError = chisel.NewToolResultError

	// NewToolResultText creates a successful tool result with text content.
	NewToolResultText = chisel.NewToolResultText
)
