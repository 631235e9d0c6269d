package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/deepnoodle-ai/chisel"
	"github.com/deepnoodle-ai/chisel/schema"
	"github.com/gobwas/glob"
)

var (
	_ chisel.TypedTool[*CommandInput]          = &CommandTool{}
	_ chisel.TypedToolPreviewer[*CommandInput] = &CommandTool{}
)

const (
	// DefaultCommandTimeout is the default command timeout (60 seconds)
	DefaultCommandTimeout = 60 * time.Second
	// MaxCommandTimeout is the maximum allowed timeout (10 minutes)
	MaxCommandTimeout = 10 * time.Minute
	// DefaultMaxOutputLength is the default maximum output length in characters
	DefaultMaxOutputLength = 30000
)

// CommandInput represents the input parameters for the command tool.
type CommandInput struct {
	// Command is the program to run as an argument array: the first element
	// is the executable name, the rest are its arguments. Required.
	// Elements may be strings or numbers; numbers are formatted as text.
	Command []any `json:"command"`

	// Timeout is the maximum execution time in seconds.
	// Defaults to 60 and is capped at 600 (10 minutes).
	Timeout int `json:"timeout,omitempty"`

	// WorkingDir sets the working directory for command execution.
	// If empty, the command runs in the workspace directory.
	WorkingDir string `json:"working_dir,omitempty"`
}

// CommandToolOptions configures the behavior of [CommandTool].
type CommandToolOptions struct {
	// WorkspaceDir restricts the working directory to paths within this
	// directory. Defaults to the current working directory if empty.
	WorkspaceDir string

	// AllowCommands, when non-empty, restricts execution to commands whose
	// name matches one of these glob patterns.
	AllowCommands []string

	// DenyCommands rejects commands whose name matches one of these glob
	// patterns. Deny wins over allow.
	DenyCommands []string

	// MaxOutputLength limits the captured stdout and stderr size in
	// characters. Defaults to [DefaultMaxOutputLength].
	MaxOutputLength int

	// DefaultTimeout applies when a call does not set its own timeout.
	// Defaults to [DefaultCommandTimeout]. Capped at [MaxCommandTimeout].
	DefaultTimeout time.Duration
}

// CommandTool executes external commands from an argument array.
//
// The command is invoked directly with its arguments; no shell ever
// interprets the input, so metacharacters, quoting, and expansion have no
// effect. The tool captures stdout, stderr, and the exit code.
//
// Security: this tool runs arbitrary programs with the privileges of the
// serving process. Use the allow and deny patterns and the workspace
// restriction to control what can run.
type CommandTool struct {
	pathValidator  *PathValidator
	allowGlobs     []glob.Glob
	denyGlobs      []glob.Glob
	allowPatterns  []string
	denyPatterns   []string
	maxOutputLen   int
	defaultTimeout time.Duration
	workspaceDir   string
	configErr      error
}

// NewCommandTool creates a new CommandTool with the given options.
// If no options are provided, defaults are used.
func NewCommandTool(opts ...CommandToolOptions) *chisel.TypedToolAdapter[*CommandInput] {
	var resolvedOpts CommandToolOptions
	if len(opts) > 0 {
		resolvedOpts = opts[0]
	}
	if resolvedOpts.MaxOutputLength <= 0 {
		resolvedOpts.MaxOutputLength = DefaultMaxOutputLength
	}
	if resolvedOpts.DefaultTimeout <= 0 {
		resolvedOpts.DefaultTimeout = DefaultCommandTimeout
	}
	if resolvedOpts.DefaultTimeout > MaxCommandTimeout {
		resolvedOpts.DefaultTimeout = MaxCommandTimeout
	}

	pathValidator, configErr := NewPathValidator(resolvedOpts.WorkspaceDir)
	if configErr != nil {
		configErr = fmt.Errorf("invalid workspace configuration for WorkspaceDir %q: %w", resolvedOpts.WorkspaceDir, configErr)
	}

	allowGlobs, err := compileGlobs(resolvedOpts.AllowCommands)
	if err != nil && configErr == nil {
		configErr = fmt.Errorf("invalid allow pattern: %w", err)
	}
	denyGlobs, err := compileGlobs(resolvedOpts.DenyCommands)
	if err != nil && configErr == nil {
		configErr = fmt.Errorf("invalid deny pattern: %w", err)
	}

	return chisel.ToolAdapter(&CommandTool{
		pathValidator:  pathValidator,
		allowGlobs:     allowGlobs,
		denyGlobs:      denyGlobs,
		allowPatterns:  resolvedOpts.AllowCommands,
		denyPatterns:   resolvedOpts.DenyCommands,
		maxOutputLen:   resolvedOpts.MaxOutputLength,
		defaultTimeout: resolvedOpts.DefaultTimeout,
		workspaceDir:   resolvedOpts.WorkspaceDir,
		configErr:      configErr,
	})
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Name returns "execute_shell_command" as the tool identifier.
func (t *CommandTool) Name() string {
	return "execute_shell_command"
}

// Description returns detailed usage instructions for the caller.
func (t *CommandTool) Description() string {
	desc := `Execute a shell command and return the complete results including stdout, stderr, and exit code.

Provide the command as a list of strings where the first element is the command name and subsequent elements are arguments. This approach prevents shell injection vulnerabilities.

Examples:
- List files: {"command": ["ls", "-la"]}
- Find text in files: {"command": ["grep", "-r", "TODO", "./src"]}
- Run a script: {"command": ["python", "analysis.py", "--input", "data.csv"]}

The command will timeout after the specified seconds (default: 60) to prevent hanging.

`
	if len(t.allowPatterns) > 0 {
		desc += fmt.Sprintf("The command must match the allow patterns: %v.\n", t.allowPatterns)
	}
	if len(t.denyPatterns) > 0 {
		desc += fmt.Sprintf("The command must not match the deny patterns: %v.\n", t.denyPatterns)
	}
	desc += fmt.Sprintf("Running on '%s' operating system.", runtime.GOOS)
	return desc
}

// Schema returns the JSON schema describing the tool's input parameters.
func (t *CommandTool) Schema() *schema.Schema {
	return &schema.Schema{
		Type:     "object",
		Required: []string{"command"},
		Properties: map[string]*schema.Property{
			"command": {
				Type:        "array",
				Description: "The command as an argument array. The first element is the command name, e.g. [\"ls\", \"-la\"].",
				Items:       &schema.Property{Type: "string"},
			},
			"timeout": {
				Type:        "integer",
				Description: "Timeout in seconds (max 600 / 10 minutes). Default is 60.",
			},
			"working_dir": {
				Type:        "string",
				Description: "The working directory for command execution.",
			},
		},
	}
}

// Annotations returns metadata hints about the tool's behavior.
// Command execution is marked destructive (can modify system state) and
// open-world (can reach external systems).
func (t *CommandTool) Annotations() *chisel.ToolAnnotations {
	return &chisel.ToolAnnotations{
		Title:           "Execute Shell Command",
		ReadOnlyHint:    false,
		IdempotentHint:  false,
		DestructiveHint: true,
		OpenWorldHint:   true,
	}
}

// PreviewCall returns a summary of what the command will do, used for
// permission prompts and logging.
func (t *CommandTool) PreviewCall(ctx context.Context, input *CommandInput) *chisel.ToolCallPreview {
	argv, err := coerceArgs(input.Command)
	if err != nil {
		return &chisel.ToolCallPreview{Summary: "Run a command"}
	}
	return &chisel.ToolCallPreview{
		Summary: fmt.Sprintf("Run `%s`", truncateCommand(strings.Join(argv, " "), 50)),
	}
}

// Call executes the command and returns its results.
//
// The result is a JSON object with stdout, stderr, exit_code, the
// space-joined command echo, and a success flag. A non-zero exit code or a
// timeout produces an error result, not a Go error.
func (t *CommandTool) Call(ctx context.Context, input *CommandInput) (*chisel.ToolResult, error) {
	if t.configErr != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", t.configErr.Error())), nil
	}

	if len(input.Command) == 0 {
		return chisel.NewToolResultError("error: no command provided"), nil
	}
	argv, err := coerceArgs(input.Command)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
	}
	name := argv[0]
	if name == "" {
		return chisel.NewToolResultError("error: no command name provided"), nil
	}

	if pattern := t.deniedCommand(name); pattern != "" {
		return chisel.NewToolResultError(fmt.Sprintf("error: command name %q is not allowed (deny pattern %q)", name, pattern)), nil
	}
	if !t.allowedCommand(name) {
		return chisel.NewToolResultError(fmt.Sprintf("error: command name %q is not allowed", name)), nil
	}

	workingDir := ""
	if input.WorkingDir != "" && t.pathValidator != nil {
		resolved, err := t.pathValidator.ValidateRead(input.WorkingDir)
		if err != nil {
			return chisel.NewToolResultError(fmt.Sprintf("error: %s", err.Error())), nil
		}
		workingDir = resolved
	}

	timeout := t.defaultTimeout
	if input.Timeout > 0 {
		timeout = time.Duration(input.Timeout) * time.Second
		if timeout > MaxCommandTimeout {
			timeout = MaxCommandTimeout
		}
	}

	stdout, stderr, exitCode := t.execute(ctx, argv, workingDir, timeout)

	echo := strings.Join(argv, " ")
	result := map[string]interface{}{
		"stdout":    stdout,
		"stderr":    stderr,
		"exit_code": exitCode,
		"command":   echo,
		"success":   exitCode == 0,
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return chisel.NewToolResultError(fmt.Sprintf("error marshaling result: %s", err.Error())), nil
	}

	display := fmt.Sprintf("Ran `%s` (exit %d)", truncateCommand(echo, 40), exitCode)

	if exitCode != 0 {
		return chisel.NewToolResultError(string(resultJSON)).WithDisplay(display), nil
	}
	return chisel.NewToolResultText(string(resultJSON)).WithDisplay(display), nil
}

// execute runs argv with the given timeout. All failure modes are folded
// into the (stdout, stderr, exit_code) contract: a timeout or start
// failure reports exit code -1 with the reason on stderr.
func (t *CommandTool) execute(ctx context.Context, argv []string, workingDir string, timeout time.Duration) (string, string, int) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if workingDir != "" {
		cmd.Dir = workingDir
	} else if t.workspaceDir != "" {
		cmd.Dir = t.workspaceDir
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	runErr := cmd.Run()
	exitCode := 0
	if runErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Sprintf("Command timed out after %d seconds", int(timeout.Seconds())), -1
		}
		if exitErr, ok := runErr.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			return "", fmt.Sprintf("Error executing command: %s", runErr.Error()), -1
		}
	}

	stdout := truncateOutput(stdoutBuf.String(), t.maxOutputLen)
	stderr := truncateOutput(stderrBuf.String(), t.maxOutputLen)
	return stdout, stderr, exitCode
}

// deniedCommand returns the deny pattern matching name, or "".
func (t *CommandTool) deniedCommand(name string) string {
	for i, g := range t.denyGlobs {
		if g.Match(name) || g.Match(filepath.Base(name)) {
			return t.denyPatterns[i]
		}
	}
	return ""
}

// allowedCommand reports whether name passes the allow patterns. An empty
// allow list permits everything.
func (t *CommandTool) allowedCommand(name string) bool {
	if len(t.allowGlobs) == 0 {
		return true
	}
	for _, g := range t.allowGlobs {
		if g.Match(name) || g.Match(filepath.Base(name)) {
			return true
		}
	}
	return false
}

// coerceArgs converts the raw JSON argument array to strings. Strings pass
// through; numbers are formatted; anything else is rejected.
func coerceArgs(raw []any) ([]string, error) {
	argv := make([]string, 0, len(raw))
	for _, arg := range raw {
		switch v := arg.(type) {
		case string:
			argv = append(argv, v)
		case float64, int, int64, json.Number:
			argv = append(argv, fmt.Sprintf("%v", v))
		default:
			return nil, fmt.Errorf("command arguments must be strings or numbers")
		}
	}
	return argv, nil
}

// truncateOutput limits output length to keep responses manageable.
// If truncated, a notice is appended to indicate data was cut off.
func truncateOutput(output string, maxLen int) string {
	if maxLen <= 0 || len(output) <= maxLen {
		return output
	}
	return output[:maxLen] + "\n... (output truncated)"
}

// truncateCommand truncates a command string for display, replacing newlines with spaces
func truncateCommand(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
