// Package mcpserver exposes chisel tools over the Model Context Protocol.
// It supports the stdio transport for editor and agent integrations as well
// as a streamable HTTP transport for network clients.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/deepnoodle-ai/chisel"
	"github.com/deepnoodle-ai/chisel/slogger"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefaultShutdownTimeout bounds how long ServeHTTP waits for in-flight
// requests to drain after the context is canceled.
const DefaultShutdownTimeout = time.Second * 5

// Options are used to configure a Server.
type Options struct {
	Name    string
	Version string
	Tools   []chisel.Tool
	Logger  slogger.Logger
}

// Server exposes a set of tools to MCP clients. Calls are stateless:
// nothing is retained between tool invocations.
type Server struct {
	mcpServer *server.MCPServer
	logger    slogger.Logger

	mutex     sync.RWMutex
	toolNames []string
}

// New returns a new Server configured with the given options.
func New(opts Options) (*Server, error) {
	if opts.Name == "" {
		opts.Name = "chisel"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	if opts.Logger == nil {
		opts.Logger = slogger.DefaultLogger
	}
	mcpServer := server.NewMCPServer(opts.Name, opts.Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	s := &Server{
		mcpServer: mcpServer,
		logger:    opts.Logger,
	}
	for _, tool := range opts.Tools {
		mcpTool, err := ConvertTool(tool)
		if err != nil {
			return nil, fmt.Errorf("failed to register tool %q: %w", tool.Name(), err)
		}
		mcpServer.AddTool(mcpTool, toolHandler(tool, opts.Logger))
		s.toolNames = append(s.toolNames, tool.Name())
	}
	return s, nil
}

// ToolNames returns the names of the registered tools in registration order.
func (s *Server) ToolNames() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	names := make([]string, len(s.toolNames))
	copy(names, s.toolNames)
	return names
}

// ReplaceTools swaps the registered tools for a new set. Connected clients
// are notified that the tool list changed. All tools are converted before
// any registration changes, so a conversion failure leaves the current set
// in place.
func (s *Server) ReplaceTools(tools []chisel.Tool) error {
	converted := make([]mcp.Tool, 0, len(tools))
	handlers := make([]server.ToolHandlerFunc, 0, len(tools))
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		mcpTool, err := ConvertTool(tool)
		if err != nil {
			return fmt.Errorf("failed to register tool %q: %w", tool.Name(), err)
		}
		converted = append(converted, mcpTool)
		handlers = append(handlers, toolHandler(tool, s.logger))
		names = append(names, tool.Name())
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if len(s.toolNames) > 0 {
		s.mcpServer.DeleteTools(s.toolNames...)
	}
	for i, mcpTool := range converted {
		s.mcpServer.AddTool(mcpTool, handlers[i])
	}
	s.toolNames = names
	s.logger.Info("tools replaced", "tools", len(names))
	return nil
}

// ServeStdio serves MCP over stdin and stdout until the context is canceled
// or stdin is closed. Logs go to stderr so they never interleave with the
// protocol stream.
func (s *Server) ServeStdio(ctx context.Context) error {
	s.logger.Info("mcp server started",
		"transport", "stdio",
		"tools", len(s.ToolNames()))
	stdioServer := server.NewStdioServer(s.mcpServer)
	err := stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server error: %w", err)
	}
	return nil
}

// ServeHTTP serves MCP over the streamable HTTP transport on the given
// address until the context is canceled.
func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	httpServer := server.NewStreamableHTTPServer(s.mcpServer,
		server.WithStateLess(true))
	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start(addr)
	}()
	s.logger.Info("mcp server started",
		"transport", "http",
		"addr", addr,
		"tools", len(s.ToolNames()))
	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server shutdown error: %w", err)
		}
		return nil
	}
}

// ConvertTool converts a chisel tool definition to its MCP representation.
// The input schema is carried as raw JSON so the wire form matches the
// tool's own schema exactly.
func ConvertTool(tool chisel.Tool) (mcp.Tool, error) {
	schemaJSON, err := json.Marshal(tool.Schema())
	if err != nil {
		return mcp.Tool{}, fmt.Errorf("failed to marshal tool schema: %w", err)
	}
	mcpTool := mcp.NewToolWithRawSchema(tool.Name(), tool.Description(), schemaJSON)
	if annotations := tool.Annotations(); annotations != nil {
		mcpTool.Annotations = mcp.ToolAnnotation{
			Title:           annotations.Title,
			ReadOnlyHint:    mcp.ToBoolPtr(annotations.ReadOnlyHint),
			DestructiveHint: mcp.ToBoolPtr(annotations.DestructiveHint),
			IdempotentHint:  mcp.ToBoolPtr(annotations.IdempotentHint),
			OpenWorldHint:   mcp.ToBoolPtr(annotations.OpenWorldHint),
		}
	}
	return mcpTool, nil
}

// toolHandler returns the MCP handler for one tool. Arguments are passed to
// the tool as raw JSON and the typed adapter takes care of decoding them.
func toolHandler(tool chisel.Tool, logger slogger.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()
		arguments, err := json.Marshal(request.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("error: invalid arguments: %s", err)), nil
		}
		result, err := tool.Call(ctx, json.RawMessage(arguments))
		if err != nil {
			logger.Error("tool call failed",
				"tool", tool.Name(),
				"duration", time.Since(startTime).String(),
				"error", err)
			return nil, err
		}
		mcpResult := ConvertResult(result)
		logger.Info("tool call completed",
			"tool", tool.Name(),
			"duration", time.Since(startTime).String(),
			"is_error", mcpResult.IsError)
		return mcpResult, nil
	}
}

// ConvertResult converts a chisel tool result to an MCP call result. Text
// content passes through unchanged and IsError is preserved.
func ConvertResult(result *chisel.ToolResult) *mcp.CallToolResult {
	if result == nil {
		return mcp.NewToolResultError("tool returned no result")
	}
	content := make([]mcp.Content, 0, len(result.Content))
	for _, item := range result.Content {
		switch item.Type {
		case chisel.ToolResultContentTypeImage:
			content = append(content, mcp.NewImageContent(item.Data, item.MimeType))
		case chisel.ToolResultContentTypeAudio:
			content = append(content, mcp.NewAudioContent(item.Data, item.MimeType))
		default:
			content = append(content, mcp.NewTextContent(item.Text))
		}
	}
	return &mcp.CallToolResult{
		Content: content,
		IsError: result.IsError,
	}
}
