// Package chisel provides a tool server that gives LLM applications
// precise access to files and commands on the local machine. Tools are
// exposed over the Model Context Protocol (MCP) using stdio or HTTP
// transports.
//
// The core types are:
//
//   - [Tool] and [TypedTool] define callable tools that a model can invoke.
//   - [TypedToolAdapter] bridges a typed tool to the untyped [Tool] interface.
//   - [ToolResult] captures the output from a tool call.
//   - [ToolAnnotations] describe tool behavior to clients.
//
// # Quick Start
//
//	srv, _ := mcpserver.New(mcpserver.Options{
//	    Name:    "chisel",
//	    Version: chisel.Version,
//	    Tools: []chisel.Tool{
//	        toolkit.NewShowFileTool(),
//	        toolkit.NewEditFileTool(),
//	    },
//	})
//	_ = srv.ServeStdio(ctx)
//
// Built-in tools are available in the [github.com/deepnoodle-ai/chisel/toolkit]
// package. The MCP server lives in the
// [github.com/deepnoodle-ai/chisel/mcpserver] package.
package chisel

// Version is the chisel release version.
const Version = "0.1.0"
