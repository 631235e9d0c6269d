package chisel

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/chisel/schema"
)

// FuncToolOption configures a tool created by FuncTool.
type FuncToolOption func(*funcToolOptions)

type funcToolOptions struct {
	schema      *schema.Schema
	annotations *ToolAnnotations
}

// WithFuncToolSchema overrides the schema that would otherwise be generated
// from the function's input type.
func WithFuncToolSchema(s *schema.Schema) FuncToolOption {
	return func(o *funcToolOptions) {
		o.schema = s
	}
}

// WithFuncToolAnnotations sets the annotations returned by the tool.
func WithFuncToolAnnotations(a *ToolAnnotations) FuncToolOption {
	return func(o *funcToolOptions) {
		o.annotations = a
	}
}

// FuncTool wraps a function as a tool. The input schema is generated from
// the function's input type via reflection unless WithFuncToolSchema is
// used. If schema generation fails, the error is returned on the first Call.
func FuncTool[T any](name, description string, fn func(context.Context, T) (*ToolResult, error), opts ...FuncToolOption) *TypedToolAdapter[T] {
	var options funcToolOptions
	for _, opt := range opts {
		opt(&options)
	}
	tool := &funcTool[T]{
		name:        name,
		description: description,
		fn:          fn,
		schema:      options.schema,
		annotations: options.annotations,
	}
	if tool.schema == nil {
		var zero T
		generated, err := schema.Generate(zero)
		if err != nil {
			tool.schemaErr = fmt.Errorf("schema generation failed for tool %q: %w", name, err)
		} else {
			tool.schema = generated
		}
	}
	return ToolAdapter[T](tool)
}

type funcTool[T any] struct {
	name        string
	description string
	fn          func(context.Context, T) (*ToolResult, error)
	schema      *schema.Schema
	annotations *ToolAnnotations
	schemaErr   error
}

func (t *funcTool[T]) Name() string {
	return t.name
}

func (t *funcTool[T]) Description() string {
	return t.description
}

func (t *funcTool[T]) Schema() *schema.Schema {
	return t.schema
}

func (t *funcTool[T]) Annotations() *ToolAnnotations {
	return t.annotations
}

func (t *funcTool[T]) Call(ctx context.Context, input T) (*ToolResult, error) {
	if t.schemaErr != nil {
		return NewToolResultError(t.schemaErr.Error()), nil
	}
	return t.fn(ctx, input)
}
