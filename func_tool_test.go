package chisel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type weatherInput struct {
	City  string `json:"city" description:"City name"`
	Units string `json:"units,omitempty" description:"Temperature units" enum:"celsius,fahrenheit"`
}

func TestFuncTool(t *testing.T) {
	t.Run("creates tool with auto-generated schema", func(t *testing.T) {
		tool := FuncTool("get_weather", "Get current weather",
			func(ctx context.Context, input *weatherInput) (*ToolResult, error) {
				return NewToolResultText(input.City + " is sunny"), nil
			},
		)

		require.Equal(t, "get_weather", tool.Name())
		require.Equal(t, "Get current weather", tool.Description())

		s := tool.Schema()
		require.NotNil(t, s)
		require.Equal(t, Object, s.Type)
		require.NotNil(t, s.Properties["city"])
		require.Equal(t, "City name", s.Properties["city"].Description)
		require.NotNil(t, s.Properties["units"])
		require.Equal(t, "Temperature units", s.Properties["units"].Description)

		// city is required (no omitempty), units is optional
		require.Contains(t, s.Required, "city")
		require.NotContains(t, s.Required, "units")
	})

	t.Run("executes function correctly", func(t *testing.T) {
		tool := FuncTool("get_weather", "Get current weather",
			func(ctx context.Context, input *weatherInput) (*ToolResult, error) {
				return NewToolResultText(input.City + " is sunny"), nil
			},
		)

		result, err := tool.Call(context.Background(), []byte(`{"city":"Paris"}`))
		require.NoError(t, err)
		require.NotNil(t, result)
		require.False(t, result.IsError)
		require.Equal(t, "Paris is sunny", result.Content[0].Text)
	})

	t.Run("with annotations option", func(t *testing.T) {
		tool := FuncTool("get_weather", "Get current weather",
			func(ctx context.Context, input *weatherInput) (*ToolResult, error) {
				return NewToolResultText("ok"), nil
			},
			WithFuncToolAnnotations(&ToolAnnotations{
				ReadOnlyHint:  true,
				OpenWorldHint: true,
				Title:         "Weather",
			}),
		)

		a := tool.Annotations()
		require.NotNil(t, a)
		require.True(t, a.ReadOnlyHint)
		require.True(t, a.OpenWorldHint)
		require.Equal(t, "Weather", a.Title)
	})

	t.Run("with schema override", func(t *testing.T) {
		customSchema := &Schema{
			Type: Object,
			Properties: map[string]*SchemaProperty{
				"custom_field": {Type: String, Description: "Custom field"},
			},
			Required: []string{"custom_field"},
		}

		tool := FuncTool("custom", "Custom tool",
			func(ctx context.Context, input *weatherInput) (*ToolResult, error) {
				return NewToolResultText("ok"), nil
			},
			WithFuncToolSchema(customSchema),
		)

		s := tool.Schema()
		require.NotNil(t, s)
		require.NotNil(t, s.Properties["custom_field"])
		require.Equal(t, "Custom field", s.Properties["custom_field"].Description)
	})

	t.Run("nil annotations by default", func(t *testing.T) {
		tool := FuncTool("test", "Test tool",
			func(ctx context.Context, input *weatherInput) (*ToolResult, error) {
				return NewToolResultText("ok"), nil
			},
		)
		require.Nil(t, tool.Annotations())
	})
}

func TestFuncToolWithStructInput(t *testing.T) {
	type searchInput struct {
		Query   string   `json:"query" description:"Search query string"`
		Limit   int      `json:"limit,omitempty" description:"Max results"`
		Filters []string `json:"filters,omitempty" description:"Filter expressions"`
	}

	tool := FuncTool("search", "Search for things",
		func(ctx context.Context, input searchInput) (*ToolResult, error) {
			return NewToolResultText(input.Query), nil
		},
	)

	s := tool.Schema()
	require.NotNil(t, s)
	require.NotNil(t, s.Properties["query"])
	require.NotNil(t, s.Properties["limit"])
	require.NotNil(t, s.Properties["filters"])
	require.Contains(t, s.Required, "query")

	// Execute it
	result, err := tool.Call(context.Background(), []byte(`{"query":"hello"}`))
	require.NoError(t, err)
	require.Equal(t, "hello", result.Content[0].Text)
}
