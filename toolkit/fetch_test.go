package toolkit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/chisel/web"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher returns queued outcomes in order, tracking call count.
type scriptedFetcher struct {
	calls   int
	outcome func(call int) (*web.Document, error)
}

func (f *scriptedFetcher) Fetch(ctx context.Context, input *web.FetchInput) (*web.Document, error) {
	f.calls++
	return f.outcome(f.calls)
}

func TestFetchTool_Name(t *testing.T) {
	tool := NewFetchTool()
	require.Equal(t, "fetch_page", tool.Name())
}

func TestFetchTool_Annotations(t *testing.T) {
	tool := NewFetchTool()
	annotations := tool.Annotations()

	require.Equal(t, "Fetch Page", annotations.Title)
	require.True(t, annotations.ReadOnlyHint)
	require.True(t, annotations.IdempotentHint)
	require.True(t, annotations.OpenWorldHint)
	require.False(t, annotations.DestructiveHint)
}

func TestFetchTool_Call(t *testing.T) {
	ctx := context.Background()

	t.Run("ComposesTitleAndDescription", func(t *testing.T) {
		fetcher := &scriptedFetcher{outcome: func(int) (*web.Document, error) {
			return &web.Document{
				Content: "Body text here.",
				Metadata: &web.DocumentMetadata{
					Title:       "Example Domain",
					Description: "An illustrative page",
				},
			}, nil
		}}
		tool := NewFetchTool(FetchToolOptions{Fetcher: fetcher})

		result, err := tool.Call(ctx, &web.FetchInput{URL: "https://example.com"})
		require.NoError(t, err)
		require.False(t, result.IsError)

		text := result.Content[0].Text
		require.True(t, strings.HasPrefix(text, "# Example Domain\n\n## An illustrative page\n\n"))
		require.Contains(t, text, "Body text here.")
	})

	t.Run("NoMetadata", func(t *testing.T) {
		fetcher := &scriptedFetcher{outcome: func(int) (*web.Document, error) {
			return &web.Document{Content: "just text"}, nil
		}}
		tool := NewFetchTool(FetchToolOptions{Fetcher: fetcher})

		result, err := tool.Call(ctx, &web.FetchInput{URL: "https://example.com"})
		require.NoError(t, err)
		require.Equal(t, "just text", result.Content[0].Text)
	})

	t.Run("TruncatesLongContent", func(t *testing.T) {
		fetcher := &scriptedFetcher{outcome: func(int) (*web.Document, error) {
			return &web.Document{Content: strings.Repeat("a", 100)}, nil
		}}
		tool := NewFetchTool(FetchToolOptions{Fetcher: fetcher, MaxSize: 10})

		result, err := tool.Call(ctx, &web.FetchInput{URL: "https://example.com"})
		require.NoError(t, err)
		require.Equal(t, strings.Repeat("a", 10)+"...", result.Content[0].Text)
	})

	t.Run("RetriesRecoverableFailure", func(t *testing.T) {
		fetcher := &scriptedFetcher{outcome: func(call int) (*web.Document, error) {
			if call == 1 {
				return nil, web.NewFetchError(503, errors.New("service unavailable"))
			}
			return &web.Document{Content: "recovered"}, nil
		}}
		tool := NewFetchTool(FetchToolOptions{Fetcher: fetcher, MaxRetries: 3})

		result, err := tool.Call(ctx, &web.FetchInput{URL: "https://example.com"})
		require.NoError(t, err)
		require.False(t, result.IsError)
		require.Equal(t, "recovered", result.Content[0].Text)
		require.Equal(t, 2, fetcher.calls)
	})

	t.Run("DoesNotRetryUnrecoverableFailure", func(t *testing.T) {
		fetcher := &scriptedFetcher{outcome: func(int) (*web.Document, error) {
			return nil, web.NewFetchError(404, errors.New("not found"))
		}}
		tool := NewFetchTool(FetchToolOptions{Fetcher: fetcher, MaxRetries: 3})

		result, err := tool.Call(ctx, &web.FetchInput{URL: "https://example.com"})
		require.NoError(t, err)
		require.True(t, result.IsError)
		require.Contains(t, result.Content[0].Text, "failed to fetch url")
		require.Equal(t, 1, fetcher.calls)
	})

	t.Run("ExhaustsRetries", func(t *testing.T) {
		fetcher := &scriptedFetcher{outcome: func(int) (*web.Document, error) {
			return nil, web.NewFetchError(503, errors.New("service unavailable"))
		}}
		tool := NewFetchTool(FetchToolOptions{Fetcher: fetcher, MaxRetries: 2})

		result, err := tool.Call(ctx, &web.FetchInput{URL: "https://example.com"})
		require.NoError(t, err)
		require.True(t, result.IsError)
		require.Equal(t, 2, fetcher.calls)
	})

	t.Run("MissingURL", func(t *testing.T) {
		tool := NewFetchTool(FetchToolOptions{Fetcher: &scriptedFetcher{}})

		result, err := tool.Call(ctx, &web.FetchInput{})
		require.NoError(t, err)
		require.True(t, result.IsError)
		require.Contains(t, result.Content[0].Text, "'url' is required")
	})
}

func TestFetchTool_PreviewCall(t *testing.T) {
	ctx := context.Background()
	tool := NewFetchTool(FetchToolOptions{Fetcher: &scriptedFetcher{}})

	preview := tool.PreviewCall(ctx, &web.FetchInput{URL: "https://example.com"})
	require.Equal(t, "Fetch https://example.com", preview.Summary)
}
