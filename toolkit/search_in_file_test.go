package toolkit

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type searchTestResponse struct {
	Matches    []SearchMatch `json:"matches"`
	MatchCount int           `json:"match_count"`
	Truncated  bool          `json:"truncated"`
}

func searchResult(t *testing.T, text string) searchTestResponse {
	t.Helper()
	var response searchTestResponse
	require.NoError(t, json.Unmarshal([]byte(text), &response))
	return response
}

func TestSearchInFileTool_Name(t *testing.T) {
	tool := NewSearchInFileTool()
	require.Equal(t, "search_in_file", tool.Name())
}

func TestSearchInFileTool_Annotations(t *testing.T) {
	tool := NewSearchInFileTool()
	annotations := tool.Annotations()

	require.Equal(t, "Search In File", annotations.Title)
	require.True(t, annotations.ReadOnlyHint)
	require.True(t, annotations.IdempotentHint)
	require.False(t, annotations.DestructiveHint)
}

func TestSearchInFileTool_Call(t *testing.T) {
	ctx := context.Background()
	workspace := t.TempDir()
	tool := NewSearchInFileTool(SearchInFileToolOptions{WorkspaceDir: workspace})

	content := "package main\n" +
		"// TODO: refactor\n" +
		"func Run() error { return nil }\n" +
		"// another TODO here and TODO again\n" +
		"todo lowercase\n"
	path := writeTestFile(t, workspace, "main.go", content)

	t.Run("LiteralPattern", func(t *testing.T) {
		result, err := tool.Call(ctx, &SearchInFileInput{Path: path, Pattern: "TODO"})
		require.NoError(t, err)
		require.False(t, result.IsError)

		response := searchResult(t, result.Content[0].Text)
		require.Equal(t, 3, response.MatchCount)
		require.False(t, response.Truncated)
		require.Equal(t, []SearchMatch{
			{LineNumber: 2, Content: "// TODO: refactor", Text: "TODO", Offset: 3},
			{LineNumber: 4, Content: "// another TODO here and TODO again", Text: "TODO", Offset: 11},
			{LineNumber: 4, Content: "// another TODO here and TODO again", Text: "TODO", Offset: 25},
		}, response.Matches)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		insensitive := false
		result, err := tool.Call(ctx, &SearchInFileInput{
			Path:          path,
			Pattern:       "TODO",
			CaseSensitive: &insensitive,
		})
		require.NoError(t, err)
		require.False(t, result.IsError)

		response := searchResult(t, result.Content[0].Text)
		require.Equal(t, 4, response.MatchCount)
		last := response.Matches[3]
		require.Equal(t, 5, last.LineNumber)
		require.Equal(t, "todo", last.Text)
		require.Equal(t, 0, last.Offset)
	})

	t.Run("RegexPattern", func(t *testing.T) {
		result, err := tool.Call(ctx, &SearchInFileInput{Path: path, Pattern: `func\s+\w+`})
		require.NoError(t, err)
		require.False(t, result.IsError)

		response := searchResult(t, result.Content[0].Text)
		require.Equal(t, 1, response.MatchCount)
		require.Equal(t, "func Run", response.Matches[0].Text)
		require.Equal(t, 3, response.Matches[0].LineNumber)
	})

	t.Run("MaxMatchesTruncates", func(t *testing.T) {
		result, err := tool.Call(ctx, &SearchInFileInput{Path: path, Pattern: "TODO", MaxMatches: 2})
		require.NoError(t, err)
		require.False(t, result.IsError)

		response := searchResult(t, result.Content[0].Text)
		require.Equal(t, 2, response.MatchCount)
		require.True(t, response.Truncated)
	})

	t.Run("TruncatedSetAtExactLimit", func(t *testing.T) {
		result, err := tool.Call(ctx, &SearchInFileInput{Path: path, Pattern: "TODO", MaxMatches: 3})
		require.NoError(t, err)

		response := searchResult(t, result.Content[0].Text)
		require.Equal(t, 3, response.MatchCount)
		require.True(t, response.Truncated)
	})

	t.Run("NegativeMaxMatchesIsUnlimited", func(t *testing.T) {
		result, err := tool.Call(ctx, &SearchInFileInput{Path: path, Pattern: "TODO", MaxMatches: -1})
		require.NoError(t, err)

		response := searchResult(t, result.Content[0].Text)
		require.Equal(t, 3, response.MatchCount)
		require.False(t, response.Truncated)
	})

	t.Run("ConfiguredMaxMatchesIsDefault", func(t *testing.T) {
		limited := NewSearchInFileTool(SearchInFileToolOptions{
			WorkspaceDir: workspace,
			MaxMatches:   2,
		})

		// No per-call cap: the configured default applies
		result, err := limited.Call(ctx, &SearchInFileInput{Path: path, Pattern: "TODO"})
		require.NoError(t, err)

		response := searchResult(t, result.Content[0].Text)
		require.Equal(t, 2, response.MatchCount)
		require.True(t, response.Truncated)

		// An explicit per-call cap still wins
		result, err = limited.Call(ctx, &SearchInFileInput{Path: path, Pattern: "TODO", MaxMatches: -1})
		require.NoError(t, err)

		response = searchResult(t, result.Content[0].Text)
		require.Equal(t, 3, response.MatchCount)
	})

	t.Run("NoMatches", func(t *testing.T) {
		result, err := tool.Call(ctx, &SearchInFileInput{Path: path, Pattern: "xyzzy"})
		require.NoError(t, err)
		require.False(t, result.IsError)

		response := searchResult(t, result.Content[0].Text)
		require.Equal(t, 0, response.MatchCount)
		require.Empty(t, response.Matches)
		require.False(t, response.Truncated)
	})

	t.Run("OffsetCountsRunes", func(t *testing.T) {
		unicodePath := writeTestFile(t, workspace, "unicode.txt", "héllo wörld TODO\n")
		result, err := tool.Call(ctx, &SearchInFileInput{Path: unicodePath, Pattern: "TODO"})
		require.NoError(t, err)

		response := searchResult(t, result.Content[0].Text)
		require.Equal(t, 1, response.MatchCount)
		require.Equal(t, 12, response.Matches[0].Offset)
	})

	t.Run("InvalidPattern", func(t *testing.T) {
		result, err := tool.Call(ctx, &SearchInFileInput{Path: path, Pattern: "[unclosed"})
		require.NoError(t, err)
		require.True(t, result.IsError)
		require.Contains(t, result.Content[0].Text, "invalid search pattern")
	})

	t.Run("MissingPattern", func(t *testing.T) {
		result, err := tool.Call(ctx, &SearchInFileInput{Path: path})
		require.NoError(t, err)
		require.True(t, result.IsError)
		require.Contains(t, result.Content[0].Text, "'pattern' is required")
	})

	t.Run("MissingFile", func(t *testing.T) {
		result, err := tool.Call(ctx, &SearchInFileInput{
			Path:    filepath.Join(workspace, "nope.txt"),
			Pattern: "x",
		})
		require.NoError(t, err)
		require.True(t, result.IsError)
		require.Contains(t, result.Content[0].Text, "file not found")
	})
}

func TestSearchInFileTool_PreviewCall(t *testing.T) {
	ctx := context.Background()
	tool := NewSearchInFileTool()

	preview := tool.PreviewCall(ctx, &SearchInFileInput{Path: "a.txt", Pattern: "TODO"})
	require.Equal(t, `Search a.txt for "TODO"`, preview.Summary)
}
