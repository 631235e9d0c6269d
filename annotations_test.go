package chisel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToolAnnotationsMarshal(t *testing.T) {
	t.Run("marshal includes hint fields", func(t *testing.T) {
		a := &ToolAnnotations{
			Title:              "Test Tool",
			ReadOnlyHint:       true,
			EditHint:           true,
			DisableParallelUse: true,
		}

		data, err := json.Marshal(a)
		require.NoError(t, err)

		var m map[string]any
		err = json.Unmarshal(data, &m)
		require.NoError(t, err)

		require.Equal(t, "Test Tool", m["title"])
		require.Equal(t, true, m["readOnlyHint"])
		require.Equal(t, true, m["editHint"])
		require.Equal(t, true, m["disableParallelUse"])
		require.Equal(t, false, m["destructiveHint"])
	})

	t.Run("unmarshal reads hint fields", func(t *testing.T) {
		data := `{"title":"Test","editHint":true,"disableParallelUse":true,"readOnlyHint":false}`
		var a ToolAnnotations
		err := json.Unmarshal([]byte(data), &a)
		require.NoError(t, err)

		require.Equal(t, "Test", a.Title)
		require.True(t, a.EditHint)
		require.True(t, a.DisableParallelUse)
		require.False(t, a.ReadOnlyHint)
	})

	t.Run("false by default", func(t *testing.T) {
		data := `{"title":"Test"}`
		var a ToolAnnotations
		err := json.Unmarshal([]byte(data), &a)
		require.NoError(t, err)

		require.False(t, a.EditHint)
		require.False(t, a.DisableParallelUse)
	})

	t.Run("extra fields preserved", func(t *testing.T) {
		data := `{"title":"Test","editHint":true,"customField":"value"}`
		var a ToolAnnotations
		err := json.Unmarshal([]byte(data), &a)
		require.NoError(t, err)

		require.True(t, a.EditHint)
		require.Equal(t, "value", a.Extra["customField"])
	})

	t.Run("extra fields round trip", func(t *testing.T) {
		a := &ToolAnnotations{
			Title: "Test",
			Extra: map[string]any{"customField": "value"},
		}

		data, err := json.Marshal(a)
		require.NoError(t, err)

		var decoded ToolAnnotations
		err = json.Unmarshal(data, &decoded)
		require.NoError(t, err)

		require.Equal(t, "Test", decoded.Title)
		require.Equal(t, "value", decoded.Extra["customField"])
	})
}
