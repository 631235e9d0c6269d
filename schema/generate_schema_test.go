package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type viewFileInput struct {
	Path      string   `json:"path" description:"File path to view"`
	StartLine int      `json:"start_line,omitempty" description:"First line to show" minimum:"1"`
	EndLine   int      `json:"end_line,omitempty" description:"Last line to show" minimum:"1"`
	Plain     bool     `json:"plain" description:"Omit line numbers"`
	Sections  []string `json:"sections,omitempty" description:"Named sections to include" maxItems:"10"`
	Encoding  *string  `json:"encoding,omitempty" description:"Override the detected encoding"`
}

type runCommandInput struct {
	Name    string  `json:"name" pattern:"^[a-z][a-z0-9_-]*$" minLength:"1" maxLength:"64"`
	Shell   string  `json:"shell" enum:"sh,bash,none"`
	Timeout float64 `json:"timeout,omitempty" minimum:"0" maximum:"600"`
	Detach  *bool   `json:"detach,omitempty" nullable:"true"`
}

func TestGenerateScalars(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected SchemaType
	}{
		{"string", "", String},
		{"int", 0, Integer},
		{"int64", int64(0), Integer},
		{"float64", 0.0, Number},
		{"bool", false, Boolean},
		{"slice", []string{}, Array},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Generate(tt.input)
			require.NoError(t, err)
			require.Equal(t, tt.expected, s.Type)
		})
	}
}

func TestGenerateStruct(t *testing.T) {
	s, err := Generate(viewFileInput{})
	require.NoError(t, err)

	require.Equal(t, Object, s.Type)
	require.NotNil(t, s.AdditionalProperties)
	require.False(t, *s.AdditionalProperties)

	require.Len(t, s.Properties, 6)
	for _, name := range []string{"path", "start_line", "end_line", "plain", "sections", "encoding"} {
		require.Contains(t, s.Properties, name)
	}

	// Fields without omitempty are required
	require.ElementsMatch(t, []string{"path", "plain"}, s.Required)

	require.Equal(t, String, s.Properties["path"].Type)
	require.Equal(t, "File path to view", s.Properties["path"].Description)
	require.Equal(t, Integer, s.Properties["start_line"].Type)
	require.Equal(t, Boolean, s.Properties["plain"].Type)
}

func TestGenerateArrayItems(t *testing.T) {
	s, err := Generate(viewFileInput{})
	require.NoError(t, err)

	sections := s.Properties["sections"]
	require.Equal(t, Array, sections.Type)
	require.NotNil(t, sections.Items)
	require.Equal(t, String, sections.Items.Type)
	require.NotNil(t, sections.MaxItems)
	require.Equal(t, 10, *sections.MaxItems)
}

func TestGeneratePointerIsNullable(t *testing.T) {
	s, err := Generate(viewFileInput{})
	require.NoError(t, err)

	encoding := s.Properties["encoding"]
	require.Equal(t, String, encoding.Type)
	require.NotNil(t, encoding.Nullable)
	require.True(t, *encoding.Nullable)
}

func TestGenerateConstraintTags(t *testing.T) {
	s, err := Generate(runCommandInput{})
	require.NoError(t, err)

	name := s.Properties["name"]
	require.NotNil(t, name.Pattern)
	require.Equal(t, "^[a-z][a-z0-9_-]*$", *name.Pattern)
	require.NotNil(t, name.MinLength)
	require.Equal(t, 1, *name.MinLength)
	require.NotNil(t, name.MaxLength)
	require.Equal(t, 64, *name.MaxLength)

	shell := s.Properties["shell"]
	require.Equal(t, []string{"sh", "bash", "none"}, shell.Enum)

	timeout := s.Properties["timeout"]
	require.NotNil(t, timeout.Minimum)
	require.Equal(t, 0.0, *timeout.Minimum)
	require.NotNil(t, timeout.Maximum)
	require.Equal(t, 600.0, *timeout.Maximum)

	detach := s.Properties["detach"]
	require.NotNil(t, detach.Nullable)
	require.True(t, *detach.Nullable)
}

func TestGenerateRequiredTagOverride(t *testing.T) {
	type input struct {
		Optional string `json:"optional" required:"false"`
		Forced   string `json:"forced,omitempty" required:"true"`
	}
	s, err := Generate(input{})
	require.NoError(t, err)
	require.Equal(t, []string{"forced"}, s.Required)
}

func TestGenerateSkipsHiddenFields(t *testing.T) {
	type input struct {
		Path     string `json:"path"`
		Internal string `json:"-"`
		secret   string
	}
	s, err := Generate(input{secret: ""})
	require.NoError(t, err)
	require.Len(t, s.Properties, 1)
	require.Contains(t, s.Properties, "path")
}

func TestGenerateNestedStruct(t *testing.T) {
	type input struct {
		Range struct {
			Start int `json:"start" description:"First line"`
			End   int `json:"end,omitempty"`
		} `json:"range" description:"Line range"`
	}
	s, err := Generate(input{})
	require.NoError(t, err)

	rangeProp := s.Properties["range"]
	require.Equal(t, Object, rangeProp.Type)
	require.Equal(t, "Line range", rangeProp.Description)
	require.Equal(t, Integer, rangeProp.Properties["start"].Type)
	require.Equal(t, []string{"start"}, rangeProp.Required)
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(nil)
	require.Error(t, err)

	_, err = Generate(make(chan int))
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported type")

	// Map fields have no schema mapping. Tools with header-style maps
	// declare their schemas by hand instead.
	type input struct {
		Headers map[string]string `json:"headers"`
	}
	_, err = Generate(input{})
	require.Error(t, err)
}

func TestGenerateGoldenJSON(t *testing.T) {
	type writeNoteInput struct {
		Path   string `json:"path" description:"Where to write the note"`
		Text   string `json:"text" description:"Note body"`
		Append bool   `json:"append,omitempty" description:"Append instead of overwrite"`
	}
	s, err := Generate(writeNoteInput{})
	require.NoError(t, err)

	jsonData, err := json.MarshalIndent(s, "", "  ")
	require.NoError(t, err)

	expected := `{
  "type": "object",
  "properties": {
    "append": {
      "type": "boolean",
      "description": "Append instead of overwrite"
    },
    "path": {
      "type": "string",
      "description": "Where to write the note"
    },
    "text": {
      "type": "string",
      "description": "Note body"
    }
  },
  "required": [
    "path",
    "text"
  ],
  "additionalProperties": false
}`
	require.JSONEq(t, expected, string(jsonData))
}
