package schema

// SchemaType identifies the JSON type of a schema or property.
type SchemaType string

const (
	Object  SchemaType = "object"
	Array   SchemaType = "array"
	String  SchemaType = "string"
	Integer SchemaType = "integer"
	Number  SchemaType = "number"
	Boolean SchemaType = "boolean"
	Null    SchemaType = "null"
)

// NewSchema creates an object Schema with the given properties and
// required field names.
func NewSchema(properties map[string]*Property, required ...string) *Schema {
	return &Schema{
		Type:       Object,
		Properties: properties,
		Required:   required,
	}
}

// Schema describes the structure of a JSON object.
type Schema struct {
	Type                 SchemaType           `json:"type"`
	Properties           map[string]*Property `json:"properties,omitempty"`
	Required             []string             `json:"required,omitempty"`
	AdditionalProperties *bool                `json:"additionalProperties,omitempty"`
}

// Property of a schema.
type Property struct {
	Type                 SchemaType           `json:"type,omitempty"`
	Description          string               `json:"description,omitempty"`
	Enum                 []string             `json:"enum,omitempty"`
	Items                *Property            `json:"items,omitempty"`
	Required             []string             `json:"required,omitempty"`
	Properties           map[string]*Property `json:"properties,omitempty"`
	AdditionalProperties *bool                `json:"additionalProperties,omitempty"`
	Nullable             *bool                `json:"nullable,omitempty"`
	Pattern              *string              `json:"pattern,omitempty"`
	Format               *string              `json:"format,omitempty"`
	MinLength            *int                 `json:"minLength,omitempty"`
	MaxLength            *int                 `json:"maxLength,omitempty"`
	Minimum              *float64             `json:"minimum,omitempty"`
	Maximum              *float64             `json:"maximum,omitempty"`
	MinItems             *int                 `json:"minItems,omitempty"`
	MaxItems             *int                 `json:"maxItems,omitempty"`
}
