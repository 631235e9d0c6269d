package web

// Document contains the extracted content of a web page.
type Document struct {
	Content  string            `json:"content,omitempty"`
	Links    []string          `json:"links,omitempty"`
	Metadata *DocumentMetadata `json:"metadata,omitempty"`
}

// DocumentMetadata contains metadata about a web page.
type DocumentMetadata struct {
	URL         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}
