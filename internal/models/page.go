// Package models defines the typed records passed between pipeline stages.
package models

// PageResult is the recognition output for a single page.
type PageResult struct {
	Page     int    `json:"page"`
	Markdown string `json:"markdown"`
	Width    int    `json:"image_width"`
	Height   int    `json:"image_height"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// Heading is a document heading with its level (1-4).
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// KeyValue is a key-value pair split out of a labeled line.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Elements holds the typed structural elements parsed from one page,
// each collection in document order.
type Elements struct {
	Headings      []Heading  `json:"headings"`
	Paragraphs    []string   `json:"paragraphs"`
	Lists         [][]string `json:"lists"`
	Tables        [][][]string `json:"tables"`
	KeyValuePairs []KeyValue `json:"key_value_pairs"`
}

// PageStats summarizes the parsed content of a page.
type PageStats struct {
	TextLength       int `json:"text_length"`
	NumHeadings      int `json:"num_headings"`
	NumParagraphs    int `json:"num_paragraphs"`
	NumLists         int `json:"num_lists"`
	NumTables        int `json:"num_tables"`
	NumKeyValuePairs int `json:"num_key_value_pairs"`
}

// ParsedPage is a successfully recognized page with its structural elements.
type ParsedPage struct {
	PageNumber int       `json:"page_number"`
	Width      int       `json:"image_width"`
	Height     int       `json:"image_height"`
	Raw        string    `json:"raw_markdown"`
	Elements   *Elements `json:"parsed_elements"`
	Stats      PageStats `json:"stats"`
}
