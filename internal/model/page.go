package model

// ImageElement describes one <img> in document order. Index is 1-based.
type ImageElement struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	HasAlt bool   `json:"hasAlt"`
	Index  int    `json:"index"`
}

// HeadingElement describes one h1-h6 in document order. Index is 1-based
// across all headings, not per level.
type HeadingElement struct {
	Level   int    `json:"level"`
	Text    string `json:"text"`
	TagName string `json:"tagName"`
	Index   int    `json:"index"`
}

// CMSSignals are the raw detection inputs gathered from a page. A signal
// that could not be extracted is simply absent (empty / false).
type CMSSignals struct {
	Generator           string `json:"generator,omitempty"`
	HasWordPressMarkers bool   `json:"hasWordPressMarkers"`
	HasDrupalMarkers    bool   `json:"hasDrupalMarkers"`
}

// PageFacts is the flat list of DOM facts the analyzers consume. The
// analyzers never touch the page itself.
type PageFacts struct {
	Images   []ImageElement   `json:"images"`
	Headings []HeadingElement `json:"headings"`
	CMS      CMSSignals       `json:"cms"`
}
