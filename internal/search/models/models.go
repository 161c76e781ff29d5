package models

// SearchTerm is one client's search box: the Latin input, its Devanagari
// form, and which of the two a submit uses.
type SearchTerm struct {
	Raw                string `json:"raw"`
	Devanagari         string `json:"devanagari"`
	UseTransliteration bool   `json:"useTransliteration"`
	// Seq is the sequence number of the latest keystroke. A transliteration
	// result is applied only while its Seq is still current.
	Seq     uint64 `json:"seq"`
	Pending bool   `json:"pending"`
	Source  string `json:"source,omitempty"`
	Notice  string `json:"notice,omitempty"`
}

// NewSearchTerm returns an empty term with transliteration switched on.
func NewSearchTerm() SearchTerm {
	return SearchTerm{UseTransliteration: true}
}

// Active returns the form a submit sends: the Devanagari text while
// transliteration is on, the raw input otherwise.
func (t SearchTerm) Active() string {
	if t.UseTransliteration {
		return t.Devanagari
	}
	return t.Raw
}
