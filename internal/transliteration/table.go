package transliteration

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// maxChunk is the longest syllable tried during segmentation, in runes.
const maxChunk = 3

// defaultEntries maps Latin syllables and a few whole names to Devanagari.
// Whole-input lookups and chunk lookups share this single table.
var defaultEntries = map[string]string{
	// vowels
	"a": "अ", "aa": "आ", "i": "इ", "ee": "ई", "u": "उ", "oo": "ऊ",
	"e": "ए", "ai": "ऐ", "o": "ओ", "au": "औ",
	// consonants
	"k": "क", "kh": "ख", "g": "ग", "gh": "घ", "ng": "ङ",
	"ch": "च", "chh": "छ", "j": "ज", "jh": "झ", "ny": "ञ",
	"t": "ट", "th": "ठ", "d": "ड", "dh": "ढ", "n1": "ण",
	"ta": "त", "tha": "थ", "da": "द", "dha": "ध", "na": "न",
	"p": "प", "ph": "फ", "b": "ब", "bh": "भ", "m": "म",
	"y": "य", "r": "र", "l": "ल", "v": "व", "w": "व",
	"sh": "श", "s": "स", "h": "ह",
	// conjuncts
	"ksh": "क्ष", "tr": "त्र", "gya": "ज्ञ",
	// common names
	"shiv": "शिव", "ram": "राम", "sita": "सीता",
	// nasal and visarga endings
	"am": "म्", "ah": "ः",
}

// Table is an immutable Latin to Devanagari lookup table. Keys are lowercase.
type Table struct {
	entries map[string]string
}

// DefaultTable returns the built-in table.
func DefaultTable() *Table {
	return &Table{entries: maps.Clone(defaultEntries)}
}

// NewTable builds a table from the default entries plus extra, with extra
// taking precedence.
func NewTable(extra map[string]string) *Table {
	t := DefaultTable()
	for k, v := range extra {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" || v == "" {
			continue
		}
		t.entries[key] = norm.NFC.String(v)
	}
	return t
}

// tableFile is the YAML layout accepted by LoadTable:
//
//	entries:
//	  gita: गीता
//	  mohan: मोहन
type tableFile struct {
	Entries map[string]string `yaml:"entries"`
}

// LoadTable reads extra entries from a YAML file and merges them over the
// default table. An empty path returns the default table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transliteration table: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse transliteration table %s: %w", path, err)
	}
	return NewTable(f.Entries), nil
}

// Lookup returns the Devanagari for a lowercase key.
func (t *Table) Lookup(key string) (string, bool) {
	v, ok := t.entries[key]
	return v, ok
}

// Len reports the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}
