// Package phrase provides phrase decks for pronunciation practice and an
// explicit cursor for walking them.
//
// A deck is an ordered list of target phrases, typically loaded from a YAML
// file. Traversal state lives in a [Cursor] owned by the caller — the scoring
// core stays stateless and never sequences phrases itself.
package phrase

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Phrase is a single practice target.
type Phrase struct {
	// Text is the phrase the learner should say, with original casing,
	// accents, and punctuation intact.
	Text string `yaml:"text"`

	// Hint is an optional translation or pronunciation hint shown alongside
	// the phrase.
	Hint string `yaml:"hint"`
}

// Deck is an ordered collection of practice phrases.
type Deck struct {
	// Name uniquely identifies the deck (e.g. "cafe-basics").
	Name string `yaml:"name"`

	// Language is the BCP-47 language tag of the phrases (e.g. "es-AR").
	// Informational; also forwarded to STT providers as a recognition hint.
	Language string `yaml:"language"`

	// Phrases is the ordered phrase list. Must be non-empty.
	Phrases []Phrase `yaml:"phrases"`
}

// Validate checks that d is usable. It returns a joined error listing all
// problems found.
func (d *Deck) Validate() error {
	var errs []error
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, errors.New("deck name is required"))
	}
	if len(d.Phrases) == 0 {
		errs = append(errs, fmt.Errorf("deck %q has no phrases", d.Name))
	}
	for i, p := range d.Phrases {
		if strings.TrimSpace(p.Text) == "" {
			errs = append(errs, fmt.Errorf("deck %q: phrases[%d].text is blank", d.Name, i))
		}
	}
	return errors.Join(errs...)
}

// Load reads a YAML deck file at path and returns a validated [Deck].
func Load(path string) (*Deck, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("phrase: open %q: %w", path, err)
	}
	defer f.Close()

	d, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("phrase: parse %q: %w", path, err)
	}
	return d, nil
}

// LoadFromReader decodes a YAML deck from r and validates the result.
// Useful in tests where decks are constructed from string literals.
func LoadFromReader(r io.Reader) (*Deck, error) {
	d := &Deck{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(d); err != nil {
		return nil, fmt.Errorf("phrase: decode yaml: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadDir loads every *.yaml and *.yml file in dir as a deck and returns the
// decks keyed by name, sorted by name in the returned slice. Duplicate deck
// names across files are an error.
func LoadDir(dir string) ([]*Deck, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("phrase: read dir %q: %w", dir, err)
	}

	seen := make(map[string]string)
	var decks []*Deck
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		d, err := Load(path)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("phrase: deck name %q in %q duplicates %q", d.Name, path, prev)
		}
		seen[d.Name] = path
		decks = append(decks, d)
	}

	sort.Slice(decks, func(i, j int) bool { return decks[i].Name < decks[j].Name })
	return decks, nil
}
