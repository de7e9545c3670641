// Package vocab holds the word lists and marker patterns the parser and the
// metrics engine match against. Defaults target Spanish/LATAM exports; a YAML
// file can replace any list for other locales.
package vocab

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// ErrInvalidVocabulary is returned when a vocabulary fails validation.
var ErrInvalidVocabulary = errors.New("invalid vocabulary")

// Markers are case-insensitive regular expressions recognising the
// placeholders an export writes in place of media and deleted content.
type Markers struct {
	Image   string `yaml:"image"`
	Gif     string `yaml:"gif"`
	Sticker string `yaml:"sticker"`
	Audio   string `yaml:"audio"`
	Deleted string `yaml:"deleted"`
}

// Vocabulary is the full set of matching data.
//
// Phrase lists (Love, Affection, Greetings, Politeness, Apologies, Pronouns)
// match whole words, case-insensitively. Nicknames, BadWords and Uncertainty
// match as substrings of the lowercased text. KillerWords, StopWords,
// Positive, Negative and Negations are compared against single tokens.
type Vocabulary struct {
	Love        []string `yaml:"love"`
	Affection   []string `yaml:"affection"`
	Nicknames   []string `yaml:"nicknames"`
	Greetings   []string `yaml:"greetings"`
	Politeness  []string `yaml:"politeness"`
	Apologies   []string `yaml:"apologies"`
	Pronouns    []string `yaml:"pronouns"`
	BadWords    []string `yaml:"badWords"`
	KillerWords []string `yaml:"killerWords"`
	Uncertainty []string `yaml:"uncertainty"`
	StopWords   []string `yaml:"stopWords"`
	Positive    []string `yaml:"positive"`
	Negative    []string `yaml:"negative"`
	Negations   []string `yaml:"negations"`

	// Laughs maps a laugh style (jaja, haha, lol, other) to the substrings
	// that count as that style.
	Laughs map[string][]string `yaml:"laughs"`
	// Keysmash is the letter set of a keysmash laugh, e.g. "asdfjkl".
	Keysmash string `yaml:"keysmash"`

	Markers Markers `yaml:"markers"`

	// System lists regular expressions for platform-generated lines.
	// A leading or trailing \b is a Unicode word boundary.
	System []string `yaml:"system"`
}

// Load reads a YAML vocabulary file and merges it over the defaults.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	return Parse(data)
}

// Parse merges a YAML document over the defaults.
// Every list present in the document replaces the default list.
func Parse(data []byte) (*Vocabulary, error) {
	var override Vocabulary
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}

	v := Default()
	v.merge(&override)

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Marshal renders the vocabulary as YAML.
func (v *Vocabulary) Marshal() ([]byte, error) {
	return yaml.Marshal(v)
}

// Validate checks that every pattern compiles and required fields are set.
func (v *Vocabulary) Validate() error {
	patterns := []struct{ name, expr string }{
		{"markers.image", v.Markers.Image},
		{"markers.gif", v.Markers.Gif},
		{"markers.sticker", v.Markers.Sticker},
		{"markers.audio", v.Markers.Audio},
		{"markers.deleted", v.Markers.Deleted},
	}
	for _, p := range patterns {
		if p.expr == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidVocabulary, p.name)
		}
		if _, err := regexp.Compile(p.expr); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidVocabulary, p.name, err)
		}
	}
	for i, expr := range v.System {
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("%w: system[%d]: %v", ErrInvalidVocabulary, i, err)
		}
	}
	if v.Keysmash == "" {
		return fmt.Errorf("%w: keysmash is empty", ErrInvalidVocabulary)
	}
	return nil
}

func (v *Vocabulary) merge(o *Vocabulary) {
	replace := func(dst *[]string, src []string) {
		if src != nil {
			*dst = src
		}
	}
	replace(&v.Love, o.Love)
	replace(&v.Affection, o.Affection)
	replace(&v.Nicknames, o.Nicknames)
	replace(&v.Greetings, o.Greetings)
	replace(&v.Politeness, o.Politeness)
	replace(&v.Apologies, o.Apologies)
	replace(&v.Pronouns, o.Pronouns)
	replace(&v.BadWords, o.BadWords)
	replace(&v.KillerWords, o.KillerWords)
	replace(&v.Uncertainty, o.Uncertainty)
	replace(&v.StopWords, o.StopWords)
	replace(&v.Positive, o.Positive)
	replace(&v.Negative, o.Negative)
	replace(&v.Negations, o.Negations)
	replace(&v.System, o.System)

	if len(o.Laughs) > 0 {
		v.Laughs = o.Laughs
	}
	if o.Keysmash != "" {
		v.Keysmash = o.Keysmash
	}
	if o.Markers.Image != "" {
		v.Markers.Image = o.Markers.Image
	}
	if o.Markers.Gif != "" {
		v.Markers.Gif = o.Markers.Gif
	}
	if o.Markers.Sticker != "" {
		v.Markers.Sticker = o.Markers.Sticker
	}
	if o.Markers.Audio != "" {
		v.Markers.Audio = o.Markers.Audio
	}
	if o.Markers.Deleted != "" {
		v.Markers.Deleted = o.Markers.Deleted
	}
}
