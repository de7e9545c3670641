// Package stats computes the Metrics of a parsed chat.
//
// Compute makes one forward pass over the messages, feeding an accumulator
// that owns every running counter, then a finalizer reduces the accumulator
// into an immutable model.Metrics. Badges are derived afterwards from an
// ordered list of independent rules.
package stats

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/chatlens/chatlens/internal/model"
	"github.com/chatlens/chatlens/internal/textutil"
	"github.com/chatlens/chatlens/internal/vocab"
)

// Config configures an Engine. Zero values select defaults.
type Config struct {
	Vocabulary *vocab.Vocabulary
	// Badges are evaluated in order. Defaults to DefaultBadgeRules().
	Badges []BadgeRule
	Logger *slog.Logger
}

// Engine computes metrics. It is immutable after construction and safe for
// concurrent use.
type Engine struct {
	m      *matchers
	badges []BadgeRule
	logger *slog.Logger
}

// NewEngine compiles the vocabulary into matchers.
func NewEngine(cfg Config) (*Engine, error) {
	v := cfg.Vocabulary
	if v == nil {
		v = vocab.Default()
	}

	m, err := compileMatchers(v)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		m:      m,
		badges: cfg.Badges,
		logger: cfg.Logger,
	}
	if e.badges == nil {
		e.badges = DefaultBadgeRules()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	e.logger = e.logger.With("component", "stats")

	return e, nil
}

// Compute derives the metrics of messages, which must be in export order.
// The result depends only on the input.
func (e *Engine) Compute(messages []model.Message) *model.Metrics {
	acc := newAccumulator(e.m)
	for i := range messages {
		acc.observe(&messages[i])
	}

	metrics := acc.finalize(messages)
	metrics.Badges = computeBadges(e.badges, metrics)

	validate(e.logger, metrics, len(messages))
	return metrics
}

// matchers is the compiled form of a vocabulary.
type matchers struct {
	love       *textutil.WordRegexp
	affection  *textutil.WordRegexp
	greeting   *textutil.WordRegexp
	politeness *textutil.WordRegexp
	apology    *textutil.WordRegexp
	pronoun    *textutil.WordRegexp
	keysmash   *textutil.WordRegexp

	laugh       *regexp.Regexp
	laughStyle  map[string]string // lowercased laugh -> style
	laughStyles []string

	image   *regexp.Regexp
	gif     *regexp.Regexp
	sticker *regexp.Regexp
	audio   *regexp.Regexp
	deleted *regexp.Regexp

	nicknames   []string
	badWords    []string
	uncertainty []string

	killer    map[string]struct{}
	stopWords map[string]struct{}
	positive  map[string]struct{}
	negative  map[string]struct{}
	negations map[string]struct{}
}

var (
	linkPattern      = regexp.MustCompile(`(?i)https?://`)
	ellipsisPattern  = regexp.MustCompile(`\.{2,}`)
	clockToken       = regexp.MustCompile(`^\[?\d{1,2}[:/]\d{1,2}`)
	shortDateToken   = regexp.MustCompile(`\d{2}-\d{2}-\d{2}`)
	tokenPunctuation = strings.NewReplacer(".", "", ",", "", "!", "", "?", "", ";", "", ":", "", "(", "", ")", "", "[", "", "]", "", `"`, "")
)

func compileMatchers(v *vocab.Vocabulary) (*matchers, error) {
	m := &matchers{
		nicknames:   lowerAll(v.Nicknames),
		badWords:    lowerAll(v.BadWords),
		uncertainty: lowerAll(v.Uncertainty),
		killer:      setOf(v.KillerWords),
		stopWords:   setOf(v.StopWords),
		positive:    setOf(v.Positive),
		negative:    setOf(v.Negative),
		negations:   setOf(v.Negations),
	}

	words := []struct {
		dst   **textutil.WordRegexp
		name  string
		words []string
	}{
		{&m.love, "love", v.Love},
		{&m.affection, "affection", v.Affection},
		{&m.greeting, "greetings", v.Greetings},
		{&m.politeness, "politeness", v.Politeness},
		{&m.apology, "apologies", v.Apologies},
		{&m.pronoun, "pronouns", v.Pronouns},
	}
	for _, w := range words {
		re, err := textutil.CompileWord(textutil.WordAlternation(w.words))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", vocab.ErrInvalidVocabulary, w.name, err)
		}
		*w.dst = re
	}

	keysmash, err := textutil.CompileWord(`\b[` + classEscape(v.Keysmash) + `]{4,}\b`)
	if err != nil {
		return nil, fmt.Errorf("%w: keysmash: %v", vocab.ErrInvalidVocabulary, err)
	}
	m.keysmash = keysmash

	markers := []struct {
		dst  **regexp.Regexp
		name string
		expr string
	}{
		{&m.image, "image", v.Markers.Image},
		{&m.gif, "gif", v.Markers.Gif},
		{&m.sticker, "sticker", v.Markers.Sticker},
		{&m.audio, "audio", v.Markers.Audio},
		{&m.deleted, "deleted", v.Markers.Deleted},
	}
	for _, mk := range markers {
		re, err := regexp.Compile("(?i)" + mk.expr)
		if err != nil {
			return nil, fmt.Errorf("%w: markers.%s: %v", vocab.ErrInvalidVocabulary, mk.name, err)
		}
		*mk.dst = re
	}

	if err := m.compileLaughs(v.Laughs); err != nil {
		return nil, err
	}
	return m, nil
}

// compileLaughs builds one alternation over every laugh substring and a
// lookup from each substring to its style. Built-in styles come first; a
// substring listed under two styles belongs to the first.
func (m *matchers) compileLaughs(laughs map[string][]string) error {
	m.laughStyle = make(map[string]string)
	m.laughStyles = []string{model.LaughJaja, model.LaughHaha, model.LaughLol}

	var extra []string
	for style := range laughs {
		switch style {
		case model.LaughJaja, model.LaughHaha, model.LaughLol, model.LaughOther:
		default:
			extra = append(extra, style)
		}
	}
	sort.Strings(extra)
	m.laughStyles = append(m.laughStyles, extra...)
	m.laughStyles = append(m.laughStyles, model.LaughOther)

	var alts []string
	for _, style := range m.laughStyles {
		for _, l := range laughs[style] {
			key := strings.ToLower(l)
			if key == "" {
				continue
			}
			if _, dup := m.laughStyle[key]; dup {
				continue
			}
			m.laughStyle[key] = style
			alts = append(alts, regexp.QuoteMeta(key))
		}
	}

	if len(alts) == 0 {
		m.laugh = regexp.MustCompile(`[^\x00-\x{10FFFF}]`)
		return nil
	}

	re, err := regexp.Compile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
	if err != nil {
		return fmt.Errorf("%w: laughs: %v", vocab.ErrInvalidVocabulary, err)
	}
	m.laugh = re
	return nil
}

// isMedia reports a media placeholder. Generic "media omitted" lines are
// covered by the image marker.
func (m *matchers) isMedia(text string) bool {
	return m.image.MatchString(text) ||
		m.gif.MatchString(text) ||
		m.sticker.MatchString(text)
}

func classEscape(set string) string {
	var b strings.Builder
	for _, r := range set {
		switch r {
		case '\\', ']', '[', '^', '-':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w != "" {
			out = append(out, strings.ToLower(w))
		}
	}
	return out
}

func setOf(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
