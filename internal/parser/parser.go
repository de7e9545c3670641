// Package parser recovers structured messages from a plain-text chat export.
//
// Each physical line is tried against an ordered table of grammars. A line that
// matches opens a new message; a line that does not is either platform noise,
// a stray fragment, or a continuation of the message above it.
package parser

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/chatlens/chatlens/internal/model"
	"github.com/chatlens/chatlens/internal/textutil"
	"github.com/chatlens/chatlens/internal/vocab"
)

// phoneOnly is a sender that is just a phone number.
var phoneOnly = regexp.MustCompile(`^\+?\d+$`)

// Config configures a Parser. Zero values select defaults.
type Config struct {
	// Vocabulary supplies the system-message patterns. Defaults to vocab.Default().
	Vocabulary *vocab.Vocabulary
	// Rules are the grammars in priority order. Defaults to DefaultRules().
	Rules []Rule
	// Location is the zone timestamps are read in. Defaults to time.Local.
	Location *time.Location
	// Now is the upper bound for valid timestamps. Defaults to time.Now.
	Now func() time.Time
	Logger *slog.Logger
}

// Parser turns export text into a model.Chat. It holds no per-call state and
// is safe for concurrent use.
type Parser struct {
	rules    []Rule
	system   *SystemFilter
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// New creates a Parser.
func New(cfg Config) (*Parser, error) {
	v := cfg.Vocabulary
	if v == nil {
		v = vocab.Default()
	}

	system, err := NewSystemFilter(v.System)
	if err != nil {
		return nil, fmt.Errorf("failed to build system filter: %w", err)
	}

	p := &Parser{
		rules:    cfg.Rules,
		system:   system,
		location: cfg.Location,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}
	if len(p.rules) == 0 {
		p.rules = DefaultRules()
	}
	if p.location == nil {
		p.location = time.Local
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p.logger = p.logger.With("component", "parser")

	return p, nil
}

// IsSystem reports whether text is platform noise.
func (p *Parser) IsSystem(text string) bool {
	return p.system.IsSystem(text)
}

// lineKind classifies one physical line.
type lineKind int

const (
	lineMessage lineKind = iota
	lineRejected
	lineOther
)

// parseLine tries the rules in order. The first rule whose pattern matches
// decides: if its sender or timestamp is invalid the line is rejected and no
// later rule is consulted.
func (p *Parser) parseLine(line string, now time.Time) (model.Message, lineKind) {
	for _, rule := range p.rules {
		f, ok := rule.Extract(line)
		if !ok {
			continue
		}

		sender := cleanSender(f.Sender)
		if sender == "" {
			return model.Message{}, lineRejected
		}

		ts, ok := normalizeTimestamp(f.Date, f.Time, f.Marker, p.location, now)
		if !ok {
			return model.Message{}, lineRejected
		}

		return model.Message{
			Sender:    sender,
			Text:      strings.TrimSpace(f.Text),
			Timestamp: ts,
			DayKey:    ts.Format(model.DayKeyLayout),
		}, lineMessage
	}
	return model.Message{}, lineOther
}

func cleanSender(raw string) string {
	sender := strings.TrimSpace(textutil.StripInvisible(raw))
	if phoneOnly.MatchString(sender) {
		return ""
	}
	return sender
}

// Parse assembles raw export text into an ordered message list.
func (p *Parser) Parse(raw string) (*model.Chat, model.ParseStats) {
	now := p.now()
	lines := strings.Split(raw, "\n")

	a := assembler{
		chat:   &model.Chat{Participants: []string{}, Messages: []model.Message{}},
		seen:   make(map[string]struct{}),
		system: p.system,
	}
	a.stats.TotalLines = len(lines)

	for _, physical := range lines {
		line := textutil.StripInvisible(textutil.Normalize(strings.TrimSuffix(physical, "\r")))
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || dateSeparator.MatchString(trimmed) {
			continue
		}

		msg, kind := p.parseLine(line, now)
		switch kind {
		case lineMessage:
			a.open(msg)
			continue
		case lineRejected:
			if p.system.IsSystem(trimmed) {
				a.stats.SystemFiltered++
			} else {
				a.stats.Unparsed++
			}
			continue
		}

		if systemBracket.MatchString(trimmed) || p.system.IsSystem(trimmed) {
			a.stats.SystemFiltered++
			continue
		}

		if a.current == nil || leadingDate.MatchString(trimmed) {
			a.stats.Unparsed++
			continue
		}
		a.current.Text += "\n" + trimmed
	}
	a.close()

	a.stats.Messages = len(a.chat.Messages)
	a.stats.Participants = len(a.chat.Participants)

	p.logger.Debug("export parsed",
		slog.Int("total_lines", a.stats.TotalLines),
		slog.Int("messages", a.stats.Messages),
		slog.Int("participants", a.stats.Participants),
		slog.Int("system_filtered", a.stats.SystemFiltered),
		slog.Int("unparsed", a.stats.Unparsed),
	)

	return a.chat, a.stats
}

// assembler holds the single piece of state while stitching lines: the
// currently open message.
type assembler struct {
	chat    *model.Chat
	seen    map[string]struct{}
	current *model.Message
	system  *SystemFilter
	stats   model.ParseStats
}

func (a *assembler) open(msg model.Message) {
	a.close()
	a.current = &msg
}

// close emits the open message unless its assembled text is system noise.
func (a *assembler) close() {
	if a.current == nil {
		return
	}
	msg := *a.current
	a.current = nil

	if a.system.IsSystem(msg.Text) {
		a.stats.SystemFiltered++
		return
	}

	a.chat.Messages = append(a.chat.Messages, msg)
	if _, ok := a.seen[msg.Sender]; !ok {
		a.seen[msg.Sender] = struct{}{}
		a.chat.Participants = append(a.chat.Participants, msg.Sender)
	}
}
