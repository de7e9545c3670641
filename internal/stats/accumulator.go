package stats

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/chatlens/chatlens/internal/model"
	"github.com/chatlens/chatlens/internal/textutil"
)

type counter map[string]int

func (c counter) add(key string, n int) {
	c[key] += n
}

type nested map[string]counter

func (n nested) add(outer, inner string, v int) {
	c, ok := n[outer]
	if !ok {
		c = counter{}
		n[outer] = c
	}
	c[inner] += v
}

// accumulator owns every running counter of a single pass.
type accumulator struct {
	m *matchers

	participants []string
	seen         map[string]struct{}

	messagesByUser counter
	firstOfDay     map[string]string // day key -> initiator
	dayOrder       []string

	loveCount      int
	affectionCount int
	loveByUser     counter
	loveByMonth    counter
	nicknames      nested
	greetingDays   map[string]map[string]struct{}

	questions counter
	emojis    counter
	emojiTop  counter
	userEmoji nested

	heatmap  model.Heatmap
	night    counter
	weekend  counter
	timeline counter

	words      counter
	maxWords   counter
	stock      map[string]map[string]struct{}
	userWords  nested
	userPhrase nested

	laughs      counter
	laughStyles nested

	streakUser  string
	streakCount int
	doubleText  counter
	monologue   counter

	audio     counter
	yoyo      counter
	killer    counter
	toxic     counter
	pardon    counter
	deleted   counter
	sticker   counter
	link      counter
	image     counter
	gif       counter
	badWords  nested
	polite    nested
	exclaim   counter
	ellipsis  counter
	sentiment counter
}

func newAccumulator(m *matchers) *accumulator {
	return &accumulator{
		m:              m,
		seen:           make(map[string]struct{}),
		messagesByUser: counter{},
		firstOfDay:     make(map[string]string),
		loveByUser:     counter{},
		loveByMonth:    counter{},
		nicknames:      nested{},
		greetingDays:   make(map[string]map[string]struct{}),
		questions:      counter{},
		emojis:         counter{},
		emojiTop:       counter{},
		userEmoji:      nested{},
		night:          counter{},
		weekend:        counter{},
		timeline:       counter{},
		words:          counter{},
		maxWords:       counter{},
		stock:          make(map[string]map[string]struct{}),
		userWords:      nested{},
		userPhrase:     nested{},
		laughs:         counter{},
		laughStyles:    nested{},
		doubleText:     counter{},
		monologue:      counter{},
		audio:          counter{},
		yoyo:           counter{},
		killer:         counter{},
		toxic:          counter{},
		pardon:         counter{},
		deleted:        counter{},
		sticker:        counter{},
		link:           counter{},
		image:          counter{},
		gif:            counter{},
		badWords:       nested{},
		polite:         nested{},
		exclaim:        counter{},
		ellipsis:       counter{},
		sentiment:      counter{},
	}
}

func (a *accumulator) observe(msg *model.Message) {
	sender, text := msg.Sender, msg.Text
	lower := strings.ToLower(text)

	if _, ok := a.seen[sender]; !ok {
		a.seen[sender] = struct{}{}
		a.participants = append(a.participants, sender)
	}
	a.messagesByUser.add(sender, 1)

	a.observeSentiment(sender, lower)

	if _, ok := a.firstOfDay[msg.DayKey]; !ok {
		a.firstOfDay[msg.DayKey] = sender
		a.dayOrder = append(a.dayOrder, msg.DayKey)
	}

	if n := a.m.love.CountString(text); n > 0 {
		a.loveCount += n
		a.loveByUser.add(sender, n)
		a.loveByMonth.add(msg.Timestamp.Format(model.MonthKeyLayout), n)
	}
	a.affectionCount += a.m.affection.CountString(text)

	for _, nick := range a.m.nicknames {
		if strings.Contains(lower, nick) {
			a.nicknames.add(sender, nick, 1)
		}
	}

	if a.m.greeting.MatchString(text) {
		days, ok := a.greetingDays[sender]
		if !ok {
			days = make(map[string]struct{})
			a.greetingDays[sender] = days
		}
		days[msg.DayKey] = struct{}{}
	}

	if n := strings.Count(text, "?"); n > 0 {
		a.questions.add(sender, n)
	}

	if emojis := textutil.Pictographs(text); len(emojis) > 0 {
		a.emojis.add(sender, len(emojis))
		for _, e := range emojis {
			a.emojiTop.add(e, 1)
			a.userEmoji.add(sender, e, 1)
		}
	}

	a.observeTime(sender, msg.Timestamp, msg.DayKey)

	// A blank body still counts as one word.
	tokens := strings.Fields(text)
	words := max(len(tokens), 1)
	a.observeWords(sender, tokens, words)
	a.observeLaughs(sender, text)
	a.observeStreak(sender, a.m.isMedia(text))
	a.observeRoast(sender, text, lower, words)
	a.observeContent(sender, text, lower)
}

func (a *accumulator) observeSentiment(sender, lower string) {
	prev := ""
	score, touched := 0, false
	for _, w := range strings.Fields(lower) {
		_, negated := a.m.negations[prev]
		if _, ok := a.m.positive[w]; ok {
			touched = true
			if negated {
				score--
			} else {
				score++
			}
		}
		if _, ok := a.m.negative[w]; ok {
			touched = true
			if negated {
				score++
			} else {
				score--
			}
		}
		prev = w
	}
	if touched {
		a.sentiment.add(sender, score)
	}
}

func (a *accumulator) observeTime(sender string, ts time.Time, dayKey string) {
	weekday, hour := int(ts.Weekday()), ts.Hour()
	a.heatmap[weekday][hour]++

	if hour < 6 {
		a.night.add(sender, 1)
	}
	if ts.Weekday() == time.Saturday || ts.Weekday() == time.Sunday {
		a.weekend.add(sender, 1)
	}
	a.timeline.add(dayKey, 1)
}

func (a *accumulator) observeWords(sender string, tokens []string, n int) {
	a.words.add(sender, n)
	if n > a.maxWords[sender] {
		a.maxWords[sender] = n
	}

	stock, ok := a.stock[sender]
	if !ok {
		stock = make(map[string]struct{})
		a.stock[sender] = stock
	}

	clean := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if w, ok := a.cleanToken(tok); ok {
			stock[w] = struct{}{}
			a.userWords.add(sender, w, 1)
			clean = append(clean, w)
		}
	}

	for i := 0; i+1 < len(clean); i++ {
		a.userPhrase.add(sender, clean[i]+" "+clean[i+1], 1)
		if i+2 < len(clean) {
			a.userPhrase.add(sender, clean[i]+" "+clean[i+1]+" "+clean[i+2], 1)
		}
	}
}

// cleanToken reduces a raw token to a vocabulary word, or rejects it.
func (a *accumulator) cleanToken(tok string) (string, bool) {
	if clockToken.MatchString(tok) || shortDateToken.MatchString(tok) {
		return "", false
	}

	w := tokenPunctuation.Replace(strings.ToLower(textutil.StripInvisible(tok)))
	if _, stop := a.m.stopWords[w]; stop {
		return "", false
	}
	if utf8.RuneCountInString(w) <= 2 || isDigits(w) {
		return "", false
	}
	return w, true
}

func (a *accumulator) observeLaughs(sender, text string) {
	found := a.m.laugh.FindAllString(text, -1)
	if len(found) == 0 {
		if !a.m.keysmash.MatchString(text) {
			return
		}
		a.laughs.add(sender, 1)
		a.ensureLaughStyles(sender)
		a.laughStyles.add(sender, model.LaughOther, 1)
		return
	}

	a.laughs.add(sender, len(found))
	a.ensureLaughStyles(sender)
	for _, l := range found {
		style, ok := a.m.laughStyle[strings.ToLower(l)]
		if !ok {
			style = model.LaughOther
		}
		a.laughStyles.add(sender, style, 1)
	}
}

func (a *accumulator) ensureLaughStyles(sender string) {
	if _, ok := a.laughStyles[sender]; ok {
		return
	}
	styles := counter{}
	for _, s := range a.m.laughStyles {
		styles[s] = 0
	}
	a.laughStyles[sender] = styles
}

// observeStreak tracks consecutive messages from one sender. Media
// placeholders neither extend nor break a streak.
func (a *accumulator) observeStreak(sender string, media bool) {
	if media {
		return
	}
	if sender == a.streakUser {
		a.streakCount++
		a.doubleText.add(sender, 1)
		return
	}
	a.closeStreak()
	a.streakUser = sender
	a.streakCount = 1
}

func (a *accumulator) closeStreak() {
	if a.streakUser == "" {
		return
	}
	if a.streakCount > a.monologue[a.streakUser] {
		a.monologue[a.streakUser] = a.streakCount
	}
}

func (a *accumulator) observeRoast(sender, text, lower string, words int) {
	if a.m.audio.MatchString(text) {
		a.audio.add(sender, 1)
	}
	if n := a.m.pronoun.CountString(text); n > 0 {
		a.yoyo.add(sender, n)
	}
	if words == 1 {
		if _, ok := a.m.killer[strings.TrimSpace(lower)]; ok {
			a.killer.add(sender, 1)
		}
	}
	if isScreaming(text) || strings.Contains(text, "!!!") || strings.Contains(text, "??") {
		a.toxic.add(sender, 1)
	}
	if n := a.m.apology.CountString(text); n > 0 {
		a.pardon.add(sender, n)
	}
}

func (a *accumulator) observeContent(sender, text, lower string) {
	if a.m.deleted.MatchString(text) {
		a.deleted.add(sender, 1)
	}
	if a.m.sticker.MatchString(text) {
		a.sticker.add(sender, 1)
	}
	if linkPattern.MatchString(text) {
		a.link.add(sender, 1)
	}
	for _, bad := range a.m.badWords {
		if strings.Contains(lower, bad) {
			a.badWords.add(sender, bad, 1)
		}
	}
	if polite := a.m.politeness.FindString(lower); polite != "" {
		a.polite.add(sender, polite, 1)
	}
	if a.m.image.MatchString(text) {
		a.image.add(sender, 1)
	}
	if a.m.gif.MatchString(text) {
		a.gif.add(sender, 1)
	}
	if n := strings.Count(text, "!"); n > 0 {
		a.exclaim.add(sender, n)
	}

	score := len(ellipsisPattern.FindAllStringIndex(text, -1))
	for _, phrase := range a.m.uncertainty {
		if strings.Contains(lower, phrase) {
			score++
		}
	}
	if score > 0 {
		a.ellipsis.add(sender, score)
	}
}

// isScreaming reports an all-caps message longer than five characters.
func isScreaming(text string) bool {
	return utf8.RuneCountInString(text) > 5 &&
		text == strings.ToUpper(text) &&
		strings.ContainsFunc(text, unicode.IsUpper)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
