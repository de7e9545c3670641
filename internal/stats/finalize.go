package stats

import (
	"cmp"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/chatlens/chatlens/internal/model"
)

// Response-time windows, in minutes.
const (
	avgWindowMin   = 0.16
	avgWindowMax   = 48 * 60
	fastResponse   = 1
	longResponse   = 6 * 60
	ghostingWindow = 7 * 24 * 60
)

// Ranked list sizes.
const (
	topEmojis       = 5
	topEmojisByUser = 3
	topWords        = 10
	topPhrases      = 5
	minPhraseCount  = 3
)

func (a *accumulator) finalize(messages []model.Message) *model.Metrics {
	a.closeStreak()

	m := &model.Metrics{
		Participants:    slices.Clone(a.participants),
		TotalMessages:   len(messages),
		MessagesByUser:  a.messagesByUser,
		DailyInitiators: a.dailyInitiators(),
		LoveCount:       a.loveCount,
		AffectionCount:  a.affectionCount,
		EmojiTop:        rankEmojis(a.emojiTop, topEmojis),
		Heatmap:         a.heatmap,
		Timeline:        fillDays(a.timeline),
		Badges:          []model.Badge{},

		DoubleTexting:    a.doubleText,
		LaughMeter:       a.laughs,
		NightOwl:         a.night,
		LongestMonologue: a.monologue,
		WeekendWarrior:   a.weekend,

		WordCount:        a.words,
		MaxMessageLength: a.maxWords,
		LoveCountByUser:  a.loveByUser,

		AudioCount:  a.audio,
		YoyoCount:   a.yoyo,
		KillerCount: a.killer,
		PardonCount: a.pardon,
		PrimeTime:   primeTime(&a.heatmap),

		LoveTimeline:  fillMonths(a.loveByMonth),
		Nicknames:     plain(a.nicknames),
		QuestionCount: a.questions,

		DeletedCount: a.deleted,
		StickerCount: a.sticker,
		LinkCount:    a.link,
		LaughStyles:  plain(a.laughStyles),
		BadWords:     plain(a.badWords),
		Politeness:   plain(a.polite),

		ImageCount:       a.image,
		GifCount:         a.gif,
		ExclamationCount: a.exclaim,
		EllipsisCount:    a.ellipsis,

		SentimentScore: a.sentiment,
	}
	if m.Participants == nil {
		m.Participants = []string{}
	}

	a.finalizeUsers(m)
	a.finalizeResponses(m, messages)
	m.GoodMorningStreak = a.goodMorningStreaks()

	return m
}

// finalizeUsers fills the maps that hold one entry per participant.
func (a *accumulator) finalizeUsers(m *model.Metrics) {
	m.ChatDryness = make(map[string]int, len(a.participants))
	m.WordStock = make(map[string]int, len(a.participants))
	m.EmojiDensity = make(map[string]int, len(a.participants))
	m.EmojisByUser = make(map[string][]model.EmojiCount, len(a.participants))
	m.TopWords = make(map[string][]model.WordCount, len(a.participants))
	m.TopPhrases = make(map[string][]model.PhraseCount, len(a.participants))
	m.ToxicCount = make(map[string]int, len(a.participants))

	for _, user := range a.participants {
		msgs := max(a.messagesByUser[user], 1)
		words := a.words[user]

		m.ChatDryness[user] = roundInt(float64(words) / float64(msgs))
		m.WordStock[user] = len(a.stock[user])
		m.EmojiDensity[user] = roundInt(float64(a.emojis[user]) / float64(max(words, 1)) * 100)
		m.EmojisByUser[user] = rankEmojis(a.userEmoji[user], topEmojisByUser)

		m.TopWords[user] = []model.WordCount{}
		for _, e := range rank(a.userWords[user], topWords, 0) {
			m.TopWords[user] = append(m.TopWords[user], model.WordCount{Word: e.key, Count: e.count})
		}

		m.TopPhrases[user] = []model.PhraseCount{}
		for _, e := range rank(a.userPhrase[user], topPhrases, minPhraseCount) {
			m.TopPhrases[user] = append(m.TopPhrases[user], model.PhraseCount{Phrase: e.key, Count: e.count})
		}

		toxic := a.toxic[user]
		for _, n := range a.badWords[user] {
			toxic += n
		}
		m.ToxicCount[user] = toxic
	}
}

// finalizeResponses measures the delay between adjacent messages with
// different senders, after a stable re-sort by timestamp.
func (a *accumulator) finalizeResponses(m *model.Metrics, messages []model.Message) {
	sorted := slices.Clone(messages)
	slices.SortStableFunc(sorted, func(x, y model.Message) int {
		return x.Timestamp.Compare(y.Timestamp)
	})

	type total struct {
		minutes float64
		count   int
	}
	totals := make(map[string]*total)
	longest := make(map[string]float64)
	m.FastResponseCount = map[string]int{}
	m.LongResponseCount = map[string]int{}

	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if prev.Sender == cur.Sender {
			continue
		}
		gap := cur.Timestamp.Sub(prev.Timestamp).Minutes()

		if gap < ghostingWindow {
			if v, ok := longest[cur.Sender]; !ok || gap > v {
				longest[cur.Sender] = gap
			}
		}
		if gap < fastResponse {
			m.FastResponseCount[cur.Sender]++
		}
		if gap > longResponse && gap < ghostingWindow {
			m.LongResponseCount[cur.Sender]++
		}
		if gap >= avgWindowMin && gap <= avgWindowMax {
			t, ok := totals[cur.Sender]
			if !ok {
				t = &total{}
				totals[cur.Sender] = t
			}
			t.minutes += gap
			t.count++
		}
	}

	m.LongestResponseTime = make(map[string]float64, len(longest))
	for user, gap := range longest {
		m.LongestResponseTime[user] = math.Round(gap*10) / 10
	}

	m.ResponseTimes = []model.ResponseTime{}
	for _, user := range a.participants {
		if t, ok := totals[user]; ok {
			m.ResponseTimes = append(m.ResponseTimes, model.ResponseTime{
				User:       user,
				AvgMinutes: roundInt(t.minutes / float64(t.count)),
			})
		}
	}
	slices.SortStableFunc(m.ResponseTimes, func(x, y model.ResponseTime) int {
		return cmp.Compare(x.AvgMinutes, y.AvgMinutes)
	})
}

func (a *accumulator) dailyInitiators() map[string]int {
	out := make(map[string]int)
	for _, day := range a.dayOrder {
		out[a.firstOfDay[day]]++
	}
	return out
}

// goodMorningStreaks finds, per participant, the longest run of consecutive
// calendar days with a greeting.
func (a *accumulator) goodMorningStreaks() map[string]int {
	out := make(map[string]int, len(a.participants))
	for _, user := range a.participants {
		days := make([]string, 0, len(a.greetingDays[user]))
		for d := range a.greetingDays[user] {
			days = append(days, d)
		}
		out[user] = longestDayRun(days)
	}
	return out
}

func longestDayRun(days []string) int {
	sort.Strings(days)

	best, run := 0, 0
	var last time.Time
	for i, key := range days {
		d, err := time.Parse(model.DayKeyLayout, key)
		if err != nil {
			continue
		}
		if i > 0 && d.Sub(last) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
		last = d
	}
	return best
}

// fillDays returns a dense daily series from the first to the last day key.
func fillDays(counts counter) []model.TimelinePoint {
	out := []model.TimelinePoint{}
	if len(counts) == 0 {
		return out
	}

	keys := sortedKeys(counts)
	start, errStart := time.Parse(model.DayKeyLayout, keys[0])
	end, errEnd := time.Parse(model.DayKeyLayout, keys[len(keys)-1])
	if errStart != nil || errEnd != nil {
		for _, k := range keys {
			out = append(out, model.TimelinePoint{Date: k, Count: counts[k]})
		}
		return out
	}

	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(model.DayKeyLayout)
		out = append(out, model.TimelinePoint{Date: key, Count: counts[key]})
	}
	return out
}

// fillMonths returns a dense monthly series from the first to the last month.
func fillMonths(counts counter) []model.TimelinePoint {
	out := []model.TimelinePoint{}
	if len(counts) == 0 {
		return out
	}

	keys := sortedKeys(counts)
	start, errStart := time.Parse(model.MonthKeyLayout, keys[0])
	end, errEnd := time.Parse(model.MonthKeyLayout, keys[len(keys)-1])
	if errStart != nil || errEnd != nil {
		for _, k := range keys {
			out = append(out, model.TimelinePoint{Date: k, Count: counts[k]})
		}
		return out
	}

	for d := start; !d.After(end); d = d.AddDate(0, 1, 0) {
		key := d.Format(model.MonthKeyLayout)
		out = append(out, model.TimelinePoint{Date: key, Count: counts[key]})
	}
	return out
}

// primeTime sums the heatmap over weekdays; the first busiest hour wins.
func primeTime(h *model.Heatmap) model.PrimeTime {
	var hours [24]int
	for day := range h {
		for hour, n := range h[day] {
			hours[hour] += n
		}
	}

	best := model.PrimeTime{}
	for hour, n := range hours {
		if n > best.Count {
			best = model.PrimeTime{Hour: hour, Count: n}
		}
	}
	return best
}

type entry struct {
	key   string
	count int
}

// rank orders counts descending, keys ascending on ties, keeping at most
// limit entries with a count of at least minCount.
func rank(counts map[string]int, limit, minCount int) []entry {
	out := make([]entry, 0, len(counts))
	for k, n := range counts {
		if n >= minCount {
			out = append(out, entry{k, n})
		}
	}
	slices.SortFunc(out, func(x, y entry) int {
		if c := cmp.Compare(y.count, x.count); c != 0 {
			return c
		}
		return cmp.Compare(x.key, y.key)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func rankEmojis(counts map[string]int, limit int) []model.EmojiCount {
	out := []model.EmojiCount{}
	for _, e := range rank(counts, limit, 0) {
		out = append(out, model.EmojiCount{Emoji: e.key, Count: e.count})
	}
	return out
}

func sortedKeys(c counter) []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func plain(n nested) map[string]map[string]int {
	out := make(map[string]map[string]int, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

func roundInt(f float64) int {
	return int(math.Round(f))
}
