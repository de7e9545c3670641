package stats

import (
	"slices"
	"strconv"

	"github.com/chatlens/chatlens/internal/model"
)

const aliasLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// BuildAliasMap assigns "Persona A", "Persona B", ... to participants in
// order. Beyond the alphabet the 1-based index is used.
func BuildAliasMap(participants []string) map[string]string {
	aliases := make(map[string]string, len(participants))
	for i, p := range participants {
		suffix := strconv.Itoa(i + 1)
		if i < len(aliasLetters) {
			suffix = aliasLetters[i : i+1]
		}
		aliases[p] = "Persona " + suffix
	}
	return aliases
}

// ApplyAliases returns a copy of m with every participant name replaced
// through aliases. Names missing from aliases are kept. m is not modified.
func ApplyAliases(m *model.Metrics, aliases map[string]string) *model.Metrics {
	rename := func(name string) string {
		if alias, ok := aliases[name]; ok {
			return alias
		}
		return name
	}

	out := *m

	// Names that share an alias collapse into the first occurrence.
	out.Participants = make([]string, 0, len(m.Participants))
	seen := make(map[string]struct{}, len(m.Participants))
	for _, p := range m.Participants {
		p = rename(p)
		if _, dup := seen[p]; !dup {
			seen[p] = struct{}{}
			out.Participants = append(out.Participants, p)
		}
	}

	// ResponseTimes is sorted fastest first, so the kept entry is the
	// fastest of the merged names.
	out.ResponseTimes = make([]model.ResponseTime, 0, len(m.ResponseTimes))
	clear(seen)
	for _, rt := range m.ResponseTimes {
		user := rename(rt.User)
		if _, dup := seen[user]; !dup {
			seen[user] = struct{}{}
			out.ResponseTimes = append(out.ResponseTimes, model.ResponseTime{User: user, AvgMinutes: rt.AvgMinutes})
		}
	}

	out.Badges = make([]model.Badge, len(m.Badges))
	for i, b := range m.Badges {
		b.User = rename(b.User)
		out.Badges[i] = b
	}

	out.EmojiTop = slices.Clone(m.EmojiTop)
	out.Timeline = slices.Clone(m.Timeline)
	out.LoveTimeline = slices.Clone(m.LoveTimeline)

	// Averages and per-user maxima keep the larger value; counts add up.
	for _, f := range []struct {
		dst *map[string]int
		src map[string]int
	}{
		{&out.ChatDryness, m.ChatDryness},
		{&out.EmojiDensity, m.EmojiDensity},
		{&out.LongestMonologue, m.LongestMonologue},
		{&out.MaxMessageLength, m.MaxMessageLength},
		{&out.GoodMorningStreak, m.GoodMorningStreak},
	} {
		*f.dst = renameKeys(f.src, rename, larger)
	}

	for _, f := range []struct {
		dst *map[string]int
		src map[string]int
	}{
		{&out.MessagesByUser, m.MessagesByUser},
		{&out.DailyInitiators, m.DailyInitiators},
		{&out.DoubleTexting, m.DoubleTexting},
		{&out.LaughMeter, m.LaughMeter},
		{&out.NightOwl, m.NightOwl},
		{&out.WeekendWarrior, m.WeekendWarrior},
		{&out.WordCount, m.WordCount},
		{&out.WordStock, m.WordStock},
		{&out.LoveCountByUser, m.LoveCountByUser},
		{&out.AudioCount, m.AudioCount},
		{&out.YoyoCount, m.YoyoCount},
		{&out.KillerCount, m.KillerCount},
		{&out.ToxicCount, m.ToxicCount},
		{&out.PardonCount, m.PardonCount},
		{&out.QuestionCount, m.QuestionCount},
		{&out.DeletedCount, m.DeletedCount},
		{&out.StickerCount, m.StickerCount},
		{&out.LinkCount, m.LinkCount},
		{&out.ImageCount, m.ImageCount},
		{&out.GifCount, m.GifCount},
		{&out.ExclamationCount, m.ExclamationCount},
		{&out.EllipsisCount, m.EllipsisCount},
		{&out.FastResponseCount, m.FastResponseCount},
		{&out.LongResponseCount, m.LongResponseCount},
		{&out.SentimentScore, m.SentimentScore},
	} {
		*f.dst = renameKeys(f.src, rename, sum)
	}

	for _, f := range []struct {
		dst *map[string]map[string]int
		src map[string]map[string]int
	}{
		{&out.Nicknames, m.Nicknames},
		{&out.LaughStyles, m.LaughStyles},
		{&out.BadWords, m.BadWords},
		{&out.Politeness, m.Politeness},
	} {
		*f.dst = renameKeys(f.src, rename, mergeCounts)
	}

	out.LongestResponseTime = renameKeys(m.LongestResponseTime, rename, longer)
	out.EmojisByUser = renameKeys(m.EmojisByUser, rename, concat[model.EmojiCount])
	out.TopWords = renameKeys(m.TopWords, rename, concat[model.WordCount])
	out.TopPhrases = renameKeys(m.TopPhrases, rename, concat[model.PhraseCount])

	return &out
}

// renameKeys copies src with its keys renamed, combining values whose keys
// collide after renaming.
func renameKeys[V any](src map[string]V, rename func(string) string, combine func(V, V) V) map[string]V {
	if src == nil {
		return nil
	}
	out := make(map[string]V, len(src))
	for k, v := range src {
		k = rename(k)
		if prev, ok := out[k]; ok {
			v = combine(prev, v)
		}
		out[k] = cloneValue(v)
	}
	return out
}

func sum(x, y int) int { return x + y }

func larger(x, y int) int { return max(x, y) }

func longer(x, y float64) float64 { return max(x, y) }

func concat[E any](x, y []E) []E {
	return append(slices.Clone(x), y...)
}

func mergeCounts(x, y map[string]int) map[string]int {
	out := make(map[string]int, len(x)+len(y))
	for k, n := range x {
		out[k] += n
	}
	for k, n := range y {
		out[k] += n
	}
	return out
}

// cloneValue copies the reference types stored in metrics maps so the
// result shares no memory with the input.
func cloneValue[V any](v V) V {
	switch x := any(v).(type) {
	case map[string]int:
		c := make(map[string]int, len(x))
		for k, n := range x {
			c[k] = n
		}
		return any(c).(V)
	case []model.EmojiCount:
		return any(slices.Clone(x)).(V)
	case []model.WordCount:
		return any(slices.Clone(x)).(V)
	case []model.PhraseCount:
		return any(slices.Clone(x)).(V)
	}
	return v
}
