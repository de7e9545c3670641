package stats

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlens/chatlens/internal/model"
	"github.com/chatlens/chatlens/internal/parser"
	"github.com/chatlens/chatlens/internal/vocab"
)

var base = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)

func msg(sender, text string, ts time.Time) model.Message {
	return model.Message{
		Sender:    sender,
		Text:      text,
		Timestamp: ts,
		DayKey:    ts.Format(model.DayKeyLayout),
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	e, err := NewEngine(Config{})
	require.NoError(t, err)
	return e
}

func sampleMessages(t *testing.T) []model.Message {
	t.Helper()

	raw, err := os.ReadFile("../parser/testdata/sample_chat.txt")
	require.NoError(t, err)

	p, err := parser.New(parser.Config{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	chat, _ := p.Parse(string(raw))
	return chat.Messages
}

func TestCompute_SampleChat(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute(sampleMessages(t))

	assert.Equal(t, 10, m.TotalMessages)
	assert.Equal(t, []string{"Ana", "Bob"}, m.Participants)
	assert.Equal(t, map[string]int{"Ana": 5, "Bob": 5}, m.MessagesByUser)
	assert.Equal(t, map[string]int{"Ana": 2, "Bob": 1}, m.DailyInitiators)

	assert.Equal(t, []model.TimelinePoint{
		{Date: "2024-03-01", Count: 3},
		{Date: "2024-03-02", Count: 3},
		{Date: "2024-03-03", Count: 0},
		{Date: "2024-03-04", Count: 4},
	}, m.Timeline)

	assert.Equal(t, 2, m.LoveCount)
	assert.Equal(t, map[string]int{"Ana": 1, "Bob": 1}, m.LoveCountByUser)
	assert.Equal(t, []model.TimelinePoint{{Date: "2024-03", Count: 2}}, m.LoveTimeline)
	assert.Equal(t, map[string]int{"amor": 1}, m.Nicknames["Bob"])

	assert.Equal(t, map[string]int{"Ana": 3, "Bob": 3}, m.LongestMonologue)
	assert.Equal(t, map[string]int{"Ana": 2, "Bob": 2}, m.DoubleTexting)
	assert.Equal(t, map[string]int{"Bob": 1}, m.ImageCount)
	assert.Equal(t, map[string]int{"Bob": 2}, m.QuestionCount)
	assert.Equal(t, map[string]int{"Ana": 1}, m.LaughMeter)
	assert.Equal(t, map[string]int{"jaja": 1, "haha": 0, "lol": 0, "other": 0}, m.LaughStyles["Ana"])

	assert.Equal(t, []model.ResponseTime{
		{User: "Ana", AvgMinutes: 3},
		{User: "Bob", AvgMinutes: 8},
	}, m.ResponseTimes)
	assert.Equal(t, map[string]float64{"Ana": 4, "Bob": 10}, m.LongestResponseTime)

	assert.Equal(t, map[string]int{"Ana": 1, "Bob": 1}, m.GoodMorningStreak)
	assert.Equal(t, map[string]int{"Ana": 2, "Bob": 2}, m.ChatDryness)

	assert.Equal(t, []model.Badge{
		{Badge: "Iniciador Crónico", User: "Ana", Description: "Siempre da el primer paso"},
		{Badge: "El Seco", User: "Ana", Description: "Respuestas cortas"},
	}, m.Badges)

	teaser := BuildTeaser(m)
	require.NotNil(t, teaser.TopInitiator)
	assert.Equal(t, model.TopInitiator{User: "Ana", Count: 2}, *teaser.TopInitiator)
	assert.Equal(t, 2, teaser.LoveCount)
}

func TestCompute_Conservation(t *testing.T) {
	t.Parallel()

	inputs := [][]model.Message{
		nil,
		{msg("A", "hola", base)},
		sampleMessages(t),
		{
			msg("A", "uno", base),
			msg("B", "dos", base.Add(time.Minute)),
			msg("C", "tres", base.Add(2*time.Minute)),
			msg("A", "<Media omitted>", base.Add(3*time.Minute)),
			msg("C", "", base.Add(4*time.Minute)),
		},
	}

	e := newTestEngine(t)
	for _, in := range inputs {
		m := e.Compute(in)

		total := 0
		for _, n := range m.MessagesByUser {
			total += n
		}
		assert.Equal(t, m.TotalMessages, total)
		assert.Equal(t, len(in), m.TotalMessages)
	}
}

func TestCompute_Empty(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute(nil)

	assert.Zero(t, m.TotalMessages)
	assert.Empty(t, m.Participants)
	assert.NotNil(t, m.Participants)
	assert.Empty(t, m.Timeline)
	assert.Empty(t, m.Badges)
	assert.Equal(t, model.PrimeTime{}, m.PrimeTime)
	assert.Nil(t, BuildTeaser(m).TopInitiator)
}

func TestCompute_TimelineIsDense(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "hola", time.Date(2024, 2, 27, 10, 0, 0, 0, time.UTC)),
		msg("B", "hola", time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)),
		msg("A", "chao", time.Date(2024, 3, 2, 11, 0, 0, 0, time.UTC)),
	})

	dates := make([]string, 0, len(m.Timeline))
	for _, p := range m.Timeline {
		dates = append(dates, p.Date)
	}
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, dates)
	assert.Equal(t, 1, m.Timeline[0].Count)
	assert.Equal(t, 0, m.Timeline[2].Count)
	assert.Equal(t, 2, m.Timeline[4].Count)
}

func TestCompute_LoveTimelineFillsMonths(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "te amo", time.Date(2023, 11, 5, 10, 0, 0, 0, time.UTC)),
		msg("B", "te quiero, te adoro", time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)),
	})

	assert.Equal(t, 3, m.LoveCount)
	assert.Equal(t, []model.TimelinePoint{
		{Date: "2023-11", Count: 1},
		{Date: "2023-12", Count: 0},
		{Date: "2024-01", Count: 0},
		{Date: "2024-02", Count: 2},
	}, m.LoveTimeline)
}

func TestCompute_MonologueSkipsMedia(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "hi", base),
		msg("A", "image omitted", base.Add(time.Minute)),
		msg("A", "there", base.Add(2*time.Minute)),
	})

	assert.Equal(t, map[string]int{"A": 2}, m.LongestMonologue)
	assert.Equal(t, map[string]int{"A": 1}, m.DoubleTexting)
	assert.Equal(t, map[string]int{"A": 1}, m.ImageCount)
}

func TestCompute_MediaDoesNotBreakStreak(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "uno", base),
		msg("B", "<Media omitted>", base.Add(time.Minute)),
		msg("A", "dos", base.Add(2*time.Minute)),
		msg("B", "ok", base.Add(3*time.Minute)),
	})

	assert.Equal(t, map[string]int{"A": 2, "B": 1}, m.LongestMonologue)
}

func TestCompute_MediaFollowsVocabularyMarkers(t *testing.T) {
	t.Parallel()

	v := vocab.Default()
	v.Markers.Image = `photo omitted`
	e, err := NewEngine(Config{Vocabulary: v})
	require.NoError(t, err)

	m := e.Compute([]model.Message{
		msg("A", "uno", base),
		msg("A", "<Media omitted>", base.Add(time.Minute)),
		msg("A", "dos", base.Add(2*time.Minute)),
	})

	assert.Equal(t, map[string]int{"A": 3}, m.LongestMonologue)
	assert.Empty(t, m.ImageCount)
}

func TestCompute_ContentCounters(t *testing.T) {
	t.Parallel()

	stickers := func(m *model.Metrics) map[string]int { return m.StickerCount }
	gifs := func(m *model.Metrics) map[string]int { return m.GifCount }
	deleted := func(m *model.Metrics) map[string]int { return m.DeletedCount }
	images := func(m *model.Metrics) map[string]int { return m.ImageCount }

	tests := []struct {
		name  string
		text  string
		field func(m *model.Metrics) map[string]int
		want  int
	}{
		{"sticker", "sticker omitted", stickers, 1},
		{"sticker spanish", "Sticker omitido", stickers, 1},
		{"sticker word in text", "un sticker bonito", stickers, 0},
		{"gif", "GIF omitted", gifs, 1},
		{"gif spanish", "GIF omitido", gifs, 1},
		{"deleted", "This message was deleted", deleted, 1},
		{"deleted spanish", "Mensaje eliminado", deleted, 1},
		{"image", "image omitted", images, 1},
		{"generic media", "<Media omitted>", images, 1},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := e.Compute([]model.Message{msg("A", tt.text, base)})
			assert.Equal(t, tt.want, tt.field(m)["A"])
		})
	}
}

func TestCompute_AffectionCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want int
	}{
		{"besos amor", 2},
		{"un beso, besos y más besos mi amor", 4},
		{"BESOS", 1},
		{"mi vida, mi cielo", 2},
		{"desamor y besitos", 0},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()

			m := e.Compute([]model.Message{msg("A", tt.text, base)})
			assert.Equal(t, tt.want, m.AffectionCount)
		})
	}
}

func TestCompute_BlankBodyCountsOneWord(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "", base),
		msg("A", "hola que tal", base.Add(time.Minute)),
		msg("B", "  ", base.Add(2*time.Minute)),
	})

	assert.Equal(t, map[string]int{"A": 4, "B": 1}, m.WordCount)
	assert.Equal(t, map[string]int{"A": 3, "B": 1}, m.MaxMessageLength)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, m.ChatDryness)
}

func TestCompute_ResponseTimeWindows(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "hola", base),
		msg("B", "hola", base.Add(3*time.Second)),
		msg("A", "perdón, me dormí", base.Add(400*time.Minute+3*time.Second)),
	})

	assert.Equal(t, map[string]int{"B": 1}, m.FastResponseCount)
	assert.Equal(t, map[string]int{"A": 1}, m.LongResponseCount)
	assert.Equal(t, []model.ResponseTime{{User: "A", AvgMinutes: 400}}, m.ResponseTimes)
	assert.Equal(t, map[string]float64{"A": 400, "B": 0.1}, m.LongestResponseTime)
	assert.Contains(t, m.Badges, model.Badge{Badge: "Ghosting Alert", User: "A", Description: "Tarda años en responder"})
}

func TestCompute_ResponseTimeBounds(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "hola", base),
		msg("B", "hola", base.Add(49*time.Hour)),
		msg("A", "hola", base.Add(49*time.Hour+48*time.Hour)),
		msg("B", "hola", base.Add(49*time.Hour+48*time.Hour+8*24*time.Hour)),
	})

	assert.Equal(t, []model.ResponseTime{{User: "A", AvgMinutes: 2880}}, m.ResponseTimes)
	assert.Equal(t, map[string]float64{"A": 2880, "B": 2940}, m.LongestResponseTime)
	assert.Equal(t, map[string]int{"A": 1, "B": 1}, m.LongResponseCount)
}

func TestCompute_ResortsByTimestamp(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "hola", base),
		msg("B", "tarde", base.Add(10*time.Minute)),
		msg("A", "antes", base.Add(5*time.Minute)),
	})

	assert.Equal(t, []model.ResponseTime{{User: "B", AvgMinutes: 5}}, m.ResponseTimes)
}

func TestCompute_GoodMorningStreak(t *testing.T) {
	t.Parallel()

	day := func(d int) time.Time { return time.Date(2024, time.March, d, 8, 0, 0, 0, time.UTC) }
	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "buenos días", day(8)),
		msg("A", "Buen dia!", day(9)),
		msg("A", "bd", day(10)),
		msg("A", "buenos dias otra vez", day(10)),
		msg("A", "buenos dias", day(12)),
		msg("B", "hola", day(12)),
	})

	assert.Equal(t, map[string]int{"A": 3, "B": 0}, m.GoodMorningStreak)
}

func TestCompute_Lexical(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "pizza grande hoy", base),
		msg("A", "pizza grande hoy!", base.Add(time.Minute)),
		msg("A", "Pizza, grande hoy?", base.Add(2*time.Minute)),
		msg("A", "[10:20 pizza 123 de la", base.Add(3*time.Minute)),
	})

	assert.Equal(t, []model.WordCount{
		{Word: "pizza", Count: 4},
		{Word: "grande", Count: 3},
		{Word: "hoy", Count: 3},
	}, m.TopWords["A"])
	assert.Equal(t, []model.PhraseCount{
		{Phrase: "grande hoy", Count: 3},
		{Phrase: "pizza grande", Count: 3},
		{Phrase: "pizza grande hoy", Count: 3},
	}, m.TopPhrases["A"])
	assert.Equal(t, map[string]int{"A": 3}, m.WordStock)
	assert.Equal(t, map[string]int{"A": 5}, m.MaxMessageLength)
	assert.Equal(t, map[string]int{"A": 14}, m.WordCount)
}

func TestCompute_Laughs(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "JAJAJA haha", base),
		msg("B", "asdfjkl", base.Add(time.Minute)),
		msg("B", "lol ksks", base.Add(2*time.Minute)),
		msg("C", "casa", base.Add(3*time.Minute)),
	})

	assert.Equal(t, map[string]int{"A": 2, "B": 3}, m.LaughMeter)
	assert.Equal(t, map[string]int{"jaja": 1, "haha": 1, "lol": 0, "other": 0}, m.LaughStyles["A"])
	assert.Equal(t, map[string]int{"jaja": 0, "haha": 0, "lol": 1, "other": 2}, m.LaughStyles["B"])
	assert.NotContains(t, m.LaughStyles, "C")
}

func TestCompute_Emojis(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "hola 😀😀 ❤️", base),
		msg("A", "👍🏽", base.Add(time.Minute)),
		msg("B", "😀 bien", base.Add(2*time.Minute)),
	})

	assert.Equal(t, []model.EmojiCount{
		{Emoji: "😀", Count: 3},
		{Emoji: "❤", Count: 1},
		{Emoji: "👍", Count: 1},
	}, m.EmojiTop)
	assert.Equal(t, []model.EmojiCount{
		{Emoji: "😀", Count: 2},
		{Emoji: "❤", Count: 1},
		{Emoji: "👍", Count: 1},
	}, m.EmojisByUser["A"])
	// A: 4 emojis over 4 whitespace tokens.
	assert.Equal(t, 100, m.EmojiDensity["A"])
	assert.Equal(t, 50, m.EmojiDensity["B"])
}

func TestCompute_Roast(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "HOLA QUE TAL", base),
		msg("A", "que mierda", base.Add(time.Minute)),
		msg("A", "en serio??", base.Add(2*time.Minute)),
		msg("B", "ok", base.Add(3*time.Minute)),
		msg("B", "audio omitted", base.Add(4*time.Minute)),
		msg("B", "yo creo que mi idea... no sé", base.Add(5*time.Minute)),
		msg("B", "perdón, lo siento! gracias", base.Add(6*time.Minute)),
		msg("B", "mira https://example.com", base.Add(7*time.Minute)),
	})

	assert.Equal(t, map[string]int{"A": 3, "B": 0}, m.ToxicCount)
	assert.Equal(t, map[string]int{"mierda": 1}, m.BadWords["A"])
	assert.Equal(t, map[string]int{"B": 1}, m.KillerCount)
	assert.Equal(t, map[string]int{"B": 1}, m.AudioCount)
	assert.Equal(t, map[string]int{"B": 2}, m.YoyoCount)
	assert.Equal(t, map[string]int{"B": 3}, m.EllipsisCount)
	assert.Equal(t, map[string]int{"B": 2}, m.PardonCount)
	assert.Equal(t, map[string]int{"gracias": 1}, m.Politeness["B"])
	assert.Equal(t, map[string]int{"B": 1}, m.ExclamationCount)
	assert.Equal(t, map[string]int{"B": 1}, m.LinkCount)
}

func TestCompute_Sentiment(t *testing.T) {
	t.Parallel()

	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "todo bien, genial", base),
		msg("B", "nunca mal", base.Add(time.Minute)),
		msg("C", "no bien", base.Add(2*time.Minute)),
		msg("D", "hola", base.Add(3*time.Minute)),
	})

	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": -2}, m.SentimentScore)
}

func TestCompute_HeatmapAndPrimeTime(t *testing.T) {
	t.Parallel()

	sat := time.Date(2024, time.March, 2, 2, 30, 0, 0, time.UTC)
	m := newTestEngine(t).Compute([]model.Message{
		msg("A", "uno", sat),
		msg("B", "dos", sat.Add(time.Minute)),
		msg("A", "tres", sat.Add(24*time.Hour+2*time.Minute)),
		msg("B", "cuatro", sat.Add(48*time.Hour+9*time.Hour)),
	})

	assert.Equal(t, 2, m.Heatmap[time.Saturday][2])
	assert.Equal(t, 1, m.Heatmap[time.Sunday][2])
	assert.Equal(t, 1, m.Heatmap[time.Monday][11])
	assert.Equal(t, model.PrimeTime{Hour: 2, Count: 3}, m.PrimeTime)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, m.NightOwl)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, m.WeekendWarrior)
}

func TestCompute_Idempotent(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t)
	msgs := sampleMessages(t)

	first, err := json.Marshal(e.Compute(msgs))
	require.NoError(t, err)
	second, err := json.Marshal(e.Compute(msgs))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	msgs := []model.Message{
		msg("A", "b", base.Add(time.Minute)),
		msg("B", "a", base),
	}
	newTestEngine(t).Compute(msgs)

	assert.Equal(t, "A", msgs[0].Sender)
	assert.Equal(t, "B", msgs[1].Sender)
}
