package stats

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlens/chatlens/internal/model"
)

func TestBuildAliasMap(t *testing.T) {
	t.Parallel()

	aliases := BuildAliasMap([]string{"Alice", "Bob"})
	assert.Equal(t, map[string]string{"Alice": "Persona A", "Bob": "Persona B"}, aliases)

	many := make([]string, 28)
	for i := range many {
		many[i] = fmt.Sprintf("user%d", i)
	}
	aliases = BuildAliasMap(many)
	assert.Equal(t, "Persona Z", aliases["user25"])
	assert.Equal(t, "Persona 27", aliases["user26"])
	assert.Equal(t, "Persona 28", aliases["user27"])
}

func aliasFixture(t *testing.T) *model.Metrics {
	t.Helper()

	day := func(d, h int) time.Time { return time.Date(2024, time.March, d, h, 0, 0, 0, time.UTC) }
	var msgs []model.Message
	for d := 1; d <= 6; d++ {
		msgs = append(msgs,
			msg("Alice", "buenos dias amor te amo jajaja 😀", day(d, 8)),
			msg("Alice", "que mierda gracias?", day(d, 9)),
			msg("Bob", "ok", day(d, 14)),
			msg("Bob", "image omitted", day(d, 15)),
			msg("Alice", "perdón, no sé... https://x.y", day(d, 16)),
		)
	}
	return newTestEngine(t).Compute(msgs)
}

func TestApplyAliases_RewritesEverySenderKey(t *testing.T) {
	t.Parallel()

	m := aliasFixture(t)
	require.Contains(t, m.MessagesByUser, "Alice")
	require.Contains(t, m.DailyInitiators, "Alice")
	require.NotEmpty(t, m.ResponseTimes)
	require.NotEmpty(t, m.Badges)

	out := ApplyAliases(m, BuildAliasMap(m.Participants))

	assert.Equal(t, []string{"Persona A", "Persona B"}, out.Participants)
	assert.Equal(t, 18, out.MessagesByUser["Persona A"])
	assert.Equal(t, 6, out.DailyInitiators["Persona A"])
	for _, rt := range out.ResponseTimes {
		assert.Contains(t, []string{"Persona A", "Persona B"}, rt.User)
	}

	data, err := json.Marshal(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Alice")
	assert.NotContains(t, string(data), "Bob")

	for _, b := range out.Badges {
		if b.Badge == "Te Amo Warrior" {
			assert.Equal(t, BothUsers, b.User)
		}
	}
}

func TestApplyAliases_KeepsInnerKeysAndValues(t *testing.T) {
	t.Parallel()

	m := aliasFixture(t)
	out := ApplyAliases(m, map[string]string{"Alice": "Persona A", "Bob": "Persona B"})

	assert.Equal(t, m.Nicknames["Alice"], out.Nicknames["Persona A"])
	assert.Equal(t, m.BadWords["Alice"], out.BadWords["Persona A"])
	assert.Equal(t, m.TopWords["Alice"], out.TopWords["Persona A"])
	assert.Equal(t, m.LongestResponseTime["Bob"], out.LongestResponseTime["Persona B"])
	assert.Equal(t, m.Heatmap, out.Heatmap)
	assert.Equal(t, m.Timeline, out.Timeline)
	assert.Equal(t, m.TotalMessages, out.TotalMessages)
}

func TestApplyAliases_DoesNotModifyInput(t *testing.T) {
	t.Parallel()

	m := aliasFixture(t)
	before, err := json.Marshal(m)
	require.NoError(t, err)

	out := ApplyAliases(m, BuildAliasMap(m.Participants))
	out.Nicknames["Persona A"]["amor"] = 999
	out.EmojisByUser["Persona A"][0].Count = 999

	after, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestApplyAliases_UnknownNamesKept(t *testing.T) {
	t.Parallel()

	m := aliasFixture(t)
	out := ApplyAliases(m, map[string]string{"Alice": "X"})

	assert.Equal(t, []string{"X", "Bob"}, out.Participants)
	assert.Contains(t, out.MessagesByUser, "Bob")
}

func TestApplyAliases_MergesCollidingNames(t *testing.T) {
	t.Parallel()

	m := &model.Metrics{
		Participants:     []string{"Ana", "Bob", "Cata"},
		MessagesByUser:   map[string]int{"Ana": 3, "Bob": 2, "Cata": 1},
		ChatDryness:      map[string]int{"Ana": 4, "Bob": 7, "Cata": 2},
		EmojiDensity:     map[string]int{"Ana": 10, "Bob": 50},
		LongestMonologue: map[string]int{"Ana": 2, "Bob": 5},
		ResponseTimes: []model.ResponseTime{
			{User: "Bob", AvgMinutes: 10}, {User: "Ana", AvgMinutes: 30}, {User: "Cata", AvgMinutes: 60},
		},
	}

	out := ApplyAliases(m, map[string]string{"Ana": "X", "Bob": "X", "Cata": "Y"})

	assert.Equal(t, []string{"X", "Y"}, out.Participants)
	assert.Equal(t, map[string]int{"X": 5, "Y": 1}, out.MessagesByUser)
	assert.Equal(t, map[string]int{"X": 7, "Y": 2}, out.ChatDryness)
	assert.Equal(t, map[string]int{"X": 50}, out.EmojiDensity)
	assert.Equal(t, map[string]int{"X": 5}, out.LongestMonologue)
	assert.Equal(t, []model.ResponseTime{{User: "X", AvgMinutes: 10}, {User: "Y", AvgMinutes: 60}}, out.ResponseTimes)
}
