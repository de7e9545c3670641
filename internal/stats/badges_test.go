package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatlens/chatlens/internal/model"
)

func findRule(t *testing.T, name string) BadgeRule {
	t.Helper()

	for _, r := range DefaultBadgeRules() {
		if r.Name == name {
			return r
		}
	}
	t.Fatalf("no rule %q", name)
	return BadgeRule{}
}

func TestBadgeRules(t *testing.T) {
	t.Parallel()

	participants := []string{"A", "B"}

	tests := []struct {
		name    string
		rule    string
		metrics model.Metrics
		user    string
		awarded bool
	}{
		{
			name:    "initiator dominant",
			rule:    "Iniciador Crónico",
			metrics: model.Metrics{Participants: participants, DailyInitiators: map[string]int{"A": 7, "B": 3}},
			user:    "A", awarded: true,
		},
		{
			name:    "initiator at sixty percent",
			rule:    "Iniciador Crónico",
			metrics: model.Metrics{Participants: participants, DailyInitiators: map[string]int{"A": 6, "B": 4}},
			user:    "A", awarded: false,
		},
		{
			name:    "initiator below floor",
			rule:    "Iniciador Crónico",
			metrics: model.Metrics{Participants: participants, DailyInitiators: map[string]int{"A": 2}},
			user:    "A", awarded: false,
		},
		{
			name:    "joker",
			rule:    "El Bromista",
			metrics: model.Metrics{Participants: participants, LaughMeter: map[string]int{"A": 4, "B": 11}},
			user:    "B", awarded: true,
		},
		{
			name:    "joker at threshold",
			rule:    "El Bromista",
			metrics: model.Metrics{Participants: participants, LaughMeter: map[string]int{"A": 10}},
			user:    "A", awarded: false,
		},
		{
			name:    "monologue",
			rule:    "El Monólogo",
			metrics: model.Metrics{Participants: participants, LongestMonologue: map[string]int{"A": 6, "B": 6}},
			user:    "A", awarded: true,
		},
		{
			name:    "night owl",
			rule:    "Búho Nocturno",
			metrics: model.Metrics{Participants: participants, NightOwl: map[string]int{"A": 5, "B": 16}},
			user:    "B", awarded: true,
		},
		{
			name:    "night owl too few",
			rule:    "Búho Nocturno",
			metrics: model.Metrics{Participants: participants, NightOwl: map[string]int{"A": 20}},
			user:    "A", awarded: false,
		},
		{
			name:    "dry",
			rule:    "El Seco",
			metrics: model.Metrics{Participants: participants, ChatDryness: map[string]int{"A": 6, "B": 3}},
			user:    "B", awarded: true,
		},
		{
			name:    "not dry",
			rule:    "El Seco",
			metrics: model.Metrics{Participants: participants, ChatDryness: map[string]int{"A": 6, "B": 4}},
			user:    "B", awarded: false,
		},
		{
			name: "ghosting picks first above threshold",
			rule: "Ghosting Alert",
			metrics: model.Metrics{Participants: participants, ResponseTimes: []model.ResponseTime{
				{User: "A", AvgMinutes: 200}, {User: "B", AvgMinutes: 300},
			}},
			user: "A", awarded: true,
		},
		{
			name: "ghosting skips fast responders",
			rule: "Ghosting Alert",
			metrics: model.Metrics{Participants: []string{"A", "B", "C"}, ResponseTimes: []model.ResponseTime{
				{User: "C", AvgMinutes: 20}, {User: "B", AvgMinutes: 181}, {User: "A", AvgMinutes: 400},
			}},
			user: "B", awarded: true,
		},
		{
			name: "ghosting at threshold",
			rule: "Ghosting Alert",
			metrics: model.Metrics{Participants: participants, ResponseTimes: []model.ResponseTime{
				{User: "A", AvgMinutes: 180},
			}},
			user: "", awarded: false,
		},
		{
			name: "no ghosting",
			rule: "Ghosting Alert",
			metrics: model.Metrics{Participants: participants, ResponseTimes: []model.ResponseTime{
				{User: "A", AvgMinutes: 20}, {User: "B", AvgMinutes: 180},
			}},
			user: "B", awarded: false,
		},
		{
			name:    "love warrior",
			rule:    "Te Amo Warrior",
			metrics: model.Metrics{LoveCount: 5},
			user:    BothUsers, awarded: true,
		},
		{
			name:    "weekend warrior",
			rule:    "Weekend Warrior",
			metrics: model.Metrics{Participants: participants, WeekendWarrior: map[string]int{"A": 15, "B": 6}},
			user:    "A", awarded: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user, ok := findRule(t, tt.rule).Award(&tt.metrics)
			assert.Equal(t, tt.awarded, ok)
			if tt.awarded {
				assert.Equal(t, tt.user, user)
			}
		})
	}
}

func TestComputeBadges_Order(t *testing.T) {
	t.Parallel()

	m := &model.Metrics{
		Participants:   []string{"A", "B"},
		LoveCount:      9,
		LaughMeter:     map[string]int{"A": 12},
		WeekendWarrior: map[string]int{"B": 30},
	}

	badges := computeBadges(DefaultBadgeRules(), m)

	names := make([]string, 0, len(badges))
	for _, b := range badges {
		names = append(names, b.Badge)
	}
	assert.Equal(t, []string{"El Bromista", "Te Amo Warrior", "Weekend Warrior"}, names)
}

func TestNewEngine_CustomBadges(t *testing.T) {
	t.Parallel()

	e, err := NewEngine(Config{Badges: []BadgeRule{{
		Name: "Chatty",
		Award: func(m *model.Metrics) (string, bool) {
			return "everyone", m.TotalMessages > 1
		},
	}}})
	assert.NoError(t, err)

	m := e.Compute([]model.Message{msg("A", "hola", base), msg("B", "hola", base)})
	assert.Equal(t, []model.Badge{{Badge: "Chatty", User: "everyone"}}, m.Badges)
}

func TestBuildTeaser_TieGoesToFirstParticipant(t *testing.T) {
	t.Parallel()

	teaser := BuildTeaser(&model.Metrics{
		Participants:    []string{"B", "A"},
		DailyInitiators: map[string]int{"A": 2, "B": 2},
		LoveCount:       4,
	})

	assert.Equal(t, &model.TopInitiator{User: "B", Count: 2}, teaser.TopInitiator)
	assert.Equal(t, 4, teaser.LoveCount)
}
