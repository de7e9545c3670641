package stats

import (
	"sort"

	"github.com/chatlens/chatlens/internal/model"
)

// BadgeRule awards at most one badge. Award returns the recipient, or false
// when the metrics do not qualify.
type BadgeRule struct {
	Name        string
	Description string
	Award       func(m *model.Metrics) (user string, ok bool)
}

// BothUsers is the recipient of badges earned by the conversation as a whole.
const BothUsers = "Ambos"

// DefaultBadgeRules returns the built-in rules in award order.
func DefaultBadgeRules() []BadgeRule {
	return []BadgeRule{
		{
			Name:        "Iniciador Crónico",
			Description: "Siempre da el primer paso",
			Award: func(m *model.Metrics) (string, bool) {
				return dominant(m.DailyInitiators, m.Participants, 3)
			},
		},
		{
			Name:        "El Bromista",
			Description: "Se ríe de todo",
			Award: func(m *model.Metrics) (string, bool) {
				return above(m.LaughMeter, m.Participants, 10)
			},
		},
		{
			Name:        "El Monólogo",
			Description: "Escribe biblias",
			Award: func(m *model.Metrics) (string, bool) {
				return above(m.LongestMonologue, m.Participants, 5)
			},
		},
		{
			Name:        "Búho Nocturno",
			Description: "Vive de noche",
			Award: func(m *model.Metrics) (string, bool) {
				return dominant(m.NightOwl, m.Participants, 21)
			},
		},
		{
			Name:        "El Seco",
			Description: "Respuestas cortas",
			Award: func(m *model.Metrics) (string, bool) {
				user, avg, ok := lowest(m.ChatDryness, m.Participants)
				return user, ok && avg < 4
			},
		},
		{
			Name:        "Ghosting Alert",
			Description: "Tarda años en responder",
			Award: func(m *model.Metrics) (string, bool) {
				// ResponseTimes is sorted fastest first.
				for _, rt := range m.ResponseTimes {
					if rt.AvgMinutes > 180 {
						return rt.User, true
					}
				}
				return "", false
			},
		},
		{
			Name:        "Te Amo Warrior",
			Description: "Mucho amor en el chat",
			Award: func(m *model.Metrics) (string, bool) {
				return BothUsers, m.LoveCount >= 5
			},
		},
		{
			Name:        "Weekend Warrior",
			Description: "Vive el fin de semana",
			Award: func(m *model.Metrics) (string, bool) {
				return dominant(m.WeekendWarrior, m.Participants, 21)
			},
		},
	}
}

func computeBadges(rules []BadgeRule, m *model.Metrics) []model.Badge {
	badges := []model.Badge{}
	for _, r := range rules {
		if user, ok := r.Award(m); ok {
			badges = append(badges, model.Badge{Badge: r.Name, User: user, Description: r.Description})
		}
	}
	return badges
}

// dominant picks the top user when the total is at least minTotal and the
// top user holds more than 60% of it.
func dominant(counts map[string]int, order []string, minTotal int) (string, bool) {
	user, top, ok := highest(counts, order)
	if !ok {
		return "", false
	}
	total := 0
	for _, n := range counts {
		total += n
	}
	return user, total >= minTotal && float64(top)/float64(total) > 0.6
}

func above(counts map[string]int, order []string, threshold int) (string, bool) {
	user, top, ok := highest(counts, order)
	return user, ok && top > threshold
}

// highest returns the user with the largest count. Ties go to the user who
// appears first in order; users missing from order rank after it by name.
func highest(counts map[string]int, order []string) (string, int, bool) {
	best, bestN, found := "", 0, false
	for _, user := range candidates(counts, order) {
		if n := counts[user]; !found || n > bestN {
			best, bestN, found = user, n, true
		}
	}
	return best, bestN, found
}

func lowest(counts map[string]int, order []string) (string, int, bool) {
	best, bestN, found := "", 0, false
	for _, user := range candidates(counts, order) {
		if n := counts[user]; !found || n < bestN {
			best, bestN, found = user, n, true
		}
	}
	return best, bestN, found
}

func candidates(counts map[string]int, order []string) []string {
	out := make([]string, 0, len(counts))
	listed := make(map[string]struct{}, len(order))
	for _, user := range order {
		listed[user] = struct{}{}
		if _, ok := counts[user]; ok {
			out = append(out, user)
		}
	}

	var rest []string
	for user := range counts {
		if _, ok := listed[user]; !ok {
			rest = append(rest, user)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
