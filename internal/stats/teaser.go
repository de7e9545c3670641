package stats

import "github.com/chatlens/chatlens/internal/model"

// BuildTeaser projects the unauthenticated preview of m.
func BuildTeaser(m *model.Metrics) model.Teaser {
	t := model.Teaser{LoveCount: m.LoveCount}
	if user, n, ok := highest(m.DailyInitiators, m.Participants); ok && n > 0 {
		t.TopInitiator = &model.TopInitiator{User: user, Count: n}
	}
	return t
}
