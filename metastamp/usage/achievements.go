package usage

import "codeberg.org/metastamp/server/metastamp/content"

type milestone struct {
	id          string
	title       string
	description string
	total       float64
	reward      string
	touches     bool
}

var milestones = []milestone{
	{"first-dollar", "First Dollar", "Earn your first dollar from AI usage", 1, "$0.10 bonus", false},
	{"touch-magnet", "Touch Magnet", "Reach 1,000 AI touches", 1000, "$5.00 bonus", true},
	{"century-club", "Century Club", "Earn $100 in total revenue", 100, "$10.00 bonus", false},
	{"viral-creator", "Viral Creator", "Reach 10,000 AI touches", 10000, "$25.00 bonus", true},
	{"ai-legend", "AI Legend", "Reach $1,000 in total earnings", 1000, "$100.00 bonus", false},
}

// evaluates milestone progress for the given counters
func Achievements(touches int64, earnings float64) []Achievement {
	out := make([]Achievement, 0, len(milestones))

	for _, m := range milestones {
		progress := earnings
		if m.touches {
			progress = float64(touches)
		}

		if progress > m.total {
			progress = m.total
		}

		out = append(out, Achievement{
			ID:          m.id,
			Title:       m.title,
			Description: m.description,
			Progress:    progress,
			Total:       m.total,
			Unlocked:    progress >= m.total,
			Reward:      m.reward,
		})
	}

	return out
}

// returns the achievements unlocked by moving from before to after
func Unlocked(before, after []Achievement) []Achievement {
	was := make(map[string]bool, len(before))
	for _, a := range before {
		was[a.ID] = a.Unlocked
	}

	var out []Achievement
	for _, a := range after {
		if a.Unlocked && !was[a.ID] {
			out = append(out, a)
		}
	}

	return out
}

// returns the achievements an increment crossed into
func UnlockedBy(inc *content.Increment) []Achievement {
	before := Achievements(inc.Before.Touches, inc.Before.Earnings)
	after := Achievements(inc.After.Touches, inc.After.Earnings)

	return Unlocked(before, after)
}
