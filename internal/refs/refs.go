// Package refs selects which earlier days' images condition a new generation.
package refs

// Policy maps a day index to the prior day indices whose images should be
// attached as visual references. An empty result means the day is generated
// unconditioned. Policies are pure over day indices; whether a reference
// image actually exists on disk is the driver's problem.
type Policy interface {
	Refs(day int) []int
}

// None generates every day independently.
type None struct{}

func (None) Refs(int) []int { return nil }

// Previous always references the immediately preceding day.
type Previous struct{}

func (Previous) Refs(day int) []int {
	if day <= 1 {
		return nil
	}
	return []int{day - 1}
}

// Milestone references the closest milestone below the given day. Capping the
// chain length between referenced images bounds visual drift.
type Milestone struct {
	Days []int // ascending
}

func (m Milestone) Refs(day int) []int {
	if len(m.Days) == 0 {
		return nil
	}
	for i, d := range m.Days {
		if day <= d {
			if i == 0 {
				return nil
			}
			return []int{m.Days[i-1]}
		}
	}
	// Past the final milestone: reference the second-to-last so the last
	// milestone itself still gets an earlier reference.
	if len(m.Days) >= 2 {
		return []int{m.Days[len(m.Days)-2]}
	}
	return []int{m.Days[0]}
}

// Dual references a fixed quality anchor (commonly day 1) plus the previous
// day. On quality-reset days only the anchor is used, which stops quality
// degradation from accumulating across long previous-day chains.
type Dual struct {
	Anchor        int // quality reference day
	ResetInterval int // every Nth day drops the previous-day reference; 0 disables
	ResetUntil    int // resets only apply through this day; 0 means always
}

func (d Dual) Refs(day int) []int {
	if day <= d.Anchor {
		return nil
	}
	if d.isReset(day) {
		return []int{d.Anchor}
	}
	return []int{d.Anchor, day - 1}
}

func (d Dual) isReset(day int) bool {
	if d.ResetInterval <= 0 || day%d.ResetInterval != 0 {
		return false
	}
	return d.ResetUntil == 0 || day <= d.ResetUntil
}

// IsQualityReset reports whether day is a quality-reset day under this policy.
func (d Dual) IsQualityReset(day int) bool {
	return day > d.Anchor && d.isReset(day)
}
