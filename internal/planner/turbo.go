package planner

// tickWindow is an inclusive range of ticks.
type tickWindow struct {
	from, to int
}

// TurboScheduler tracks the ticks on which a turbo may be fired.
// The zero value has no turbo available.
type TurboScheduler struct {
	windows []tickWindow
}

// Grant makes turbo available from tick through tick+durationTicks inclusive.
func (s *TurboScheduler) Grant(tick, durationTicks int) {
	if durationTicks < 0 {
		durationTicks = 0
	}
	s.windows = append(s.windows, tickWindow{from: tick, to: tick + durationTicks})
}

// Eligible reports whether turbo may be fired on tick.
func (s *TurboScheduler) Eligible(tick int) bool {
	for _, w := range s.windows {
		if tick >= w.from && tick <= w.to {
			return true
		}
	}
	return false
}
