package vmaf

import "ffdash/internal/command"

// SelectWindows picks up to three sample windows from a source of the
// given duration, per §4.5's window-selection formula: the window count is
// bounded by how many window-lengths fit in the analysis budget, and start
// points fall at fractional positions of the source so short and long
// intros/credits don't dominate the sample.
func SelectWindows(duration, windowSeconds, budgetSeconds float64) []command.Window {
	if windowSeconds <= 0 || duration <= 0 {
		return []command.Window{{StartSeconds: 0, DurationSeconds: duration}}
	}
	if duration < windowSeconds {
		return []command.Window{{StartSeconds: 0, DurationSeconds: duration}}
	}

	n := int(budgetSeconds / windowSeconds)
	if n < 1 {
		n = 1
	}
	if n > 3 {
		n = 3
	}

	fractions := []float64{0.1, 0.5, 0.9}
	windows := make([]command.Window, 0, n)
	for i := 0; i < n; i++ {
		start := fractions[i] * duration
		if start < 0 {
			start = 0
		}
		if start+windowSeconds > duration {
			start = duration - windowSeconds
		}
		if start < 0 {
			start = 0
		}
		windows = append(windows, command.Window{StartSeconds: start, DurationSeconds: windowSeconds})
	}
	return windows
}
