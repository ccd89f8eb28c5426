package diarize

// Window is one fixed-length span of audio submitted to the speaker encoder.
type Window struct {
	Start float64
	End   float64
}

// SegmentWindows splits a signal of the given duration into fixed-length
// windows. Overlap shifts each window start back by the given amount; windows
// shorter than minSeconds are dropped so unreliable tail embeddings never
// reach clustering.
func SegmentWindows(durationSeconds, windowSeconds, overlapSeconds, minSeconds float64) []Window {
	if durationSeconds <= 0 || windowSeconds <= 0 {
		return nil
	}
	step := windowSeconds - overlapSeconds
	if step <= 0 {
		step = windowSeconds
	}

	var windows []Window
	for start := 0.0; start < durationSeconds; start += step {
		end := start + windowSeconds
		if end > durationSeconds {
			end = durationSeconds
		}
		if end-start > minSeconds {
			windows = append(windows, Window{Start: start, End: end})
		}
		if end >= durationSeconds {
			break
		}
	}
	return windows
}
