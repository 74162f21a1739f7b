package phase

// TickResult is the outcome of ticking a timed phase S whose successor is N.
// It holds either the unchanged phase (continue) or the successor (complete).
type TickResult[S, N any] struct {
	current S
	next    N
	done    bool
}

func continueWith[S, N any](current S) TickResult[S, N] {
	return TickResult[S, N]{current: current}
}

func completeWith[S, N any](next N) TickResult[S, N] {
	return TickResult[S, N]{next: next, done: true}
}

// Done reports whether the tick completed the phase.
func (result TickResult[S, N]) Done() bool {
	return result.done
}

// Continue returns the unchanged phase when the period has not elapsed.
func (result TickResult[S, N]) Continue() (S, bool) {
	return result.current, !result.done
}

// Complete returns the successor phase once the period has elapsed.
func (result TickResult[S, N]) Complete() (N, bool) {
	return result.next, result.done
}
