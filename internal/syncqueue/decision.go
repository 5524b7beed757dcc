package syncqueue

// Outcome is the result of one replay attempt.
type Outcome int

const (
	// OutcomeSuccess means the executor confirmed the operation remotely.
	OutcomeSuccess Outcome = iota
	// OutcomeFailure means the attempt failed and may be retried.
	OutcomeFailure
)

// Decision is what the drain loop does with an operation after an attempt.
type Decision int

const (
	// DecisionDone removes the operation; it was replayed successfully.
	DecisionDone Decision = iota
	// DecisionRetry persists the incremented retry count and leaves the
	// operation queued for a later drain pass.
	DecisionRetry
	// DecisionDiscard removes the operation permanently; it exhausted the
	// retry ceiling. Data loss is preferred over an unbounded queue.
	DecisionDiscard
)

func (d Decision) String() string {
	switch d {
	case DecisionDone:
		return "done"
	case DecisionRetry:
		return "retry"
	case DecisionDiscard:
		return "discard"
	}
	return "unknown"
}

// NextState decides the fate of an operation given its retry count before
// the attempt and the attempt's outcome. Pure function, no I/O, so the
// retry-ceiling policy is testable without a store.
func NextState(currentRetries int, outcome Outcome, maxRetries int) Decision {
	if outcome == OutcomeSuccess {
		return DecisionDone
	}
	if currentRetries+1 >= maxRetries {
		return DecisionDiscard
	}
	return DecisionRetry
}
