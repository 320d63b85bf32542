package model

// Operation states reported by the cluster for management commands.
const (
	StateCompleted          OperationState = "Completed"
	StateFailed             OperationState = "Failed"
	StatePartiallySucceeded OperationState = "PartiallySucceeded"
	StateAbandoned          OperationState = "Abandoned"
	StateBadInput           OperationState = "BadInput"
	StateCanceled           OperationState = "Canceled"
	StateSkipped            OperationState = "Skipped"
	StateInProgress         OperationState = "InProgress"
	StateScheduled          OperationState = "Scheduled"
	StateThrottled          OperationState = "Throttled"
)

type (
	// OperationState is the state of a submitted command or async operation.
	OperationState string

	// ExecutionResult is the outcome of one script submitted to the cluster.
	ExecutionResult struct {
		OperationID string
		CommandType string
		Result      OperationState
		Reason      string
		CommandText string
	}
)

// IsTerminal reports whether the state is final. Pending states
// (InProgress, Scheduled, Throttled) and unknown values are not terminal.
func (s OperationState) IsTerminal() bool {
	switch s {
	case StateCompleted, StateFailed, StatePartiallySucceeded, StateAbandoned,
		StateBadInput, StateCanceled, StateSkipped:
		return true
	}
	return false
}

// IsFailure reports whether the state is a failed terminal state.
func (s OperationState) IsFailure() bool {
	switch s {
	case StateFailed, StatePartiallySucceeded, StateAbandoned, StateBadInput, StateCanceled:
		return true
	}
	return false
}

// Failed reports whether the result ended in a failed terminal state.
func (r *ExecutionResult) Failed() bool {
	return r.Result.IsFailure()
}
