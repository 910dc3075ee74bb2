package flow

// ValidationError rejects empty or malformed user input before any request
// is issued.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PreconditionError reports that a flow was invoked before its prerequisite
// state existed, such as routing before any search resolved a center.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string { return e.Message }
