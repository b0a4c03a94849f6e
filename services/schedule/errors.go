package schedule

import "fmt"

// NotFoundError covers a missing schedule or day.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ValidationError covers malformed availability submissions.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
