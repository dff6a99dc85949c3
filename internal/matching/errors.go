package matching

import "fmt"

// ValidationError reports malformed input. Field is the json path of the offending value,
// e.g. "candidates[2].availability[0].end_date".
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}
