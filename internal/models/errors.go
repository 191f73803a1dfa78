package models

// RuleViolation reports a broken domain invariant on a single field.
type RuleViolation struct {
	Field   string
	Message string
}

func (e *RuleViolation) Error() string {
	return e.Message
}

func violation(field, message string) *RuleViolation {
	return &RuleViolation{Field: field, Message: message}
}

// ValidationError aggregates every invalid field of a constructor input.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}
