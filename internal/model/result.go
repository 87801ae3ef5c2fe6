package model

// ValidationResult carries the outcome of a consistency check.
// Consumers decide from Errors whether to apply a correction; Warnings are
// reported but never block a record.
type ValidationResult struct {
	IsValid    bool     `json:"is_valid"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Confidence float64  `json:"confidence"`
}

// AddError appends an error and applies the confidence deduction.
func (r *ValidationResult) AddError(msg string, deduction float64) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
	r.Confidence -= deduction
	if r.Confidence < 0 {
		r.Confidence = 0
	}
}

// AddWarning appends a warning and applies the confidence deduction.
func (r *ValidationResult) AddWarning(msg string, deduction float64) {
	r.Warnings = append(r.Warnings, msg)
	r.Confidence -= deduction
	if r.Confidence < 0 {
		r.Confidence = 0
	}
}

// NewValidationResult returns a passing result at full confidence.
func NewValidationResult() *ValidationResult {
	return &ValidationResult{IsValid: true, Confidence: 1.0}
}
