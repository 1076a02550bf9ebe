package logging

const (
	// FieldComponent names the subsystem emitting the line.
	FieldComponent = "component"
	// FieldConversionID correlates every line of one conversion attempt.
	FieldConversionID = "conversion_id"
	FieldInput        = "input"
	FieldOutput       = "output"
	FieldFormat       = "format"
	FieldExitCode     = "exit_code"
	FieldError        = "error"
)
