package makefile

import "fmt"

// TemplateError is returned when a template cannot be loaded, parsed or
// rendered.
type TemplateError struct {
	// Template is the file path or name of the template
	Template string
	// Underlying error
	Err error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("unable to load template %s: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
