package schema

import "github.com/dmitrymomot/formkit"

// Failure is returned by Schema.Validate when the input does not conform.
// It implements formkit.IssueProvider.
type Failure struct {
	errs formkit.ValidationErrors
}

func (f *Failure) Error() string {
	return "schema: " + f.errs.Error()
}

// Issues returns the field errors ordered by path.
func (f *Failure) Issues() []formkit.ValidationError {
	return f.errs
}
