package validator

import (
	"sort"

	"github.com/dmitrymomot/formkit/binder"
)

// Object validates a decoded request body field by field:
//
//	rules := validator.Object{
//		"email":    {validator.String(), validator.Email()},
//		"password": {validator.String(), validator.MinLen(8)},
//		"avatar":   {validator.Optional(), validator.File()},
//	}
//
// Each field is checked in three steps. Presence rules (Required, Optional)
// come first; a missing or null value fails with "Required" unless the field
// is Optional. Type rules (String, Number, File) then gate the value, and
// only when they pass are the remaining rules applied, all of them, in order.
// Fields not named in the Object are ignored. Errors are ordered by field name.
type Object map[string][]FieldRule

// Fields returns the validated field names in sorted order.
func (o Object) Fields() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate returns ValidationErrors when any field fails, nil otherwise.
func (o Object) Validate(in binder.Input) error {
	var errs ValidationErrors
	for _, name := range o.Fields() {
		errs = append(errs, validateField(name, in[name], o[name])...)
	}
	if errs.IsEmpty() {
		return nil
	}
	return errs
}

func validateField(name string, v any, rules []FieldRule) ValidationErrors {
	optional := false
	for _, r := range rules {
		switch r.kind {
		case kindOptional:
			if !r.check(v) {
				return nil
			}
			optional = true
		case kindRequired:
			if rule := r.rule(name, v); !rule.Check() {
				return ValidationErrors{rule.Error}
			}
		}
	}
	if !optional && isMissing(v) {
		return ValidationErrors{Required().rule(name, v).Error}
	}

	for _, r := range rules {
		if r.kind != kindType {
			continue
		}
		if rule := r.rule(name, v); !rule.Check() {
			return ValidationErrors{rule.Error}
		}
	}

	checks := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if r.kind == kindCheck {
			checks = append(checks, r.rule(name, v))
		}
	}
	return ExtractValidationErrors(Apply(checks...))
}

// Decode returns a function that validates the input against o and decodes
// it into T with binder.Decode. It can be passed to handler.Validated.
func Decode[T any](o Object) func(binder.Input) (T, error) {
	return func(in binder.Input) (T, error) {
		var out T
		if err := o.Validate(in); err != nil {
			return out, err
		}
		if err := binder.Decode(in, &out); err != nil {
			return out, err
		}
		return out, nil
	}
}
