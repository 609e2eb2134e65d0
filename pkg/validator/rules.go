package validator

import (
	"fmt"
	"mime"
	"net/mail"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/formkit/binder"
)

type ruleKind uint8

const (
	kindCheck ruleKind = iota
	// kindType rules gate the remaining checks of a field.
	kindType
	kindRequired
	kindOptional
)

// FieldRule builds a Rule for one field value. Rules are combined into an
// Object and evaluated by Object.Validate.
type FieldRule struct {
	kind    ruleKind
	message string
	key     string
	values  map[string]any
	check   func(v any) bool
}

func (r FieldRule) rule(field string, v any) Rule {
	values := map[string]any{"field": field}
	for k, val := range r.values {
		values[k] = val
	}
	return Rule{
		Check: func() bool { return r.check(v) },
		Error: ValidationError{
			Field:             field,
			Message:           r.message,
			TranslationKey:    r.key,
			TranslationValues: values,
		},
	}
}

// Message replaces the default message of a rule.
func Message(message string, r FieldRule) FieldRule {
	r.message = message
	return r
}

// Required rejects missing, null and blank values.
func Required() FieldRule {
	return FieldRule{
		kind:    kindRequired,
		message: "Required",
		key:     "validation.required",
		check: func(v any) bool {
			if isMissing(v) {
				return false
			}
			if s, ok := v.(string); ok {
				return strings.TrimSpace(s) != ""
			}
			return true
		},
	}
}

// Optional skips the remaining rules when the value is missing, null or "".
func Optional() FieldRule {
	return FieldRule{
		kind: kindOptional,
		check: func(v any) bool {
			if isMissing(v) {
				return false
			}
			s, ok := v.(string)
			return !ok || s != ""
		},
	}
}

// String requires a text value.
func String() FieldRule {
	return FieldRule{
		kind:    kindType,
		message: "Expected string",
		key:     "validation.string",
		check: func(v any) bool {
			_, ok := v.(string)
			return ok
		},
	}
}

// Email validates that a string is a valid email address using RFC 5322.
func Email() FieldRule {
	return FieldRule{
		message: "Invalid email",
		key:     "validation.email",
		check: func(v any) bool {
			s, _ := v.(string)
			return isEmail(s)
		},
	}
}

func isEmail(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}

	addr, err := mail.ParseAddress(value)
	if err != nil {
		return false
	}
	// Display-name forms like "Bob <bob@example.com>" are not plain addresses.
	if addr.Address != value {
		return false
	}

	local, domain, ok := strings.Cut(addr.Address, "@")
	if !ok || local == "" {
		return false
	}

	// Domain must contain at least one dot and cannot start/end with dot
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// MinLen requires a string of at least n characters.
func MinLen(n int) FieldRule {
	return FieldRule{
		message: fmt.Sprintf("String must contain at least %d character(s)", n),
		key:     "validation.min_length",
		values:  map[string]any{"min": n},
		check: func(v any) bool {
			s, _ := v.(string)
			return utf8.RuneCountInString(s) >= n
		},
	}
}

// MaxLen requires a string of at most n characters.
func MaxLen(n int) FieldRule {
	return FieldRule{
		message: fmt.Sprintf("String must contain at most %d character(s)", n),
		key:     "validation.max_length",
		values:  map[string]any{"max": n},
		check: func(v any) bool {
			s, _ := v.(string)
			return utf8.RuneCountInString(s) <= n
		},
	}
}

// URL validates an absolute URL with a scheme and host.
func URL() FieldRule {
	return FieldRule{
		message: "Invalid url",
		key:     "validation.url",
		check: func(v any) bool {
			s, _ := v.(string)
			if strings.TrimSpace(s) == "" {
				return false
			}
			u, err := url.ParseRequestURI(s)
			if err != nil {
				return false
			}
			return u.Scheme != "" && u.Host != ""
		},
	}
}

// Pattern requires a string matching re.
func Pattern(re *regexp.Regexp) FieldRule {
	return FieldRule{
		message: "Invalid",
		key:     "validation.pattern",
		values:  map[string]any{"pattern": re.String()},
		check: func(v any) bool {
			s, _ := v.(string)
			return re.MatchString(s)
		},
	}
}

// OneOf requires one of the given strings.
func OneOf(options ...string) FieldRule {
	quoted := make([]string, len(options))
	for i, o := range options {
		quoted[i] = "'" + o + "'"
	}
	return FieldRule{
		message: "Invalid enum value. Expected " + strings.Join(quoted, " | "),
		key:     "validation.one_of",
		values:  map[string]any{"options": options},
		check: func(v any) bool {
			s, ok := stringValue(v)
			return ok && slices.Contains(options, s)
		},
	}
}

// Number requires a number or a numeric string.
func Number() FieldRule {
	return FieldRule{
		kind:    kindType,
		message: "Expected number",
		key:     "validation.number",
		check: func(v any) bool {
			_, ok := toFloat(v)
			return ok
		},
	}
}

// Min requires a number greater than or equal to limit.
func Min(limit float64) FieldRule {
	return FieldRule{
		message: "Number must be greater than or equal to " + formatFloat(limit),
		key:     "validation.min",
		values:  map[string]any{"min": limit},
		check: func(v any) bool {
			n, ok := toFloat(v)
			return ok && n >= limit
		},
	}
}

// Max requires a number less than or equal to limit.
func Max(limit float64) FieldRule {
	return FieldRule{
		message: "Number must be less than or equal to " + formatFloat(limit),
		key:     "validation.max",
		values:  map[string]any{"max": limit},
		check: func(v any) bool {
			n, ok := toFloat(v)
			return ok && n <= limit
		},
	}
}

// File requires an uploaded file.
func File() FieldRule {
	return FieldRule{
		kind:    kindType,
		message: "Expected file",
		key:     "validation.file",
		check: func(v any) bool {
			f, ok := v.(*binder.FileUpload)
			return ok && f != nil
		},
	}
}

// MaxSize limits the size of an uploaded file in bytes.
func MaxSize(limit int64) FieldRule {
	return FieldRule{
		message: fmt.Sprintf("File must be at most %d bytes", limit),
		key:     "validation.max_size",
		values:  map[string]any{"max": limit},
		check: func(v any) bool {
			f, ok := v.(*binder.FileUpload)
			return ok && f != nil && f.Size <= limit
		},
	}
}

// MIMEType limits the media type of an uploaded file.
// Patterns may end in "/*" to match a whole type, such as "image/*".
func MIMEType(patterns ...string) FieldRule {
	return FieldRule{
		message: "File type must be one of: " + strings.Join(patterns, ", "),
		key:     "validation.mime_type",
		values:  map[string]any{"types": patterns},
		check: func(v any) bool {
			f, ok := v.(*binder.FileUpload)
			if !ok || f == nil {
				return false
			}
			return matchMIME(f.ContentType(), patterns)
		},
	}
}

func matchMIME(contentType string, patterns []string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		if prefix, ok := strings.CutSuffix(p, "/*"); ok {
			if strings.HasPrefix(mediaType, prefix+"/") {
				return true
			}
			continue
		}
		if mediaType == p {
			return true
		}
	}
	return false
}

func isMissing(v any) bool {
	return v == nil
}

func stringValue(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return formatFloat(s), true
	}
	return "", false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	}
	return 0, false
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
