// Package schema compiles admin-authored field lists into answer validators
// and mirrors the editor-side consistency checks.
package schema

import (
	"fmt"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dynform/dynform/log"
	"github.com/dynform/dynform/model"
)

// A check validates one submitted value, returning the normalized value or a
// message. Empty message means the value passed.
type check func(v any) (any, string)

type rule struct {
	name     string
	required bool
	check    check
}

// Validator is the compiled form of a field list. Compilation is pure: the
// same field list always yields the same behavior, and a rule that cannot be
// fully built (bad admin regex) degrades to the rules that could.
type Validator struct {
	rules []rule
}

// Compile builds a Validator from the top-level field list. Conditional
// nested fields are display metadata and are not compiled.
func Compile(fields []model.FieldSchema) *Validator {
	v := &Validator{rules: make([]rule, 0, len(fields))}
	for _, f := range fields {
		v.rules = append(v.rules, rule{
			name:     f.Name,
			required: f.Required,
			check:    compileField(f),
		})
	}
	return v
}

func compileField(f model.FieldSchema) check {
	switch f.Type {
	case model.FieldText, model.FieldTextarea:
		return stringCheck(f, compilePattern(f))
	case model.FieldEmail:
		return emailCheck(f)
	case model.FieldNumber:
		return numberCheck(f)
	case model.FieldDate:
		return dateCheck(f)
	case model.FieldCheckbox:
		return checkboxCheck(f)
	case model.FieldRadio, model.FieldSelect:
		return choiceCheck(f)
	case model.FieldFile:
		return fileCheck(f)
	default:
		// unrecognized type: accept anything
		return func(v any) (any, string) { return v, "" }
	}
}

// compilePattern compiles an admin-supplied regex into a full-match pattern.
// An invalid pattern is downgraded to no pattern check for that field.
func compilePattern(f model.FieldSchema) *regexp.Regexp {
	if f.Validation == nil || f.Validation.Regex == "" {
		return nil
	}
	re, err := regexp.Compile("^(?:" + f.Validation.Regex + ")$")
	if err != nil {
		log.Warnf("schema.compile: invalid regex for field %s: %q", f.Name, f.Validation.Regex)
		return nil
	}
	return re
}

func stringCheck(f model.FieldSchema, re *regexp.Regexp) check {
	return func(v any) (any, string) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Sprintf("%q must be a string", f.Name)
		}
		n := utf8.RuneCountInString(s)
		if min, ok := bound(f, boundMin); ok && n < int(min) {
			return nil, fmt.Sprintf("%q must not be shorter than the minimum of %s characters", f.Name, fnum(min))
		}
		if max, ok := bound(f, boundMax); ok && n > int(max) {
			return nil, fmt.Sprintf("%q must not be longer than the maximum of %s characters", f.Name, fnum(max))
		}
		if re != nil && !re.MatchString(s) {
			return nil, fmt.Sprintf("%q does not match the required pattern", f.Name)
		}
		return s, ""
	}
}

func emailCheck(f model.FieldSchema) check {
	return func(v any) (any, string) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Sprintf("%q must be a string", f.Name)
		}
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return nil, fmt.Sprintf("%q must be a valid email", f.Name)
		}
		return s, ""
	}
}

func numberCheck(f model.FieldSchema) check {
	return func(v any) (any, string) {
		var num float64
		switch n := v.(type) {
		case float64:
			num = n
		case int:
			num = float64(n)
		case int64:
			num = float64(n)
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, fmt.Sprintf("%q must be a number", f.Name)
			}
			num = parsed
		default:
			return nil, fmt.Sprintf("%q must be a number", f.Name)
		}
		if min, ok := bound(f, boundMin); ok && num < min {
			return nil, fmt.Sprintf("%q must not be less than the minimum of %s", f.Name, fnum(min))
		}
		if max, ok := bound(f, boundMax); ok && num > max {
			return nil, fmt.Sprintf("%q must not exceed the maximum of %s", f.Name, fnum(max))
		}
		return num, ""
	}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func dateCheck(f model.FieldSchema) check {
	return func(v any) (any, string) {
		switch d := v.(type) {
		case time.Time:
			return d, ""
		case string:
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, d); err == nil {
					return t, ""
				}
			}
		case float64:
			// epoch milliseconds
			return time.UnixMilli(int64(d)).UTC(), ""
		}
		return nil, fmt.Sprintf("%q must be a valid date", f.Name)
	}
}

func checkboxCheck(f model.FieldSchema) check {
	return func(v any) (any, string) {
		switch c := v.(type) {
		case bool, string:
			return c, ""
		case []string:
			return c, ""
		case []any:
			items := make([]string, len(c))
			for i, item := range c {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Sprintf("%q must be a boolean, string, or list of strings", f.Name)
				}
				items[i] = s
			}
			return items, ""
		}
		return nil, fmt.Sprintf("%q must be a boolean, string, or list of strings", f.Name)
	}
}

func choiceCheck(f model.FieldSchema) check {
	return func(v any) (any, string) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Sprintf("%q must be a string", f.Name)
		}
		if len(f.Options) > 0 && !contains(f.Options, s) {
			return nil, fmt.Sprintf("%q must be one of [%s]", f.Name, strings.Join(f.Options, ", "))
		}
		return s, ""
	}
}

func fileCheck(f model.FieldSchema) check {
	return func(v any) (any, string) {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Sprintf("%q must be a string", f.Name)
		}
		return s, ""
	}
}

type boundKind int

const (
	boundMin boundKind = iota
	boundMax
)

func bound(f model.FieldSchema, kind boundKind) (float64, bool) {
	if f.Validation == nil {
		return 0, false
	}
	p := f.Validation.Min
	if kind == boundMax {
		p = f.Validation.Max
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

func fnum(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func contains(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}
