package schema

import (
	"fmt"

	"github.com/dynform/dynform/model"
)

// Validate compiles the field list and applies it to one answers payload.
func Validate(fields []model.FieldSchema, answers map[string]any) Result {
	return Compile(fields).Validate(answers)
}

// Result is the outcome of validating one answers payload. Exactly one of
// Errors and Value is populated: Errors maps field names to messages, Value
// is the normalized answers mapping.
type Result struct {
	Errors map[string]string `json:"errors,omitempty"`
	Value  map[string]any    `json:"value,omitempty"`
}

func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Validate runs every compiled rule against the answers payload, collecting
// all violations instead of stopping at the first. Keys not covered by any
// rule pass through to the normalized value untouched.
func (vd *Validator) Validate(answers map[string]any) Result {
	errs := map[string]string{}
	value := make(map[string]any, len(answers))
	for k, v := range answers {
		value[k] = v
	}

	for _, r := range vd.rules {
		v, present := answers[r.name]
		if !present || empty(v) {
			if r.required {
				errs[r.name] = fmt.Sprintf("%q is required", r.name)
			}
			continue
		}

		norm, msg := r.check(v)
		if msg != "" {
			errs[r.name] = msg
			continue
		}
		value[r.name] = norm
	}

	if len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{Value: value}
}

// empty mirrors the notion of "no answer": absent, null, or empty string.
// False and empty lists are answers in their own right.
func empty(v any) bool {
	return v == nil || v == ""
}
