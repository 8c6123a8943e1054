package model

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/qri-io/jsonschema"
)

// Structural schema for admin form payloads: closed set of field types,
// mandatory label/name/type per field, shapes of options/validation/nested.
// Business invariants (unique names, non-empty title) are checked separately.
//
//go:embed form.schema.json
var formSchemaJSON []byte

var formSchema *jsonschema.Schema

func init() {
	formSchema = &jsonschema.Schema{}
	if err := json.Unmarshal(formSchemaJSON, formSchema); err != nil {
		panic(fmt.Sprintf("model: form.schema.json does not compile: %v", err))
	}
}

// CheckFormPayload validates the raw JSON of a create/update request against
// the form payload schema. It returns the first violation as a message fit
// for an {error} response, or "" when the payload is well-formed. The error
// return signals unparseable JSON.
func CheckFormPayload(ctx context.Context, body []byte) (string, error) {
	keyErrs, err := formSchema.ValidateBytes(ctx, body)
	if err != nil {
		return "", err
	}
	if len(keyErrs) > 0 {
		ke := keyErrs[0]
		return fmt.Sprintf("%s: %s", ke.PropertyPath, ke.Message), nil
	}
	return "", nil
}
