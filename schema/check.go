package schema

import (
	"fmt"
	"strings"

	"github.com/dynform/dynform/model"
)

// CheckBeforeSave mirrors the editor's pre-save consistency check. It returns
// the first violation in scan order, or "" when the draft is consistent. The
// server-side create path stays authoritative; this exists so the editor can
// get feedback without a save round trip.
func CheckBeforeSave(title string, fields []model.FieldSchema) string {
	if strings.TrimSpace(title) == "" {
		return "Title is required"
	}

	seen := make(map[string]struct{}, len(fields))
	for i, f := range fields {
		name := strings.TrimSpace(f.Name)
		if name == "" {
			return fmt.Sprintf("Field %d name is required", i+1)
		}
		if _, dup := seen[name]; dup {
			return "Duplicate field name: " + name
		}
		seen[name] = struct{}{}
	}
	return ""
}

// FirstDuplicateName returns the first field name, in list order, that has
// already appeared earlier in the list. Exact, case-sensitive match.
func FirstDuplicateName(fields []model.FieldSchema) string {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := seen[f.Name]; dup {
			return f.Name
		}
		seen[f.Name] = struct{}{}
	}
	return ""
}
