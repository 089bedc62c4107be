package tool

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// MissingParameters returns the required parameters that are absent from the
// argument object. A parameter counts as missing when the key is not present,
// the value is JSON null, or the value is an empty string — callers have
// always been allowed to treat "" and absent interchangeably, and both
// interpretations are preserved.
func MissingParameters(schema Schema, args map[string]interface{}) []string {
	var missing []string
	for _, name := range schema.Parameters.Required {
		value, ok := args[name]
		if !ok || value == nil {
			missing = append(missing, name)
			continue
		}
		if s, isString := value.(string); isString && s == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// RequiredList renders a schema's required parameters for error messages,
// e.g. "file_path and query".
func RequiredList(schema Schema) string {
	return strings.Join(schema.Parameters.Required, " and ")
}

// ValidateArguments checks an argument object against the tool's compiled
// JSON Schema (types of declared parameters). It assumes the required/empty
// check has already passed.
func (r *Registry) ValidateArguments(name string, args map[string]interface{}) error {
	compiled, ok := r.compiled[name]
	if !ok {
		return fmt.Errorf("tool not found: %s", name)
	}

	if args == nil {
		args = map[string]interface{}{}
	}
	result, err := compiled.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("failed to validate arguments: %w", err)
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			details = append(details, verr.String())
		}
		return fmt.Errorf("invalid arguments: %s", strings.Join(details, "; "))
	}

	return nil
}
