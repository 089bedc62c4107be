package tool

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Builtin tool names. The tool set is closed: adding a tool means adding a
// schema here and a matching branch in the executor.
const (
	ToolAnalyzeFile   = "analyze_file"
	ToolDiscoverFiles = "discover_files"
)

// PropertySchema describes a single named parameter.
type PropertySchema struct {
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ParametersSchema is the JSON-Schema-like object type a tool declares for its
// arguments.
type ParametersSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties"`
	Required   []string                  `json:"required"`
}

// Schema is a tool's declared identity and parameter contract. Schemas are
// immutable after registration.
type Schema struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Parameters  ParametersSchema `json:"parameters"`
}

// Registry maps tool names to schemas. It is built once at startup and
// read-only afterwards, so no locking is needed.
type Registry struct {
	order    []string
	schemas  map[string]Schema
	compiled map[string]*gojsonschema.Schema
}

// NewRegistry builds a registry from the given schemas. Registration order
// defines listing order. Every schema is checked for self-consistency: the
// required list must be a subset of the declared properties, and the
// parameters object must compile as a JSON Schema.
func NewRegistry(schemas ...Schema) (*Registry, error) {
	r := &Registry{
		schemas:  make(map[string]Schema, len(schemas)),
		compiled: make(map[string]*gojsonschema.Schema, len(schemas)),
	}

	for _, schema := range schemas {
		if schema.Name == "" {
			return nil, fmt.Errorf("tool name cannot be empty")
		}
		if _, exists := r.schemas[schema.Name]; exists {
			return nil, fmt.Errorf("duplicate tool name: %s", schema.Name)
		}
		for _, required := range schema.Parameters.Required {
			if _, declared := schema.Parameters.Properties[required]; !declared {
				return nil, fmt.Errorf("tool %s requires undeclared parameter %q", schema.Name, required)
			}
		}

		compiled, err := compileSchema(schema.Parameters)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema for tool %s: %w", schema.Name, err)
		}

		r.order = append(r.order, schema.Name)
		r.schemas[schema.Name] = schema
		r.compiled[schema.Name] = compiled
	}

	return r, nil
}

// DefaultRegistry returns the bridge's builtin tool set.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(
		Schema{
			Name:        ToolAnalyzeFile,
			Description: "Analyze a file with a local AI model and get insights based on a user query",
			Parameters: ParametersSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"file_path": {
						Type:        "string",
						Description: "Path to the file to analyze",
					},
					"query": {
						Type:        "string",
						Description: "The question or task to perform on the file content",
					},
				},
				Required: []string{"file_path", "query"},
			},
		},
		Schema{
			Name:        ToolDiscoverFiles,
			Description: "Find files in a directory matching a pattern",
			Parameters: ParametersSchema{
				Type: "object",
				Properties: map[string]PropertySchema{
					"directory": {
						Type:        "string",
						Description: "Directory to search in",
					},
					"pattern": {
						Type:        "string",
						Description: "File pattern to match (e.g., '*.md', '*.go')",
					},
				},
				Required: []string{"directory", "pattern"},
			},
		},
	)
}

// Get returns the schema for a tool name.
func (r *Registry) Get(name string) (Schema, bool) {
	schema, ok := r.schemas[name]
	return schema, ok
}

// Has reports whether a tool is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.schemas[name]
	return ok
}

// List returns all schemas in registration order.
func (r *Registry) List() []Schema {
	out := make([]Schema, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.schemas[name])
	}
	return out
}

// Names returns all tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// compileSchema turns the declared parameters object into a validating JSON
// Schema. Extra arguments are deliberately tolerated (no additionalProperties
// restriction) to preserve the bridge's historical leniency.
func compileSchema(params ParametersSchema) (*gojsonschema.Schema, error) {
	// Round-trip through JSON so the loader sees plain maps.
	data, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	var schemaMap map[string]interface{}
	if err := json.Unmarshal(data, &schemaMap); err != nil {
		return nil, err
	}
	// The required/empty-string policy is enforced separately by the
	// validator, with friendlier messages than JSON Schema produces.
	delete(schemaMap, "required")

	return gojsonschema.NewSchema(gojsonschema.NewGoLoader(schemaMap))
}
