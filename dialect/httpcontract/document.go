// Package httpcontract parses the http-contract dialect (§4.1.1): a
// structured YAML contract document describing HTTP operations, their
// parameters, bodies, and responses.
package httpcontract

import "go.yaml.in/yaml/v4"

// rawDocument is the top-level shape of an http-contract source document.
type rawDocument struct {
	Title   string    `yaml:"title"`
	Version string    `yaml:"version"`
	Paths   yaml.Node `yaml:"paths"`
	Types   yaml.Node `yaml:"types"`
}

// rawOperation is one HTTP method entry under a path.
type rawOperation struct {
	OperationID string          `yaml:"operationId"`
	Description string          `yaml:"description"`
	Parameters  []rawParameter  `yaml:"parameters"`
	RequestBody *rawRequestBody `yaml:"requestBody"`
	// Responses is kept as a raw node (rather than a map) so status codes
	// can be walked in declaration order.
	Responses yaml.Node `yaml:"responses"`
}

// rawParameter is a single path/query/header parameter declaration.
type rawParameter struct {
	Name     string    `yaml:"name"`
	In       string    `yaml:"in"` // path | query | header
	Required bool      `yaml:"required"`
	Schema   rawSchema `yaml:"schema"`
}

// rawRequestBody wraps the application/json body schema.
type rawRequestBody struct {
	Required bool      `yaml:"required"`
	Schema   rawSchema `yaml:"schema"`
}

// rawResponse is a single status-coded response entry.
type rawResponse struct {
	Schema *rawSchema `yaml:"schema"`
}

// rawSchema is the JSON-Schema-like surface accepted by the http-contract
// dialect's type system, covering exactly the constraint vocabulary in §3.
type rawSchema struct {
	Ref  string `yaml:"$ref"`
	Type string `yaml:"type"`

	Format    string `yaml:"format"`
	MinLength *int   `yaml:"minLength"`
	MaxLength *int   `yaml:"maxLength"`
	Pattern   string `yaml:"pattern"`
	Nullable  bool   `yaml:"nullable"`

	Minimum          *float64  `yaml:"minimum"`
	Maximum          *float64  `yaml:"maximum"`
	ExclusiveMinimum yaml.Node `yaml:"exclusiveMinimum"`
	ExclusiveMaximum yaml.Node `yaml:"exclusiveMaximum"`
	MultipleOf       *float64  `yaml:"multipleOf"`

	Items       *rawSchema `yaml:"items"`
	MinItems    *int       `yaml:"minItems"`
	MaxItems    *int       `yaml:"maxItems"`
	UniqueItems bool       `yaml:"uniqueItems"`

	Properties           yaml.Node  `yaml:"properties"`
	Required             []string   `yaml:"required"`
	AdditionalProperties *yaml.Node `yaml:"additionalProperties"`
	MinProperties        *int       `yaml:"minProperties"`
	MaxProperties        *int       `yaml:"maxProperties"`

	Enum  []any       `yaml:"enum"`
	OneOf []rawSchema `yaml:"oneOf"`
	AnyOf []rawSchema `yaml:"anyOf"`

	AllOf []rawSchema `yaml:"allOf"`
}

// orderedKeys returns the mapping keys of a yaml.Node in document order. An
// empty or non-mapping node yields nil.
func orderedKeys(node yaml.Node) []string {
	if node.Kind != yaml.MappingNode {
		return nil
	}
	keys := make([]string, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keys = append(keys, node.Content[i].Value)
	}
	return keys
}

// childNode returns the raw value node paired with key, without decoding it.
func childNode(node yaml.Node, key string) (yaml.Node, bool) {
	if node.Kind != yaml.MappingNode {
		return yaml.Node{}, false
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return *node.Content[i+1], true
		}
	}
	return yaml.Node{}, false
}

// decodeChild decodes the value node paired with key into out. Returns
// false if key is not present in node.
func decodeChild(node yaml.Node, key string, out any) (bool, error) {
	if node.Kind != yaml.MappingNode {
		return false, nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true, node.Content[i+1].Decode(out)
		}
	}
	return false, nil
}
