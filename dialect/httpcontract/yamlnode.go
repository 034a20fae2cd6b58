package httpcontract

import (
	"strconv"

	"go.yaml.in/yaml/v4"
)

// nodeAsBool reports whether node holds a scalar boolean, and its value.
func nodeAsBool(node yaml.Node) (bool, bool) {
	if node.Kind != yaml.ScalarNode {
		return false, false
	}
	b, err := strconv.ParseBool(node.Value)
	if err != nil {
		return false, false
	}
	return b, true
}

// nodeAsFloat reports whether node holds a scalar number, and its value.
func nodeAsFloat(node yaml.Node) (float64, bool) {
	if node.Kind != yaml.ScalarNode {
		return 0, false
	}
	f, err := strconv.ParseFloat(node.Value, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
