package fixture

import "github.com/specforge/specforge/ir"

// mustOp builds a minimal POST operation for plan-ordering tests that don't
// care about the request body shape.
func mustOp(id, path string) *ir.Operation {
	return &ir.Operation{ID: id, Kind: ir.NewHTTPKind(ir.MethodPost, path)}
}
