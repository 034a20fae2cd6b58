package payload

import (
	"strings"

	"github.com/specforge/specforge/ir"
)

// group names one of the four input locations a target_path can resolve
// into, matching the walk order in §4.2.
type group string

const (
	groupPath   group = "path"
	groupQuery  group = "query"
	groupHeader group = "header"
	groupBody   group = "body"
)

// locateGroup reports which input group a target_path descends from, by
// matching its leading segment against the operation's declared parameter
// names. Anything unmatched is assumed to be a body field, matching how
// intent generation treats a body object's properties as unprefixed
// top-level fields.
func locateGroup(op *ir.Operation, targetPath string) group {
	head := targetPath
	if i := strings.IndexByte(targetPath, '.'); i >= 0 {
		head = targetPath[:i]
	}
	for _, p := range op.PathParams {
		if p.Name == head {
			return groupPath
		}
	}
	for _, p := range op.QueryParams {
		if p.Name == head {
			return groupQuery
		}
	}
	for _, p := range op.Headers {
		if p.Name == head {
			return groupHeader
		}
	}
	return groupBody
}

// schemaAt resolves the schema declared at targetPath within g, by walking
// the relevant parameter group (or the body object) segment by segment.
func schemaAt(op *ir.Operation, g group, targetPath string) *ir.Schema {
	segs := strings.Split(targetPath, ".")
	switch g {
	case groupPath:
		return paramSchema(op.PathParams, segs)
	case groupQuery:
		return paramSchema(op.QueryParams, segs)
	case groupHeader:
		return paramSchema(op.Headers, segs)
	default:
		if op.Body == nil {
			return nil
		}
		return schemaAtPath(op.Body.Schema, segs)
	}
}

func paramSchema(params []ir.Parameter, segs []string) *ir.Schema {
	for _, p := range params {
		if p.Name == segs[0] {
			return schemaAtPath(p.Schema, segs[1:])
		}
	}
	return nil
}

func schemaAtPath(schema *ir.Schema, segs []string) *ir.Schema {
	cur := schema
	for _, seg := range segs {
		if seg == "" {
			continue
		}
		if cur == nil || cur.Kind != ir.KindObject || cur.Object == nil {
			return nil
		}
		next, ok := cur.Object.Get(seg)
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// rootAccessor reads and replaces the value tree a group's mutations are
// rooted in, so a mutation that replaces the entire root (e.g. a top-level
// TYPE_VIOLATION on a non-object body) can still go through setAt/deleteAt.
type rootAccessor struct {
	get func() any
	set func(any)
}

func accessorFor(g *Golden, gr group) rootAccessor {
	switch gr {
	case groupPath:
		return rootAccessor{get: func() any { return g.PathParams }, set: func(v any) { g.PathParams, _ = v.(map[string]any) }}
	case groupQuery:
		return rootAccessor{get: func() any { return g.QueryParams }, set: func(v any) { g.QueryParams, _ = v.(map[string]any) }}
	case groupHeader:
		return rootAccessor{get: func() any { return g.Headers }, set: func(v any) { g.Headers, _ = v.(map[string]any) }}
	default:
		return rootAccessor{get: func() any { return g.Body }, set: func(v any) { g.Body = v }}
	}
}

// getAt, setAt, and deleteAt navigate a map[string]any/[]any tree by a
// dotted-path segment list, the representation target_path addresses.

func getAt(root any, segs []string) (any, bool) {
	cur := root
	for _, seg := range segs {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

func setAt(acc rootAccessor, segs []string, val any) {
	if len(segs) == 0 {
		acc.set(val)
		return
	}
	root := acc.get()
	m, ok := root.(map[string]any)
	if !ok {
		return
	}
	setInMap(m, segs, val)
	acc.set(m)
}

func setInMap(m map[string]any, segs []string, val any) {
	if len(segs) == 1 {
		m[segs[0]] = val
		return
	}
	child, ok := m[segs[0]].(map[string]any)
	if !ok {
		return
	}
	setInMap(child, segs[1:], val)
}

func deleteAt(acc rootAccessor, segs []string) {
	if len(segs) == 0 {
		return
	}
	root := acc.get()
	m, ok := root.(map[string]any)
	if !ok {
		return
	}
	deleteInMap(m, segs)
	acc.set(m)
}

func deleteInMap(m map[string]any, segs []string) {
	if len(segs) == 1 {
		delete(m, segs[0])
		return
	}
	child, ok := m[segs[0]].(map[string]any)
	if !ok {
		return
	}
	deleteInMap(child, segs[1:])
}

// insertAtParent inserts key/val into the map one level above segs (the
// target_path's parent container), or the root itself when segs is
// top-level. Used for UNEXPECTED_ARGUMENT and ADDITIONAL_PROPERTY_NOT_ALLOWED,
// which add a sentinel sibling rather than mutating the addressed value.
func insertAtParent(acc rootAccessor, segs []string, key string, val any) {
	root := acc.get()
	var parent map[string]any
	if len(segs) <= 1 {
		m, ok := root.(map[string]any)
		if !ok {
			return
		}
		parent = m
	} else {
		v, ok := getAt(root, segs[:len(segs)-1])
		if !ok {
			return
		}
		m, ok := v.(map[string]any)
		if !ok {
			return
		}
		parent = m
	}
	parent[key] = val
	acc.set(root)
}
