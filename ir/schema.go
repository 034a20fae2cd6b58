package ir

// SchemaKind tags the variant held by a Schema value. Schema is a sum type:
// exactly one of the variant-specific fields below is meaningful for a given
// Kind, and constraint fields that do not apply to a variant are ignored by
// all consumers (§3 invariant 6).
type SchemaKind string

const (
	KindString  SchemaKind = "string"
	KindInteger SchemaKind = "integer"
	KindNumber  SchemaKind = "number"
	KindBoolean SchemaKind = "boolean"
	KindNull    SchemaKind = "null"
	KindArray   SchemaKind = "array"
	KindObject  SchemaKind = "object"
	KindEnum    SchemaKind = "enum"
	KindUnion   SchemaKind = "union"
	KindRef     SchemaKind = "ref"
	KindAny     SchemaKind = "any"
)

// Format names the recognized string formats.
type Format string

const (
	FormatNone     Format = ""
	FormatEmail    Format = "email"
	FormatUUID     Format = "uuid"
	FormatDate     Format = "date"
	FormatDateTime Format = "date-time"
	FormatIPv4     Format = "ipv4"
	FormatIPv6     Format = "ipv6"
	FormatURI      Format = "uri"
	FormatOther    Format = "other"
)

// StringConstraints holds the constraint vocabulary for Kind == KindString.
type StringConstraints struct {
	MinLen    *int    `json:"min_len,omitempty"`
	MaxLen    *int    `json:"max_len,omitempty"`
	Pattern   string  `json:"pattern,omitempty"`
	Format    Format  `json:"format,omitempty"`
	Nullable  bool    `json:"nullable,omitempty"`
}

// NumericConstraints holds the constraint vocabulary for Kind == KindInteger
// or Kind == KindNumber.
type NumericConstraints struct {
	Min          *float64 `json:"min,omitempty"`
	Max          *float64 `json:"max,omitempty"`
	ExclusiveMin bool     `json:"exclusive_min,omitempty"`
	ExclusiveMax bool     `json:"exclusive_max,omitempty"`
	MultipleOf   *float64 `json:"multiple_of,omitempty"`
	Nullable     bool     `json:"nullable,omitempty"`
}

// ArraySchema holds the payload for Kind == KindArray.
type ArraySchema struct {
	Items       *Schema `json:"items"`
	MinItems    *int    `json:"min_items,omitempty"`
	MaxItems    *int    `json:"max_items,omitempty"`
	UniqueItems bool    `json:"unique_items,omitempty"`
}

// ObjectProperty is one (name, schema) pair in an Object schema's declaration
// order. Order is significant (§3: "Order is preserved from source").
type ObjectProperty struct {
	Name   string  `json:"name"`
	Schema *Schema `json:"schema"`
}

// ObjectSchema holds the payload for Kind == KindObject.
type ObjectSchema struct {
	// Properties is the ordered-map<Name, Schema> from §3, represented as an
	// ordered slice since Go maps do not preserve insertion order.
	Properties []ObjectProperty `json:"properties,omitempty"`
	// Required is the ordered-set<Name> of required property names.
	Required []string `json:"required,omitempty"`
	// AdditionalAllowed reports whether properties outside Properties are permitted.
	AdditionalAllowed bool `json:"additional_allowed"`
	MinProps          *int `json:"min_props,omitempty"`
	MaxProps          *int `json:"max_props,omitempty"`
	// DependentRequired maps a property name to the set of properties that
	// become required when it is present.
	DependentRequired map[string][]string `json:"dependent_required,omitempty"`
	// AdditionalKey and AdditionalValue carry the key/value type hints for a
	// dynamic-source Dict[K, V] annotation (§4.1.2), the "constraint bag"
	// the spec describes for otherwise-untyped additional properties. Both
	// are nil for object shapes that did not originate from a mapping
	// annotation.
	AdditionalKey   *Schema `json:"additional_key,omitempty"`
	AdditionalValue *Schema `json:"additional_value,omitempty"`
}

// Get returns the schema declared for name and whether it was found.
func (o *ObjectSchema) Get(name string) (*Schema, bool) {
	if o == nil {
		return nil, false
	}
	for _, p := range o.Properties {
		if p.Name == name {
			return p.Schema, true
		}
	}
	return nil, false
}

// IsRequired reports whether name is in the object's required set.
func (o *ObjectSchema) IsRequired(name string) bool {
	if o == nil {
		return false
	}
	for _, r := range o.Required {
		if r == name {
			return true
		}
	}
	return false
}

// EnumSchema holds the payload for Kind == KindEnum.
type EnumSchema struct {
	// Values is the ordered-list of acceptable enum values.
	Values []any `json:"values"`
	// BaseType is the primitive kind each value must satisfy (§3 invariant 4).
	BaseType SchemaKind `json:"base_type"`
	// NamedTypeRef preserves the declared type's id, if any, so the renderer
	// can emit an import/type reference (e.g. "import Status") instead of an
	// inlined literal union.
	NamedTypeRef string `json:"named_type_ref,omitempty"`
}

// UnionSchema holds the payload for Kind == KindUnion.
type UnionSchema struct {
	Variants []*Schema `json:"variants"`
}

// Schema is the sum type at the heart of the IR (§3). Construct variants
// with the New* helpers rather than populating fields by hand, so Kind and
// payload always agree.
type Schema struct {
	Kind SchemaKind `json:"kind"`

	String  *StringConstraints  `json:"string,omitempty"`
	Numeric *NumericConstraints `json:"numeric,omitempty"`
	Array   *ArraySchema        `json:"array,omitempty"`
	Object  *ObjectSchema       `json:"object,omitempty"`
	Enum    *EnumSchema         `json:"enum,omitempty"`
	Union   *UnionSchema        `json:"union,omitempty"`

	// Ref names the TypeDecl id this schema refers to, when Kind == KindRef.
	// Downstream consumers see the fully inlined schema (§3 invariant 1); Ref
	// is preserved alongside the inlined form only on named enum/object
	// TypeDecls, for renderer import emission — see TypeDecl.
	Ref string `json:"ref,omitempty"`
}

func NewString(c StringConstraints) *Schema { return &Schema{Kind: KindString, String: &c} }
func NewInteger(c NumericConstraints) *Schema { return &Schema{Kind: KindInteger, Numeric: &c} }
func NewNumber(c NumericConstraints) *Schema  { return &Schema{Kind: KindNumber, Numeric: &c} }
func NewBoolean() *Schema                     { return &Schema{Kind: KindBoolean} }
func NewNull() *Schema                        { return &Schema{Kind: KindNull} }
func NewAny() *Schema                         { return &Schema{Kind: KindAny} }

func NewArray(items *Schema, c ArraySchema) *Schema {
	c.Items = items
	return &Schema{Kind: KindArray, Array: &c}
}

func NewObject(o ObjectSchema) *Schema {
	return &Schema{Kind: KindObject, Object: &o}
}

func NewEnum(e EnumSchema) *Schema {
	return &Schema{Kind: KindEnum, Enum: &e}
}

func NewUnion(variants ...*Schema) *Schema {
	return &Schema{Kind: KindUnion, Union: &UnionSchema{Variants: variants}}
}

// IsNullable reports whether the schema's own constraints mark it nullable.
// Only String and Numeric (Integer/Number) variants carry a nullable flag;
// all other variants report false here (a Union containing Null is the
// idiomatic way to mark other kinds nullable).
func (s *Schema) IsNullable() bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case KindString:
		return s.String != nil && s.String.Nullable
	case KindInteger, KindNumber:
		return s.Numeric != nil && s.Numeric.Nullable
	}
	return false
}

// TypeDeclKind classifies a named type declaration.
type TypeDeclKind string

const (
	TypeDeclEnum   TypeDeclKind = "enum"
	TypeDeclObject TypeDeclKind = "object"
	TypeDeclAlias  TypeDeclKind = "alias"
)

// TypeDecl is a named schema that other schemas may reference by id (§3).
// References are resolved eagerly by parsers; TypeDecl markers survive only
// so the renderer can emit "import Status"-style declarations.
type TypeDecl struct {
	ID     string       `json:"id"`
	Name   string       `json:"name"`
	Kind   TypeDeclKind `json:"kind"`
	Schema *Schema      `json:"schema"`
}
