package ir

// Equal reports whether two Schema values are structurally identical. It is
// used by determinism tests (§8: "two independent runs produce byte-identical
// IR") instead of reflect.DeepEqual, because pointer-valued constraint
// fields (e.g. *int) must compare by value, not by address.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Kind != other.Kind {
		return false
	}
	switch s.Kind {
	case KindString:
		return stringConstraintsEqual(s.String, other.String)
	case KindInteger, KindNumber:
		return numericConstraintsEqual(s.Numeric, other.Numeric)
	case KindArray:
		return arraySchemaEqual(s.Array, other.Array)
	case KindObject:
		return objectSchemaEqual(s.Object, other.Object)
	case KindEnum:
		return enumSchemaEqual(s.Enum, other.Enum)
	case KindUnion:
		return unionSchemaEqual(s.Union, other.Union)
	case KindRef:
		return s.Ref == other.Ref
	default:
		return true
	}
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func float64PtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringConstraintsEqual(a, b *StringConstraints) bool {
	if a == nil || b == nil {
		return a == b
	}
	return intPtrEqual(a.MinLen, b.MinLen) &&
		intPtrEqual(a.MaxLen, b.MaxLen) &&
		a.Pattern == b.Pattern &&
		a.Format == b.Format &&
		a.Nullable == b.Nullable
}

func numericConstraintsEqual(a, b *NumericConstraints) bool {
	if a == nil || b == nil {
		return a == b
	}
	return float64PtrEqual(a.Min, b.Min) &&
		float64PtrEqual(a.Max, b.Max) &&
		a.ExclusiveMin == b.ExclusiveMin &&
		a.ExclusiveMax == b.ExclusiveMax &&
		float64PtrEqual(a.MultipleOf, b.MultipleOf) &&
		a.Nullable == b.Nullable
}

func arraySchemaEqual(a, b *ArraySchema) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Items.Equal(b.Items) &&
		intPtrEqual(a.MinItems, b.MinItems) &&
		intPtrEqual(a.MaxItems, b.MaxItems) &&
		a.UniqueItems == b.UniqueItems
}

func objectSchemaEqual(a, b *ObjectSchema) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Properties) != len(b.Properties) {
		return false
	}
	for i := range a.Properties {
		if a.Properties[i].Name != b.Properties[i].Name {
			return false
		}
		if !a.Properties[i].Schema.Equal(b.Properties[i].Schema) {
			return false
		}
	}
	if len(a.Required) != len(b.Required) {
		return false
	}
	for i := range a.Required {
		if a.Required[i] != b.Required[i] {
			return false
		}
	}
	return a.AdditionalAllowed == b.AdditionalAllowed &&
		intPtrEqual(a.MinProps, b.MinProps) &&
		intPtrEqual(a.MaxProps, b.MaxProps) &&
		a.AdditionalKey.Equal(b.AdditionalKey) &&
		a.AdditionalValue.Equal(b.AdditionalValue)
}

func enumSchemaEqual(a, b *EnumSchema) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Values) != len(b.Values) || a.BaseType != b.BaseType || a.NamedTypeRef != b.NamedTypeRef {
		return false
	}
	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			return false
		}
	}
	return true
}

func unionSchemaEqual(a, b *UnionSchema) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Variants) != len(b.Variants) {
		return false
	}
	for i := range a.Variants {
		if !a.Variants[i].Equal(b.Variants[i]) {
			return false
		}
	}
	return true
}
