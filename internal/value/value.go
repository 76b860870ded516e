// Package value models a capability fragment's JSON payload as an
// order-preserving tree of tagged values, so that downstream merge and
// code-emission logic can recurse over it without losing the document's
// original key and array order (an emitted-output determinism property).
package value

import "github.com/elliotchance/orderedmap/v3"

// Kind discriminates the shape of a Value.
type Kind int

const (
	KindScalar Kind = iota // a number or a bare (non-enum) string
	KindBool
	KindEnumList // a JSON array of strings, e.g. enum flag names
	KindArray    // a JSON array of numbers/bools, e.g. per-index struct init
	KindObject   // a JSON object, recursively a Value tree
)

// Value is a single node of a parsed capability fragment.
type Value struct {
	Kind     Kind
	Scalar   string // raw literal text for KindScalar (number, or bare enum/string token)
	IsString bool   // true if Scalar originated from a JSON string (drives isEnum classification)
	Bool     bool
	List     []Value                                // KindEnumList / KindArray elements
	Object   *orderedmap.OrderedMap[string, Value] // KindObject, insertion order preserved
}

// NewObject returns an empty, ready-to-populate object Value.
func NewObject() Value {
	return Value{Kind: KindObject, Object: orderedmap.NewOrderedMap[string, Value]()}
}

// IsZero reports whether v is the unset zero Value.
func (v Value) IsZero() bool {
	return v.Kind == KindScalar && v.Scalar == "" && v.Object == nil && v.List == nil
}
