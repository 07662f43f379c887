package ast

// Type is the value type carried by an expression or declaration.
type Type int

const (
	// TypeError marks a node whose type could not be determined. Checks
	// tolerate it silently so one mistake doesn't cascade into a wall of
	// diagnostics.
	TypeError Type = iota
	// TypeVoid is the type of functions with no return value.
	TypeVoid
	TypeInteger
	TypeFloat
	TypeString
	TypeKey
	TypeVector
	TypeRotation
	TypeList
)

var typeNames = [...]string{
	TypeError:    "error",
	TypeVoid:     "void",
	TypeInteger:  "integer",
	TypeFloat:    "float",
	TypeString:   "string",
	TypeKey:      "key",
	TypeVector:   "vector",
	TypeRotation: "rotation",
	TypeList:     "list",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "error"
}

// ParseType maps a type keyword to its Type; ok is false for non-type
// identifiers.
func ParseType(name string) (Type, bool) {
	switch name {
	case "integer":
		return TypeInteger, true
	case "float":
		return TypeFloat, true
	case "string":
		return TypeString, true
	case "key":
		return TypeKey, true
	case "vector":
		return TypeVector, true
	case "rotation", "quaternion":
		return TypeRotation, true
	case "list":
		return TypeList, true
	}
	return TypeError, false
}

// CoercibleTo reports whether a value of type from may be used where type
// to is expected without an explicit cast. This is the compatibility
// matrix consulted for assignments, initializers and call arguments.
func CoercibleTo(from, to Type) bool {
	if from == to {
		return true
	}
	// Error types were already reported; let them through quietly.
	if from == TypeError || to == TypeError {
		return true
	}
	switch {
	case from == TypeInteger && to == TypeFloat:
		return true
	case from == TypeString && to == TypeKey:
		return true
	case from == TypeKey && to == TypeString:
		return true
	}
	return false
}

// CastableTo reports whether an explicit typecast from one type to the
// other is legal.
func CastableTo(from, to Type) bool {
	if CoercibleTo(from, to) {
		return true
	}
	if from == TypeError || to == TypeError {
		return true
	}
	// Anything can be boxed into a list.
	if to == TypeList {
		return from != TypeVoid
	}
	switch from {
	case TypeInteger:
		return to == TypeFloat || to == TypeString
	case TypeFloat:
		return to == TypeInteger || to == TypeString
	case TypeString:
		return to == TypeInteger || to == TypeFloat || to == TypeVector || to == TypeRotation
	case TypeVector, TypeRotation:
		return to == TypeString
	case TypeList:
		return to == TypeString
	}
	return false
}
