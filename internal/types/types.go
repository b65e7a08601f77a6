package types

import (
	"fmt"
	"strings"
)

// Kind enumerates the variants of Type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindScalar
	KindPointer
	KindArray
	KindStruct
	KindVector
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindVoid:
		return "void"
	case KindScalar:
		return "scalar"
	case KindPointer:
		return "pointer"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindVector:
		return "vector"
	case KindFunc:
		return "func"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a node of a module's type graph. The set of implementations is
// closed: Void, *Scalar, *Pointer, *Array, *Struct, *Vector and *Func.
type Type interface {
	Kind() Kind
	String() string
	sealed()
}

// DynamicLength marks arrays without a known element count.
const DynamicLength = ^uint64(0)

// Void is the absence of a value.
type Void struct{}

// Scalar is a primitive value: integers, floats and marker kinds.
type Scalar struct {
	Class Class
	Width uint32 // integers only
}

// Pointer refers to a value of Elem.
type Pointer struct {
	Elem Type
}

// Array is a sequence of Elem. Len is DynamicLength for flexible arrays.
type Array struct {
	Elem Type
	Len  uint64
}

// Struct is an aggregate with ordered fields. Named structs are shared by
// identity across the graph and may reach themselves through pointers.
type Struct struct {
	Name    string
	Fields  []Type
	Opaque  bool
	Literal bool
}

// Vector is a SIMD vector. It exists so loaders can describe it; the
// backend rejects it.
type Vector struct {
	Elem     Type
	Len      uint64
	Scalable bool
}

// Func is a function type, usually seen behind a pointer.
type Func struct {
	Result   Type
	Params   []Type
	Variadic bool
}

func (Void) Kind() Kind     { return KindVoid }
func (*Scalar) Kind() Kind  { return KindScalar }
func (*Pointer) Kind() Kind { return KindPointer }
func (*Array) Kind() Kind   { return KindArray }
func (*Struct) Kind() Kind  { return KindStruct }
func (*Vector) Kind() Kind  { return KindVector }
func (*Func) Kind() Kind    { return KindFunc }

func (Void) sealed()     {}
func (*Scalar) sealed()  {}
func (*Pointer) sealed() {}
func (*Array) sealed()   {}
func (*Struct) sealed()  {}
func (*Vector) sealed()  {}
func (*Func) sealed()    {}

func (Void) String() string { return "void" }

func (s *Scalar) String() string {
	if s.Class == ClassInt {
		return fmt.Sprintf("i%d", s.Width)
	}
	return s.Class.String()
}

func (p *Pointer) String() string { return typeString(p.Elem) + "*" }

func (a *Array) String() string {
	if a.Len == DynamicLength {
		return fmt.Sprintf("[? x %s]", typeString(a.Elem))
	}
	return fmt.Sprintf("[%d x %s]", a.Len, typeString(a.Elem))
}

// String prints named structs by name so cyclic graphs stay printable.
func (s *Struct) String() string {
	if !s.Literal && s.Name != "" {
		return "%" + s.Name
	}
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = typeString(f)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (v *Vector) String() string {
	if v.Scalable {
		return fmt.Sprintf("<vscale x %d x %s>", v.Len, typeString(v.Elem))
	}
	return fmt.Sprintf("<%d x %s>", v.Len, typeString(v.Elem))
}

func (f *Func) String() string {
	parts := make([]string, 0, len(f.Params)+1)
	for _, p := range f.Params {
		parts = append(parts, typeString(p))
	}
	if f.Variadic {
		parts = append(parts, "...")
	}
	return typeString(f.Result) + " (" + strings.Join(parts, ", ") + ")"
}

func typeString(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Named reports whether s is referenced by its declared name.
func (s *Struct) Named() bool {
	return s != nil && !s.Literal && s.Name != ""
}

// HasLen reports whether the array has a known element count.
func (a *Array) HasLen() bool {
	return a.Len != DynamicLength
}

// IsVoid reports whether t is the void type.
func IsVoid(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(Void)
	return ok
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes an integer of the given bit width.
func MakeInt(width uint32) *Scalar {
	return &Scalar{Class: ClassInt, Width: width}
}

// MakeScalar describes a non-integer scalar class.
func MakeScalar(class Class) *Scalar {
	return &Scalar{Class: class}
}

// MakePointer describes a pointer to elem.
func MakePointer(elem Type) *Pointer {
	return &Pointer{Elem: elem}
}

// MakeArray describes an array of count elements. Use DynamicLength for
// flexible arrays.
func MakeArray(elem Type, count uint64) *Array {
	return &Array{Elem: elem, Len: count}
}

// MakeLiteral describes an anonymous struct.
func MakeLiteral(fields ...Type) *Struct {
	return &Struct{Fields: fields, Literal: true}
}

// MakeNamed describes an identified struct. Fields may be set later to
// close cycles.
func MakeNamed(name string, fields ...Type) *Struct {
	return &Struct{Name: name, Fields: fields}
}

// MakeOpaque describes an identified struct without a body.
func MakeOpaque(name string) *Struct {
	return &Struct{Name: name, Opaque: true}
}
