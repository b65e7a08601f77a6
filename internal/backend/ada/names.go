package ada

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"llvmads/internal/types"
)

// ErrUnsupportedType reports a type the backend has no spelling for, such
// as vectors or function types.
var ErrUnsupportedType = errors.New("unsupported type")

const defaultNameCacheSize = 1024

// Namer derives canonical names and inline references for types. Derived
// names of anonymous structs are memoized; a Namer must not outlive the
// module it was created for.
type Namer struct {
	structs *lru.Cache[*types.Struct, string]
}

// NewNamer creates a Namer whose struct memo holds up to size entries.
func NewNamer(size int) *Namer {
	if size <= 0 {
		size = defaultNameCacheSize
	}
	cache, err := lru.New[*types.Struct, string](size)
	if err != nil {
		panic(fmt.Errorf("ada: name cache: %w", err))
	}
	return &Namer{structs: cache}
}

func unsupported(t types.Type) error {
	if t == nil {
		return fmt.Errorf("%w: missing type", ErrUnsupportedType)
	}
	return fmt.Errorf("%w: %s %s", ErrUnsupportedType, t.Kind(), t.String())
}

// Name returns the canonical short name of t: scalar tokens such as i32,
// "ptr" and "arr" suffixes for pointers and arrays, the concatenated field
// names for anonymous structs and the sanitized name for identified ones.
func (n *Namer) Name(t types.Type) (string, error) {
	switch tt := t.(type) {
	case types.Void:
		return "void", nil
	case *types.Scalar:
		return scalarToken(tt)
	case *types.Pointer:
		inner, err := n.Name(tt.Elem)
		if err != nil {
			return "", err
		}
		return inner + "ptr", nil
	case *types.Array:
		inner, err := n.Name(tt.Elem)
		if err != nil {
			return "", err
		}
		return inner + "arr", nil
	case *types.Struct:
		if tt.Named() {
			return Sanitize(tt.Name), nil
		}
		return n.structName(tt)
	default:
		return "", unsupported(t)
	}
}

func (n *Namer) structName(st *types.Struct) (string, error) {
	if name, ok := n.structs.Get(st); ok {
		return name, nil
	}
	var b strings.Builder
	for _, field := range st.Fields {
		part, err := n.Name(field)
		if err != nil {
			return "", err
		}
		b.WriteString(part)
	}
	name := b.String()
	n.structs.Add(st, name)
	return name, nil
}

func scalarToken(s *types.Scalar) (string, error) {
	switch {
	case s.Class == types.ClassInt:
		return "i" + strconv.FormatUint(uint64(s.Width), 10), nil
	case s.Class.Valid():
		return s.Class.String(), nil
	default:
		return "", unsupported(s)
	}
}

// Ref renders t where a type is mentioned inline: fields, parameters and
// globals. It never declares anything; anonymous structs are referenced by
// derived name and must already be declared.
func (n *Namer) Ref(t types.Type) (string, error) {
	switch tt := t.(type) {
	case types.Void, *types.Scalar:
		return n.Name(t)
	case *types.Pointer:
		inner, err := n.Ref(tt.Elem)
		if err != nil {
			return "", err
		}
		return "access " + inner, nil
	case *types.Array:
		inner, err := n.Ref(tt.Elem)
		if err != nil {
			return "", err
		}
		return "array " + arrayBounds(tt) + " of " + inner, nil
	case *types.Struct:
		return n.Name(tt)
	default:
		return "", unsupported(t)
	}
}

// arrayBounds spells the index range; zero-length and flexible arrays get
// an unconstrained range.
func arrayBounds(a *types.Array) string {
	if a.HasLen() && a.Len > 0 {
		return "(1.." + strconv.FormatUint(a.Len, 10) + ")"
	}
	return "(Integer range <>)"
}
