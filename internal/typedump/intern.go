package typedump

import (
	"fmt"

	"fortio.org/safecast"

	"llvmads/internal/types"
)

type scalarKey struct {
	class types.Class
	width uint32
}

// interner assigns table slots to types. Pointer-typed nodes are keyed by
// identity, scalars and void structurally.
type interner struct {
	table   []TypeEntry
	index   map[types.Type]int
	scalars map[scalarKey]int
}

func newInterner() *interner {
	return &interner{
		index:   make(map[types.Type]int, 64),
		scalars: make(map[scalarKey]int, 16),
	}
}

// FromModules flattens modules into a Bundle.
func FromModules(mods []*types.Module) (*Bundle, error) {
	b := &Bundle{Schema: SchemaVersion, Modules: make([]Module, 0, len(mods))}
	for i, m := range mods {
		wm, err := FromModule(m)
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		b.Modules = append(b.Modules, wm)
	}
	return b, nil
}

// FromModule flattens m into its wire form.
func FromModule(m *types.Module) (Module, error) {
	if m == nil {
		return Module{}, fmt.Errorf("nil module")
	}
	in := newInterner()
	out := Module{Source: m.SourceFileName}
	for _, st := range m.Structs {
		id, err := in.intern(st)
		if err != nil {
			return Module{}, err
		}
		out.Structs = append(out.Structs, id)
	}
	for _, g := range m.Globals {
		if g == nil {
			continue
		}
		id, err := in.intern(g.Type)
		if err != nil {
			return Module{}, fmt.Errorf("global %s: %w", g.Name, err)
		}
		out.Globals = append(out.Globals, Global{Name: g.Name, Type: id})
	}
	for _, fn := range m.Functions {
		if fn == nil {
			continue
		}
		wf, err := in.function(fn)
		if err != nil {
			return Module{}, fmt.Errorf("function %s: %w", fn.Name, err)
		}
		out.Functions = append(out.Functions, wf)
	}
	out.Types = in.table
	return out, nil
}

func (in *interner) function(fn *types.Function) (Function, error) {
	result := fn.Result
	if result == nil {
		result = types.Void{}
	}
	rid, err := in.intern(result)
	if err != nil {
		return Function{}, err
	}
	wf := Function{Name: fn.Name, Result: rid}
	for _, p := range fn.Params {
		pid, err := in.intern(p.Type)
		if err != nil {
			return Function{}, err
		}
		wf.Params = append(wf.Params, Param{Name: p.Name, Type: pid})
	}
	body, err := in.internAll(fn.BodyTypes)
	if err != nil {
		return Function{}, fmt.Errorf("body: %w", err)
	}
	wf.Body = body
	return wf, nil
}

// reserve appends an entry before its children are interned, so a cycle
// back to t finds the slot instead of recursing.
func (in *interner) reserve(t types.Type, entry TypeEntry) int {
	id := len(in.table)
	in.table = append(in.table, entry)
	in.index[t] = id
	return id
}

func (in *interner) intern(t types.Type) (int, error) {
	if t == nil {
		return 0, fmt.Errorf("missing type")
	}
	if id, ok := in.index[t]; ok {
		return id, nil
	}
	switch tt := t.(type) {
	case types.Void:
		return in.reserve(t, TypeEntry{Kind: KindVoid}), nil
	case *types.Scalar:
		key := scalarKey{class: tt.Class, width: tt.Width}
		if id, ok := in.scalars[key]; ok {
			in.index[t] = id
			return id, nil
		}
		if !tt.Class.Valid() {
			return 0, fmt.Errorf("invalid scalar class %d", tt.Class)
		}
		entry := TypeEntry{Kind: tt.Class.String()}
		if tt.Class == types.ClassInt {
			entry.Width = int64(tt.Width)
		}
		id := in.reserve(t, entry)
		in.scalars[key] = id
		return id, nil
	case *types.Pointer:
		id := in.reserve(t, TypeEntry{Kind: KindPointer})
		elem, err := in.intern(tt.Elem)
		if err != nil {
			return 0, err
		}
		in.table[id].Elem = elem
		return id, nil
	case *types.Array:
		id := in.reserve(t, TypeEntry{Kind: KindArray})
		if tt.HasLen() {
			n, err := safecast.Conv[int64](tt.Len)
			if err != nil {
				return 0, fmt.Errorf("array length: %w", err)
			}
			in.table[id].Len = &n
		}
		elem, err := in.intern(tt.Elem)
		if err != nil {
			return 0, err
		}
		in.table[id].Elem = elem
		return id, nil
	case *types.Vector:
		n, err := safecast.Conv[int64](tt.Len)
		if err != nil {
			return 0, fmt.Errorf("vector length: %w", err)
		}
		id := in.reserve(t, TypeEntry{Kind: KindVector, Len: &n, Scalable: tt.Scalable})
		elem, err := in.intern(tt.Elem)
		if err != nil {
			return 0, err
		}
		in.table[id].Elem = elem
		return id, nil
	case *types.Struct:
		id := in.reserve(t, TypeEntry{
			Kind:    KindStruct,
			Name:    tt.Name,
			Opaque:  tt.Opaque,
			Literal: tt.Literal,
		})
		fields, err := in.internAll(tt.Fields)
		if err != nil {
			return 0, fmt.Errorf("struct %s: %w", tt.Name, err)
		}
		in.table[id].Fields = fields
		return id, nil
	case *types.Func:
		id := in.reserve(t, TypeEntry{Kind: KindFunc, Variadic: tt.Variadic})
		result := tt.Result
		if result == nil {
			result = types.Void{}
		}
		rid, err := in.intern(result)
		if err != nil {
			return 0, err
		}
		params, err := in.internAll(tt.Params)
		if err != nil {
			return 0, err
		}
		in.table[id].Result = rid
		in.table[id].Params = params
		return id, nil
	default:
		return 0, fmt.Errorf("unknown type %T", t)
	}
}

func (in *interner) internAll(list []types.Type) ([]int, error) {
	if len(list) == 0 {
		return nil, nil
	}
	out := make([]int, len(list))
	for i, t := range list {
		id, err := in.intern(t)
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}
