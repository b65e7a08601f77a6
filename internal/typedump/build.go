package typedump

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"llvmads/internal/types"
)

// ErrBadRef marks a type index outside the module's table.
var ErrBadRef = errors.New("type reference out of range")

// ErrSchema marks a dump written with a different layout.
var ErrSchema = errors.New("unsupported schema")

// ToModules rebuilds every module of b.
func (b *Bundle) ToModules() ([]*types.Module, error) {
	if b == nil {
		return nil, fmt.Errorf("nil bundle")
	}
	if b.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchema, b.Schema, SchemaVersion)
	}
	out := make([]*types.Module, 0, len(b.Modules))
	for i := range b.Modules {
		m, err := ToModule(&b.Modules[i])
		if err != nil {
			return nil, fmt.Errorf("module %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// ToModule rebuilds the type graph of wm. Shells are allocated for every
// entry first and linked afterwards, so cycles are reproduced by identity.
func ToModule(wm *Module) (*types.Module, error) {
	if err := checkRefs(wm); err != nil {
		return nil, err
	}
	if err := checkCycles(wm.Types); err != nil {
		return nil, err
	}
	nodes := make([]types.Type, len(wm.Types))
	for i, e := range wm.Types {
		node, err := shell(e)
		if err != nil {
			return nil, fmt.Errorf("type %d: %w", i, err)
		}
		nodes[i] = node
	}
	for i, e := range wm.Types {
		link(nodes, nodes[i], e)
	}

	m := &types.Module{SourceFileName: wm.Source}
	for _, id := range wm.Structs {
		st, ok := nodes[id].(*types.Struct)
		if !ok {
			return nil, fmt.Errorf("structs: type %d is %s, not a struct", id, wm.Types[id].Kind)
		}
		m.Structs = append(m.Structs, st)
	}
	for _, g := range wm.Globals {
		m.Globals = append(m.Globals, &types.Global{Name: g.Name, Type: nodes[g.Type]})
	}
	for _, f := range wm.Functions {
		fn := &types.Function{Name: f.Name, Result: nodes[f.Result]}
		for _, p := range f.Params {
			fn.Params = append(fn.Params, types.Param{Name: p.Name, Type: nodes[p.Type]})
		}
		for _, id := range f.Body {
			fn.BodyTypes = append(fn.BodyTypes, nodes[id])
		}
		m.Functions = append(m.Functions, fn)
	}
	return m, nil
}

func shell(e TypeEntry) (types.Type, error) {
	switch e.Kind {
	case KindVoid:
		return types.Void{}, nil
	case KindInt:
		w, err := safecast.Conv[uint32](e.Width)
		if err != nil || w == 0 {
			return nil, fmt.Errorf("invalid integer width %d", e.Width)
		}
		return types.MakeInt(w), nil
	case KindPointer:
		return &types.Pointer{}, nil
	case KindArray:
		n := types.DynamicLength
		if e.Len != nil {
			v, err := safecast.Conv[uint64](*e.Len)
			if err != nil {
				return nil, fmt.Errorf("invalid array length %d", *e.Len)
			}
			n = v
		}
		return &types.Array{Len: n}, nil
	case KindVector:
		if e.Len == nil {
			return nil, fmt.Errorf("vector without length")
		}
		n, err := safecast.Conv[uint64](*e.Len)
		if err != nil {
			return nil, fmt.Errorf("invalid vector length %d", *e.Len)
		}
		return &types.Vector{Len: n, Scalable: e.Scalable}, nil
	case KindStruct:
		return &types.Struct{Name: e.Name, Opaque: e.Opaque, Literal: e.Literal}, nil
	case KindFunc:
		return &types.Func{Variadic: e.Variadic}, nil
	}
	class, err := types.ParseClass(e.Kind)
	if err != nil {
		return nil, err
	}
	return types.MakeScalar(class), nil
}

func link(nodes []types.Type, node types.Type, e TypeEntry) {
	switch tt := node.(type) {
	case *types.Pointer:
		tt.Elem = nodes[e.Elem]
	case *types.Array:
		tt.Elem = nodes[e.Elem]
	case *types.Vector:
		tt.Elem = nodes[e.Elem]
	case *types.Struct:
		if len(e.Fields) > 0 {
			tt.Fields = make([]types.Type, len(e.Fields))
			for i, f := range e.Fields {
				tt.Fields[i] = nodes[f]
			}
		}
	case *types.Func:
		tt.Result = nodes[e.Result]
		for _, p := range e.Params {
			tt.Params = append(tt.Params, nodes[p])
		}
	}
}

// edges lists the indices an entry refers to.
func edges(e TypeEntry) []int {
	switch e.Kind {
	case KindPointer, KindArray, KindVector:
		return []int{e.Elem}
	case KindStruct:
		return e.Fields
	case KindFunc:
		return append([]int{e.Result}, e.Params...)
	}
	return nil
}

func checkRefs(wm *Module) error {
	n := len(wm.Types)
	ok := func(id int) bool { return id >= 0 && id < n }
	for i, e := range wm.Types {
		for _, id := range edges(e) {
			if !ok(id) {
				return fmt.Errorf("%w: type %d refers to %d", ErrBadRef, i, id)
			}
		}
	}
	for _, id := range wm.Structs {
		if !ok(id) {
			return fmt.Errorf("%w: structs refers to %d", ErrBadRef, id)
		}
	}
	for _, g := range wm.Globals {
		if !ok(g.Type) {
			return fmt.Errorf("%w: global %s refers to %d", ErrBadRef, g.Name, g.Type)
		}
	}
	for _, f := range wm.Functions {
		if !ok(f.Result) {
			return fmt.Errorf("%w: function %s result refers to %d", ErrBadRef, f.Name, f.Result)
		}
		for _, p := range f.Params {
			if !ok(p.Type) {
				return fmt.Errorf("%w: function %s param refers to %d", ErrBadRef, f.Name, p.Type)
			}
		}
		for _, id := range f.Body {
			if !ok(id) {
				return fmt.Errorf("%w: function %s body refers to %d", ErrBadRef, f.Name, id)
			}
		}
	}
	return nil
}

// checkCycles rejects cycles that do not pass through an identified
// struct; only those can be named without unbounded recursion.
func checkCycles(table []TypeEntry) error {
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, len(table))
	var visit func(i int) error
	visit = func(i int) error {
		e := table[i]
		if e.Kind == KindStruct && !e.Literal && e.Name != "" {
			return nil
		}
		switch color[i] {
		case grey:
			return fmt.Errorf("type %d: cycle without an identified struct", i)
		case black:
			return nil
		}
		color[i] = grey
		for _, next := range edges(e) {
			if err := visit(next); err != nil {
				return err
			}
		}
		color[i] = black
		return nil
	}
	for i := range table {
		if err := visit(i); err != nil {
			return err
		}
	}
	return nil
}
