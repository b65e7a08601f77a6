package types

// NamedStructs returns the distinct identified, non-opaque, non-literal
// structs reachable from m, in first-occurrence order. Globals are walked
// before functions; a function contributes its result type, then its
// parameters, then the types its body uses. Each type is visited once, so
// cycles through pointers end.
func NamedStructs(m *Module) []*Struct {
	if m == nil {
		return nil
	}
	f := finder{seen: make(map[Type]struct{}, 64)}
	for _, g := range m.Globals {
		if g != nil {
			f.incorporate(g.Type)
		}
	}
	for _, fn := range m.Functions {
		if fn == nil {
			continue
		}
		f.incorporate(fn.Result)
		for _, p := range fn.Params {
			f.incorporate(p.Type)
		}
		for _, t := range fn.BodyTypes {
			f.incorporate(t)
		}
	}
	return f.out
}

type finder struct {
	seen  map[Type]struct{}
	out   []*Struct
	stack []Type
}

func (f *finder) incorporate(root Type) {
	if root == nil {
		return
	}
	f.stack = append(f.stack[:0], root)
	for len(f.stack) > 0 {
		t := f.stack[len(f.stack)-1]
		f.stack = f.stack[:len(f.stack)-1]
		if t == nil {
			continue
		}
		if _, ok := f.seen[t]; ok {
			continue
		}
		f.seen[t] = struct{}{}
		if st, ok := t.(*Struct); ok && st.Named() && !st.Opaque {
			f.out = append(f.out, st)
		}
		// Push children in reverse so they pop in declaration order.
		children := Elems(t)
		for i := len(children) - 1; i >= 0; i-- {
			f.stack = append(f.stack, children[i])
		}
	}
}

// Elems returns the types directly contained in t, in order.
func Elems(t Type) []Type {
	switch tt := t.(type) {
	case *Pointer:
		return []Type{tt.Elem}
	case *Array:
		return []Type{tt.Elem}
	case *Vector:
		return []Type{tt.Elem}
	case *Struct:
		return tt.Fields
	case *Func:
		out := make([]Type, 0, len(tt.Params)+1)
		out = append(out, tt.Result)
		return append(out, tt.Params...)
	default:
		return nil
	}
}
