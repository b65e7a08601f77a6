package ada

import (
	"fmt"
	"strings"

	"llvmads/internal/types"
)

// peelPointers strips leading pointer layers and reports how many there were.
func peelPointers(t types.Type) (types.Type, int) {
	depth := 0
	for {
		ptr, ok := t.(*types.Pointer)
		if !ok {
			return t, depth
		}
		t = ptr.Elem
		depth++
	}
}

func anonymousStruct(t types.Type) (*types.Struct, bool) {
	st, ok := t.(*types.Struct)
	if !ok || st.Named() {
		return nil, false
	}
	return st, true
}

// emitStruct writes the record declaration of st, preceded by declarations
// of the anonymous structs and array aliases its fields use. Identified
// structs reached through fields are not expanded.
func (e *Emitter) emitStruct(st *types.Struct) error {
	for _, field := range st.Fields {
		if err := e.emitFieldDeps(field); err != nil {
			return err
		}
	}

	name, err := e.declName(st)
	if err != nil {
		return err
	}
	if len(st.Fields) == 0 {
		fmt.Fprintf(&e.buf, "type %s is null record;", name)
		return nil
	}
	fmt.Fprintf(&e.buf, "type %s is record\n", name)
	for i, field := range st.Fields {
		ref, err := e.memberRef(field)
		if err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		fmt.Fprintf(&e.buf, "e%d : %s;\n", i, ref)
	}
	e.buf.WriteString("end record;")
	return nil
}

func (e *Emitter) declName(st *types.Struct) (string, error) {
	if st.Named() {
		return Sanitize(st.Name), nil
	}
	return e.names.Name(st)
}

func (e *Emitter) emitFieldDeps(field types.Type) error {
	base, _ := peelPointers(field)
	if st, ok := anonymousStruct(base); ok {
		if err := e.emitStruct(st); err != nil {
			return err
		}
		e.buf.WriteString("\n")
		return nil
	}
	if arr, ok := base.(*types.Array); ok {
		if err := e.emitElemDeps(arr); err != nil {
			return err
		}
		if err := e.emitArray(arr); err != nil {
			return err
		}
		e.buf.WriteString("\n")
	}
	return nil
}

// emitElemDeps declares an anonymous struct used as the (possibly nested,
// possibly indirect) element type of arr, since the alias names it inline.
func (e *Emitter) emitElemDeps(arr *types.Array) error {
	elem := arr.Elem
	for {
		switch tt := elem.(type) {
		case *types.Pointer:
			elem = tt.Elem
			continue
		case *types.Array:
			elem = tt.Elem
			continue
		}
		break
	}
	st, ok := anonymousStruct(elem)
	if !ok {
		return nil
	}
	if err := e.emitStruct(st); err != nil {
		return err
	}
	e.buf.WriteString("\n")
	return nil
}

func (e *Emitter) emitArray(arr *types.Array) error {
	name, err := e.names.Name(arr)
	if err != nil {
		return err
	}
	ref, err := e.names.Ref(arr)
	if err != nil {
		return err
	}
	fmt.Fprintf(&e.buf, "type %s is %s;", name, ref)
	return nil
}

// memberRef spells a record member type: one "access" per pointer layer,
// then the derived name for aggregates or the inline reference otherwise.
func (e *Emitter) memberRef(field types.Type) (string, error) {
	base, depth := peelPointers(field)
	var (
		tail string
		err  error
	)
	switch base.(type) {
	case *types.Array, *types.Struct:
		tail, err = e.names.Name(base)
	default:
		tail, err = e.names.Ref(base)
	}
	if err != nil {
		return "", err
	}
	return strings.Repeat("access ", depth) + tail, nil
}
