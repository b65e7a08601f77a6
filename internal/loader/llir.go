package loader

import (
	"fmt"
	"os"

	"fortio.org/safecast"
	"github.com/llir/llvm/asm"
	"github.com/llir/llvm/ir"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"llvmads/internal/diag"
	"llvmads/internal/types"
)

func loadLL(path string, r diag.Reporter) (*types.Module, error) {
	if _, err := os.Stat(path); err != nil {
		diag.Errorf(r, diag.LoadUnreadable, path, "%v", err)
		return nil, err
	}
	m, err := asm.ParseFile(path)
	if err != nil {
		diag.Errorf(r, diag.LoadMalformed, path, "%v", err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mod, err := FromIR(m, path, r)
	if err != nil {
		diag.Errorf(r, diag.LoadMalformed, path, "%v", err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mod, nil
}

// FromIR converts a parsed LLVM module. Identified structs are shared, so
// a cycle through a named struct comes back as a cycle of pointers.
func FromIR(m *ir.Module, subject string, r diag.Reporter) (*types.Module, error) {
	if r == nil {
		r = diag.NopReporter{}
	}
	c := &irConverter{
		named:   make(map[string]*types.Struct),
		subject: subject,
		r:       diag.NewDedupReporter(r),
	}
	out := &types.Module{SourceFileName: m.SourceFilename}

	for _, def := range m.TypeDefs {
		st, ok := def.(*lltypes.StructType)
		if !ok || st.TypeName == "" {
			continue
		}
		s, err := c.structType(st)
		if err != nil {
			return nil, fmt.Errorf("type %%%s: %w", st.TypeName, err)
		}
		out.Structs = append(out.Structs, s)
	}
	for _, g := range m.Globals {
		t, err := c.convert(g.ContentType)
		if err != nil {
			return nil, fmt.Errorf("global @%s: %w", g.GlobalName, err)
		}
		out.Globals = append(out.Globals, &types.Global{Name: g.GlobalName, Type: t})
	}
	for _, f := range m.Funcs {
		fn, err := c.function(f)
		if err != nil {
			return nil, fmt.Errorf("function @%s: %w", f.GlobalName, err)
		}
		out.Functions = append(out.Functions, fn)
	}
	return out, nil
}

type irConverter struct {
	named   map[string]*types.Struct
	subject string
	r       diag.Reporter
}

func (c *irConverter) function(f *ir.Func) (*types.Function, error) {
	sig := f.Sig
	if sig == nil {
		return nil, fmt.Errorf("missing signature")
	}
	result, err := c.convert(sig.RetType)
	if err != nil {
		return nil, err
	}
	fn := &types.Function{Name: f.GlobalName, Result: result}
	for i, pt := range sig.Params {
		t, err := c.convert(pt)
		if err != nil {
			return nil, fmt.Errorf("param %d: %w", i, err)
		}
		name := ""
		if i < len(f.Params) && f.Params[i] != nil {
			name = f.Params[i].LocalName
		}
		fn.Params = append(fn.Params, types.Param{Name: name, Type: t})
	}
	if sig.Variadic {
		diag.Warnf(c.r, diag.TypeUnsupported, c.subject, "@%s is variadic; the trailing arguments are not bound", f.GlobalName)
	}
	body, err := c.bodyTypes(f)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}
	fn.BodyTypes = body
	return fn, nil
}

// bodyTypes collects the aggregate and pointer types a function body
// touches, in instruction order: each instruction's own type first, then
// the element type it names, then its operands.
func (c *irConverter) bodyTypes(f *ir.Func) ([]types.Type, error) {
	var (
		out  []types.Type
		seen = make(map[string]struct{})
	)
	add := func(t lltypes.Type) error {
		if t == nil {
			return nil
		}
		switch t.(type) {
		case *lltypes.VoidType, *lltypes.IntType, *lltypes.FloatType,
			*lltypes.LabelType, *lltypes.MetadataType, *lltypes.TokenType:
			return nil
		}
		key := t.LLString()
		if _, ok := seen[key]; ok {
			return nil
		}
		seen[key] = struct{}{}
		ct, err := c.convert(t)
		if err != nil {
			return err
		}
		out = append(out, ct)
		return nil
	}
	addValues := func(vs ...value.Value) error {
		for _, v := range vs {
			if v == nil {
				continue
			}
			if err := add(v.Type()); err != nil {
				return err
			}
		}
		return nil
	}

	for _, block := range f.Blocks {
		for _, inst := range block.Insts {
			if v, ok := inst.(value.Value); ok {
				if err := add(v.Type()); err != nil {
					return nil, err
				}
			}
			var err error
			switch in := inst.(type) {
			case *ir.InstAlloca:
				err = add(in.ElemType)
			case *ir.InstGetElementPtr:
				if err = add(in.ElemType); err == nil {
					err = addValues(in.Src)
				}
			case *ir.InstLoad:
				if err = add(in.ElemType); err == nil {
					err = addValues(in.Src)
				}
			case *ir.InstStore:
				err = addValues(in.Src, in.Dst)
			case *ir.InstCall:
				err = addValues(in.Args...)
			case *ir.InstExtractValue:
				err = addValues(in.X)
			case *ir.InstInsertValue:
				err = addValues(in.X, in.Elem)
			case *ir.InstBitCast:
				err = addValues(in.From)
			}
			if err != nil {
				return nil, err
			}
		}
		if ret, ok := block.Term.(*ir.TermRet); ok && ret.X != nil {
			if err := addValues(ret.X); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (c *irConverter) structType(st *lltypes.StructType) (*types.Struct, error) {
	if st.TypeName != "" {
		if s, ok := c.named[st.TypeName]; ok {
			return s, nil
		}
	}
	s := &types.Struct{Name: st.TypeName, Opaque: st.Opaque, Literal: st.TypeName == ""}
	if st.TypeName != "" {
		// registered before the fields so self references resolve
		c.named[st.TypeName] = s
	}
	if st.Opaque {
		return s, nil
	}
	for i, ft := range st.Fields {
		t, err := c.convert(ft)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		s.Fields = append(s.Fields, t)
	}
	return s, nil
}

func (c *irConverter) convert(t lltypes.Type) (types.Type, error) {
	switch tt := t.(type) {
	case nil:
		return nil, fmt.Errorf("missing type")
	case *lltypes.VoidType:
		return types.Void{}, nil
	case *lltypes.IntType:
		w, err := safecast.Conv[uint32](tt.BitSize)
		if err != nil || w == 0 {
			return nil, fmt.Errorf("invalid integer width %d", tt.BitSize)
		}
		return types.MakeInt(w), nil
	case *lltypes.PointerType:
		if tt.ElemType == nil {
			diag.Warnf(c.r, diag.LoadOpaquePointer, c.subject, "opaque pointers are bound as pointers to i8")
			return types.MakePointer(types.MakeInt(8)), nil
		}
		elem, err := c.convert(tt.ElemType)
		if err != nil {
			return nil, err
		}
		return types.MakePointer(elem), nil
	case *lltypes.ArrayType:
		elem, err := c.convert(tt.ElemType)
		if err != nil {
			return nil, err
		}
		return types.MakeArray(elem, tt.Len), nil
	case *lltypes.VectorType:
		elem, err := c.convert(tt.ElemType)
		if err != nil {
			return nil, err
		}
		return &types.Vector{Elem: elem, Len: tt.Len, Scalable: tt.Scalable}, nil
	case *lltypes.StructType:
		return c.structType(tt)
	case *lltypes.FuncType:
		result, err := c.convert(tt.RetType)
		if err != nil {
			return nil, err
		}
		fn := &types.Func{Result: result, Variadic: tt.Variadic}
		for _, p := range tt.Params {
			pt, err := c.convert(p)
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, pt)
		}
		return fn, nil
	}
	// float, x86_mmx, label, token, metadata and friends are spelled the
	// same way as their scalar classes.
	class, err := types.ParseClass(t.LLString())
	if err != nil {
		return nil, fmt.Errorf("unsupported LLVM type %s", t.LLString())
	}
	return types.MakeScalar(class), nil
}
