package ada

import (
	"fmt"

	"llvmads/internal/types"
)

const importDirective = " with Import, External_Name => "

func (e *Emitter) emitFunction(fn *types.Function) error {
	void := types.IsVoid(fn.Result)
	if void {
		e.buf.WriteString("procedure ")
	} else {
		e.buf.WriteString("function ")
	}
	e.buf.WriteString(Sanitize(fn.Name))

	if len(fn.Params) > 0 {
		e.buf.WriteString(" (")
		for i, p := range fn.Params {
			if i > 0 {
				e.buf.WriteString("; ")
			}
			ref, err := e.names.Ref(p.Type)
			if err != nil {
				return fmt.Errorf("param %d: %w", i, err)
			}
			fmt.Fprintf(&e.buf, "%s : %s", paramName(p, i), ref)
		}
		e.buf.WriteString(")")
	}

	if !void {
		ret, err := e.names.Name(fn.Result)
		if err != nil {
			return fmt.Errorf("result: %w", err)
		}
		e.buf.WriteString(" return " + ret)
	}

	e.buf.WriteString(importDirective + quote(fn.Name) + ";")
	return nil
}

func paramName(p types.Param, index int) string {
	if p.Name != "" {
		return Sanitize(p.Name)
	}
	return fmt.Sprintf("a%d", index)
}

func (e *Emitter) emitGlobal(g *types.Global) error {
	ref, err := e.names.Ref(g.Type)
	if err != nil {
		return err
	}
	fmt.Fprintf(&e.buf, "%s : %s%s%s;", Sanitize(g.Name), ref, importDirective, quote(g.Name))
	return nil
}
