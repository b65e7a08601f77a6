package ada

import (
	"fmt"
	"strings"

	"llvmads/internal/types"
)

// Subtype is one line of the primitive preamble: subtype Name is Target.
type Subtype struct {
	Name   string
	Target string
}

// Options controls the shape of the emitted package.
type Options struct {
	// With lists the packages named in with-clauses.
	With []string
	// Preamble establishes the scalar tokens used by the declarations.
	Preamble []Subtype
	// Provenance emits a comment naming the module's source file.
	Provenance bool
	// Globals emits imports for module-level variables.
	Globals bool
	// Exclude skips functions and globals whose linkage name starts with
	// one of these prefixes.
	Exclude []string
	// NameCacheSize bounds the memo of derived struct names.
	NameCacheSize int
}

// DefaultPreamble maps the scalar tokens onto Interfaces.C.
func DefaultPreamble() []Subtype {
	return []Subtype{
		{"i1", "Interfaces.C.c_bool"},
		{"i8", "Interfaces.C.char"},
		{"u8", "Interfaces.C.unsigned_char"},
		{"i16", "Interfaces.C.short"},
		{"u16", "Interfaces.C.unsigned_short"},
		{"i32", "Interfaces.C.int"},
		{"u32", "Interfaces.C.unsigned"},
		{"i64", "Interfaces.C.long"},
		{"u64", "Interfaces.C.unsigned_long"},
		{"double", "Interfaces.C.double"},
	}
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		With:       []string{"Interfaces.C"},
		Preamble:   DefaultPreamble(),
		Provenance: true,
	}
}

// Emitter accumulates the text of one package spec.
type Emitter struct {
	mod   *types.Module
	opts  Options
	names *Namer
	buf   strings.Builder
}

// EmitModule renders m as the Ada package spec named unit.
func EmitModule(m *types.Module, unit string, opts Options) (string, error) {
	if m == nil {
		return "", fmt.Errorf("ada: nil module")
	}
	if strings.TrimSpace(unit) == "" {
		return "", fmt.Errorf("ada: empty unit name")
	}
	e := &Emitter{
		mod:   m,
		opts:  opts,
		names: NewNamer(opts.NameCacheSize),
	}
	e.emitHeader(unit)
	if err := e.emitTypes(); err != nil {
		return "", err
	}
	if opts.Globals {
		if err := e.emitGlobals(); err != nil {
			return "", err
		}
	}
	if err := e.emitFunctions(); err != nil {
		return "", err
	}
	fmt.Fprintf(&e.buf, "end %s;", unit)
	return e.buf.String(), nil
}

func (e *Emitter) emitHeader(unit string) {
	if e.opts.Provenance && e.mod.SourceFileName != "" {
		fmt.Fprintf(&e.buf, "-- Generated from %s\n", e.mod.SourceFileName)
	}
	for _, pkg := range e.opts.With {
		fmt.Fprintf(&e.buf, "with %s;\n", pkg)
	}
	fmt.Fprintf(&e.buf, "package %s is\n", unit)
	for _, st := range e.opts.Preamble {
		fmt.Fprintf(&e.buf, "subtype %s is %s;\n", st.Name, st.Target)
	}
}

func (e *Emitter) emitTypes() error {
	for _, st := range types.NamedStructs(e.mod) {
		if err := e.emitStruct(st); err != nil {
			return fmt.Errorf("type %s: %w", st.Name, err)
		}
		e.buf.WriteString("\n")
	}
	return nil
}

func (e *Emitter) emitGlobals() error {
	e.buf.WriteString("\n-- globals\n")
	for _, g := range e.mod.Globals {
		if g == nil || g.Name == "" || e.excluded(g.Name) {
			continue
		}
		if err := e.emitGlobal(g); err != nil {
			return fmt.Errorf("global %s: %w", g.Name, err)
		}
		e.buf.WriteString("\n")
	}
	return nil
}

func (e *Emitter) emitFunctions() error {
	e.buf.WriteString("\n-- functions\n")
	for _, fn := range e.mod.Functions {
		if fn == nil || e.excluded(fn.Name) {
			continue
		}
		if err := e.emitFunction(fn); err != nil {
			return fmt.Errorf("function %s: %w", fn.Name, err)
		}
		e.buf.WriteString("\n")
	}
	return nil
}

func (e *Emitter) excluded(name string) bool {
	for _, prefix := range e.opts.Exclude {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
