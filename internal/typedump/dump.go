// Package typedump defines a flat, ID-based form of modules that can be
// written to disk. Types live in a per-module table and everything else
// refers to them by index, the way an interner hands out TypeIDs; shared
// and cyclic graphs therefore round-trip without duplication.
package typedump

// SchemaVersion is bumped whenever the layout below changes.
const SchemaVersion uint16 = 2

// Kind spellings used in TypeEntry.Kind besides the scalar class names.
const (
	KindVoid    = "void"
	KindInt     = "int"
	KindPointer = "ptr"
	KindArray   = "array"
	KindStruct  = "struct"
	KindVector  = "vector"
	KindFunc    = "func"
)

// Bundle is the content of one dump file.
type Bundle struct {
	Schema  uint16   `msgpack:"schema" toml:"schema"`
	Modules []Module `msgpack:"modules" toml:"module"`
}

// Module mirrors types.Module with type references replaced by indices
// into Types.
type Module struct {
	Source    string      `msgpack:"source,omitempty" toml:"source,omitempty"`
	Types     []TypeEntry `msgpack:"types" toml:"type"`
	Structs   []int       `msgpack:"structs,omitempty" toml:"structs,omitempty"`
	Globals   []Global    `msgpack:"globals,omitempty" toml:"global,omitempty"`
	Functions []Function  `msgpack:"functions,omitempty" toml:"function,omitempty"`
}

// TypeEntry describes one type. Which fields apply depends on Kind:
// Width for "int"; Elem for "ptr", "array" and "vector"; Len for "array"
// (absent for flexible arrays) and "vector"; Name, Fields, Opaque and
// Literal for "struct"; Result, Params and Variadic for "func".
type TypeEntry struct {
	Kind     string `msgpack:"kind" toml:"kind"`
	Width    int64  `msgpack:"width,omitempty" toml:"width,omitempty"`
	Elem     int    `msgpack:"elem,omitempty" toml:"elem,omitempty"`
	Len      *int64 `msgpack:"len,omitempty" toml:"len,omitempty"`
	Scalable bool   `msgpack:"scalable,omitempty" toml:"scalable,omitempty"`
	Name     string `msgpack:"name,omitempty" toml:"name,omitempty"`
	Fields   []int  `msgpack:"fields,omitempty" toml:"fields,omitempty"`
	Opaque   bool   `msgpack:"opaque,omitempty" toml:"opaque,omitempty"`
	Literal  bool   `msgpack:"literal,omitempty" toml:"literal,omitempty"`
	Result   int    `msgpack:"result,omitempty" toml:"result,omitempty"`
	Params   []int  `msgpack:"params,omitempty" toml:"params,omitempty"`
	Variadic bool   `msgpack:"variadic,omitempty" toml:"variadic,omitempty"`
}

// Function mirrors types.Function.
type Function struct {
	Name   string  `msgpack:"name" toml:"name"`
	Result int     `msgpack:"result" toml:"result"`
	Params []Param `msgpack:"params,omitempty" toml:"params,omitempty"`
	Body   []int   `msgpack:"body,omitempty" toml:"body,omitempty"`
}

// Param mirrors types.Param.
type Param struct {
	Name string `msgpack:"name,omitempty" toml:"name,omitempty"`
	Type int    `msgpack:"type" toml:"type"`
}

// Global mirrors types.Global.
type Global struct {
	Name string `msgpack:"name" toml:"name"`
	Type int    `msgpack:"type" toml:"type"`
}
