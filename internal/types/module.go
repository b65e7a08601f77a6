package types

// Param is a function parameter. Name is empty for unnamed parameters.
type Param struct {
	Name string
	Type Type
}

// Function is a function declaration or definition of a module.
type Function struct {
	Name   string
	Params []Param
	Result Type
	// BodyTypes lists the distinct non-scalar types the function body
	// uses (allocas, GEP and load element types, operands), in
	// instruction order. Declarations leave it empty.
	BodyTypes []Type
}

// Global is a module-level variable. Type is the type of the stored value.
type Global struct {
	Name string
	Type Type
}

// Module is a fully materialized compiled unit.
type Module struct {
	SourceFileName string
	Functions      []*Function
	Globals        []*Global
	// Structs lists identified struct types in declaration order, including
	// ones that nothing references. Loaders fill it; codecs use it to keep
	// unreferenced declarations.
	Structs []*Struct
}
