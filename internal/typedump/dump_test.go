package typedump

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"llvmads/internal/types"
)

func linkedListModule() *types.Module {
	i32 := types.MakeInt(32)
	node := types.MakeNamed("struct.node")
	node.Fields = []types.Type{i32, types.MakePointer(node), types.MakeArray(types.MakeInt(8), types.DynamicLength)}
	file := types.MakeOpaque("struct.FILE")
	return &types.Module{
		SourceFileName: "list.c",
		Structs:        []*types.Struct{node, file},
		Globals:        []*types.Global{{Name: "head", Type: types.MakePointer(node)}},
		Functions: []*types.Function{
			{Name: "push", Result: types.Void{}, Params: []types.Param{{Name: "n", Type: types.MakePointer(node)}, {Type: i32}}},
			{Name: "len", Result: i32, Params: []types.Param{{Type: types.MakePointer(node)}}},
			{Name: "log", Result: types.Void{}, Params: []types.Param{{Type: types.MakePointer(file)}}},
		},
	}
}

func TestMsgpackRoundTripKeepsIdentity(t *testing.T) {
	b, err := FromModules([]*types.Module{linkedListModule()})
	if err != nil {
		t.Fatalf("FromModules: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeMsgpack(&buf, b); err != nil {
		t.Fatalf("EncodeMsgpack: %v", err)
	}
	decoded, err := DecodeMsgpack(&buf)
	if err != nil {
		t.Fatalf("DecodeMsgpack: %v", err)
	}
	mods, err := decoded.ToModules()
	if err != nil {
		t.Fatalf("ToModules: %v", err)
	}
	if len(mods) != 1 {
		t.Fatalf("expected 1 module, got %d", len(mods))
	}
	m := mods[0]
	if m.SourceFileName != "list.c" {
		t.Fatalf("source = %q", m.SourceFileName)
	}
	if len(m.Structs) != 2 || m.Structs[0].Name != "struct.node" || !m.Structs[1].Opaque {
		t.Fatalf("unexpected structs: %+v", m.Structs)
	}
	node := m.Structs[0]
	self, ok := node.Fields[1].(*types.Pointer)
	if !ok || self.Elem != node {
		t.Fatalf("self pointer must point at the same struct")
	}
	flex, ok := node.Fields[2].(*types.Array)
	if !ok || flex.HasLen() {
		t.Fatalf("flexible array must keep its unknown length")
	}
	push := m.Functions[0]
	if push.Params[0].Name != "n" || push.Params[1].Name != "" {
		t.Fatalf("param names not preserved: %+v", push.Params)
	}
	if arg := push.Params[0].Type.(*types.Pointer); arg.Elem != node {
		t.Fatalf("function params must share the struct node")
	}
	if !types.IsVoid(push.Result) {
		t.Fatalf("push must return void")
	}
	if got := m.Functions[1].Result.String(); got != "i32" {
		t.Fatalf("len result = %s", got)
	}
	if m.Globals[0].Name != "head" {
		t.Fatalf("global name = %q", m.Globals[0].Name)
	}
}

func TestInternDeduplicatesScalars(t *testing.T) {
	m := &types.Module{Functions: []*types.Function{{
		Name:   "f",
		Result: types.MakeInt(32),
		Params: []types.Param{{Type: types.MakeInt(32)}, {Type: types.MakeInt(32)}},
	}}}
	wm, err := FromModule(m)
	if err != nil {
		t.Fatalf("FromModule: %v", err)
	}
	if len(wm.Types) != 1 {
		t.Fatalf("expected one interned i32, got %d entries", len(wm.Types))
	}
}

const pointFixture = `
schema = 2

[[module]]
source = "point.c"
structs = [2]

[[module.type]]
kind = "void"

[[module.type]]
kind = "int"
width = 32

[[module.type]]
kind = "struct"
name = "Point"
fields = [1, 1]

[[module.type]]
kind = "ptr"
elem = 2

[[module.function]]
name = "add"
result = 1
params = [{ type = 1 }, { type = 1 }]

[[module.function]]
name = "move"
result = 0
params = [{ name = "p", type = 3 }]
`

func TestDecodeTOMLFixture(t *testing.T) {
	b, err := DecodeTOML(strings.NewReader(pointFixture))
	if err != nil {
		t.Fatalf("DecodeTOML: %v", err)
	}
	mods, err := b.ToModules()
	if err != nil {
		t.Fatalf("ToModules: %v", err)
	}
	m := mods[0]
	if len(m.Functions) != 2 || m.Functions[0].Name != "add" {
		t.Fatalf("unexpected functions: %+v", m.Functions)
	}
	ptr := m.Functions[1].Params[0].Type.(*types.Pointer)
	if ptr.Elem != m.Structs[0] {
		t.Fatalf("pointer must target the declared struct")
	}
	if got := m.Structs[0].String(); got != "%Point" {
		t.Fatalf("struct = %s", got)
	}
}

func TestDecodeTOMLRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeTOML(strings.NewReader("schema = 2\nbogus = true\n"))
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
	if _, err := DecodeTOML(strings.NewReader("[[module]]\n")); err == nil {
		t.Fatalf("expected missing schema error")
	}
}

func TestToModuleValidation(t *testing.T) {
	i32 := TypeEntry{Kind: KindInt, Width: 32}
	cases := []struct {
		name string
		mod  Module
		want error
	}{
		{
			"bad elem",
			Module{Types: []TypeEntry{{Kind: KindPointer, Elem: 4}}},
			ErrBadRef,
		},
		{
			"bad function param",
			Module{Types: []TypeEntry{i32}, Functions: []Function{{Name: "f", Params: []Param{{Type: -1}}}}},
			ErrBadRef,
		},
		{
			"bad struct list",
			Module{Types: []TypeEntry{i32}, Structs: []int{3}},
			ErrBadRef,
		},
		{
			"bad body type",
			Module{Types: []TypeEntry{i32}, Functions: []Function{{Name: "f", Body: []int{1}}}},
			ErrBadRef,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ToModule(&tc.mod); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}

	loop := Module{Types: []TypeEntry{{Kind: KindPointer, Elem: 0}}}
	if _, err := ToModule(&loop); err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
	literalLoop := Module{Types: []TypeEntry{
		{Kind: KindStruct, Literal: true, Name: "x", Fields: []int{1}},
		{Kind: KindPointer, Elem: 0},
	}}
	if _, err := ToModule(&literalLoop); err == nil {
		t.Fatalf("literal structs cannot close a cycle")
	}
	badWidth := Module{Types: []TypeEntry{{Kind: KindInt, Width: -3}}}
	if _, err := ToModule(&badWidth); err == nil {
		t.Fatalf("expected width error")
	}
	notStruct := Module{Types: []TypeEntry{i32}, Structs: []int{0}}
	if _, err := ToModule(&notStruct); err == nil {
		t.Fatalf("expected non-struct error")
	}
	unknown := Module{Types: []TypeEntry{{Kind: "quad"}}}
	if _, err := ToModule(&unknown); err == nil {
		t.Fatalf("expected unknown kind error")
	}
}

func TestSchemaMismatch(t *testing.T) {
	b := &Bundle{Schema: SchemaVersion + 1}
	if _, err := b.ToModules(); !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestEncodeTOMLRoundTrip(t *testing.T) {
	b, err := FromModules([]*types.Module{linkedListModule()})
	if err != nil {
		t.Fatalf("FromModules: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeTOML(&buf, b); err != nil {
		t.Fatalf("EncodeTOML: %v", err)
	}
	again, err := DecodeTOML(&buf)
	if err != nil {
		t.Fatalf("DecodeTOML: %v\n%s", err, buf.String())
	}
	mods, err := again.ToModules()
	if err != nil {
		t.Fatalf("ToModules: %v", err)
	}
	if got := len(mods[0].Functions); got != 3 {
		t.Fatalf("functions = %d", got)
	}
}

func TestRoundTripKeepsBodyTypes(t *testing.T) {
	local := types.MakeNamed("struct.S", types.MakeInt(32))
	m := &types.Module{
		Structs: []*types.Struct{local},
		Functions: []*types.Function{{
			Name:      "f",
			Result:    types.Void{},
			BodyTypes: []types.Type{types.MakePointer(local), local},
		}},
	}
	b, err := FromModules([]*types.Module{m})
	if err != nil {
		t.Fatalf("FromModules: %v", err)
	}
	var buf bytes.Buffer
	if err := EncodeMsgpack(&buf, b); err != nil {
		t.Fatalf("EncodeMsgpack: %v", err)
	}
	decoded, err := DecodeMsgpack(&buf)
	if err != nil {
		t.Fatalf("DecodeMsgpack: %v", err)
	}
	mods, err := decoded.ToModules()
	if err != nil {
		t.Fatalf("ToModules: %v", err)
	}
	fn := mods[0].Functions[0]
	if len(fn.BodyTypes) != 2 {
		t.Fatalf("body types = %d, want 2", len(fn.BodyTypes))
	}
	ptr, ok := fn.BodyTypes[0].(*types.Pointer)
	if !ok || ptr.Elem != mods[0].Structs[0] || fn.BodyTypes[1] != mods[0].Structs[0] {
		t.Fatalf("body types must reference the declared struct by identity")
	}
}
