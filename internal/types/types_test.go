package types

import "testing"

func TestTypeStrings(t *testing.T) {
	i8 := MakeInt(8)
	node := MakeNamed("struct.node")
	node.Fields = []Type{i8, MakePointer(node)}

	cases := []struct {
		name string
		typ  Type
		want string
	}{
		{"void", Void{}, "void"},
		{"int", MakeInt(32), "i32"},
		{"double", MakeScalar(ClassDouble), "double"},
		{"pointer", MakePointer(i8), "i8*"},
		{"array", MakeArray(i8, 4), "[4 x i8]"},
		{"flexible", MakeArray(i8, DynamicLength), "[? x i8]"},
		{"literal", MakeLiteral(i8, MakePointer(i8)), "{ i8, i8* }"},
		{"named cycle", node, "%struct.node"},
		{"vector", &Vector{Elem: i8, Len: 16}, "<16 x i8>"},
		{"func", &Func{Result: Void{}, Params: []Type{i8}, Variadic: true}, "void (i8, ...)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.typ.String(); got != tc.want {
				t.Fatalf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseClassRoundTrip(t *testing.T) {
	for c := ClassInt; c <= ClassToken; c++ {
		got, err := ParseClass(c.String())
		if err != nil {
			t.Fatalf("ParseClass(%q): %v", c.String(), err)
		}
		if got != c {
			t.Fatalf("ParseClass(%q) = %v, want %v", c.String(), got, c)
		}
	}
	if _, err := ParseClass("quad"); err == nil {
		t.Fatalf("expected error for unknown class")
	}
	if ClassInvalid.Valid() {
		t.Fatalf("ClassInvalid must not be valid")
	}
}

func TestIsVoid(t *testing.T) {
	if !IsVoid(Void{}) || !IsVoid(nil) {
		t.Fatalf("void and nil must be void")
	}
	if IsVoid(MakeInt(1)) {
		t.Fatalf("i1 is not void")
	}
}
