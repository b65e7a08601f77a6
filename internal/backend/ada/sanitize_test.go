package ada

import "testing"

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"foo", "foo"},
		{"struct.Point", "struct_Point"},
		{"class.std::vector", "class_std__vector"},
		{"a/b-c", "a_b_c"},
		{"__libc_start", "libc_start"},
		{"._.x", "x"},
		{"in", "inn"},
		{"_in", "inn"},
		{"inn", "inn"},
		{"int", "int"},
		{"IN", "IN"},
		{"___", unnamedIdent},
		{".", unnamedIdent},
		{"", unnamedIdent},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeIdempotentAndTotal(t *testing.T) {
	inputs := []string{
		"", "_", "in", "_in", "-in", "x.y:z/w-v", "__Z3fooi", "llvm.memcpy.p0i8.p0i8.i64",
		"struct.anon", "__", "..", "::in", "a__b", "_1", "über.name",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if once == "" {
			t.Errorf("Sanitize(%q) returned empty string", in)
		}
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestQuoteDoublesQuotes(t *testing.T) {
	if got := quote(`a"b`); got != `"a""b"` {
		t.Fatalf("quote = %s", got)
	}
}
