package diagfmt

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	ShowNotes bool
	// Prog prefixes every line, as in "llvm-ads: error: ...". Empty omits it.
	Prog string
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max          int // обрезка вывода, не Bag
	IncludeNotes bool
}
