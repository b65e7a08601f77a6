package diag

// Note adds context to a diagnostic.
type Note struct {
	Subject string
	Msg     string
}

// Diagnostic is one finding. Subject names what it is about: an input
// path, optionally followed by the module entity ("lib.ll: function foo").
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Subject  string
	Notes    []Note
}
