package diag

import (
	"sort"
)

type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	if max <= 0 || max > 0xFFFF {
		max = 0xFFFF
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   uint16(max),
	}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
// Errors are always kept so a full bag cannot hide a failure.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) && !d.Severity.Fails() {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// HasErrors возвращает true, если хотя бы одна диагностика проваливает вход
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity.Fails() {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic is at least a warning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns the diagnostics. The slice aliases the bag; do not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends the diagnostics of other, growing max when needed.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	newTotal := len(b.items) + len(other.items)
	if newTotal > int(b.max) {
		b.max = uint16(min(newTotal, 0xFFFF))
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by subject, severity (desc) and code for
// deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Subject != dj.Subject {
			return di.Subject < dj.Subject
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
