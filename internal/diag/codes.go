package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// loading
	LoadInfo          Code = 1000
	LoadUnreadable    Code = 1001
	LoadMalformed     Code = 1002
	LoadUnknownFormat Code = 1003
	LoadBitcode       Code = 1004
	LoadOpaquePointer Code = 1005
	LoadSchema        Code = 1006
	LoadBadTypeRef    Code = 1007

	// type translation
	TypeInfo        Code = 2000
	TypeUnsupported Code = 2001

	// output
	OutInfo      Code = 3000
	OutCreate    Code = 3001
	OutWrite     Code = 3002
	OutConfig    Code = 3003
	OutCollision Code = 3004
)

var codeDescription = map[Code]string{
	UnknownCode:       "Unknown error",
	LoadInfo:          "Load information",
	LoadUnreadable:    "Input file cannot be read",
	LoadMalformed:     "Malformed input module",
	LoadUnknownFormat: "Unknown input format",
	LoadBitcode:       "Bitcode containers are not read directly",
	LoadOpaquePointer: "Opaque pointer has no element type",
	LoadSchema:        "Unsupported module dump schema",
	LoadBadTypeRef:    "Type reference out of range",
	TypeInfo:          "Type information",
	TypeUnsupported:   "Type has no Ada spelling",
	OutInfo:           "Output information",
	OutCreate:         "Output file cannot be created",
	OutWrite:          "Output file cannot be written",
	OutConfig:         "Invalid configuration",
	OutCollision:      "Two inputs map to the same output",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LDR%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("OUT%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
