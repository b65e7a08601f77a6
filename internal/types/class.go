package types

import (
	"fmt"
	"strings"
)

// Class distinguishes scalar types.
type Class uint8

const (
	ClassInvalid Class = iota
	ClassInt
	ClassHalf
	ClassBFloat
	ClassFloat
	ClassDouble
	ClassX86FP80
	ClassFP128
	ClassPPCFP128
	ClassLabel
	ClassMetadata
	ClassX86MMX
	ClassX86AMX
	ClassToken
)

var classNames = [...]string{
	ClassInvalid:  "invalid",
	ClassInt:      "int",
	ClassHalf:     "half",
	ClassBFloat:   "bfloat",
	ClassFloat:    "float",
	ClassDouble:   "double",
	ClassX86FP80:  "x86_fp80",
	ClassFP128:    "fp128",
	ClassPPCFP128: "ppc_fp128",
	ClassLabel:    "label",
	ClassMetadata: "metadata",
	ClassX86MMX:   "x86_mmx",
	ClassX86AMX:   "x86_amx",
	ClassToken:    "token",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", c)
}

// Valid reports whether c is a known class other than ClassInvalid.
func (c Class) Valid() bool {
	return c > ClassInvalid && int(c) < len(classNames)
}

// ParseClass converts the textual spelling used by String back to a Class.
func ParseClass(s string) (Class, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range classNames {
		if i == int(ClassInvalid) {
			continue
		}
		if name == s {
			return Class(i), nil
		}
	}
	return ClassInvalid, fmt.Errorf("unknown scalar class %q", s)
}
