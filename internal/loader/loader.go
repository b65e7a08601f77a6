// Package loader reads input files into fully materialized modules.
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"llvmads/internal/diag"
	"llvmads/internal/trace"
	"llvmads/internal/typedump"
	"llvmads/internal/types"
)

var (
	// ErrUnknownFormat is returned for inputs no loader understands.
	ErrUnknownFormat = errors.New("unknown input format")
	// ErrBitcode is returned for LLVM bitcode containers.
	ErrBitcode = errors.New("bitcode input")
)

// Format identifies an input encoding.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatLL
	FormatMsgpack
	FormatTOML
	FormatBitcode
)

func (f Format) String() string {
	switch f {
	case FormatLL:
		return "ll"
	case FormatMsgpack:
		return "msgpack"
	case FormatTOML:
		return "toml"
	case FormatBitcode:
		return "bitcode"
	default:
		return "unknown"
	}
}

var (
	bitcodeMagic        = []byte{'B', 'C', 0xC0, 0xDE}
	bitcodeWrapperMagic = []byte{0xDE, 0xC0, 0x17, 0x0B}
)

// DetectFormat picks a format from the file extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ll":
		return FormatLL
	case ".mp", ".msgpack":
		return FormatMsgpack
	case ".toml":
		return FormatTOML
	case ".bc":
		return FormatBitcode
	}
	return FormatUnknown
}

// sniff recognizes bitcode by its magic when the extension says nothing.
func sniff(path string) Format {
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown
	}
	defer f.Close()
	head := make([]byte, 4)
	if _, err := io.ReadFull(f, head); err != nil {
		return FormatUnknown
	}
	if bytes.Equal(head, bitcodeMagic) || bytes.Equal(head, bitcodeWrapperMagic) {
		return FormatBitcode
	}
	return FormatUnknown
}

// Load reads every module stored in path. Problems are reported to r as
// well as returned; the caller decides what a failure means for the run.
func Load(ctx context.Context, path string, r diag.Reporter) ([]*types.Module, error) {
	if r == nil {
		r = diag.NopReporter{}
	}
	format := DetectFormat(path)
	if format == FormatUnknown {
		format = sniff(path)
	}
	span, _ := trace.Start(ctx, trace.ScopePass, "load:"+format.String())
	mods, err := load(path, format, r)
	if err != nil {
		span.End(err.Error())
		return nil, err
	}
	span.WithExtra("modules", fmt.Sprint(len(mods))).End("")
	return mods, nil
}

func load(path string, format Format, r diag.Reporter) ([]*types.Module, error) {
	switch format {
	case FormatLL:
		m, err := loadLL(path, r)
		if err != nil {
			return nil, err
		}
		return []*types.Module{m}, nil
	case FormatMsgpack, FormatTOML:
		return loadDump(path, format, r)
	case FormatBitcode:
		diag.Errorf(r, diag.LoadBitcode, path, "bitcode is not read directly; disassemble it with `llvm-dis %s` and pass the .ll file", filepath.Base(path))
		return nil, fmt.Errorf("%s: %w", path, ErrBitcode)
	default:
		diag.Errorf(r, diag.LoadUnknownFormat, path, "unsupported input extension %q (expected .ll, .mp, .msgpack or .toml)", filepath.Ext(path))
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

func loadDump(path string, format Format, r diag.Reporter) ([]*types.Module, error) {
	f, err := os.Open(path)
	if err != nil {
		diag.Errorf(r, diag.LoadUnreadable, path, "%v", err)
		return nil, err
	}
	defer f.Close()

	var b *typedump.Bundle
	if format == FormatTOML {
		b, err = typedump.DecodeTOML(f)
	} else {
		b, err = typedump.DecodeMsgpack(f)
	}
	if err != nil {
		diag.Errorf(r, diag.LoadMalformed, path, "%v", err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	mods, err := b.ToModules()
	if err != nil {
		code := diag.LoadMalformed
		switch {
		case errors.Is(err, typedump.ErrSchema):
			code = diag.LoadSchema
		case errors.Is(err, typedump.ErrBadRef):
			code = diag.LoadBadTypeRef
		}
		diag.Errorf(r, code, path, "%v", err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mods, nil
}
