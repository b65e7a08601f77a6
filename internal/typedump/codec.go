package typedump

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/vmihailenco/msgpack/v5"
)

// EncodeMsgpack writes b in the binary dump format.
func EncodeMsgpack(w io.Writer, b *Bundle) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	return nil
}

// DecodeMsgpack reads a binary dump.
func DecodeMsgpack(r io.Reader) (*Bundle, error) {
	var b Bundle
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode dump: %w", err)
	}
	return &b, nil
}

// EncodeTOML writes b in the textual dump format.
func EncodeTOML(w io.Writer, b *Bundle) error {
	if err := toml.NewEncoder(w).Encode(b); err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	return nil
}

// DecodeTOML reads a textual dump. The schema key is mandatory.
func DecodeTOML(r io.Reader) (*Bundle, error) {
	var b Bundle
	meta, err := toml.NewDecoder(r).Decode(&b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if !meta.IsDefined("schema") {
		return nil, fmt.Errorf("missing schema")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %s", undecoded[0].String())
	}
	return &b, nil
}
