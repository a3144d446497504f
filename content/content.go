// Package content defines the field-dispatch protocol the renderer reads
// user data through, a set of typed values implementing it, and a
// reflection-based adapter for arbitrary Go values.
//
// Field lookups dispatch on the precomputed 64-bit FNV-1a hash of the field
// name; the name itself is the tiebreaker for hash collisions and the
// carrier for dotted paths, which implementations split on "." and resolve
// through successive lookups.
package content

import (
	"strings"

	"github.com/staghorn/staghorn/ast"
	"github.com/staghorn/staghorn/encode"
)

// Section is a callable closure over part of a compiled template.  Content
// implementations invoke it zero or more times to render a section body.
type Section interface {
	// Render renders the section body once against the section's captured
	// context.
	Render(e encode.Encoder) error

	// With returns a section whose context has v pushed as the new current
	// value.  Record values push themselves before rendering a body;
	// scalars do not, preserving the enclosing context.
	With(v Content) Section
}

// Content is the protocol every value a template is rendered against must
// satisfy.  It is the renderer's sole means of reading user data.  The
// Render* methods write the value itself; the RenderField* methods resolve
// a field on the value and report whether it exists.
type Content interface {
	// IsTruthy reports the overall truthiness of the value: identity for
	// booleans, non-emptiness for strings and sequences, true for records
	// and non-zero numbers, false for the none value.
	IsTruthy() bool

	// CapacityHint is a best-effort estimate of the bytes this value will
	// contribute to the output, added to a template's literal hint.
	CapacityHint() int

	// RenderEscaped writes the value's canonical string form, HTML-escaped.
	RenderEscaped(e encode.Encoder) error

	// RenderUnescaped writes the value's canonical string form, raw.
	RenderUnescaped(e encode.Encoder) error

	// RenderSection renders a section body against this value: once per
	// element for sequences, once for truthy scalars and records, not at
	// all for falsy values.
	RenderSection(s Section, e encode.Encoder) error

	// RenderInverse renders the section body once when this value is falsy.
	RenderInverse(s Section, e encode.Encoder) error

	// RenderFieldEscaped resolves a field; on a hit it writes the field
	// escaped and returns true, on a miss it returns false.
	RenderFieldEscaped(hash uint64, name string, e encode.Encoder) (bool, error)

	// RenderFieldUnescaped is RenderFieldEscaped without escaping.
	RenderFieldUnescaped(hash uint64, name string, e encode.Encoder) (bool, error)

	// RenderFieldSection resolves a field and renders a section body
	// against it, per RenderSection.
	RenderFieldSection(hash uint64, name string, s Section, e encode.Encoder) (bool, error)

	// RenderFieldInverse resolves a field; when the field is falsy the body
	// renders once against the enclosing context.  A miss returns false and
	// the renderer itself renders the body as fallback.
	RenderFieldInverse(hash uint64, name string, s Section, e encode.Encoder) (bool, error)

	// RenderFieldNotNone resolves an optional field and renders the body
	// against it whenever it is present and not none, regardless of
	// truthiness.
	RenderFieldNotNone(hash uint64, name string, s Section, e encode.Encoder) (bool, error)
}

// Base provides default implementations of every Content method: a truthy
// value that renders nothing and has no fields.  Embed it in a hand-written
// record type and override the field methods with a switch on the hash.
type Base struct{}

func (Base) IsTruthy() bool                           { return true }
func (Base) CapacityHint() int                        { return 0 }
func (Base) RenderEscaped(encode.Encoder) error       { return nil }
func (Base) RenderUnescaped(encode.Encoder) error     { return nil }
func (Base) RenderSection(s Section, e encode.Encoder) error {
	return s.Render(e)
}
func (Base) RenderInverse(Section, encode.Encoder) error { return nil }
func (Base) RenderFieldEscaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Base) RenderFieldUnescaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Base) RenderFieldSection(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Base) RenderFieldInverse(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Base) RenderFieldNotNone(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}

// splitPath splits a dotted name at its first dot.
func splitPath(name string) (head, rest string, dotted bool) {
	if i := strings.IndexByte(name, '.'); i >= 0 {
		return name[:i], name[i+1:], true
	}
	return name, "", false
}

// rehash hashes a path component on the fly.  Blocks carry the hash of the
// full dotted string, so component hashes are recomputed while descending.
func rehash(name string) uint64 {
	return ast.Hash(name)
}
