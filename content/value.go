package content

import (
	"strconv"

	"github.com/staghorn/staghorn/encode"
)

// Typed values implementing the Content protocol.  The zero None value
// stands in for absent or nil data.
type (
	None  struct{}
	Str   string
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	List  []Content
	Map   map[string]Content
)

// None ----------

func (None) IsTruthy() bool                       { return false }
func (None) CapacityHint() int                    { return 0 }
func (None) RenderEscaped(encode.Encoder) error   { return nil }
func (None) RenderUnescaped(encode.Encoder) error { return nil }
func (None) RenderSection(Section, encode.Encoder) error { return nil }
func (None) RenderInverse(s Section, e encode.Encoder) error {
	return s.Render(e)
}
func (None) RenderFieldEscaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (None) RenderFieldUnescaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (None) RenderFieldSection(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (None) RenderFieldInverse(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (None) RenderFieldNotNone(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}

// Str ----------

func (v Str) IsTruthy() bool    { return v != "" }
func (v Str) CapacityHint() int { return len(v) }
func (v Str) RenderEscaped(e encode.Encoder) error {
	return e.WriteEscaped(string(v))
}
func (v Str) RenderUnescaped(e encode.Encoder) error {
	return e.WriteUnescaped(string(v))
}

// RenderSection renders the body once for a non-empty string, preserving
// the enclosing context.
func (v Str) RenderSection(s Section, e encode.Encoder) error {
	if v.IsTruthy() {
		return s.Render(e)
	}
	return nil
}
func (v Str) RenderInverse(s Section, e encode.Encoder) error {
	if !v.IsTruthy() {
		return s.Render(e)
	}
	return nil
}
func (Str) RenderFieldEscaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Str) RenderFieldUnescaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Str) RenderFieldSection(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Str) RenderFieldInverse(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Str) RenderFieldNotNone(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}

// Bool ----------

func (v Bool) IsTruthy() bool    { return bool(v) }
func (v Bool) CapacityHint() int { return 5 }
func (v Bool) RenderEscaped(e encode.Encoder) error {
	// Nothing to escape here.
	return e.WriteUnescaped(strconv.FormatBool(bool(v)))
}
func (v Bool) RenderUnescaped(e encode.Encoder) error {
	return v.RenderEscaped(e)
}
func (v Bool) RenderSection(s Section, e encode.Encoder) error {
	if v {
		return s.Render(e)
	}
	return nil
}
func (v Bool) RenderInverse(s Section, e encode.Encoder) error {
	if !v {
		return s.Render(e)
	}
	return nil
}
func (Bool) RenderFieldEscaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Bool) RenderFieldUnescaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Bool) RenderFieldSection(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Bool) RenderFieldInverse(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Bool) RenderFieldNotNone(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}

// Int ----------

func (v Int) IsTruthy() bool    { return v != 0 }
func (v Int) CapacityHint() int { return 8 }
func (v Int) RenderEscaped(e encode.Encoder) error {
	return e.WriteUnescaped(strconv.FormatInt(int64(v), 10))
}
func (v Int) RenderUnescaped(e encode.Encoder) error {
	return v.RenderEscaped(e)
}
func (v Int) RenderSection(s Section, e encode.Encoder) error {
	if v != 0 {
		return s.Render(e)
	}
	return nil
}
func (v Int) RenderInverse(s Section, e encode.Encoder) error {
	if v == 0 {
		return s.Render(e)
	}
	return nil
}
func (Int) RenderFieldEscaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Int) RenderFieldUnescaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Int) RenderFieldSection(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Int) RenderFieldInverse(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Int) RenderFieldNotNone(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}

// Uint ----------

func (v Uint) IsTruthy() bool    { return v != 0 }
func (v Uint) CapacityHint() int { return 8 }
func (v Uint) RenderEscaped(e encode.Encoder) error {
	return e.WriteUnescaped(strconv.FormatUint(uint64(v), 10))
}
func (v Uint) RenderUnescaped(e encode.Encoder) error {
	return v.RenderEscaped(e)
}
func (v Uint) RenderSection(s Section, e encode.Encoder) error {
	if v != 0 {
		return s.Render(e)
	}
	return nil
}
func (v Uint) RenderInverse(s Section, e encode.Encoder) error {
	if v == 0 {
		return s.Render(e)
	}
	return nil
}
func (Uint) RenderFieldEscaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Uint) RenderFieldUnescaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Uint) RenderFieldSection(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Uint) RenderFieldInverse(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Uint) RenderFieldNotNone(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}

// Float ----------

func (v Float) IsTruthy() bool    { return v != 0 }
func (v Float) CapacityHint() int { return 8 }
func (v Float) RenderEscaped(e encode.Encoder) error {
	return e.WriteUnescaped(strconv.FormatFloat(float64(v), 'g', -1, 64))
}
func (v Float) RenderUnescaped(e encode.Encoder) error {
	return v.RenderEscaped(e)
}
func (v Float) RenderSection(s Section, e encode.Encoder) error {
	if v != 0 {
		return s.Render(e)
	}
	return nil
}
func (v Float) RenderInverse(s Section, e encode.Encoder) error {
	if v == 0 {
		return s.Render(e)
	}
	return nil
}
func (Float) RenderFieldEscaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Float) RenderFieldUnescaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Float) RenderFieldSection(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Float) RenderFieldInverse(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Float) RenderFieldNotNone(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}

// List ----------

func (v List) IsTruthy() bool { return len(v) > 0 }
func (v List) CapacityHint() int {
	var n int
	for _, item := range v {
		n += item.CapacityHint()
	}
	return n
}
func (List) RenderEscaped(encode.Encoder) error   { return nil }
func (List) RenderUnescaped(encode.Encoder) error { return nil }

// RenderSection renders the body for each element in turn.  A truthy element
// renders through its own RenderSection (records and maps become the new
// current context, scalars keep the enclosing one); a falsy element still
// renders the body once, against the enclosing context.
func (v List) RenderSection(s Section, e encode.Encoder) error {
	for _, item := range v {
		var err error
		if item.IsTruthy() {
			err = item.RenderSection(s, e)
		} else {
			err = s.Render(e)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
func (v List) RenderInverse(s Section, e encode.Encoder) error {
	if len(v) == 0 {
		return s.Render(e)
	}
	return nil
}
func (List) RenderFieldEscaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (List) RenderFieldUnescaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (List) RenderFieldSection(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (List) RenderFieldInverse(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (List) RenderFieldNotNone(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}

// Map ----------

func (v Map) IsTruthy() bool { return len(v) > 0 }
func (v Map) CapacityHint() int {
	var n int
	for _, item := range v {
		n += item.CapacityHint()
	}
	return n
}
func (Map) RenderEscaped(encode.Encoder) error   { return nil }
func (Map) RenderUnescaped(encode.Encoder) error { return nil }
func (v Map) RenderSection(s Section, e encode.Encoder) error {
	if len(v) > 0 {
		return s.With(v).Render(e)
	}
	return nil
}
func (v Map) RenderInverse(s Section, e encode.Encoder) error {
	if len(v) == 0 {
		return s.Render(e)
	}
	return nil
}

func (v Map) RenderFieldEscaped(hash uint64, name string, e encode.Encoder) (bool, error) {
	head, rest, dotted := splitPath(name)
	f, ok := v[head]
	if !ok {
		return false, nil
	}
	if dotted {
		return f.RenderFieldEscaped(rehash(rest), rest, e)
	}
	return true, f.RenderEscaped(e)
}

func (v Map) RenderFieldUnescaped(hash uint64, name string, e encode.Encoder) (bool, error) {
	head, rest, dotted := splitPath(name)
	f, ok := v[head]
	if !ok {
		return false, nil
	}
	if dotted {
		return f.RenderFieldUnescaped(rehash(rest), rest, e)
	}
	return true, f.RenderUnescaped(e)
}

func (v Map) RenderFieldSection(hash uint64, name string, s Section, e encode.Encoder) (bool, error) {
	head, rest, dotted := splitPath(name)
	f, ok := v[head]
	if !ok {
		return false, nil
	}
	if dotted {
		return f.RenderFieldSection(rehash(rest), rest, s, e)
	}
	return true, f.RenderSection(s, e)
}

func (v Map) RenderFieldInverse(hash uint64, name string, s Section, e encode.Encoder) (bool, error) {
	head, rest, dotted := splitPath(name)
	f, ok := v[head]
	if !ok {
		return false, nil
	}
	if dotted {
		return f.RenderFieldInverse(rehash(rest), rest, s, e)
	}
	return true, f.RenderInverse(s, e)
}

func (v Map) RenderFieldNotNone(hash uint64, name string, s Section, e encode.Encoder) (bool, error) {
	head, rest, dotted := splitPath(name)
	f, ok := v[head]
	if !ok {
		return false, nil
	}
	if dotted {
		return f.RenderFieldNotNone(rehash(rest), rest, s, e)
	}
	if _, none := f.(None); none {
		return true, nil
	}
	return true, s.With(f).Render(e)
}
