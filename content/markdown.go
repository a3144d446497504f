package content

import (
	"bytes"

	"github.com/yuin/goldmark"

	"github.com/staghorn/staghorn/encode"
)

// Markdown is a string rendered as CommonMark: interpolating it writes the
// converted HTML to the sink raw, so `{{body}}` over a Markdown field emits
// markup rather than escaped source text.
type Markdown string

func (v Markdown) IsTruthy() bool { return v != "" }

// The converted HTML is usually somewhat larger than the source.
func (v Markdown) CapacityHint() int { return len(v) + len(v)/4 }

func (v Markdown) RenderEscaped(e encode.Encoder) error {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(v), &buf); err != nil {
		return err
	}
	return e.WriteUnescaped(buf.String())
}

func (v Markdown) RenderUnescaped(e encode.Encoder) error {
	return v.RenderEscaped(e)
}

func (v Markdown) RenderSection(s Section, e encode.Encoder) error {
	if v != "" {
		return s.Render(e)
	}
	return nil
}

func (v Markdown) RenderInverse(s Section, e encode.Encoder) error {
	if v == "" {
		return s.Render(e)
	}
	return nil
}

func (Markdown) RenderFieldEscaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Markdown) RenderFieldUnescaped(uint64, string, encode.Encoder) (bool, error) {
	return false, nil
}
func (Markdown) RenderFieldSection(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Markdown) RenderFieldInverse(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
func (Markdown) RenderFieldNotNone(uint64, string, Section, encode.Encoder) (bool, error) {
	return false, nil
}
