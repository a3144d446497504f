package content

import (
	"fmt"
	"reflect"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/staghorn/staghorn/ast"
	"github.com/staghorn/staghorn/encode"
)

var timeType = reflect.TypeOf(time.Time{})

// New converts the given Go value into a Content, using DefaultOptions for
// any structs encountered.  Values that already implement Content are
// returned unchanged.
func New(value interface{}) Content {
	return NewWith(DefaultOptions, value)
}

// DefaultOptions converts struct field names to lowerCamel, so that a Go
// field Title is addressed as {{title}}, and formats time.Time as RFC3339.
var DefaultOptions = Options{
	LowerCamel: true,
	TimeFormat: time.RFC3339,
	TagKey:     "stag",
}

// Options controls the conversion of structs to Content.
type Options struct {
	LowerCamel bool   // if true, convert field names to lowerCamel.
	TimeFormat string // format string for time.Time values.
	TagKey     string // struct tag overriding a field's template name.
}

// NewWith converts the given Go value into a Content using the provided
// Options.  It panics on types that have no template representation
// (channels, funcs, maps with non-string keys).
func NewWith(opts Options, value interface{}) Content {
	// quick return if we're passed an existing Content
	if c, ok := value.(Content); ok {
		return c
	}
	if value == nil {
		return None{}
	}

	// drill through pointers and interfaces to the underlying type
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Interface || v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if !v.IsValid() {
		return None{}
	}

	if v.Type() == timeType {
		return Str(v.Interface().(time.Time).Format(opts.TimeFormat))
	}

	switch v.Kind() {
	case reflect.Bool:
		return Bool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Uint(v.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(v.Float())
	case reflect.String:
		return Str(v.String())
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return None{}
		}
		list := make(List, v.Len())
		for i := 0; i < v.Len(); i++ {
			list[i] = NewWith(opts, v.Index(i).Interface())
		}
		return list
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			panic("content: map keys must be strings")
		}
		m := make(Map, v.Len())
		for _, key := range v.MapKeys() {
			m[key.String()] = NewWith(opts, v.MapIndex(key).Interface())
		}
		return m
	case reflect.Struct:
		return record{val: v, typ: tableFor(v.Type(), opts), opts: opts}
	default:
		panic(fmt.Errorf("content: unexpected data type: %T (%v)", value, value))
	}
}

// Struct field tables ---------------------------------------------------------

// field is one dispatchable struct field.
type field struct {
	hash  uint64 // FNV-1a of the template-visible name
	name  string // template-visible name
	index int    // field index within the struct
}

// table holds the field dispatch for one struct type, built once and cached.
type table struct {
	fields []field
	byHash map[uint64]int
}

// field resolves a lookup: hash first, name as the collision tiebreaker.
func (t *table) field(hash uint64, name string) (field, bool) {
	if i, ok := t.byHash[hash]; ok && t.fields[i].name == name {
		return t.fields[i], true
	}
	for _, f := range t.fields {
		if f.name == name {
			return f, true
		}
	}
	return field{}, false
}

// tableKey identifies a cached table; the tag key and casing rule both
// change the template-visible names.
type tableKey struct {
	typ        reflect.Type
	lowerCamel bool
	tagKey     string
}

var tables sync.Map // tableKey -> *table

func tableFor(typ reflect.Type, opts Options) *table {
	key := tableKey{typ, opts.LowerCamel, opts.TagKey}
	if cached, ok := tables.Load(key); ok {
		return cached.(*table)
	}

	t := &table{byHash: make(map[uint64]int)}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup(opts.TagKey); ok {
			if tag == "-" {
				continue
			}
			name = tag
		} else if opts.LowerCamel {
			r, size := utf8.DecodeRuneInString(name)
			name = string(unicode.ToLower(r)) + name[size:]
		}
		f := field{hash: ast.Hash(name), name: name, index: i}
		if _, taken := t.byHash[f.hash]; !taken {
			t.byHash[f.hash] = len(t.fields)
		}
		t.fields = append(t.fields, f)
	}

	cached, _ := tables.LoadOrStore(key, t)
	return cached.(*table)
}

// record ----------------------------------------------------------------------

// record adapts a struct value to the Content protocol via its cached field
// table.  Field values are converted lazily, only when a template actually
// references them.
type record struct {
	val  reflect.Value
	typ  *table
	opts Options
}

// lookup resolves the head of a (possibly dotted) name to the converted
// field value.
func (r record) lookup(hash uint64, head string) (Content, bool) {
	f, ok := r.typ.field(hash, head)
	if !ok {
		return nil, false
	}
	return NewWith(r.opts, r.val.Field(f.index).Interface()), true
}

func (r record) IsTruthy() bool { return true }

func (r record) CapacityHint() int {
	var n int
	for _, f := range r.typ.fields {
		if fv := r.val.Field(f.index); fv.Kind() == reflect.String {
			n += fv.Len()
		}
	}
	return n
}

// Records have no canonical string form.
func (record) RenderEscaped(encode.Encoder) error   { return nil }
func (record) RenderUnescaped(encode.Encoder) error { return nil }

// RenderSection pushes the record as the new current context.
func (r record) RenderSection(s Section, e encode.Encoder) error {
	return s.With(r).Render(e)
}

func (record) RenderInverse(Section, encode.Encoder) error { return nil }

func (r record) RenderFieldEscaped(hash uint64, name string, e encode.Encoder) (bool, error) {
	head, rest, dotted := splitPath(name)
	if dotted {
		hash = rehash(head)
	}
	f, ok := r.lookup(hash, head)
	if !ok {
		return false, nil
	}
	if dotted {
		return f.RenderFieldEscaped(rehash(rest), rest, e)
	}
	return true, f.RenderEscaped(e)
}

func (r record) RenderFieldUnescaped(hash uint64, name string, e encode.Encoder) (bool, error) {
	head, rest, dotted := splitPath(name)
	if dotted {
		hash = rehash(head)
	}
	f, ok := r.lookup(hash, head)
	if !ok {
		return false, nil
	}
	if dotted {
		return f.RenderFieldUnescaped(rehash(rest), rest, e)
	}
	return true, f.RenderUnescaped(e)
}

func (r record) RenderFieldSection(hash uint64, name string, s Section, e encode.Encoder) (bool, error) {
	head, rest, dotted := splitPath(name)
	if dotted {
		hash = rehash(head)
	}
	f, ok := r.lookup(hash, head)
	if !ok {
		return false, nil
	}
	if dotted {
		return f.RenderFieldSection(rehash(rest), rest, s, e)
	}
	return true, f.RenderSection(s, e)
}

func (r record) RenderFieldInverse(hash uint64, name string, s Section, e encode.Encoder) (bool, error) {
	head, rest, dotted := splitPath(name)
	if dotted {
		hash = rehash(head)
	}
	f, ok := r.lookup(hash, head)
	if !ok {
		return false, nil
	}
	if dotted {
		return f.RenderFieldInverse(rehash(rest), rest, s, e)
	}
	return true, f.RenderInverse(s, e)
}

func (r record) RenderFieldNotNone(hash uint64, name string, s Section, e encode.Encoder) (bool, error) {
	head, rest, dotted := splitPath(name)
	if dotted {
		hash = rehash(head)
	}
	f, ok := r.lookup(hash, head)
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
