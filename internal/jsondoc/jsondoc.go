// Package jsondoc parses JSON documents the tool patches but does not own,
// and writes them back with every object's keys in the order they were read.
package jsondoc

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

var leafOptions = ojg.Options{HTMLUnsafe: true}

// Order maps an object's path (see Child) to its keys as they appeared in
// the source document. The root object has the path "".
type Order map[string][]string

// Child returns the path of key (or array index) under parent. Segments
// are escaped like JSON pointers, so keys containing '/' stay distinct.
func Child(parent, key string) string {
	key = strings.ReplaceAll(key, "~", "~0")
	key = strings.ReplaceAll(key, "/", "~1")
	return parent + "/" + key
}

// Parse decodes data into plain Go values and records its key order.
func Parse(data []byte) (any, Order, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	order, err := RecordOrder(data)
	if err != nil {
		return nil, nil, err
	}
	return v, order, nil
}

// RecordOrder tokenizes data and returns the key order of every object.
func RecordOrder(data []byte) (Order, error) {
	r := &recorder{order: Order{}}
	if err := oj.Tokenize(data, r); err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	return r.order, nil
}

type frame struct {
	path  string
	array bool
	key   string
	index int
}

// recorder is an oj.TokenHandler that tracks the current path.
type recorder struct {
	order Order
	stack []frame
}

func (r *recorder) childPath() string {
	if len(r.stack) == 0 {
		return ""
	}
	top := r.stack[len(r.stack)-1]
	if top.array {
		return Child(top.path, strconv.Itoa(top.index))
	}
	return Child(top.path, top.key)
}

// scalar advances the index of an enclosing array.
func (r *recorder) scalar() {
	if n := len(r.stack); n > 0 && r.stack[n-1].array {
		r.stack[n-1].index++
	}
}

func (r *recorder) pop() {
	r.stack = r.stack[:len(r.stack)-1]
	r.scalar()
}

func (r *recorder) Null() { r.scalar() }
func (r *recorder) Bool(bool) { r.scalar() }
func (r *recorder) Int(int64) { r.scalar() }
func (r *recorder) Float(float64) { r.scalar() }
func (r *recorder) Number(string) { r.scalar() }
func (r *recorder) String(string) { r.scalar() }
func (r *recorder) ObjectEnd() { r.pop() }
func (r *recorder) ArrayEnd() { r.pop() }
func (r *recorder) ArrayStart() {
	r.stack = append(r.stack, frame{path: r.childPath(), array: true})
}

func (r *recorder) ObjectStart() {
	p := r.childPath()
	r.order[p] = []string{}
	r.stack = append(r.stack, frame{path: p})
}

func (r *recorder) Key(k string) {
	top := &r.stack[len(r.stack)-1]
	top.key = k
	if !slices.Contains(r.order[top.path], k) {
		r.order[top.path] = append(r.order[top.path], k)
	}
}

// Marshal renders v with two-space indentation and a trailing newline.
// Object keys follow order; keys missing from it come last, sorted.
func Marshal(v any, order Order) []byte {
	w := &writer{order: order}
	w.value(v, "", 0)
	w.buf.WriteByte('\n')
	return w.buf.Bytes()
}

type writer struct {
	buf   bytes.Buffer
	order Order
}

func (w *writer) value(v any, path string, depth int) {
	switch tv := v.(type) {
	case map[string]any:
		w.object(tv, path, depth)
	case map[string]string:
		m := make(map[string]any, len(tv))
		for k, s := range tv {
			m[k] = s
		}
		w.object(m, path, depth)
	case []any:
		w.array(tv, path, depth)
	case []map[string]any:
		a := make([]any, len(tv))
		for i, m := range tv {
			a[i] = m
		}
		w.array(a, path, depth)
	case []string:
		a := make([]any, len(tv))
		for i, s := range tv {
			a[i] = s
		}
		w.array(a, path, depth)
	default:
		w.buf.WriteString(oj.JSON(v, &leafOptions))
	}
}

func (w *writer) keys(m map[string]any, path string) []string {
	keys := make([]string, 0, len(m))
	for _, k := range w.order[path] {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
		}
	}
	var rest []string
	for k := range m {
		if !slices.Contains(keys, k) {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(keys, rest...)
}

func (w *writer) object(m map[string]any, path string, depth int) {
	if len(m) == 0 {
		w.buf.WriteString("{}")
		return
	}
	w.buf.WriteByte('{')
	for i, k := range w.keys(m, path) {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.newline(depth + 1)
		w.buf.WriteString(oj.JSON(k, &leafOptions))
		w.buf.WriteString(": ")
		w.value(m[k], Child(path, k), depth+1)
	}
	w.newline(depth)
	w.buf.WriteByte('}')
}

func (w *writer) array(a []any, path string, depth int) {
	if len(a) == 0 {
		w.buf.WriteString("[]")
		return
	}
	w.buf.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			w.buf.WriteByte(',')
		}
		w.newline(depth + 1)
		w.value(v, Child(path, strconv.Itoa(i)), depth+1)
	}
	w.newline(depth)
	w.buf.WriteByte(']')
}

func (w *writer) newline(depth int) {
	w.buf.WriteByte('\n')
	w.buf.WriteString(strings.Repeat("  ", depth))
}
