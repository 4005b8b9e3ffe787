package mocks

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
)

type conditionKind int

const (
	kindFunc conditionKind = iota
	kindProperty
	kindEquals
	kindPattern
)

// Condition decides whether a rule applies to a request. Property paths are
// dotted, so "headers.Accept" reaches into nested objects and "items.0" into
// arrays. Every other character of a path is taken literally.
type Condition struct {
	kind  conditionKind
	fn    func(req any) bool
	path  string
	value any
}

// Func matches when fn returns true.
func Func(fn func(req any) bool) Condition {
	return Condition{kind: kindFunc, fn: fn}
}

// Always matches every request. It is the usual last rule.
func Always() Condition {
	return Func(func(any) bool { return true })
}

// Has matches when the value at path is truthy: present and not false, 0,
// "" or null.
func Has(path string) Condition {
	return Condition{kind: kindProperty, path: escapePath(path)}
}

// Equals matches when the value at path equals value. Objects and arrays in
// value are compared partially, the way Matches does.
func Equals(path string, value any) Condition {
	return Condition{kind: kindEquals, path: escapePath(path), value: normalize(value)}
}

// Matches matches when the request contains every key and value of pattern.
// Extra keys on the request are ignored and an empty pattern matches any
// object.
func Matches(pattern any) Condition {
	return Condition{kind: kindPattern, value: normalize(pattern)}
}

// When turns a rule condition of any supported shape into a Condition.
func When(condition any) Condition {
	switch c := condition.(type) {
	case Condition:
		return c
	case func(any) bool:
		return Func(c)
	case func(Request) bool:
		return Func(func(req any) bool {
			r, ok := asRequest(req)
			return ok && c(r)
		})
	case string:
		return Has(c)
	case nil:
		return Func(func(req any) bool { return req != nil })
	}
	if path, value, ok := pair(condition); ok {
		return Equals(path, value)
	}
	return Matches(condition)
}

// pair unpacks a two-element slice or array whose first element is a
// string, such as []any{"path", "/items"} or []string{"method", "GET"}.
func pair(condition any) (string, any, bool) {
	v := reflect.ValueOf(condition)
	if (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || v.Len() != 2 {
		return "", nil, false
	}
	head := v.Index(0)
	if head.Kind() == reflect.Interface {
		head = head.Elem()
	}
	if head.Kind() != reflect.String {
		return "", nil, false
	}
	return head.String(), v.Index(1).Interface(), true
}

func escapePath(path string) string {
	parts := strings.Split(path, ".")
	for i, part := range parts {
		parts[i] = gjson.Escape(part)
	}
	return strings.Join(parts, ".")
}

// Match reports whether req satisfies c.
func (c Condition) Match(req any) bool {
	return c.eval(req, func() gjson.Result { return project(req) })
}

func (c Condition) eval(req any, doc func() gjson.Result) bool {
	switch c.kind {
	case kindFunc:
		return c.fn != nil && c.fn(req)
	case kindProperty:
		return truthy(doc().Get(c.path))
	case kindEquals:
		v := doc().Get(c.path)
		return v.Exists() && matchValue(v, c.value)
	case kindPattern:
		return matchValue(doc(), c.value)
	}
	return false
}

func asRequest(req any) (Request, bool) {
	switch r := req.(type) {
	case Request:
		return r, true
	case *Request:
		if r != nil {
			return *r, true
		}
	}
	return Request{}, false
}

// project returns the JSON view of a request that property conditions and
// patterns are evaluated against.
func project(req any) gjson.Result {
	switch r := req.(type) {
	case gjson.Result:
		return r
	case json.RawMessage:
		return gjson.ParseBytes(r)
	}
	return gjson.ParseBytes(encode(req))
}

func truthy(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	}
	return true
}

// matchValue is a partial deep comparison: objects match when every key of
// want matches, arrays when every element of want matches some element of
// got.
func matchValue(got gjson.Result, want any) bool {
	switch w := want.(type) {
	case map[string]any:
		if !got.IsObject() {
			return false
		}
		for k, v := range w {
			child := got.Get(gjson.Escape(k))
			if !child.Exists() || !matchValue(child, v) {
				return false
			}
		}
		return true
	case []any:
		if !got.IsArray() {
			return false
		}
		items := got.Array()
		if len(items) < len(w) {
			return false
		}
		for _, v := range w {
			found := false
			for _, item := range items {
				if matchValue(item, v) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case nil:
		return got.Type == gjson.Null
	case bool:
		return (w && got.Type == gjson.True) || (!w && got.Type == gjson.False)
	case json.Number:
		return got.Type == gjson.Number && sameNumber(got.Raw, w.String())
	case string:
		return got.Type == gjson.String && got.Str == w
	}
	return false
}
