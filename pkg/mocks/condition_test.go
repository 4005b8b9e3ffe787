package mocks_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/marcaudefroy/adapter-mock/pkg/mocks"
	"github.com/stretchr/testify/assert"
)

func TestWhen_Pattern(t *testing.T) {
	cond := mocks.When(map[string]any{"key": 123})

	assert.True(t, cond.Match(map[string]any{"key": 123}))
	assert.True(t, cond.Match(map[string]any{"key": 123, "other": true}))
	assert.False(t, cond.Match(map[string]any{"key": 456}))
	assert.False(t, cond.Match(map[string]any{}))
}

func TestWhen_PropertyName(t *testing.T) {
	cond := mocks.When("yes")

	assert.True(t, cond.Match(map[string]any{"yes": true}))
	assert.False(t, cond.Match(map[string]any{"yes": false}))
	assert.False(t, cond.Match(map[string]any{"no": true}))
}

func TestWhen_PropertyTruthiness(t *testing.T) {
	cond := mocks.Has("value")

	for name, tc := range map[string]struct {
		req  map[string]any
		want bool
	}{
		"non-empty string": {map[string]any{"value": "a"}, true},
		"empty string":     {map[string]any{"value": ""}, false},
		"zero":             {map[string]any{"value": 0}, false},
		"number":           {map[string]any{"value": 2.5}, true},
		"null":             {map[string]any{"value": nil}, false},
		"empty object":     {map[string]any{"value": map[string]any{}}, true},
		"empty array":      {map[string]any{"value": []any{}}, true},
		"missing":          {map[string]any{}, false},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, cond.Match(tc.req))
		})
	}
}

func TestWhen_PropertyValuePair(t *testing.T) {
	cond := mocks.When([]any{"key", 123})

	assert.True(t, cond.Match(map[string]any{"key": 123}))
	assert.False(t, cond.Match(map[string]any{"key": 456}))
	assert.False(t, cond.Match(map[string]any{"key": "123"}))
	assert.False(t, cond.Match(map[string]any{}))

	arr := mocks.When([2]any{"method", "GET"})
	assert.True(t, arr.Match(mocks.Request{Method: "GET"}))
	assert.False(t, arr.Match(mocks.Request{Method: "POST"}))
}

func TestWhen_Func(t *testing.T) {
	hasKey := mocks.When(func(req any) bool {
		m, ok := req.(map[string]any)
		if !ok {
			return false
		}
		_, found := m["key"]
		return found
	})
	assert.True(t, hasKey.Match(map[string]any{"key": 123}))
	assert.False(t, hasKey.Match(map[string]any{}))

	isGet := mocks.When(func(r mocks.Request) bool { return r.Method == "GET" })
	assert.True(t, isGet.Match(mocks.Request{Method: "GET"}))
	assert.True(t, isGet.Match(&mocks.Request{Method: "GET"}))
	assert.False(t, isGet.Match(map[string]any{"method": "GET"}))
}

func TestWhen_ConditionPassesThrough(t *testing.T) {
	cond := mocks.Equals("path", "/items")
	assert.True(t, mocks.When(cond).Match(mocks.Request{Path: "/items"}))
	assert.True(t, mocks.When(mocks.Always()).Match(nil))
}

func TestMatches_StructPatternAndRequest(t *testing.T) {
	cond := mocks.When(mocks.Request{Method: "GET", Path: "/items"})

	assert.True(t, cond.Match(mocks.Request{Method: "GET", Path: "/items", Base: "svc"}))
	assert.True(t, cond.Match(map[string]any{"method": "GET", "path": "/items"}))
	assert.False(t, cond.Match(mocks.Request{Method: "POST", Path: "/items"}))
}

func TestMatches_NestedPartial(t *testing.T) {
	cond := mocks.Matches(map[string]any{
		"headers": map[string]any{"Accept": "application/json"},
		"body":    map[string]any{"tags": []any{"b"}},
	})

	assert.True(t, cond.Match(map[string]any{
		"headers": map[string]any{"Accept": "application/json", "X-Id": "1"},
		"body":    map[string]any{"tags": []any{"a", "b"}, "name": "n"},
	}))
	assert.False(t, cond.Match(map[string]any{
		"headers": map[string]any{"Accept": "text/html"},
		"body":    map[string]any{"tags": []any{"a", "b"}},
	}))
	assert.False(t, cond.Match(map[string]any{
		"headers": map[string]any{"Accept": "application/json"},
		"body":    map[string]any{"tags": []any{"a"}},
	}))
}

func TestMatches_EmptyPatternMatchesAnyObject(t *testing.T) {
	cond := mocks.When(map[string]any{})
	assert.True(t, cond.Match(map[string]any{}))
	assert.True(t, cond.Match(mocks.Request{Path: "/"}))
}

func TestMatches_KeysWithPathCharacters(t *testing.T) {
	cond := mocks.Matches(map[string]any{"a.b": 1})
	assert.True(t, cond.Match(map[string]any{"a.b": 1}))
	assert.False(t, cond.Match(map[string]any{"a": map[string]any{"b": 1}}))
}

func TestHas_NestedPath(t *testing.T) {
	cond := mocks.Has("headers.Authorization")
	assert.True(t, cond.Match(mocks.Request{Headers: map[string]string{"Authorization": "Bearer x"}}))
	assert.False(t, cond.Match(mocks.Request{Headers: map[string]string{}}))
}

func TestEquals_Null(t *testing.T) {
	cond := mocks.Equals("data", nil)
	assert.True(t, cond.Match(map[string]any{"data": nil}))
	assert.False(t, cond.Match(map[string]any{}))
	assert.False(t, cond.Match(map[string]any{"data": 0}))
}

func TestWhen_StringSlicePair(t *testing.T) {
	cond := mocks.When([]string{"key", "value"})
	assert.True(t, cond.Match(map[string]any{"key": "value"}))
	assert.False(t, cond.Match(map[string]any{"key": "other"}))

	arr := mocks.When([2]string{"method", "GET"})
	assert.True(t, arr.Match(mocks.Request{Method: "GET"}))

	// A longer string slice stays an array pattern.
	tags := mocks.When([]string{"a", "b", "c"})
	assert.True(t, tags.Match([]any{"c", "b", "a", "d"}))
	assert.False(t, tags.Match(map[string]any{"a": "b"}))
}

type job struct {
	Path    string   `json:"path"`
	Score   float64  `json:"score"`
	Note    string   `json:"note,omitempty"`
	Events  chan int `json:"events"`
	OnDone  func()
	Skipped string `json:"-"`
	meta
}

type meta struct {
	Owner string `json:"owner"`
}

func TestMatches_RequestWithUnencodableValues(t *testing.T) {
	cond := mocks.Matches(map[string]any{"path": "/items"})

	assert.True(t, cond.Match(map[string]any{"path": "/items", "onDone": func() {}}))
	assert.True(t, cond.Match(map[string]any{"path": "/items", "score": math.NaN()}))
	assert.True(t, cond.Match(map[string]any{"path": "/items", "nested": map[string]any{"ch": make(chan int)}}))
	assert.False(t, cond.Match(map[string]any{"path": "/other", "onDone": func() {}}))

	req := job{Path: "/items", Score: math.Inf(1), Events: make(chan int), OnDone: func() {}, Skipped: "x", meta: meta{Owner: "ops"}}
	assert.True(t, cond.Match(req))
	assert.True(t, cond.Match(&req))
	assert.True(t, mocks.Equals("owner", "ops").Match(req))
	assert.False(t, mocks.Has("Skipped").Match(req))
	assert.False(t, mocks.Has("note").Match(req))
	assert.False(t, mocks.Has("score").Match(req))

	assert.True(t, mocks.Has("path").Match(map[string]any{"path": "/items", "score": math.NaN()}))
	assert.False(t, mocks.Has("score").Match(map[string]any{"score": math.NaN()}))
}

func TestMatches_LargeIntegers(t *testing.T) {
	cond := mocks.When(map[string]any{"id": int64(9007199254740993)})
	assert.True(t, cond.Match(map[string]any{"id": int64(9007199254740993)}))
	assert.False(t, cond.Match(map[string]any{"id": int64(9007199254740992)}))

	huge := mocks.Equals("id", uint64(math.MaxUint64))
	assert.True(t, huge.Match(map[string]any{"id": uint64(math.MaxUint64)}))
	assert.False(t, huge.Match(map[string]any{"id": uint64(math.MaxUint64 - 1)}))

	one := mocks.Equals("n", 1)
	assert.True(t, one.Match(json.RawMessage(`{"n": 1.0}`)))
	assert.True(t, one.Match(json.RawMessage(`{"n": 1e0}`)))
	assert.False(t, one.Match(json.RawMessage(`{"n": 1.5}`)))
}

func TestHas_PathCharactersAreLiteral(t *testing.T) {
	assert.False(t, mocks.Has("a*").Match(map[string]any{"abc": true}))
	assert.True(t, mocks.Has("a*").Match(map[string]any{"a*": true}))
	assert.False(t, mocks.Has("a?c").Match(map[string]any{"abc": true}))

	assert.False(t, mocks.Has("items.#").Match(map[string]any{"items": []any{1}}))
	assert.True(t, mocks.Has("items.0").Match(map[string]any{"items": []any{1}}))

	assert.True(t, mocks.Equals("a|b", 1).Match(map[string]any{"a|b": 1}))
	assert.False(t, mocks.Equals("a|b", 1).Match(map[string]any{"a": 1}))
	assert.False(t, mocks.Has("@this").Match(map[string]any{"x": 1}))
	assert.True(t, mocks.Equals("headers.X-Id", "7").Match(mocks.Request{Headers: map[string]string{"X-Id": "7"}}))
}
