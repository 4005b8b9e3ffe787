// Package mocks builds test-double adapters for a request/response data
// pipeline: an ordered list of rules is turned into an Adapter that answers
// each request with the response of the first rule whose condition matches.
//
//	adapter := mocks.Mock([]mocks.Rule{
//		mocks.On(mocks.Request{Path: "/items"}, mocks.Delay(20*time.Millisecond, mocks.Success(items))),
//		mocks.On([]any{"path", "/items/123"}, mocks.Success(item)),
//		mocks.On(mocks.Always(), mocks.Failure(404, nil)),
//	})
package mocks

import (
	"context"
	"sync"

	"github.com/tidwall/gjson"
)

type rule struct {
	condition Condition
	resolve   Factory
}

// Mock returns an Adapter that evaluates rules in order and resolves with the
// response of the first one whose condition matches. When nothing matches the
// Adapter returns a nil Response and a nil error.
func Mock(rules []Rule) Adapter {
	compiled := make([]rule, 0, len(rules))
	for _, r := range rules {
		compiled = append(compiled, rule{
			condition: When(r.Condition),
			resolve:   resolver(r.Response),
		})
	}

	return func(ctx context.Context, req any) (*Response, error) {
		var (
			doc       gjson.Result
			projected bool
		)
		view := func() gjson.Result {
			if !projected {
				doc = project(req)
				projected = true
			}
			return doc
		}

		for _, r := range compiled {
			if r.condition.eval(req, view) {
				return r.resolve(ctx)
			}
		}
		return nil, nil
	}
}

// resolver turns a rule response of any supported shape into a Factory.
func resolver(source any) Factory {
	switch s := source.(type) {
	case nil:
		return func(context.Context) (*Response, error) { return nil, nil }
	case Factory:
		return s
	case func(context.Context) (*Response, error):
		return s
	case func() Response:
		return func(context.Context) (*Response, error) {
			r := s()
			return &r, nil
		}
	case func() *Response:
		return func(context.Context) (*Response, error) { return s(), nil }
	case <-chan Response:
		p := &promise{source: s, done: make(chan struct{})}
		return p.await
	case chan Response:
		p := &promise{source: s, done: make(chan struct{})}
		return p.await
	case *Response:
		if s == nil {
			return resolver(nil)
		}
		return constant(*s)
	case Response:
		return constant(s)
	}
	return constant(Success(source))
}

func constant(resp Response) Factory {
	return func(context.Context) (*Response, error) {
		r := resp.clone()
		return &r, nil
	}
}

// promise settles once, on the first value received from source, and hands
// that value to every caller after.
type promise struct {
	once   sync.Once
	source <-chan Response
	done   chan struct{}
	value  *Response
}

func (p *promise) await(ctx context.Context) (*Response, error) {
	p.once.Do(func() {
		go func() {
			defer close(p.done)
			if r, ok := <-p.source; ok {
				p.value = &r
			}
		}()
	})

	select {
	case <-p.done:
		if p.value == nil {
			return nil, nil
		}
		r := p.value.clone()
		return &r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
