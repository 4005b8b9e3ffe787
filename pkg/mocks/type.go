package mocks

import "context"

// Message is a single entry of Meta.Messages.
type Message struct {
	Code     string `json:"code"`
	Severity string `json:"severity,omitempty"`
	Data     []any  `json:"data,omitempty"`
}

// Meta carries the transport-level details of a Response.
type Meta struct {
	Headers  map[string]string `json:"headers"`
	Messages []Message         `json:"messages"`
	Error    bool              `json:"error"`
	Cached   bool              `json:"cached"`
	Timeout  bool              `json:"timeout"`
}

// Response is the envelope resolved by every Adapter, mocked or real.
type Response struct {
	Meta       Meta   `json:"meta"`
	Data       any    `json:"data"`
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
}

// Request describes an outbound data operation. Adapters accept any request
// value; Request is the shape the bundled transports hand to them.
type Request struct {
	Method  string            `json:"method,omitempty"`
	Base    string            `json:"base,omitempty"`
	Path    string            `json:"path,omitempty"`
	URL     string            `json:"url,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Query   map[string]any    `json:"query,omitempty"`
	Body    any               `json:"body,omitempty"`
}

// Adapter resolves a request into a Response. A nil Response with a nil error
// means no rule matched.
type Adapter func(ctx context.Context, req any) (*Response, error)

// Factory produces the Response of a matched rule.
type Factory func(ctx context.Context) (*Response, error)

// Rule pairs a condition with the response returned when it matches.
//
// Condition may be a Condition, a func(any) bool, a func(Request) bool,
// a property path string, a two-element []any{path, value} or any other
// value used as a partial pattern.
//
// Response may be a Response, a *Response, a Factory, a
// func(context.Context) (*Response, error), a func() Response, a
// func() *Response or a <-chan Response. Any other value becomes the data of
// a successful Response.
type Rule struct {
	Condition any
	Response  any
}

// On builds a Rule.
func On(condition, response any) Rule {
	return Rule{Condition: condition, Response: response}
}

// Result is what Async delivers.
type Result struct {
	Response *Response
	Err      error
}

// Async runs the adapter on its own goroutine. The returned channel receives
// exactly one Result and is then closed.
func (a Adapter) Async(ctx context.Context, req any) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		resp, err := a(ctx, req)
		ch <- Result{Response: resp, Err: err}
	}()
	return ch
}
