package mocks

import "maps"

// defaultResponse is the template every builder starts from. It is never
// handed out directly, only cloned.
var defaultResponse = Response{
	Meta: Meta{
		Headers:  map[string]string{},
		Messages: []Message{},
	},
	Data:       nil,
	Status:     0,
	StatusText: "Unknown",
}

type metaOverrides struct {
	headers  map[string]string
	messages []Message
	error    *bool
	cached   *bool
	timeout  *bool
}

type overrides struct {
	data       any
	status     int
	statusText string
	meta       metaOverrides
}

// build lays o over a copy of the default template. Only meta is merged
// field by field; the other fields are replaced.
func build(o overrides) Response {
	r := defaultResponse.clone()
	r.Data = o.data
	r.Status = o.status
	r.StatusText = o.statusText

	maps.Copy(r.Meta.Headers, o.meta.headers)
	r.Meta.Messages = append(r.Meta.Messages, o.meta.messages...)
	if o.meta.error != nil {
		r.Meta.Error = *o.meta.error
	}
	if o.meta.cached != nil {
		r.Meta.Cached = *o.meta.cached
	}
	if o.meta.timeout != nil {
		r.Meta.Timeout = *o.meta.timeout
	}
	return r
}

// clone copies the envelope. Data is shared, not copied.
func (r Response) clone() Response {
	c := r
	c.Meta.Headers = make(map[string]string, len(r.Meta.Headers))
	maps.Copy(c.Meta.Headers, r.Meta.Headers)
	c.Meta.Messages = make([]Message, len(r.Meta.Messages))
	copy(c.Meta.Messages, r.Meta.Messages)
	return c
}

// DefaultResponse returns a copy of the template the builders start from.
func DefaultResponse() Response {
	return defaultResponse.clone()
}

// Success returns a 200 Response carrying data.
func Success(data any) Response {
	return build(overrides{
		data:       data,
		status:     200,
		statusText: "OK",
	})
}

// Failure returns an error Response with the given status code and data.
func Failure(status int, data any) Response {
	isError := true
	return build(overrides{
		data:       data,
		status:     status,
		statusText: "Error",
		meta:       metaOverrides{error: &isError},
	})
}

// WithHeader returns a copy of r with the header set.
func (r Response) WithHeader(key, value string) Response {
	c := r.clone()
	c.Meta.Headers[key] = value
	return c
}

// WithMessage returns a copy of r with m appended to its messages.
func (r Response) WithMessage(m Message) Response {
	c := r.clone()
	c.Meta.Messages = append(c.Meta.Messages, m)
	return c
}
