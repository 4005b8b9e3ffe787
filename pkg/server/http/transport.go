package http

import (
	"net/http"
	"net/http/httptest"
)

// Transport is an http.RoundTripper that serves requests in-process with a
// handler, typically the one returned by NewServer. Plugging it into an
// http.Client lets client code run against mocks without opening a socket.
type Transport struct {
	Handler http.Handler
}

func NewTransport(h http.Handler) *Transport {
	return &Transport{Handler: h}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Body != nil {
		defer req.Body.Close()
	}

	in := req.Clone(req.Context())
	if in.Body == nil {
		in.Body = http.NoBody
	}
	if in.Host == "" {
		in.Host = req.URL.Host
	}
	in.RequestURI = req.URL.RequestURI()

	rec := httptest.NewRecorder()
	t.Handler.ServeHTTP(rec, in)

	resp := rec.Result()
	resp.Request = req
	return resp, nil
}
