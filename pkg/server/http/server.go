package http

import (
	"net/http"

	"github.com/marcaudefroy/adapter-mock/pkg/history"
	"github.com/marcaudefroy/adapter-mock/pkg/mocks"
)

// Server answers HTTP requests with the responses of a mock adapter.
type Server struct {
	adapter         mocks.Adapter
	historyRegistry history.Registry
}

// NewServer returns an http.ServeMux that dispatches every request to adapter.
// When hr is not nil, calls are recorded into it and exposed under
// /_mock/history.
func NewServer(adapter mocks.Adapter, hr history.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	s := &Server{adapter: adapter, historyRegistry: hr}
	if hr != nil {
		s.adapter = history.Record(adapter, hr)
		mux.HandleFunc("/_mock/history", s.handleHistory)
		mux.HandleFunc("/_mock/history/clear", s.clearHistory)
	}
	mux.HandleFunc("/", s.handleMock)
	return mux
}
