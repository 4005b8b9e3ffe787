package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"github.com/marcaudefroy/adapter-mock/pkg/mocks"
)

// StatusTextHeader carries Response.StatusText, which HTTP has no field for.
const StatusTextHeader = "X-Mock-Status-Text"

// handleMock converts the request, runs it through the adapter and writes
// the resolved envelope back.
func (s *Server) handleMock(w http.ResponseWriter, r *http.Request) {
	log.Printf("HTTP call: %s %s", r.Method, r.URL.Path)

	req, err := requestFromHTTP(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.adapter(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	if resp == nil {
		writeError(w, http.StatusNotImplemented, fmt.Sprintf("no mock rule matched %s %s", r.Method, r.URL.Path))
		return
	}
	writeResponse(w, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.historyRegistry.GetHistories())
}

func (s *Server) clearHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.historyRegistry.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"message": "history cleared"})
}

// requestFromHTTP builds the request descriptor rules are matched against.
// Headers and query parameters keep their first value only.
func requestFromHTTP(r *http.Request) (mocks.Request, error) {
	req := mocks.Request{
		Method: r.Method,
		Base:   r.Host,
		Path:   r.URL.Path,
		URL:    r.URL.String(),
	}

	if len(r.Header) > 0 {
		req.Headers = make(map[string]string, len(r.Header))
		for k := range r.Header {
			req.Headers[k] = r.Header.Get(k)
		}
	}

	query := r.URL.Query()
	if len(query) > 0 {
		req.Query = make(map[string]any, len(query))
		for k := range query {
			req.Query[k] = query.Get(k)
		}
	}

	if r.Body == nil {
		return req, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return req, fmt.Errorf("error reading body: %w", err)
	}
	if len(raw) == 0 {
		return req, nil
	}
	req.Body = string(raw)
	if isJSON(r.Header.Get("Content-Type")) {
		var body any
		if err := json.Unmarshal(raw, &body); err == nil {
			req.Body = body
		}
	}
	return req, nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

// StatusCode is the HTTP status written for resp. Statuses that cannot be a
// final response, such as the 0 of a failure that never reached a server or
// an informational 1xx, become 502.
func StatusCode(resp *mocks.Response) int {
	switch {
	case resp.Meta.Timeout:
		return http.StatusGatewayTimeout
	case resp.Status < 200 || resp.Status > 999:
		return http.StatusBadGateway
	}
	return resp.Status
}

func writeResponse(w http.ResponseWriter, resp *mocks.Response) {
	for k, v := range resp.Meta.Headers {
		w.Header().Set(k, v)
	}
	if resp.StatusText != "" {
		w.Header().Set(StatusTextHeader, resp.StatusText)
	}
	writeJSON(w, StatusCode(resp), resp.Data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("warning: write response failed: %v", err)
	}
}
