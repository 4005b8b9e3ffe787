package history

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marcaudefroy/adapter-mock/pkg/mocks"
)

type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// History is one adapter call: the request it received and what it resolved with.
type History struct {
	ID        string          `json:"id"`
	StartTime time.Time       `json:"startTime"`
	EndTime   *time.Time      `json:"endTime,omitempty"`
	State     State           `json:"state"`
	Request   any             `json:"request"`
	Response  *mocks.Response `json:"response,omitempty"`
	Matched   bool            `json:"matched"`
	Error     string          `json:"error,omitempty"`
}

type RegistryWriter interface {
	SaveHistory(History)
}

type RegistryReader interface {
	GetHistories() []History
}

type Registry interface {
	RegistryWriter
	RegistryReader
	Clear()
}

// DefaultRegistry keeps histories in memory, in call order.
type DefaultRegistry struct {
	histories []History
	mu        sync.Mutex
}

// SaveHistory appends h, or replaces the entry with the same ID.
func (r *DefaultRegistry) SaveHistory(h History) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.IndexFunc(r.histories, func(e History) bool { return e.ID == h.ID })
	if i >= 0 {
		r.histories[i] = h
		return
	}
	r.histories = append(r.histories, h)
}

func (r *DefaultRegistry) GetHistories() []History {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.histories)
}

func (r *DefaultRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories = nil
}

// Record wraps adapter so that every call is saved to w: once as open when
// it starts and again as closed when it resolves.
func Record(adapter mocks.Adapter, w RegistryWriter) mocks.Adapter {
	return func(ctx context.Context, req any) (*mocks.Response, error) {
		h := History{
			ID:        uuid.NewString(),
			StartTime: time.Now(),
			State:     StateOpen,
			Request:   req,
		}
		w.SaveHistory(h)

		resp, err := adapter(ctx, req)

		endTime := time.Now()
		h.EndTime = &endTime
		h.State = StateClosed
		h.Response = resp
		h.Matched = resp != nil
		if err != nil {
			h.Error = err.Error()
		}
		w.SaveHistory(h)

		return resp, err
	}
}
