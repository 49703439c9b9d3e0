package httpclient

import (
	"context"
	"net/http"
	"sync"
)

// StartedHook runs before a request attempt is sent. The returned context
// replaces the attempt context and is handed to the terminal hooks.
type StartedHook = func(ctx context.Context, req *http.Request) context.Context

// CompletedHook runs when a request attempt produced a response, whatever its status.
type CompletedHook = func(ctx context.Context, req *http.Request, resp *http.Response)

// ErrorHook runs when a request attempt failed before producing a response.
// err is always a *RequestError.
type ErrorHook = func(ctx context.Context, req *http.Request, err error)

// hooks holds lifecycle observers. Registration is safe while requests are in flight;
// an attempt runs the observers registered when it started.
type hooks struct {
	mu        sync.RWMutex
	started   []StartedHook
	completed []CompletedHook
	errored   []ErrorHook
}

func (h *hooks) addStarted(fn StartedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, fn)
}

func (h *hooks) addCompleted(fn CompletedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = append(h.completed, fn)
}

func (h *hooks) addErrored(fn ErrorHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errored = append(h.errored, fn)
}

// snapshot returns the observers registered at call time.
func (h *hooks) snapshot() ([]StartedHook, []CompletedHook, []ErrorHook) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.started[:len(h.started):len(h.started)],
		h.completed[:len(h.completed):len(h.completed)],
		h.errored[:len(h.errored):len(h.errored)]
}
