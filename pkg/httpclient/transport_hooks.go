package httpclient

import (
	"net/http"
)

// hooksTransport notifies lifecycle observers around a single request attempt.
// It sits below retryTransport so every attempt is observed on its own.
type hooksTransport struct {
	base  http.RoundTripper
	hooks *hooks
}

// RoundTrip runs the started hooks, performs the attempt and then runs exactly
// one set of terminal hooks. The context returned by the started hooks is the
// one the attempt and its terminal hooks see.
func (t *hooksTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	started, completed, errored := t.hooks.snapshot()

	ctx := req.Context()
	for _, fn := range started {
		if next := fn(ctx, req); next != nil {
			ctx = next
		}
	}
	if len(started) > 0 {
		req = req.WithContext(ctx)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		reqErr := newRequestError(ctx, err)
		for _, fn := range errored {
			fn(ctx, req, reqErr)
		}
		return nil, reqErr
	}

	for _, fn := range completed {
		fn(ctx, req, resp)
	}

	return resp, nil
}
