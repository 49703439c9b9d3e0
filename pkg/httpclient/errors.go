package httpclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"time"
)

// Error classes reported by RequestError.ErrorClass.
const (
	ClassTimeout    = "TimeoutError"
	ClassCanceled   = "CanceledError"
	ClassResolve    = "ResolveError"
	ClassTLS        = "TLSError"
	ClassConnection = "ConnectionError"
	ClassRequest    = "RequestError"
)

// RequestError is returned (wrapped by http.Client in a *url.Error) when a
// request attempt fails before a response is received.
// Class is a stable identifier suitable for metric labels.
type RequestError struct {
	Class string
	Err   error
}

// Error implements error.
func (e *RequestError) Error() string {
	return e.Class + ": " + e.Err.Error()
}

// Unwrap returns the underlying transport error.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// ErrorClass returns the stable classification of the failure.
func (e *RequestError) ErrorClass() string {
	return e.Class
}

// Timeout reports whether the attempt failed because a deadline elapsed.
// It keeps url.Error.Timeout meaningful for errors returned by a Session.
func (e *RequestError) Timeout() bool {
	if e.Class == ClassTimeout {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// newRequestError classifies err, the failure of an attempt running under ctx.
// An error that is already a RequestError is returned as-is.
func newRequestError(ctx context.Context, err error) *RequestError {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr
	}
	return &RequestError{Class: classifyAttempt(ctx, err), Err: err}
}

// classifyAttempt gives the attempt context precedence over err. When
// http.Client.Timeout elapses the transport only sees a canceled request.
func classifyAttempt(ctx context.Context, err error) string {
	if deadline, ok := ctx.Deadline(); ok && !time.Now().Before(deadline) {
		return ClassTimeout
	}

	switch ctxErr := ctx.Err(); {
	case errors.Is(ctxErr, context.DeadlineExceeded):
		return ClassTimeout
	case ctxErr != nil:
		if classifyError(context.Cause(ctx)) == ClassTimeout {
			return ClassTimeout
		}
		return ClassCanceled
	}

	return classifyError(err)
}

// classifyError categorizes transport errors. Order matters: a DNS failure is
// also a net.Error and a dial timeout is also a *net.OpError.
func classifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTimeout
	}

	if errors.Is(err, context.Canceled) {
		return ClassCanceled
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return ClassTimeout
		}
		return ClassResolve
	}

	if isTLSError(err) {
		return ClassTLS
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ClassTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ClassConnection
	}

	return ClassRequest
}

func isTLSError(err error) bool {
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return true
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return true
	}

	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}

	var hostnameErr x509.HostnameError
	return errors.As(err, &hostnameErr)
}
