package resilience

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
)

// Kind categorizes a final external-service failure. The call site that
// knows which operation failed tags the error with a Kind; the transport
// layer maps kinds to statuses. Classification is decided from typed error
// causes, never from message text.
type Kind int

const (
	// KindInternal is an unclassified external failure.
	KindInternal Kind = iota

	// KindTimeout indicates the call exceeded its deadline.
	KindTimeout

	// KindUnavailable indicates the remote service could not be reached.
	KindUnavailable
)

// String returns a stable label for the kind.
func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Failure is an external-service error tagged with the operation that
// produced it and a classification Kind.
type Failure struct {
	Op   string
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Op, f.Kind, f.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Classify wraps a final external-service error in a Failure tagged with a
// Kind derived from its typed cause. A nil error stays nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Failure{Op: op, Kind: kindFor(err), Err: err}
}

// KindOf extracts the classification from an error chain.
// Untagged errors report KindInternal.
func KindOf(err error) Kind {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Kind
	}
	return KindInternal
}

func kindFor(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return KindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return KindUnavailable
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindUnavailable
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindUnavailable
	}

	return KindInternal
}
