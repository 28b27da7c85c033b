package visits

import (
	"context"
	"fmt"
	"net"
	"os"
)

// HostResolver reports the local server identity recorded on each visit.
type HostResolver interface {
	ResolveHost(ctx context.Context) (string, error)
}

// HostResolutionError is returned when the local host identity cannot be
// determined.
type HostResolutionError struct {
	Err error
}

func (e *HostResolutionError) Error() string {
	return "host resolution failed: " + e.Err.Error()
}

func (e *HostResolutionError) Unwrap() error {
	return e.Err
}

// LocalHost renders the machine identity as "hostname/address".
type LocalHost struct {
	hostname func() (string, error)
	lookup   func(ctx context.Context, host string) ([]string, error)
}

func NewLocalHost() *LocalHost {
	return &LocalHost{
		hostname: os.Hostname,
		lookup:   net.DefaultResolver.LookupHost,
	}
}

func (h *LocalHost) ResolveHost(ctx context.Context) (string, error) {
	name, err := h.hostname()
	if err != nil {
		return "", &HostResolutionError{Err: err}
	}
	addrs, err := h.lookup(ctx, name)
	if err != nil {
		return "", &HostResolutionError{Err: err}
	}
	if len(addrs) == 0 {
		return "", &HostResolutionError{Err: fmt.Errorf("no addresses for %s", name)}
	}
	return name + "/" + addrs[0], nil
}
