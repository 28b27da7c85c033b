package visits

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHostResolveHost(t *testing.T) {
	h := &LocalHost{
		hostname: func() (string, error) { return "web-1", nil },
		lookup: func(_ context.Context, host string) ([]string, error) {
			assert.Equal(t, "web-1", host)
			return []string{"10.1.2.3", "fe80::1"}, nil
		},
	}

	host, err := h.ResolveHost(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "web-1/10.1.2.3", host)
}

func TestLocalHostResolveHostFailures(t *testing.T) {
	tests := []struct {
		name string
		h    *LocalHost
	}{
		{
			name: "hostname",
			h: &LocalHost{
				hostname: func() (string, error) { return "", errors.New("no hostname") },
			},
		},
		{
			name: "lookup",
			h: &LocalHost{
				hostname: func() (string, error) { return "web-1", nil },
				lookup: func(context.Context, string) ([]string, error) {
					return nil, errors.New("no such host")
				},
			},
		},
		{
			name: "no addresses",
			h: &LocalHost{
				hostname: func() (string, error) { return "web-1", nil },
				lookup:   func(context.Context, string) ([]string, error) { return nil, nil },
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.h.ResolveHost(context.Background())
			var hostErr *HostResolutionError
			assert.ErrorAs(t, err, &hostErr)
		})
	}
}
