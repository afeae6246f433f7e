package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-fpsensor/channel"
	"github.com/arloliu/go-fpsensor/emulator"
)

func newTestClient(t *testing.T, emuOpts []emulator.Option, opts ...Option) (*Client, *emulator.Module) {
	t.Helper()

	m, err := emulator.New(emuOpts...)
	require.NoError(t, err)

	ch, err := channel.New(m, channel.WithTimeout(300*time.Millisecond))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })

	c, err := New(ch, opts...)
	require.NoError(t, err)

	return c, m
}
