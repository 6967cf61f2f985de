package platform

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestPortFromNameIsStable(t *testing.T) {
	port := portFromName("wristsim")
	assert.Equal(t, port, portFromName("wristsim"))
	assert.GreaterOrEqual(t, port, 20000)
	assert.LessOrEqual(t, port, 39999)
}

func TestSecondInstanceActivatesFirst(t *testing.T) {
	defer goleak.VerifyNone(t)

	name := fmt.Sprintf("wristsim-test-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(name)
	require.NoError(t, err)
	defer guard.Release()

	_, err = AcquireSingleInstance(name)
	require.ErrorIs(t, err, ErrAlreadyRunning)

	ctx, cancel := context.WithCancel(context.Background())
	activated := make(chan struct{}, 1)
	served := make(chan error, 1)
	go func() {
		served <- guard.Serve(ctx, func() { activated <- struct{}{} })
	}()

	require.NoError(t, Activate(name))
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Fatal("running instance was not activated")
	}

	cancel()
	require.NoError(t, <-served)
	assert.NoError(t, guard.Release())
}
