package gojapbcodec

import (
	"context"
	"testing"
	"time"

	"github.com/dop251/goja"
	"github.com/joeycumines/go-eventloop"
	"github.com/joeycumines/go-pbdynamic/internal/testschema"
	"github.com/stretchr/testify/require"
)

const defaultTimeout = 5 * time.Second

type testEnv struct {
	rt   *goja.Runtime
	m    *Module
	loop *eventloop.Loop
}

// newTestEnv creates a runtime with the Protobuf constructor, the fixture
// descriptor set as __desc, and an instance as pb.
func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	rt := goja.New()
	m, err := New(rt, opts...)
	require.NoError(t, err)
	require.NoError(t, rt.Set("Protobuf", m.Constructor()))
	require.NoError(t, rt.Set("__desc", rt.NewArrayBuffer(testschema.DescriptorSetBytes())))
	env := &testEnv{rt: rt, m: m}
	env.run(t, `var pb = new Protobuf(__desc);`)
	return env
}

// newLoopTestEnv is newTestEnv with an event loop as the scheduler.
func newLoopTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()
	loop, err := eventloop.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = loop.Shutdown(ctx)
	})
	opts = append(opts, WithScheduler(LoopScheduler(loop)))
	env := newTestEnv(t, opts...)
	env.loop = loop
	return env
}

func (e *testEnv) run(t *testing.T, code string) goja.Value {
	t.Helper()
	v, err := e.rt.RunString(code)
	require.NoError(t, err)
	return v
}

func (e *testEnv) mustFail(t *testing.T, code string) error {
	t.Helper()
	_, err := e.rt.RunString(code)
	require.Error(t, err)
	return err
}

// check evaluates a JS boolean expression.
func (e *testEnv) check(t *testing.T, expr string) {
	t.Helper()
	require.True(t, e.run(t, expr).ToBoolean(), "expected true: %s", expr)
}

// runOnLoop submits JS code for execution on the event loop, then
// runs the loop until the JS code signals completion via __done().
func (e *testEnv) runOnLoop(t *testing.T, code string, timeout time.Duration) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan struct{}, 1)
	var jsErr error

	_ = e.rt.Set("__done", e.rt.ToValue(func(call goja.FunctionCall) goja.Value {
		select {
		case done <- struct{}{}:
		default:
		}
		return goja.Undefined()
	}))

	if submitErr := e.loop.Submit(func() {
		_, jsErr = e.rt.RunString(code)
	}); submitErr != nil {
		t.Fatalf("submit error: %v", submitErr)
	}

	loopDone := make(chan error, 1)
	go func() {
		loopDone <- e.loop.Run(ctx)
	}()

	select {
	case <-done:
		cancel()
		<-loopDone
	case err := <-loopDone:
		if jsErr != nil {
			t.Fatalf("JS error: %v", jsErr)
		}
		if err != nil && ctx.Err() == nil {
			t.Fatalf("loop error: %v", err)
		}
	case <-ctx.Done():
		t.Fatalf("timeout waiting for __done()")
	}

	if jsErr != nil {
		t.Fatalf("JS error: %v", jsErr)
	}
}
