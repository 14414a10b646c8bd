package telegram

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestChain_Order(t *testing.T) {
	var trace []string
	mark := func(name string) Middleware {
		return func(next HandlerFunc) HandlerFunc {
			return func(ctx context.Context, req *Request) error {
				trace = append(trace, name+">")
				err := next(ctx, req)
				trace = append(trace, "<"+name)
				return err
			}
		}
	}
	h := Chain(func(context.Context, *Request) error {
		trace = append(trace, "handler")
		return nil
	}, mark("a"), mark("b"))

	require.NoError(t, h(context.Background(), &Request{}))
	assert.Equal(t, []string{"a>", "b>", "handler", "<b", "<a"}, trace)
}

func TestRecover(t *testing.T) {
	h := Chain(func(context.Context, *Request) error {
		panic("boom")
	}, Recover(zap.NewNop()))

	err := h(context.Background(), &Request{Command: "schedule"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := zap.New(core)

	ok := Chain(func(context.Context, *Request) error { return nil }, Logging(log))
	fail := Chain(func(context.Context, *Request) error { return errors.New("nope") }, Logging(log))

	req := &Request{ChatID: 7, Command: "help"}
	require.NoError(t, ok(context.Background(), req))
	require.Error(t, fail(context.Background(), req))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "update handled", entries[0].Message)
	assert.Equal(t, "help", entries[0].ContextMap()["command"])
	assert.Equal(t, int64(0), entries[0].ContextMap()["user_id"])
	assert.Equal(t, "update failed", entries[1].Message)
	assert.Equal(t, "nope", entries[1].ContextMap()["error"])
}
