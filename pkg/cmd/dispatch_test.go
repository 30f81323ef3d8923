package cmd

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResponder records reply/follow-up calls and mimics the response state
// transitions of a real interaction.
type fakeResponder struct {
	state       ResponseState
	replies     []string
	followUps   []string
	replyErr    error
	followUpErr error
}

func (r *fakeResponder) State() ResponseState { return r.state }

func (r *fakeResponder) Reply(content string) error {
	if r.replyErr != nil {
		return r.replyErr
	}
	r.replies = append(r.replies, content)
	r.state = StateReplied
	return nil
}

func (r *fakeResponder) FollowUp(content string) error {
	if r.followUpErr != nil {
		return r.followUpErr
	}
	r.followUps = append(r.followUps, content)
	return nil
}

func newDispatcher(t *testing.T, cmds ...Command) (*Dispatcher, *[]string) {
	t.Helper()
	reg := NewRegistry()
	for _, c := range cmds {
		reg.Register(c)
	}
	d := NewDispatcher(reg)
	var logs []string
	d.OnLog(func(format string, args ...interface{}) {
		logs = append(logs, fmt.Sprintf(format, args...))
	})
	return d, &logs
}

func TestDispatchIgnoresNonCommandEvents(t *testing.T) {
	ran := false
	d, logs := newDispatcher(t, &fakeCommand{name: "ping", run: func(context.Context, *Invocation) error {
		ran = true
		return nil
	}})

	d.Dispatch(context.Background(), Event{Kind: EventOther, Command: "ping"})

	assert.False(t, ran)
	assert.Empty(t, *logs)
}

func TestDispatchUnknownCommandLogsAndReturns(t *testing.T) {
	ran := false
	d, logs := newDispatcher(t, &fakeCommand{name: "ping", run: func(context.Context, *Invocation) error {
		ran = true
		return nil
	}})
	r := &fakeResponder{}

	d.Dispatch(context.Background(), Event{Kind: EventCommand, Command: "nope", Responder: r})

	assert.False(t, ran)
	require.Len(t, *logs, 1)
	assert.Contains(t, (*logs)[0], `"nope"`)
	// Unknown commands get no user-facing response.
	assert.Empty(t, r.replies)
	assert.Empty(t, r.followUps)
}

func TestDispatchSuccessSendsNoFallback(t *testing.T) {
	d, logs := newDispatcher(t, &fakeCommand{name: "ping"})
	r := &fakeResponder{}

	d.Dispatch(context.Background(), Event{Kind: EventCommand, Command: "ping", Responder: r})

	assert.Empty(t, *logs)
	assert.Empty(t, r.replies)
	assert.Empty(t, r.followUps)
}

func TestDispatchFailureUnansweredReplies(t *testing.T) {
	broken := &fakeCommand{name: "broken", run: func(context.Context, *Invocation) error {
		return errors.New("kaput")
	}}
	d, logs := newDispatcher(t, broken)
	r := &fakeResponder{state: StateUnanswered}

	d.Dispatch(context.Background(), Event{Kind: EventCommand, Command: "broken", Responder: r})

	require.Len(t, r.replies, 1)
	assert.Equal(t, ErrorMessage, r.replies[0])
	assert.Empty(t, r.followUps)
	require.NotEmpty(t, *logs)
	assert.Contains(t, (*logs)[0], "kaput")
}

func TestDispatchFailureDeferredFollowsUp(t *testing.T) {
	broken := &fakeCommand{name: "broken", run: func(context.Context, *Invocation) error {
		return errors.New("kaput")
	}}

	for _, state := range []ResponseState{StateDeferred, StateReplied} {
		d, _ := newDispatcher(t, broken)
		r := &fakeResponder{state: state}

		d.Dispatch(context.Background(), Event{Kind: EventCommand, Command: "broken", Responder: r})

		require.Len(t, r.followUps, 1, "state %v", state)
		assert.Equal(t, ErrorMessage, r.followUps[0])
		assert.Empty(t, r.replies)
	}
}

func TestDispatchNotificationFailureIsSwallowed(t *testing.T) {
	broken := &fakeCommand{name: "broken", run: func(context.Context, *Invocation) error {
		return errors.New("kaput")
	}}
	d, logs := newDispatcher(t, broken)
	r := &fakeResponder{replyErr: errors.New("channel unavailable")}

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), Event{Kind: EventCommand, Command: "broken", Responder: r})
	})

	// Both the original error and the notification failure end up in the log.
	require.Len(t, *logs, 2)
	assert.Contains(t, (*logs)[1], "channel unavailable")
}

func TestDispatchRecoversExecutorPanic(t *testing.T) {
	angry := &fakeCommand{name: "angry", run: func(context.Context, *Invocation) error {
		panic("surprise")
	}}
	d, logs := newDispatcher(t, angry)
	r := &fakeResponder{}

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), Event{Kind: EventCommand, Command: "angry", Responder: r})
	})

	require.Len(t, r.replies, 1)
	assert.Equal(t, ErrorMessage, r.replies[0])
	require.NotEmpty(t, *logs)
	assert.Contains(t, (*logs)[0], "surprise")
}

func TestDispatchNilResponderDoesNotPanic(t *testing.T) {
	broken := &fakeCommand{name: "broken", run: func(context.Context, *Invocation) error {
		return errors.New("kaput")
	}}
	d, _ := newDispatcher(t, broken)

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), Event{Kind: EventCommand, Command: "broken"})
	})
}

func TestWrapPreservesIdentityAndRoot(t *testing.T) {
	inner := &fakeCommand{name: "ping", desc: "Replies with Pong!"}
	var order []string
	wrapped := Apply(inner,
		func(c Command) Command {
			return Wrap(c, func(ctx context.Context, inv *Invocation) error {
				order = append(order, "outer")
				return c.Run(ctx, inv)
			})
		},
	)

	assert.Equal(t, "ping", wrapped.Name())
	assert.Equal(t, "Replies with Pong!", wrapped.Description())
	assert.Same(t, Command(inner), Root(wrapped))

	require.NoError(t, wrapped.Run(context.Background(), &Invocation{}))
	assert.Equal(t, []string{"outer"}, order)
}
