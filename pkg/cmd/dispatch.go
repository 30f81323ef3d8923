package cmd

import (
	"context"
	"fmt"
	"log"
)

// ResponseState tracks whether a user-facing response has been sent for an
// event. It is mutated by the act of replying or deferring and read by the
// failure fallback chain.
type ResponseState int

const (
	StateUnanswered ResponseState = iota
	StateDeferred
	StateReplied
)

// Responder is the response channel of a single event. Reply is valid only
// while the state is unanswered and transitions it to replied; FollowUp is
// valid once the state is deferred or replied.
type Responder interface {
	State() ResponseState
	Reply(content string) error
	FollowUp(content string) error
}

// Deferrer is implemented by responders that can acknowledge an event without
// an immediate reply, transitioning unanswered to deferred.
type Deferrer interface {
	Defer() error
}

// EventKind discriminates inbound events. Only command events are dispatched;
// everything else is ignored without error.
type EventKind int

const (
	EventCommand EventKind = iota
	EventOther
)

// Event is one inbound interaction as seen by the dispatcher: the kind
// discriminator, the command name to resolve, the event's response channel,
// and the invocation handed to the executor.
type Event struct {
	Kind      EventKind
	Command   string
	Responder Responder
	Inv       *Invocation
}

// ErrorMessage is what command users see when an executor fails. The actual
// error stays in the logs; raw detail never reaches the user.
const ErrorMessage = "There was an error while executing this command!"

// Dispatcher resolves command events against a registry and invokes them.
// Dispatch never lets a failure escape its own boundary: a single misbehaving
// command must not destabilize the event loop that delivers interactions.
type Dispatcher struct {
	reg  *Registry
	logf func(format string, args ...interface{})
}

// NewDispatcher returns a dispatcher reading from reg. The registry must be
// fully populated before the first Dispatch call; after that it is shared
// read-only between any number of concurrent dispatches.
func NewDispatcher(reg *Registry) *Dispatcher {
	return &Dispatcher{reg: reg, logf: log.Printf}
}

// OnLog replaces the log sink. Used by tests.
func (d *Dispatcher) OnLog(f func(format string, args ...interface{})) {
	if f != nil {
		d.logf = f
	}
}

// Dispatch handles one inbound event. Non-command events are ignored. An
// unknown command name is logged and produces no user-facing response: it is
// treated as a client/integration error, not a runtime failure. An executor
// failure is logged and reported to the user through the fallback chain.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event) {
	if ev.Kind != EventCommand {
		return
	}

	c, ok := d.reg.Get(ev.Command)
	if !ok {
		d.logf("[ERR] No command matching %q was found", ev.Command)
		return
	}

	if err := d.run(ctx, c, ev.Inv); err != nil {
		d.logf("[ERR] Error executing command %q: %v", ev.Command, err)
		d.notifyFailure(ev)
	}
}

// run invokes the command, converting a panic into an error so no executor
// can unwind past Dispatch.
func (d *Dispatcher) run(ctx context.Context, c Command, inv *Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("command panicked: %v", r)
		}
	}()
	if inv == nil {
		inv = &Invocation{}
	}
	return c.Run(ctx, inv)
}

// notifyFailure sends the generic failure message: a reply if nothing has
// been sent for this event yet, a follow-up if the command already replied or
// deferred. A failed notification is logged and swallowed; there is no retry
// and no further escalation.
func (d *Dispatcher) notifyFailure(ev Event) {
	r := ev.Responder
	if r == nil {
		return
	}

	var err error
	if r.State() == StateUnanswered {
		err = r.Reply(ErrorMessage)
	} else {
		err = r.FollowUp(ErrorMessage)
	}
	if err != nil {
		d.logf("[ERR] Failed to notify user about %q failure: %v", ev.Command, err)
	}
}
