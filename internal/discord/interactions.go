package discord

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/discordgo"

	"modbot/pkg/cmd"
)

// interactionResponder is the response channel of one interaction. It tracks
// whether a response has already been sent so the dispatcher's failure
// fallback can pick between reply and follow-up, and it refuses out-of-order
// calls the Discord API would reject anyway.
type interactionResponder struct {
	s *discordgo.Session
	i *discordgo.InteractionCreate

	mu    sync.Mutex
	state cmd.ResponseState
}

func newResponder(s *discordgo.Session, i *discordgo.InteractionCreate) *interactionResponder {
	return &interactionResponder{s: s, i: i}
}

func (r *interactionResponder) State() cmd.ResponseState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Reply sends the initial response. Valid only while nothing has been sent.
func (r *interactionResponder) Reply(content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != cmd.StateUnanswered {
		return fmt.Errorf("interaction already answered")
	}
	if err := Respond(r.s, r.i, content); err != nil {
		return err
	}
	r.state = cmd.StateReplied
	return nil
}

// Defer acknowledges the interaction without an immediate reply.
func (r *interactionResponder) Defer() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != cmd.StateUnanswered {
		return fmt.Errorf("interaction already answered")
	}
	if err := RespondDeferred(r.s, r.i); err != nil {
		return err
	}
	r.state = cmd.StateDeferred
	return nil
}

// FollowUp sends a supplementary message. Valid once the interaction has been
// replied to or deferred.
func (r *interactionResponder) FollowUp(content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == cmd.StateUnanswered {
		return fmt.Errorf("interaction has no response to follow up on")
	}
	if err := Followup(r.s, r.i, content); err != nil {
		return err
	}
	r.state = cmd.StateReplied
	return nil
}

// --- Interaction responses ---

// Respond sends a public message response to an interaction.
func Respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
}

// RespondDeferred acknowledges an interaction without an immediate reply.
func RespondDeferred(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// EditResponse edits an existing interaction response.
func EditResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	_, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &content})
	return err
}

// Followup sends a public followup message.
func Followup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{Content: content})
	return err
}
