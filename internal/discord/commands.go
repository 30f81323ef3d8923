package discord

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"

	"modbot/internal/command"
	"modbot/pkg/cmd"
)

// createRate paces ApplicationCommandCreate calls, staying well under
// Discord's limit.
var createRate = rate.Limit(25)

// syncCommands reconciles a guild's slash commands with the registry: deletes
// obsolete remote commands, creates or updates those whose definition hash
// changed since the last sync.
func (b *Bot) syncCommands(guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}

	remote, _ := b.dg.ApplicationCommands(appID, guildID)
	remoteByName := make(map[string]*discordgo.ApplicationCommand, len(remote))
	for _, c := range remote {
		remoteByName[c.Name] = c
	}

	local := b.buildDefinitions()
	hashes := loadCommandHashes(guildID)

	b.deleteObsolete(appID, guildID, remoteByName, local, hashes)
	b.upsertChanged(appID, guildID, local, hashes)

	saveCommandHashes(guildID, hashes)
	return nil
}

// buildDefinitions returns ApplicationCommand definitions for everything in
// the registry.
func (b *Bot) buildDefinitions() []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range b.registry.GetAll() {
		defs = append(defs, definitionFor(c))
	}
	return defs
}

// definitionFor extracts the slash definition from a command, walking through
// middleware wrappers via cmd.Root. Commands without a SlashDefinition get
// one synthesized from their name and description.
func definitionFor(c cmd.Command) *discordgo.ApplicationCommand {
	root := cmd.Root(c)
	if slash, ok := root.(command.SlashProvider); ok {
		if def := slash.SlashDefinition(); def != nil {
			if def.Type == 0 {
				def.Type = discordgo.ChatApplicationCommand
			}
			return def
		}
	}
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

// deleteObsolete removes remote commands no longer present in the registry.
func (b *Bot) deleteObsolete(appID, guildID string, remote map[string]*discordgo.ApplicationCommand, local []*discordgo.ApplicationCommand, hashes map[string]string) {
	localNames := make(map[string]struct{}, len(local))
	for _, d := range local {
		localNames[d.Name] = struct{}{}
	}

	for name, rc := range remote {
		if _, exists := localNames[name]; exists {
			continue
		}
		log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, name)
		if err := b.dg.ApplicationCommandDelete(appID, guildID, rc.ID); err != nil {
			log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, name, err)
		} else {
			delete(hashes, name)
		}
	}
}

// upsertChanged creates or updates commands whose hash differs from the
// cached value, pacing creates with a rate limiter.
func (b *Bot) upsertChanged(appID, guildID string, defs []*discordgo.ApplicationCommand, hashes map[string]string) {
	var changed []*discordgo.ApplicationCommand
	for _, d := range defs {
		if hashes[d.Name] != hashCommand(d) {
			changed = append(changed, d)
		}
	}
	if len(changed) == 0 {
		return
	}

	log.Printf("[INFO] [%s] Registering %d changed command(s)...", guildID, len(changed))
	limiter := rate.NewLimiter(createRate, 1)
	for _, d := range changed {
		if err := limiter.Wait(context.Background()); err != nil {
			return
		}
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, d); err != nil {
			log.Printf("[ERR] [%s] Failed to register %s: %v", guildID, d.Name, err)
		} else {
			log.Printf("[DONE] [%s] Registered: %s", guildID, d.Name)
			hashes[d.Name] = hashCommand(d)
		}
	}
}

// --- Command hash cache ---

func commandHashPath(guildID string) string {
	return filepath.Join("data", "commands", guildID+".json")
}

func loadCommandHashes(guildID string) map[string]string {
	out := make(map[string]string)
	if data, err := os.ReadFile(commandHashPath(guildID)); err == nil {
		_ = json.Unmarshal(data, &out)
	}
	return out
}

func saveCommandHashes(guildID string, hashes map[string]string) {
	path := commandHashPath(guildID)
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	if data, err := json.MarshalIndent(hashes, "", "  "); err == nil {
		_ = os.WriteFile(path, data, 0644)
	}
}

// hashCommand returns a deterministic SHA-1 of a command's stable fields,
// used to skip re-registration when nothing changed.
func hashCommand(c *discordgo.ApplicationCommand) string {
	stable := map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
		"type":        c.Type,
	}
	if len(c.Options) > 0 {
		opts := make([]map[string]interface{}, len(c.Options))
		for i, o := range c.Options {
			opts[i] = map[string]interface{}{
				"name":        o.Name,
				"description": o.Description,
				"type":        o.Type,
				"required":    o.Required,
			}
		}
		stable["options"] = opts
	}
	data, _ := json.Marshal(stable)
	sum := sha1.Sum(data)
	return fmt.Sprintf("%x", sum)
}
