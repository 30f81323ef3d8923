// cmd/discord/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"modbot/internal/command"
	"modbot/internal/config"
	"modbot/internal/discord"
	"modbot/internal/script"
	"modbot/internal/storage"
	v "modbot/internal/version"
	"modbot/pkg/cmd"
)

func main() {
	log.Printf("[INFO] Starting %v %v...", v.AppName, v.Version)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	store, err := storage.New(cfg.StoragePath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	// The load phase must finish before the bot starts accepting events;
	// afterwards the registry is read-only.
	reg := cmd.NewRegistry()
	n := cmd.Populate(ctx, reg,
		script.NewDirSource(cfg.CommandsPath),
		command.Builtins(),
	)
	log.Printf("[INFO] Loaded %d command(s)", n)

	bot := discord.NewBot(cfg, store, reg)

	errCh := make(chan error, 1)
	go func() {
		if err := bot.Run(ctx); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Printf("[INFO] Received signal %s, shutting down...\n", s)
		cancel()
	case err := <-errCh:
		if err != nil {
			log.Println("[ERR] Discord bot error:", err)
		}
		cancel()
	case <-ctx.Done():
	}

	log.Println("[INFO] Discord bot exited cleanly")
}
