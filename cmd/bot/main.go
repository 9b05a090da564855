package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/basel-ax/openjourney-bot/internal/bot"
	"github.com/basel-ax/openjourney-bot/internal/config"
	"github.com/basel-ax/openjourney-bot/internal/health"
	"github.com/basel-ax/openjourney-bot/internal/infrastructure/discord"
	"github.com/basel-ax/openjourney-bot/internal/service"
)

func main() {
	// Parse command line flags
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	// Configure logging
	if *verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
		log.Println("Verbose logging enabled")
	} else {
		log.SetFlags(log.Ldate | log.Ltime)
	}

	// Load configuration
	log.Println("Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully")

	// Initialize image generation service
	imgService := service.NewImageGenerationService(cfg.Replicate)

	// Initialize Discord session
	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	messenger := discord.NewMessenger(session)

	b := bot.New(messenger, imgService, bot.Options{
		CountdownFrom:     cfg.CountdownFrom,
		CountdownTick:     cfg.CountdownTick,
		SlowThreshold:     cfg.SlowThreshold,
		GenerationTimeout: cfg.GenerationTimeout,
		SelfID:            messenger.SelfID,
	})

	// Cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	discord.Register(ctx, session, b)

	log.Println("Connecting to Discord...")
	if err := session.Open(); err != nil {
		log.Fatalf("Failed to open Discord session: %v", err)
	}
	defer session.Close()
	log.Println("Discord session established")

	if cfg.HealthAddr != "" {
		go func() {
			if err := health.Serve(ctx, cfg.HealthAddr, b); err != nil {
				log.Printf("Health server stopped: %v", err)
			}
		}()
	}

	c, err := startStatusSchedule(cfg.StatusSchedule, b)
	if err != nil {
		log.Fatalf("Failed to schedule status updates: %v", err)
	}
	defer c.Stop()

	// Wait for context cancellation
	<-ctx.Done()
	log.Println("Shutting down gracefully...")

	// Let an in-flight request post its final reply before the session closes
	b.Wait()
}

// startStatusSchedule reports bot status right away and then on the cron schedule
func startStatusSchedule(spec string, b *bot.Bot) (*cron.Cron, error) {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc(spec, func() {
		log.Println("[CRON] Reporting status...")
		b.ReportStatus()
	})
	if err != nil {
		return nil, err
	}

	b.ReportStatus()
	c.Start()
	log.Println("Cron scheduler started successfully")
	return c, nil
}
