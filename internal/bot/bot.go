package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/basel-ax/openjourney-bot/internal/domain"
)

// Messenger posts into a conversation.
type Messenger interface {
	Send(channelID, content string) (messageID string, err error)
	Edit(channelID, messageID, content string) error
	Delete(channelID, messageID string) error
}

// Presence is implemented by messengers that can show a status line for the bot.
type Presence interface {
	SetStatus(text string) error
}

// Generator runs one image generation to completion and returns the image URL.
type Generator interface {
	Generate(ctx context.Context, req domain.ImageGenerationRequest) (string, error)
}

// Message is an inbound chat message
type Message struct {
	ChannelID string
	AuthorID  string
	Content   string
}

// Reaction is a reaction added to or removed from a message
type Reaction struct {
	ChannelID string
	UserID    string
	Emoji     string
	Added     bool
}

// Options configures a Bot
type Options struct {
	CountdownFrom     int
	CountdownTick     time.Duration
	SlowThreshold     time.Duration
	GenerationTimeout time.Duration

	// SelfID returns the bot's own user ID; it may be empty until the session is ready.
	SelfID func() string
}

// Stats counts command outcomes since startup
type Stats struct {
	Accepted  atomic.Int64
	Rejected  atomic.Int64
	Succeeded atomic.Int64
	Failed    atomic.Int64
}

// Snapshot is a point-in-time copy of the bot state
type Snapshot struct {
	Busy      bool  `json:"busy"`
	Accepted  int64 `json:"accepted"`
	Rejected  int64 `json:"rejected"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
}

// Bot handles chat commands and drives image generation
type Bot struct {
	messenger Messenger
	generator Generator
	opts      Options
	guard     *Guard
	stats     Stats
	now       func() time.Time
	inflight  sync.WaitGroup
}

// New creates a new Bot
func New(m Messenger, g Generator, opts Options) *Bot {
	if opts.CountdownFrom <= 0 {
		opts.CountdownFrom = 7
	}
	if opts.CountdownTick <= 0 {
		opts.CountdownTick = time.Second
	}
	if opts.SlowThreshold <= 0 {
		opts.SlowThreshold = 60 * time.Second
	}
	if opts.SelfID == nil {
		opts.SelfID = func() string { return "" }
	}
	return &Bot{
		messenger: m,
		generator: g,
		opts:      opts,
		guard:     NewGuard(),
		now:       time.Now,
	}
}

// HandleMessage routes an inbound message to the matching command
func (b *Bot) HandleMessage(ctx context.Context, m Message) {
	if self := b.opts.SelfID(); self != "" && m.AuthorID == self {
		return
	}

	if m.Content == commandHelp {
		b.reply(m.ChannelID, MsgHelp)
		return
	}

	if !strings.HasPrefix(m.Content, commandPrefix) {
		return
	}

	name, args := splitCommand(strings.TrimPrefix(m.Content, commandPrefix))
	switch {
	case name == commandGenerate && args != "":
		b.GenerateImage(ctx, m.ChannelID, args)
	default:
		// unknown command or missing arguments
		b.reply(m.ChannelID, MsgFormat)
	}
}

// HandleReaction acknowledges feedback reactions
func (b *Bot) HandleReaction(r Reaction) {
	if self := b.opts.SelfID(); self != "" && r.UserID == self {
		return
	}
	if (r.Added && r.Emoji == emojiThumbsUp) || (!r.Added && r.Emoji == emojiThumbsDown) {
		b.reply(r.ChannelID, MsgFeedback)
	}
}

// GenerateImage validates args and runs one generation. Only one call is admitted at
// a time; the admission slot is released on every return path.
func (b *Bot) GenerateImage(ctx context.Context, channelID, args string) {
	if !b.guard.TryAcquire() {
		b.stats.Rejected.Add(1)
		b.reply(channelID, MsgBusy)
		return
	}
	defer b.guard.Release()
	b.inflight.Add(1)
	defer b.inflight.Done()

	req, err := ParseGenerateArgs(args)
	if err != nil {
		log.Printf("Rejected generate_image in channel %s: %v", channelID, err)
		b.stats.Rejected.Add(1)
		b.reply(channelID, validationReply(err))
		return
	}
	b.stats.Accepted.Add(1)

	reqID := uuid.NewString()
	log.Printf("[%s] Generating image in channel %s, guidance_scale=%d, prompt: %s", reqID, channelID, req.GuidanceScale, req.Prompt)

	res, err := b.generate(ctx, reqID, channelID, req)
	if err != nil {
		log.Printf("[%s] Error generating image: %v", reqID, err)
		b.stats.Failed.Add(1)
		b.reply(channelID, fmt.Sprintf(MsgError, err.Error()))
		return
	}

	if res.Overloaded {
		log.Printf("[%s] Image generated after %s, over the %s threshold", reqID, res.Elapsed, b.opts.SlowThreshold)
		b.stats.Failed.Add(1)
		b.reply(channelID, fmt.Sprintf(MsgError, MsgOverloaded))
		return
	}

	log.Printf("[%s] Image generated in %s: %s", reqID, res.Elapsed, res.URL)
	b.stats.Succeeded.Add(1)
	b.reply(channelID, fmt.Sprintf(MsgElapsed, res.Elapsed.Seconds()))
}

// generate runs the countdown alongside the backend call. The backend call decides the
// outcome; the countdown is stopped and its message removed before this returns.
func (b *Bot) generate(ctx context.Context, reqID, channelID string, req domain.ImageGenerationRequest) (*domain.GenerationResult, error) {
	start := b.now()

	placeholderID, err := b.messenger.Send(channelID, MsgGenerating)
	if err != nil {
		return nil, fmt.Errorf("failed to send placeholder: %w", err)
	}
	countdownID, err := b.messenger.Send(channelID, strconv.Itoa(b.opts.CountdownFrom+1))
	if err != nil {
		return nil, fmt.Errorf("failed to send countdown: %w", err)
	}

	countdown := NewCountdown(b.messenger, channelID, countdownID, b.opts.CountdownFrom, b.opts.CountdownTick)
	countdownCtx, stopCountdown := context.WithCancel(ctx)
	defer stopCountdown()
	countdownDone := make(chan struct{})
	go func() {
		defer close(countdownDone)
		countdown.Run(countdownCtx)
	}()

	genCtx := ctx
	if b.opts.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, b.opts.GenerationTimeout)
		defer cancel()
	}

	url, err := b.generator.Generate(genCtx, req)
	stopCountdown()
	<-countdownDone
	if err != nil {
		return nil, err
	}

	if err := b.messenger.Edit(channelID, placeholderID, MsgSendingSoon); err != nil {
		log.Printf("[%s] Error editing placeholder message: %v", reqID, err)
	}
	if _, err := b.messenger.Send(channelID, url); err != nil {
		return nil, fmt.Errorf("failed to send image url: %w", err)
	}

	elapsed := b.now().Sub(start)
	return &domain.GenerationResult{
		URL:        url,
		Elapsed:    elapsed,
		Overloaded: elapsed > b.opts.SlowThreshold,
	}, nil
}

// Wait blocks until every admitted GenerateImage call has returned
func (b *Bot) Wait() {
	b.inflight.Wait()
}

// Snapshot returns the current counters and admission state
func (b *Bot) Snapshot() Snapshot {
	return Snapshot{
		Busy:      b.guard.Busy(),
		Accepted:  b.stats.Accepted.Load(),
		Rejected:  b.stats.Rejected.Load(),
		Succeeded: b.stats.Succeeded.Load(),
		Failed:    b.stats.Failed.Load(),
	}
}

// ReportStatus logs the counters and refreshes the presence line when supported
func (b *Bot) ReportStatus() {
	s := b.Snapshot()
	log.Printf("Status: busy=%t accepted=%d rejected=%d succeeded=%d failed=%d",
		s.Busy, s.Accepted, s.Rejected, s.Succeeded, s.Failed)

	p, ok := b.messenger.(Presence)
	if !ok {
		return
	}
	text := commandHelp
	if s.Busy {
		text = commandHelp + " | generating"
	}
	if err := p.SetStatus(text); err != nil {
		log.Printf("Error updating presence: %v", err)
	}
}

func (b *Bot) reply(channelID, content string) {
	if _, err := b.messenger.Send(channelID, content); err != nil {
		log.Printf("Error sending message to channel %s: %v", channelID, err)
	}
}
