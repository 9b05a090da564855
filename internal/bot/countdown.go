package bot

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"
)

// Countdown edits one message from `from` down to 1, one edit per tick, and deletes it
// when it finishes or its context is cancelled. The message is deleted at most once.
type Countdown struct {
	messenger Messenger
	channelID string
	messageID string
	from      int
	tick      time.Duration

	once sync.Once
}

// NewCountdown creates a countdown bound to an already sent message
func NewCountdown(m Messenger, channelID, messageID string, from int, tick time.Duration) *Countdown {
	return &Countdown{
		messenger: m,
		channelID: channelID,
		messageID: messageID,
		from:      from,
		tick:      tick,
	}
}

// Run blocks until the countdown has finished or ctx is done.
func (c *Countdown) Run(ctx context.Context) {
	defer c.Remove()

	for i := c.from; i >= 1; i-- {
		if ctx.Err() != nil {
			return
		}
		if err := c.messenger.Edit(c.channelID, c.messageID, strconv.Itoa(i)); err != nil {
			log.Printf("Error editing countdown message %s: %v", c.messageID, err)
		}

		timer := time.NewTimer(c.tick)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// Remove deletes the countdown message. Later calls are no-ops.
func (c *Countdown) Remove() {
	c.once.Do(func() {
		if err := c.messenger.Delete(c.channelID, c.messageID); err != nil {
			log.Printf("Error deleting countdown message %s: %v", c.messageID, err)
		}
	})
}
