package health

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/basel-ax/openjourney-bot/internal/bot"
)

// StatusSource reports the bot state
type StatusSource interface {
	Snapshot() bot.Snapshot
}

// NewRouter builds the health routes
func NewRouter(src StatusSource) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", func(c *gin.Context) {
		s := src.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"busy":      s.Busy,
			"accepted":  s.Accepted,
			"rejected":  s.Rejected,
			"succeeded": s.Succeeded,
			"failed":    s.Failed,
			"timestamp": time.Now(),
		})
	})
	return r
}

// Serve runs the health server on addr until ctx is done
func Serve(ctx context.Context, addr string, src StatusSource) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(src),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down health server: %v", err)
		}
	}()

	log.Printf("Health server listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
