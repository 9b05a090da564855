package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/basel-ax/openjourney-bot/internal/config"
	"github.com/basel-ax/openjourney-bot/internal/domain"
)

// newTestService serves the create response and then each status body in turn
func newTestService(t *testing.T, created string, statuses ...string) (*ImageGenerationService, *int32) {
	t.Helper()
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(created))
			return
		}
		n := atomic.AddInt32(&polls, 1)
		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		_, _ = w.Write([]byte(statuses[idx]))
	}))
	t.Cleanup(srv.Close)

	svc := NewImageGenerationService(config.ReplicateConfig{
		Token:         "tok",
		BaseURL:       srv.URL,
		ModelVersion:  "v",
		CheckInterval: time.Millisecond,
	})
	return svc, &polls
}

func TestGenerateJoinsOutput(t *testing.T) {
	svc, polls := newTestService(t,
		`{"id":"p1","status":"starting"}`,
		`{"id":"p1","status":"processing"}`,
		`{"id":"p1","status":"succeeded","output":["https://replicate.delivery/","out-0.png"]}`,
	)
	url, err := svc.Generate(context.Background(), domain.ImageGenerationRequest{Prompt: "a red fox", GuidanceScale: 5})
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://replicate.delivery/out-0.png" {
		t.Fatalf("url = %q", url)
	}
	if atomic.LoadInt32(polls) != 2 {
		t.Fatalf("polls = %d", *polls)
	}
}

func TestGenerateFailedPrediction(t *testing.T) {
	svc, _ := newTestService(t,
		`{"id":"p1","status":"starting"}`,
		`{"id":"p1","status":"failed","error":"CUDA out of memory"}`,
	)
	_, err := svc.Generate(context.Background(), domain.ImageGenerationRequest{Prompt: "x", GuidanceScale: 1})
	if err == nil || !strings.Contains(err.Error(), "CUDA out of memory") {
		t.Fatalf("expected failure error, got %v", err)
	}
}

func TestGenerateEmptyOutput(t *testing.T) {
	svc, _ := newTestService(t, `{"id":"p1","status":"succeeded","output":[]}`)
	if _, err := svc.Generate(context.Background(), domain.ImageGenerationRequest{Prompt: "x", GuidanceScale: 1}); err == nil {
		t.Fatal("expected error for empty output")
	}
}

func TestWaitForGenerationMaxAttempts(t *testing.T) {
	svc, polls := newTestService(t, `{"id":"p1","status":"starting"}`, `{"id":"p1","status":"processing"}`)
	svc.config.MaxAttempts = 3
	if _, err := svc.WaitForGeneration(context.Background(), "p1"); err == nil {
		t.Fatal("expected max attempts error")
	}
	if atomic.LoadInt32(polls) != 3 {
		t.Fatalf("polls = %d", *polls)
	}
}

func TestWaitForGenerationContextCanceled(t *testing.T) {
	svc, _ := newTestService(t, `{"id":"p1","status":"starting"}`, `{"id":"p1","status":"processing"}`)
	svc.config.CheckInterval = time.Hour
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := svc.WaitForGeneration(ctx, "p1"); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
