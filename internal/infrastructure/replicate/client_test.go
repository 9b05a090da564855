package replicate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/basel-ax/openjourney-bot/internal/domain"
)

func TestGenerateImageSendsVersionAndInput(t *testing.T) {
	var got struct {
		Version string         `json:"version"`
		Input   map[string]any `json:"input"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/predictions" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p1","status":"starting","output":null,"error":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok", "v123")
	resp, err := c.GenerateImage(context.Background(), domain.ImageGenerationRequest{Prompt: "a red fox", GuidanceScale: 5})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ID != "p1" || resp.Status != domain.StatusStarting || resp.Output != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if got.Version != "v123" || got.Input["prompt"] != "a red fox" || got.Input["guidance_scale"] != float64(5) {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestCheckGenerationStatusDecodesOutput(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []string
		err  string
	}{
		{"list", `{"id":"p1","status":"succeeded","output":["https://x/","a.png"]}`, []string{"https://x/", "a.png"}, ""},
		{"single", `{"id":"p1","status":"succeeded","output":"https://x/a.png"}`, []string{"https://x/a.png"}, ""},
		{"failed", `{"id":"p1","status":"failed","error":"NSFW content detected"}`, nil, "NSFW content detected"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/predictions/p1" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			resp, err := NewClient(srv.URL, "tok", "v").CheckGenerationStatus(context.Background(), "p1")
			if err != nil {
				t.Fatal(err)
			}
			if strings.Join(resp.Output, "|") != strings.Join(tc.want, "|") || resp.Error != tc.err {
				t.Fatalf("unexpected response: %+v", resp)
			}
		})
	}
}

func TestUnexpectedStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Invalid token."}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bad", "v").CheckGenerationStatus(context.Background(), "p1")
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
}
