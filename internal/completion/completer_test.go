package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/baalimago/dolores/internal/config"
	"github.com/baalimago/dolores/internal/models"
)

func isNoop(ev any) bool {
	_, ok := ev.(models.NoopEvent)
	return ok
}

// roundTripFunc allows injecting errors in http.Client
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestStreamCompletions_DoError(t *testing.T) {
	s := &StreamCompleter{client: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("boom")
	})}, apiKey: "k", url: "http://example.invalid"}

	ch, err := s.StreamCompletions(context.Background(), models.NewChat("P"))
	if err == nil || !strings.Contains(err.Error(), "failed to execute request") {
		t.Fatalf("expected execute request error, got: %v, ch=%v", err, ch)
	}
}

func TestStreamCompletions_Non200(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
		_, _ = w.Write([]byte("bad"))
	}))
	defer ts.Close()

	s := &StreamCompleter{client: ts.Client(), apiKey: "k", url: ts.URL}
	ch, err := s.StreamCompletions(context.Background(), models.NewChat("P"))
	if err == nil || !strings.Contains(err.Error(), "unexpected status code") {
		t.Fatalf("expected non-200 error, got: %v, ch=%v", err, ch)
	}
}

func TestStreamCompletions_HappyPath(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		fl, _ := w.(http.Flusher)
		for _, chunk := range []string{
			`{"choices":[{"delta":{"content":"Hello"}}]}`,
			`{"choices":[{"delta":{"content":" world"}}]}`,
			`[DONE]`,
		} {
			fmt.Fprintf(w, "data: %s\n\n", chunk)
			if fl != nil {
				fl.Flush()
			}
		}
	}))
	defer ts.Close()

	s := &StreamCompleter{client: ts.Client(), apiKey: "k", url: ts.URL, Model: "m"}
	out, err := s.StreamCompletions(context.Background(), models.NewChat("P"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	buf := &bytes.Buffer{}
	done := make(chan struct{})
	var fullMsg string
	var accErr error
	go func() {
		fullMsg, accErr = Accumulate(out, buf)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for stream to drain")
	}
	if accErr != nil {
		t.Fatalf("unexpected accumulate err: %v", accErr)
	}
	if fullMsg != "Hello world" {
		t.Fatalf("expected 'Hello world', got: %q", fullMsg)
	}
	if buf.String() != "Hello world" {
		t.Fatalf("expected forwarded fragments, got: %q", buf.String())
	}
}

func TestCreateRequest_BodyAndHeaders(t *testing.T) {
	conf := config.Config{
		APIKey:  "sekret",
		Model:   "deepseek-chat",
		BaseURL: "http://example.invalid",
	}
	s := NewStreamCompleter(conf)
	chat := models.NewChat("P")
	chat.Messages = append(chat.Messages, models.Message{Role: models.RoleUser, Content: "c"})
	httpReq, err := s.createRequest(context.Background(), chat)
	if err != nil {
		t.Fatalf("createRequest err: %v", err)
	}

	if got := httpReq.URL.String(); got != "http://example.invalid/chat/completions" {
		t.Fatalf("bad url: %q", got)
	}
	if got := httpReq.Header.Get("Content-Type"); got != "application/json" {
		t.Fatalf("bad content-type: %q", got)
	}
	if got := httpReq.Header.Get("Authorization"); got != "Bearer sekret" {
		t.Fatalf("bad auth header: %q", got)
	}
	if got := httpReq.Header.Get("Accept"); got != "text/event-stream" {
		t.Fatalf("bad accept: %q", got)
	}

	b, _ := io.ReadAll(httpReq.Body)
	var body map[string]any
	if err := json.Unmarshal(b, &body); err != nil {
		t.Fatalf("unmarshal body: %v\nbody=%s", err, string(b))
	}
	if v, ok := body["stream"].(bool); !ok || !v {
		t.Fatalf("expected stream=true, got: %T %v", body["stream"], body["stream"])
	}
	if v, ok := body["model"].(string); !ok || v != "deepseek-chat" {
		t.Fatalf("model mismatch: %v", body["model"])
	}
	msgs, ok := body["messages"].([]any)
	if !ok || len(msgs) != 2 {
		t.Fatalf("messages missing in body: %T %v", body["messages"], body["messages"])
	}
}

func TestHandleStreamChunk_Table(t *testing.T) {
	s := &StreamCompleter{}

	maybeStopEv := s.handleStreamChunk([]byte("data: [DONE]\n"))
	if _, isStop := maybeStopEv.(models.StopEvent); !isStop {
		t.Fatalf("expected StopEvent for DONE, got: %T %v", maybeStopEv, maybeStopEv)
	}

	if ev := s.handleStreamChunk([]byte("\n")); !isNoop(ev) {
		t.Fatalf("expected Noop for blank separator, got: %T %v", ev, ev)
	}

	if ev := s.handleStreamChunk([]byte("data: garbage\n")); !isNoop(ev) {
		t.Fatalf("expected Noop for invalid JSON, got: %T %v", ev, ev)
	}

	if ev := s.handleStreamChunk([]byte("data: {\"choices\":[]}\n")); !isNoop(ev) {
		t.Fatalf("expected Noop for empty choices, got: %T %v", ev, ev)
	}

	if ev := s.handleStreamChunk([]byte("data: {\"choices\":[{\"delta\":{\"content\":null}}]}\n")); !isNoop(ev) {
		t.Fatalf("expected Noop for null content, got: %T %v", ev, ev)
	}

	ev := s.handleStreamChunk([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"hi\"}}]}\n"))
	str, ok := ev.(string)
	if !ok || str != "hi" {
		t.Fatalf("expected 'hi', got: %T %v", ev, ev)
	}
}
