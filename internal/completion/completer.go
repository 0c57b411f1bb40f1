package completion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/baalimago/dolores/internal/config"
	"github.com/baalimago/dolores/internal/models"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/debug"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
)

// completionsPath is appended to the configured base url, openai-compatible
// vendors all expose the chat completions endpoint here.
const completionsPath = "/chat/completions"

var dataPrefix = []byte("data: ")

// StreamCompleter opens streaming completion requests against an
// openai-compatible chat completions API. It owns no conversation state,
// the full message list is passed on every call.
type StreamCompleter struct {
	Model  string
	url    string
	apiKey string
	client *http.Client
	debug  bool
}

func NewStreamCompleter(conf config.Config) *StreamCompleter {
	return &StreamCompleter{
		Model:  conf.Model,
		url:    conf.BaseURL + completionsPath,
		apiKey: conf.APIKey,
		client: &http.Client{},
		debug:  misc.Truthy(os.Getenv("DEBUG")),
	}
}

// StreamCompletions taking the messages as prompt conversation. Returns a
// channel of events which closes when the stream ends.
func (s *StreamCompleter) StreamCompletions(ctx context.Context, chat models.Chat) (chan models.CompletionEvent, error) {
	req, err := s.createRequest(ctx, chat)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	res, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(res.Body)
		res.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %v, body: %v", res.Status, string(body))
	}
	return s.handleStreamResponse(ctx, res), nil
}

func (s *StreamCompleter) createRequest(ctx context.Context, chat models.Chat) (*http.Request, error) {
	reqData := completionRequest{
		Model:    s.Model,
		Messages: chat.Messages,
		Stream:   true,
	}
	if s.debug {
		ancli.PrintOK(fmt.Sprintf("completion request: %v\n", debug.IndentedJsonFmt(reqData)))
	}
	jsonData, err := json.Marshal(reqData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %v", s.apiKey))
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Connection", "keep-alive")
	return req, nil
}

func (s *StreamCompleter) handleStreamResponse(ctx context.Context, res *http.Response) chan models.CompletionEvent {
	outChan := make(chan models.CompletionEvent)
	go func() {
		br := bufio.NewReader(res.Body)
		defer func() {
			res.Body.Close()
			close(outChan)
		}()
		for {
			if ctx.Err() != nil {
				return
			}
			token, err := br.ReadBytes('\n')
			if err != nil {
				if !errors.Is(err, io.EOF) {
					outChan <- fmt.Errorf("failed to read line: %w", err)
				}
				return
			}
			event := s.handleStreamChunk(token)
			outChan <- event
			if _, isStop := event.(models.StopEvent); isStop {
				return
			}
		}
	}()

	return outChan
}

func (s *StreamCompleter) handleStreamChunk(token []byte) models.CompletionEvent {
	token = bytes.TrimPrefix(token, dataPrefix)
	token = bytes.TrimSpace(token)
	if len(token) == 0 {
		return models.NoopEvent{}
	}
	if string(token) == "[DONE]" {
		return models.StopEvent{}
	}

	if s.debug {
		ancli.PrintOK(fmt.Sprintf("token: %+v\n", string(token)))
	}
	var chunk chatCompletionChunk
	err := json.Unmarshal(token, &chunk)
	if err != nil {
		// Expect some failing unmarshalls, which seems to be fine
		if s.debug {
			ancli.PrintWarn(fmt.Sprintf("failed to unmarshal token: %v, err: %v\n", string(token), err))
		}
		return models.NoopEvent{}
	}
	if len(chunk.Choices) == 0 {
		return models.NoopEvent{}
	}

	content, ok := chunk.Choices[0].Delta.Content.(string)
	if !ok || content == "" {
		return models.NoopEvent{}
	}
	return content
}
