package levelgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sashabaranov/go-openai"

	"github.com/stubro-ai/stubro/internal/config"
	"github.com/stubro-ai/stubro/internal/games/adventure"
)

// BackendOpenAI is the name of the chat-completion backend.
const BackendOpenAI = "openai"

func init() {
	Register(BackendOpenAI, "AI level designer via an OpenAI-compatible chat API", NewOpenAI)
}

const systemPromptTemplate = `You are an AI Level Designer for an educational maze game.
Read the student's study material and design ONE level that tests it.

Reply with a single JSON object and nothing else. Schema:
{
  "title": string,                       // short title for the level
  "grid": [[{"type": "floor"|"wall"|"exit"}]],  // grid[y][x], %d rows of %d tiles
  "player_start": {"x": int, "y": int},
  "interactions": [{
    "id": int,                           // unique
    "position": {"x": int, "y": int},
    "question": string,
    "correct_answer": string,            // one or two words
    "success_message": string,
    "failure_message": string
  }]
}

Rules:
- Every row has exactly %d tiles.
- The player start and every interaction sit on floor tiles, each on its own cell.
- Place exactly %d interactions along the path to the exit.
- Exactly one exit, reachable from the player start without crossing walls.
- Questions must be answerable from the material with a short typed answer.`

// OpenAI generates levels with a chat completion request.
type OpenAI struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	maxChars    int
	shape       config.LevelShape
	logger      *log.Logger
}

// NewOpenAI creates the backend. The API key is read from the environment
// variable named in the generator config.
func NewOpenAI(opts Options) (Generator, error) {
	gc := opts.Generator
	key := gc.APIKey()
	if key == "" {
		return nil, fmt.Errorf("levelgen: no API key; set %s or use --backend offline", gc.APIKeyEnv)
	}

	clientCfg := openai.DefaultConfig(key)
	if gc.BaseURL != "" {
		clientCfg.BaseURL = gc.BaseURL
	}

	shape := opts.Shape
	if shape.Width == 0 {
		shape = config.ShapeForPreset(config.DifficultyNormal)
	}

	return &OpenAI{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       gc.Model,
		temperature: gc.Temperature,
		timeout:     gc.Timeout(),
		maxChars:    gc.MaxContentChars,
		shape:       shape,
		logger:      opts.logger().WithPrefix("levelgen"),
	}, nil
}

// Generate sends one request and validates the returned level.
func (o *OpenAI) Generate(ctx context.Context, studyText string) (*adventure.Level, error) {
	text, err := PrepareText(studyText, o.maxChars)
	if err != nil {
		return nil, err
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: o.systemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Study material:\n\n" + text,
			},
		},
		Temperature: o.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, o.mapError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response from model", ErrMalformedLevel)
	}

	o.logger.Debug("level generated",
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
		"duration", time.Since(start).Round(time.Millisecond),
	)

	return ParseLevelJSON(resp.Choices[0].Message.Content)
}

func (o *OpenAI) systemPrompt() string {
	s := o.shape
	return fmt.Sprintf(systemPromptTemplate, s.Height, s.Width, s.Width, s.Checkpoints)
}

// mapError turns quota and payment failures into ErrInsufficientCredits.
func (o *OpenAI) mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusPaymentRequired ||
			apiErr.Type == "insufficient_quota" || apiErr.Code == "insufficient_quota" {
			return fmt.Errorf("%w: %s", ErrInsufficientCredits, apiErr.Message)
		}
		o.logger.Warn("generation request failed", "status", apiErr.HTTPStatusCode, "error", apiErr.Message)
		return fmt.Errorf("levelgen: model request failed: %w", err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusPaymentRequired {
		return fmt.Errorf("%w: %v", ErrInsufficientCredits, reqErr.Err)
	}

	o.logger.Warn("generation request failed", "error", err)
	return fmt.Errorf("levelgen: model request failed: %w", err)
}

// ParseLevelJSON decodes a level in the wire format and validates it.
// Markdown code fences around the JSON are tolerated.
func ParseLevelJSON(raw string) (*adventure.Level, error) {
	raw = stripFence(raw)

	var level adventure.Level
	if err := json.Unmarshal([]byte(raw), &level); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedLevel, err)
	}
	if err := level.Validate(); err != nil {
		return nil, err
	}
	return &level, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:] // Drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
