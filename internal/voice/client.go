// Package voice wraps the ElevenLabs text-to-speech API. Single attempt,
// bounded timeout, fail fast: a slow or failing provider surfaces as an
// error instead of hanging the request.
package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"
)

const defaultEndpoint = "https://api.elevenlabs.io"

// maxTextLen caps the synthesized text in runes; longer inputs are
// truncated at a rune boundary and given an ellipsis before the
// provider call.
const maxTextLen = 500

// Client calls the ElevenLabs text-to-speech API.
type Client struct {
	endpoint string
	apiKey   string
	voiceID  string
	modelID  string
	client   *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithEndpoint overrides the API base URL (tests).
func WithEndpoint(url string) Option {
	return func(c *Client) { c.endpoint = url }
}

// NewClient creates an ElevenLabs client with a 30 second call timeout.
func NewClient(apiKey, voiceID, modelID string, opts ...Option) *Client {
	c := &Client{
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		voiceID:  voiceID,
		modelID:  modelID,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type speakRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

// Speak converts text to speech and returns MP3 audio bytes.
func (c *Client) Speak(ctx context.Context, text string) ([]byte, error) {
	if utf8.RuneCountInString(text) > maxTextLen {
		runes := []rune(text)
		text = string(runes[:maxTextLen-3]) + "..."
	}

	body, err := json.Marshal(speakRequest{
		Text:    text,
		ModelID: c.modelID,
		VoiceSettings: voiceSettings{
			Stability:       0.5,
			SimilarityBoost: 0.75,
			Style:           0.3,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: marshal request: %w", err)
	}

	url := c.endpoint + "/v1/text-to-speech/" + c.voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: create request: %w", err)
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("elevenlabs: status %d: %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs: read audio: %w", err)
	}
	return audio, nil
}

// ScoreSummary synthesizes an audio recap of a user's Green Score.
func (c *Client) ScoreSummary(ctx context.Context, displayName string, score, rank int) ([]byte, error) {
	text := fmt.Sprintf(
		"Hey %s! Your Green Score is %d points, and you're ranked number %d on the campus leaderboard. "+
			"Keep making sustainable choices — every action counts! Happy Valentine's Day from GreenMason.",
		displayName, score, rank)
	return c.Speak(ctx, text)
}
