// Package gemini wraps the Gemini model behind typed operations: waste
// classification from images, the EcoChat assistant, and daily-tip
// generation. Responses are decoded here so nothing downstream handles
// raw model output.
package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/greenmason/greenmason/internal/patriot"
	"github.com/greenmason/greenmason/pkg/models"
	"google.golang.org/genai"
)

// pointsByCategory is the fixed category → points table for the
// classification flow. Unknown categories earn the landfill minimum.
var pointsByCategory = map[models.WasteCategory]int{
	models.CategoryRecyclable:  15,
	models.CategoryCompostable: 15,
	models.CategoryReusable:    20,
	models.CategoryEWaste:      10,
	models.CategoryHazardous:   10,
	models.CategoryLandfill:    5,
}

const defaultPoints = 5

// Client calls the Gemini API for all AI-backed endpoints.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini client. The API key is required; the model
// name defaults upstream via config.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{client: c, model: model}, nil
}

// ── Waste Classification ────────────────────────────────────

// ClassifyWaste classifies a base64-encoded image into a waste category
// with disposal guidance. A malformed model response degrades gracefully
// to the fallback classification instead of surfacing an error.
func (c *Client) ClassifyWaste(ctx context.Context, imageBase64, mimeType string) (*models.Classification, error) {
	imageBytes, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, fmt.Errorf("gemini: decode image: %w", err)
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(classificationPrompt),
			genai.NewPartFromBytes(imageBytes, mimeType),
		}, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 500,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: classify: %w", err)
	}

	return ParseClassification(resp.Text()), nil
}

// ParseClassification decodes the model's JSON reply, tolerating markdown
// code fences. On parse failure it returns the fixed fallback result
// (landfill, low confidence) rather than an error. The points table is
// applied either way.
func ParseClassification(text string) *models.Classification {
	text = stripCodeFences(text)

	var result models.Classification
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		result = models.Classification{
			Category:             models.CategoryLandfill,
			Confidence:           "low",
			ItemName:             "unidentified item",
			DisposalInstructions: "When in doubt, place in the general waste bin.",
			CampusTip:            "Check the recycling guide at sustainability.gmu.edu for detailed sorting info.",
			FunFact:              "The average American produces about 4.4 pounds of waste per day!",
		}
	}

	points, ok := pointsByCategory[result.Category]
	if !ok {
		points = defaultPoints
	}
	result.PointsEarned = points
	return &result
}

func stripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		if _, rest, ok := strings.Cut(text, "\n"); ok {
			text = rest
		}
	}
	if strings.HasSuffix(text, "```") {
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}
	return strings.TrimSpace(text)
}

// ── EcoChat ─────────────────────────────────────────────────

// EcoChat sends a message plus prior turns to the model and returns the
// reply with any in-band routing tag extracted and stripped.
func (c *Client) EcoChat(ctx context.Context, message string, history []models.ChatMessage) (*models.ChatResult, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, chatContents(message, history), &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0.7),
		MaxOutputTokens:   800,
		SystemInstruction: genai.NewContentFromText(chatSystemPrompt, genai.RoleUser),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: chat: %w", err)
	}

	return ExtractRouteTag(strings.TrimSpace(resp.Text())), nil
}

// chatContents converts client-supplied history plus the new message into
// model contents. Any role other than "user" is treated as a model turn.
func chatContents(message string, history []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role != "user" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

// ExtractRouteTag scans a reply for a [ROUTE:<agentKey>] marker. When
// found, the tag is removed from the reply and the routing fields are
// filled from the agent catalog. The first matching agent wins.
func ExtractRouteTag(reply string) *models.ChatResult {
	result := &models.ChatResult{Reply: reply}

	for _, agent := range patriot.Agents() {
		tag := "[ROUTE:" + agent.Key + "]"
		if !strings.Contains(reply, tag) {
			continue
		}
		result.Reply = strings.TrimSpace(strings.ReplaceAll(reply, tag, ""))
		result.RouteToPatriotAI = true
		result.PatriotAIAgent = agent.Key
		result.PatriotAIReason = fmt.Sprintf(
			"This question can be better answered by %s on PatriotAI — %s",
			agent.Name, agent.Description)
		break
	}
	return result
}

// ── Daily Tip ───────────────────────────────────────────────

// DailyTip generates a short sustainability tip for the voice endpoints.
func (c *Client) DailyTip(ctx context.Context) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(dailyTipPrompt, genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.9),
		MaxOutputTokens: 100,
	})
	if err != nil {
		return "", fmt.Errorf("gemini: daily tip: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}
