package ai

import (
	"context"
	"strings"
)

type ToxicityResult struct {
	IsToxic bool   `json:"isToxic"`
	Message string `json:"message"`
}

const moderationSystemPrompt = `You are a content moderator for a student community. Analyze the given text for toxicity, harassment, hate, sexual explicitness, or inappropriate content. Respond ONLY with a JSON object: { "isToxic": boolean, "message": string }. The message should be a short, constructive warning if toxic, otherwise a brief reassurance.`

// CheckToxicity asks the moderator model to score the text. A flagged result
// does not block anything by itself; callers run the warn-then-confirm flow.
func (c *Client) CheckToxicity(ctx context.Context, text string) (ToxicityResult, error) {
	raw, err := c.completeJSON(ctx, moderationSystemPrompt, "Analyze toxicity for: "+text)
	if err != nil {
		return ToxicityResult{}, err
	}

	result := ToxicityResult{}
	result.IsToxic, _ = raw["isToxic"].(bool)
	if msg, ok := stringField(raw, "message"); ok {
		result.Message = msg
	} else if result.IsToxic {
		result.Message = "This content may be harmful or inappropriate for the community."
	} else {
		result.Message = "No toxicity detected."
	}
	return result, nil
}

type MemeIdea struct {
	Caption string `json:"caption"`
	Style   string `json:"style"`
}

const memeSystemPrompt = `You turn short campus-related prompts into fun meme captions. Return JSON: { "caption": string, "style": string }. Keep it safe for school.`

func (c *Client) GenerateMemeIdea(ctx context.Context, text string) (MemeIdea, error) {
	raw, err := c.completeJSON(ctx, memeSystemPrompt, "Create a meme idea for: "+text)
	if err != nil {
		return MemeIdea{}, err
	}

	idea := MemeIdea{Caption: "When " + text + " hits different", Style: "dank-classic"}
	if caption, ok := stringField(raw, "caption"); ok {
		idea.Caption = caption
	}
	if style, ok := stringField(raw, "style"); ok {
		idea.Style = style
	}
	return idea, nil
}

// GenerateMemeImage renders a caption as a school-safe meme picture.
func (c *Client) GenerateMemeImage(ctx context.Context, caption string) (string, error) {
	prompt := "Meme style image: " + strings.TrimSpace(caption) + ". Keep it safe for school."
	return c.GenerateImage(ctx, prompt)
}
