package ai

import (
	"context"
	"strings"
	"time"
)

// Classification is the structured draft extracted from free text.
type Classification struct {
	Intent      string  `json:"intent"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    *string `json:"location"`
	Date        *string `json:"date"`
	Department  *string `json:"department"`
	Item        *string `json:"item"`
}

const classifySystemPrompt = `You are an AI assistant for a campus social feed. Your job is to analyze user input and create structured posts.

CLASSIFICATION RULES:
- Event: workshops, competitions, meetings, parties, festivals, seminars, talks
- LostFound: lost items, found items, missing belongings
- Announcement: general news, updates, notices, policy changes, department info

IMPORTANT INSTRUCTIONS:
1. Create a CATCHY, ENGAGING title (different from user input)
2. Expand the description with helpful details while keeping the user's core message
3. For dates: convert relative terms to ISO format (YYYY-MM-DDTHH:MM:SSZ)
4. Extract specific locations mentioned
5. Don't copy the user's exact words for title/description

Return ONLY valid JSON:
{
  "intent": "Event | LostFound | Announcement",
  "title": "Engaging title that summarizes the post (NOT the user's exact words)",
  "description": "Enhanced description with context and details (expand on user input)",
  "location": "Specific location if mentioned, else null",
  "date": "ISO datetime string or null",
  "department": "Department name for announcements, else null",
  "item": "Specific item name for lost/found, else null"
}`

// Classify turns free text into a post draft. Whatever the model returns, the
// result always has a valid intent and non-empty title and description.
func (c *Client) Classify(ctx context.Context, text string) (Classification, error) {
	user := `Analyze this campus post and create structured output: "` + text + `"`
	raw, err := c.completeJSON(ctx, classifySystemPrompt, user)
	if err != nil {
		return Classification{}, err
	}
	return sanitizeClassification(raw, text, time.Now()), nil
}

func sanitizeClassification(raw map[string]any, text string, now time.Time) Classification {
	out := Classification{
		Intent:      "Announcement",
		Title:       fallbackTitle(text),
		Description: enhanceDescription(text),
	}

	if intent, ok := stringField(raw, "intent"); ok {
		if intent == "Event" || intent == "LostFound" || intent == "Announcement" {
			out.Intent = intent
		}
	}
	if title, ok := stringField(raw, "title"); ok {
		out.Title = title
	}
	if desc, ok := stringField(raw, "description"); ok {
		out.Description = desc
	}
	if loc, ok := stringField(raw, "location"); ok {
		out.Location = &loc
	}
	if dept, ok := stringField(raw, "department"); ok {
		out.Department = &dept
	}
	if item, ok := stringField(raw, "item"); ok {
		out.Item = &item
	}
	if date, ok := stringField(raw, "date"); ok {
		if t := NormalizeDate(date, now); t != nil {
			iso := t.UTC().Format(time.RFC3339)
			out.Date = &iso
		}
	}
	return out
}

func stringField(raw map[string]any, key string) (string, bool) {
	s, ok := raw[key].(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// fallbackTitle trims the input to its first few words when the model gives
// none back.
func fallbackTitle(text string) string {
	words := strings.Fields(text)
	n := len(words)
	if n > 6 {
		n = 6
	}
	title := strings.TrimRight(strings.Join(words[:n], " "), ".!?")
	if n < len(words) {
		title += "..."
	}
	return title
}

func enhanceDescription(text string) string {
	if len(text) < 50 {
		return text + ". More details will be shared soon."
	}
	return text
}
