package models

import "time"

// Post kinds (discriminator values).
const (
	KindEvent        = "Event"
	KindLostFound    = "LostFound"
	KindAnnouncement = "Announcement"
)

func ValidKind(kind string) bool {
	return kind == KindEvent || kind == KindLostFound || kind == KindAnnouncement
}

// Reaction types accepted by the API. The UI only ever sends these five, so the
// server rejects anything else instead of storing free text.
var ReactionTypes = map[string]bool{
	"like":  true,
	"love":  true,
	"wow":   true,
	"laugh": true,
	"sad":   true,
}

type Reaction struct {
	UserID string `json:"userId"`
	Type   string `json:"type"`
}

type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
}

type RSVP struct {
	UserID    string    `json:"userId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const (
	RSVPGoing    = "going"
	RSVPNotGoing = "not_going"
)

type RSVPCounts struct {
	Going    int `json:"going"`
	NotGoing int `json:"notGoing"`
}

// CountRSVPs derives the going/not-going tallies from the rsvp list.
func CountRSVPs(rsvps []RSVP) RSVPCounts {
	var c RSVPCounts
	for _, r := range rsvps {
		switch r.Status {
		case RSVPGoing:
			c.Going++
		case RSVPNotGoing:
			c.NotGoing++
		}
	}
	return c
}

// Post is the shared base record plus the kind-specific extension fields.
// Exactly one extension group is populated, selected by Kind.
type Post struct {
	ID          int        `json:"id"`
	Kind        string     `json:"kind"`
	AuthorID    string     `json:"authorId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	Images      []Image    `json:"images"`
	Reactions   []Reaction `json:"reactions"`
	Views       int        `json:"views"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Event
	Date     *time.Time `json:"date,omitempty"`
	Location string     `json:"location,omitempty"`
	RSVPs    []RSVP     `json:"rsvps,omitempty"`

	// LostFound
	ItemName    string `json:"itemName,omitempty"`
	ItemImage   string `json:"imageUrl,omitempty"`
	ContactInfo string `json:"contactInfo,omitempty"`
	ItemStatus  string `json:"status,omitempty"`

	// Announcement
	PDFURL     string `json:"pdfUrl,omitempty"`
	Importance string `json:"importance,omitempty"`
}

type CreatePostRequest struct {
	Kind            string   `json:"kind"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags"`
	Images          []Image  `json:"images"`
	ConfirmOverride bool     `json:"confirmOverride"`

	Date        string `json:"date"`
	Location    string `json:"location"`
	ItemName    string `json:"itemName"`
	ItemImage   string `json:"imageUrl"`
	ContactInfo string `json:"contactInfo"`
	ItemStatus  string `json:"status"`
	PDFURL      string `json:"pdfUrl"`
	Importance  string `json:"importance"`
}

// UpdatePostRequest carries optional fields; nil means "leave unchanged".
// Kind-specific fields are only applied when they match the post's kind.
type UpdatePostRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`

	Date        *string `json:"date"`
	Location    *string `json:"location"`
	ItemName    *string `json:"itemName"`
	ItemImage   *string `json:"imageUrl"`
	ContactInfo *string `json:"contactInfo"`
	ItemStatus  *string `json:"status"`
	PDFURL      *string `json:"pdfUrl"`
	Importance  *string `json:"importance"`
}

type Feed struct {
	Items []Post `json:"items"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// ModerationWarning is the 200-status payload returned when content is flagged
// and the caller has not yet confirmed the override.
type ModerationWarning struct {
	Warning      bool   `json:"warning"`
	Message      string `json:"message"`
	ToxicContent string `json:"toxicContent,omitempty"`
}
