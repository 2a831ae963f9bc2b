package services

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"unafeed/pkg/ai"
	"unafeed/pkg/models"
)

// In-memory repositories with the same observable semantics as the Postgres
// implementations, so the service layer can be exercised without a database.

type fakePostsRepo struct {
	posts  map[int]*models.Post
	nextID int
}

func newFakePostsRepo() *fakePostsRepo {
	return &fakePostsRepo{posts: map[int]*models.Post{}, nextID: 1}
}

func (r *fakePostsRepo) Feed(kind string, limit, offset int) ([]models.Post, int, error) {
	var all []models.Post
	for _, p := range r.posts {
		if kind == "" || p.Kind == kind {
			all = append(all, *p)
		}
	}
	total := len(all)
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakePostsRepo) GetByID(id int) (models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return models.Post{}, sql.ErrNoRows
	}
	return *p, nil
}

func (r *fakePostsRepo) Exists(id int) (bool, error) {
	_, ok := r.posts[id]
	return ok, nil
}

func (r *fakePostsRepo) IncrementViews(id int) error {
	if p, ok := r.posts[id]; ok {
		p.Views++
	}
	return nil
}

func (r *fakePostsRepo) Create(p models.Post) (models.Post, error) {
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	p.Reactions = []models.Reaction{}
	if p.Kind == models.KindEvent {
		p.RSVPs = []models.RSVP{}
	}
	stored := p
	r.posts[p.ID] = &stored
	return p, nil
}

func (r *fakePostsRepo) Update(p models.Post) error {
	stored, ok := r.posts[p.ID]
	if !ok {
		return sql.ErrNoRows
	}
	reactions, rsvps := stored.Reactions, stored.RSVPs
	*stored = p
	stored.Reactions, stored.RSVPs = reactions, rsvps
	return nil
}

func (r *fakePostsRepo) Delete(id int) error {
	if _, ok := r.posts[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.posts, id)
	return nil
}

func (r *fakePostsRepo) ToggleReaction(postID int, userID, reactionType string) ([]models.Reaction, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	p.Reactions = toggle(p.Reactions, userID, reactionType)
	out := make([]models.Reaction, len(p.Reactions))
	copy(out, p.Reactions)
	return out, nil
}

func toggle(reactions []models.Reaction, userID, reactionType string) []models.Reaction {
	for i, re := range reactions {
		if re.UserID != userID {
			continue
		}
		if re.Type == reactionType {
			return append(reactions[:i:i], reactions[i+1:]...)
		}
		reactions[i].Type = reactionType
		return reactions
	}
	return append(reactions, models.Reaction{UserID: userID, Type: reactionType})
}

func (r *fakePostsRepo) SetRSVP(postID int, userID, status string) ([]models.RSVP, error) {
	p, ok := r.posts[postID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	updated := false
	for i := range p.RSVPs {
		if p.RSVPs[i].UserID == userID {
			p.RSVPs[i].Status = status
			p.RSVPs[i].UpdatedAt = time.Now()
			updated = true
			break
		}
	}
	if !updated {
		p.RSVPs = append(p.RSVPs, models.RSVP{UserID: userID, Status: status, UpdatedAt: time.Now()})
	}
	out := make([]models.RSVP, len(p.RSVPs))
	copy(out, p.RSVPs)
	return out, nil
}

type fakeCommentsRepo struct {
	comments map[int]*models.Comment
	nextID   int
}

func newFakeCommentsRepo() *fakeCommentsRepo {
	return &fakeCommentsRepo{comments: map[int]*models.Comment{}, nextID: 1}
}

func (r *fakeCommentsRepo) ListByPost(postID int) ([]models.Comment, error) {
	var out []models.Comment
	for id := 1; id < r.nextID; id++ {
		if c, ok := r.comments[id]; ok && c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentsRepo) GetByID(id int) (models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return models.Comment{}, sql.ErrNoRows
	}
	return *c, nil
}

func (r *fakeCommentsRepo) Create(c models.Comment) (models.Comment, error) {
	c.ID = r.nextID
	r.nextID++
	c.CreatedAt = time.Now()
	c.Reactions = []models.Reaction{}
	stored := c
	r.comments[c.ID] = &stored
	return c, nil
}

func (r *fakeCommentsRepo) Delete(id int) error {
	if _, ok := r.comments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentsRepo) ParentBelongsToPost(parentID, postID int) (bool, error) {
	c, ok := r.comments[parentID]
	return ok && c.PostID == postID, nil
}

func (r *fakeCommentsRepo) ToggleReaction(commentID int, userID, reactionType string) ([]models.Reaction, error) {
	c, ok := r.comments[commentID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c.Reactions = toggle(c.Reactions, userID, reactionType)
	out := make([]models.Reaction, len(c.Reactions))
	copy(out, c.Reactions)
	return out, nil
}

// fakeModerator flags any text containing "toxic".
type fakeModerator struct {
	calls int
	err   error
}

func (m *fakeModerator) CheckToxicity(_ context.Context, text string) (ai.ToxicityResult, error) {
	m.calls++
	if m.err != nil {
		return ai.ToxicityResult{}, m.err
	}
	if strings.Contains(text, "toxic") {
		return ai.ToxicityResult{IsToxic: true, Message: "flagged"}, nil
	}
	return ai.ToxicityResult{IsToxic: false, Message: "No toxicity detected."}, nil
}

type fakeMemes struct{}

func (fakeMemes) GenerateMemeIdea(_ context.Context, text string) (ai.MemeIdea, error) {
	return ai.MemeIdea{Caption: "caption for " + text, Style: "dank-classic"}, nil
}

func (fakeMemes) GenerateMemeImage(_ context.Context, _ string) (string, error) {
	return "https://memes.example/1.png", nil
}
