package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"unafeed/pkg/apperr"
	"unafeed/pkg/models"
	"unafeed/pkg/repository"

	log "github.com/sirupsen/logrus"
)

const maxDescriptionLen = 5000

type PostsService interface {
	Feed(kind string, page, limit int) (models.Feed, error)
	Get(id int) (models.Post, error)
	Create(ctx context.Context, actorID string, req models.CreatePostRequest) (*models.Post, *models.ModerationWarning, error)
	Update(id int, actorID string, req models.UpdatePostRequest) (models.Post, error)
	Delete(id int, actorID string) error
	ToggleReaction(id int, actorID, reactionType string) ([]models.Reaction, error)
	SetRSVP(id int, actorID, status string) ([]models.RSVP, models.RSVPCounts, error)
}

type postsService struct {
	repo      repository.PostsRepository
	moderator Moderator
	redis     Cache
}

func NewPostsService(repo repository.PostsRepository, moderator Moderator, redis Cache) PostsService {
	return &postsService{repo: repo, moderator: moderator, redis: redis}
}

func (s *postsService) Feed(kind string, page, limit int) (models.Feed, error) {
	if kind != "" && !models.ValidKind(kind) {
		return models.Feed{}, apperr.Validation("invalid kind")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("feed:%s:%d:%d", kind, page, limit)
	var cached models.Feed
	if s.redis.Get(cacheKey, &cached) {
		return cached, nil
	}

	items, total, err := s.repo.Feed(kind, limit, (page-1)*limit)
	if err != nil {
		return models.Feed{}, err
	}

	feed := models.Feed{Items: items, Total: total, Page: page, Limit: limit}
	s.redis.Set(cacheKey, feed, 15*time.Second)
	return feed, nil
}

func (s *postsService) Get(id int) (models.Post, error) {
	// Counted before the read so the response reflects this view. The
	// increment is a single atomic UPDATE, safe under concurrent readers.
	if err := s.repo.IncrementViews(id); err != nil {
		log.Errorf("[POSTS] increment views id=%d: %v", id, err)
	}

	p, err := s.repo.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, apperr.NotFound("Post not found")
	}
	return p, err
}

func (s *postsService) Create(ctx context.Context, actorID string, req models.CreatePostRequest) (*models.Post, *models.ModerationWarning, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" || req.Description == "" {
		return nil, nil, apperr.Validation("title and description are required")
	}
	if len(req.Description) > maxDescriptionLen {
		return nil, nil, apperr.Validation("description too long")
	}
	if !models.ValidKind(req.Kind) {
		return nil, nil, apperr.Validation("kind must be Event, LostFound or Announcement")
	}

	toxicity, err := s.moderator.CheckToxicity(ctx, req.Description)
	if err != nil {
		return nil, nil, apperr.Upstream("moderation unavailable", err)
	}
	if toxicity.IsToxic && !req.ConfirmOverride {
		return nil, &models.ModerationWarning{
			Warning:      true,
			Message:      toxicity.Message,
			ToxicContent: req.Description,
		}, nil
	}

	post, err := buildPost(actorID, req)
	if err != nil {
		return nil, nil, err
	}

	created, err := s.repo.Create(post)
	if err != nil {
		return nil, nil, err
	}

	s.redis.DelPattern("feed:*")
	log.Infof("[POSTS] created id=%d kind=%s author=%s", created.ID, created.Kind, created.AuthorID)
	return &created, nil, nil
}

// buildPost assembles the kind-specific payload, enforcing the per-kind
// required fields.
func buildPost(actorID string, req models.CreatePostRequest) (models.Post, error) {
	p := models.Post{
		Kind:        req.Kind,
		AuthorID:    actorID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		Images:      req.Images,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}

	switch req.Kind {
	case models.KindEvent:
		if req.Date == "" || strings.TrimSpace(req.Location) == "" {
			return p, apperr.Validation("date and location are required for events")
		}
		date, err := parseDate(req.Date)
		if err != nil {
			return p, apperr.Validation("invalid date")
		}
		p.Date = &date
		p.Location = strings.TrimSpace(req.Location)

	case models.KindLostFound:
		if strings.TrimSpace(req.ItemName) == "" || strings.TrimSpace(req.ContactInfo) == "" {
			return p, apperr.Validation("itemName and contactInfo are required for lost&found posts")
		}
		if req.ItemStatus != "lost" && req.ItemStatus != "found" {
			return p, apperr.Validation("status must be lost or found")
		}
		p.ItemName = strings.TrimSpace(req.ItemName)
		p.ItemImage = req.ItemImage
		p.ContactInfo = strings.TrimSpace(req.ContactInfo)
		p.ItemStatus = req.ItemStatus

	case models.KindAnnouncement:
		importance := req.Importance
		if importance == "" {
			importance = "medium"
		}
		if importance != "low" && importance != "medium" && importance != "high" {
			return p, apperr.Validation("importance must be low, medium or high")
		}
		p.PDFURL = req.PDFURL
		p.Importance = importance
	}
	return p, nil
}

func parseDate(s string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

func (s *postsService) Update(id int, actorID string, req models.UpdatePostRequest) (models.Post, error) {
	p, err := s.repo.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, apperr.NotFound("Post not found")
	}
	if err != nil {
		return models.Post{}, err
	}
	if p.AuthorID != actorID {
		return models.Post{}, apperr.Forbidden("Forbidden")
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return models.Post{}, apperr.Validation("title cannot be empty")
		}
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return models.Post{}, apperr.Validation("description cannot be empty")
		}
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}

	// Kind-specific fields only apply to the matching kind; the rest are
	// ignored, mirroring the per-kind field whitelists of the update API.
	switch p.Kind {
	case models.KindEvent:
		if req.Date != nil {
			date, err := parseDate(*req.Date)
			if err != nil {
				return models.Post{}, apperr.Validation("invalid date")
			}
			p.Date = &date
		}
		if req.Location != nil {
			p.Location = strings.TrimSpace(*req.Location)
		}
	case models.KindLostFound:
		if req.ItemName != nil {
			p.ItemName = strings.TrimSpace(*req.ItemName)
		}
		if req.ItemImage != nil {
			p.ItemImage = *req.ItemImage
		}
		if req.ContactInfo != nil {
			p.ContactInfo = strings.TrimSpace(*req.ContactInfo)
		}
		if req.ItemStatus != nil {
			if *req.ItemStatus != "lost" && *req.ItemStatus != "found" {
				return models.Post{}, apperr.Validation("status must be lost or found")
			}
			p.ItemStatus = *req.ItemStatus
		}
	case models.KindAnnouncement:
		if req.PDFURL != nil {
			p.PDFURL = *req.PDFURL
		}
		if req.Importance != nil {
			if *req.Importance != "low" && *req.Importance != "medium" && *req.Importance != "high" {
				return models.Post{}, apperr.Validation("importance must be low, medium or high")
			}
			p.Importance = *req.Importance
		}
	}

	if err := s.repo.Update(p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Post{}, apperr.NotFound("Post not found")
		}
		return models.Post{}, err
	}

	s.redis.DelPattern("feed:*")
	return s.repo.GetByID(id)
}

func (s *postsService) Delete(id int, actorID string) error {
	p, err := s.repo.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("Post not found")
	}
	if err != nil {
		return err
	}
	if p.AuthorID != actorID {
		return apperr.Forbidden("Forbidden")
	}

	if err := s.repo.Delete(id); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	s.redis.DelPattern("feed:*")
	s.redis.Del(fmt.Sprintf("comments:%d", id))
	log.Infof("[POSTS] deleted id=%d author=%s", id, actorID)
	return nil
}

func (s *postsService) ToggleReaction(id int, actorID, reactionType string) ([]models.Reaction, error) {
	if !models.ReactionTypes[reactionType] {
		return nil, apperr.Validation("invalid reaction type")
	}
	exists, err := s.repo.Exists(id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Post not found")
	}

	reactions, err := s.repo.ToggleReaction(id, actorID, reactionType)
	if err != nil {
		return nil, err
	}
	s.redis.DelPattern("feed:*")
	return reactions, nil
}

func (s *postsService) SetRSVP(id int, actorID, status string) ([]models.RSVP, models.RSVPCounts, error) {
	if status != models.RSVPGoing && status != models.RSVPNotGoing {
		return nil, models.RSVPCounts{}, apperr.Validation("status must be going or not_going")
	}

	p, err := s.repo.GetByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.RSVPCounts{}, apperr.NotFound("Post not found")
	}
	if err != nil {
		return nil, models.RSVPCounts{}, err
	}
	if p.Kind != models.KindEvent {
		return nil, models.RSVPCounts{}, apperr.Validation("rsvp is only available on events")
	}

	rsvps, err := s.repo.SetRSVP(id, actorID, status)
	if err != nil {
		return nil, models.RSVPCounts{}, err
	}
	s.redis.DelPattern("feed:*")
	return rsvps, models.CountRSVPs(rsvps), nil
}
