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

const memePrefix = "/meme "

type CommentsService interface {
	Thread(postID int) ([]models.CommentNode, error)
	Create(ctx context.Context, postID int, actorID string, req models.CreateCommentRequest) (*models.Comment, *models.ModerationWarning, error)
	ToggleReaction(postID, commentID int, actorID, reactionType string) ([]models.Reaction, error)
	Delete(postID, commentID int, actorID string) error
}

type commentsService struct {
	repo      repository.CommentsRepository
	posts     repository.PostsRepository
	moderator Moderator
	memes     MemeGenerator
	redis     Cache
}

func NewCommentsService(repo repository.CommentsRepository, posts repository.PostsRepository, moderator Moderator, memes MemeGenerator, redis Cache) CommentsService {
	return &commentsService{repo: repo, posts: posts, moderator: moderator, memes: memes, redis: redis}
}

func (s *commentsService) Thread(postID int) ([]models.CommentNode, error) {
	exists, err := s.posts.Exists(postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("Post not found")
	}

	cacheKey := fmt.Sprintf("comments:%d", postID)
	var cached []models.CommentNode
	if s.redis.Get(cacheKey, &cached) {
		return cached, nil
	}

	flat, err := s.repo.ListByPost(postID)
	if err != nil {
		return nil, err
	}

	tree := models.BuildThread(flat)
	s.redis.Set(cacheKey, tree, 15*time.Second)
	return tree, nil
}

func (s *commentsService) Create(ctx context.Context, postID int, actorID string, req models.CreateCommentRequest) (*models.Comment, *models.ModerationWarning, error) {
	exists, err := s.posts.Exists(postID)
	if err != nil {
		return nil, nil, err
	}
	if !exists {
		return nil, nil, apperr.NotFound("Post not found")
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, nil, apperr.Validation("text is required")
	}
	if len(text) > maxDescriptionLen {
		return nil, nil, apperr.Validation("text too long")
	}

	if req.ParentCommentID != nil {
		ok, err := s.repo.ParentBelongsToPost(*req.ParentCommentID, postID)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			return nil, nil, apperr.Validation("parentCommentId must reference a comment on the same post")
		}
	}

	comment := models.Comment{
		PostID:          postID,
		AuthorID:        actorID,
		ParentCommentID: req.ParentCommentID,
	}

	if strings.HasPrefix(text, memePrefix) {
		// Meme comments skip moderation: the generator only produces
		// school-safe captions.
		prompt := strings.TrimSpace(strings.TrimPrefix(text, memePrefix))
		idea, err := s.memes.GenerateMemeIdea(ctx, prompt)
		if err != nil {
			return nil, nil, apperr.Upstream("meme generation unavailable", err)
		}
		url, err := s.memes.GenerateMemeImage(ctx, idea.Caption)
		if err != nil {
			log.Errorf("[COMMENTS] meme image failed: %v", err)
			url = ""
		}
		comment.Text = idea.Caption
		comment.IsMeme = true
		comment.MemeURL = url
	} else {
		toxicity, err := s.moderator.CheckToxicity(ctx, text)
		if err != nil {
			return nil, nil, apperr.Upstream("moderation unavailable", err)
		}
		if toxicity.IsToxic && !req.ConfirmOverride {
			return nil, &models.ModerationWarning{Warning: true, Message: toxicity.Message}, nil
		}
		comment.Text = text
	}

	created, err := s.repo.Create(comment)
	if err != nil {
		return nil, nil, err
	}

	s.redis.Del(fmt.Sprintf("comments:%d", postID))
	return &created, nil, nil
}

func (s *commentsService) ToggleReaction(postID, commentID int, actorID, reactionType string) ([]models.Reaction, error) {
	if !models.ReactionTypes[reactionType] {
		return nil, apperr.Validation("invalid reaction type")
	}

	c, err := s.repo.GetByID(commentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Comment not found")
	}
	if err != nil {
		return nil, err
	}
	if c.PostID != postID {
		return nil, apperr.NotFound("Comment not found")
	}

	reactions, err := s.repo.ToggleReaction(commentID, actorID, reactionType)
	if err != nil {
		return nil, err
	}
	s.redis.Del(fmt.Sprintf("comments:%d", postID))
	return reactions, nil
}

func (s *commentsService) Delete(postID, commentID int, actorID string) error {
	c, err := s.repo.GetByID(commentID)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("Comment not found")
	}
	if err != nil {
		return err
	}
	if c.PostID != postID {
		return apperr.NotFound("Comment not found")
	}
	if c.AuthorID != actorID {
		return apperr.Forbidden("Forbidden")
	}

	if err := s.repo.Delete(commentID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	s.redis.Del(fmt.Sprintf("comments:%d", postID))
	return nil
}
