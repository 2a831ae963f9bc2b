package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"unafeed/pkg/models"
)

type CommentsRepository interface {
	ListByPost(postID int) ([]models.Comment, error)
	GetByID(id int) (models.Comment, error)
	Create(c models.Comment) (models.Comment, error)
	Delete(id int) error
	ParentBelongsToPost(parentID, postID int) (bool, error)
	ToggleReaction(commentID int, userID, reactionType string) ([]models.Reaction, error)
}

type commentsRepository struct {
	db *sql.DB
}

func NewCommentsRepository(db *sql.DB) CommentsRepository {
	return &commentsRepository{db: db}
}

// ListByPost returns the flat comment list sorted by creation time ascending,
// the order the thread builder expects, with reactions attached.
func (r *commentsRepository) ListByPost(postID int) ([]models.Comment, error) {
	rows, err := r.db.Query(`
		SELECT id, post_id, author_id, text, parent_comment_id,
		       is_meme, COALESCE(meme_url, ''), created_at
		FROM comments WHERE post_id = $1
		ORDER BY created_at ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := []models.Comment{}
	var ids []int
	for rows.Next() {
		var c models.Comment
		var parent sql.NullInt64
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &parent,
			&c.IsMeme, &c.MemeURL, &c.CreatedAt); err != nil {
			continue
		}
		if parent.Valid {
			pid := int(parent.Int64)
			c.ParentCommentID = &pid
		}
		c.Reactions = []models.Reaction{}
		ids = append(ids, c.ID)
		comments = append(comments, c)
	}

	if len(ids) == 0 {
		return comments, nil
	}

	index := make(map[int]int, len(comments))
	for i, c := range comments {
		index[c.ID] = i
	}
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	reactionRows, err := r.db.Query(`
		SELECT comment_id, user_id, type FROM comment_reactions
		WHERE comment_id IN (`+strings.Join(placeholders, ",")+`)
	`, args...)
	if err != nil {
		return nil, err
	}
	defer reactionRows.Close()

	for reactionRows.Next() {
		var commentID int
		var re models.Reaction
		if err := reactionRows.Scan(&commentID, &re.UserID, &re.Type); err == nil {
			i := index[commentID]
			comments[i].Reactions = append(comments[i].Reactions, re)
		}
	}
	return comments, nil
}

func (r *commentsRepository) GetByID(id int) (models.Comment, error) {
	var c models.Comment
	var parent sql.NullInt64
	err := r.db.QueryRow(`
		SELECT id, post_id, author_id, text, parent_comment_id,
		       is_meme, COALESCE(meme_url, ''), created_at
		FROM comments WHERE id = $1
	`, id).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Text, &parent,
		&c.IsMeme, &c.MemeURL, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	if parent.Valid {
		pid := int(parent.Int64)
		c.ParentCommentID = &pid
	}
	c.Reactions = []models.Reaction{}
	return c, nil
}

func (r *commentsRepository) Create(c models.Comment) (models.Comment, error) {
	err := r.db.QueryRow(`
		INSERT INTO comments (post_id, author_id, text, parent_comment_id, is_meme, meme_url)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at
	`, c.PostID, c.AuthorID, c.Text, c.ParentCommentID, c.IsMeme, c.MemeURL).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	c.Reactions = []models.Reaction{}
	return c, nil
}

func (r *commentsRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ParentBelongsToPost guards threaded replies against pointing at a comment
// from another post.
func (r *commentsRepository) ParentBelongsToPost(parentID, postID int) (bool, error) {
	var one int
	err := r.db.QueryRow(`
		SELECT 1 FROM comments WHERE id = $1 AND post_id = $2
	`, parentID, postID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *commentsRepository) ToggleReaction(commentID int, userID, reactionType string) ([]models.Reaction, error) {
	var one int
	err := r.db.QueryRow(`
		DELETE FROM comment_reactions
		WHERE comment_id = $1 AND user_id = $2 AND type = $3
		RETURNING 1
	`, commentID, userID, reactionType).Scan(&one)

	if err == sql.ErrNoRows {
		_, err = r.db.Exec(`
			INSERT INTO comment_reactions (comment_id, user_id, type) VALUES ($1, $2, $3)
			ON CONFLICT (comment_id, user_id) DO UPDATE SET type = EXCLUDED.type
		`, commentID, userID, reactionType)
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT user_id, type FROM comment_reactions WHERE comment_id = $1
	`, commentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reactions := []models.Reaction{}
	for rows.Next() {
		var re models.Reaction
		if err := rows.Scan(&re.UserID, &re.Type); err == nil {
			reactions = append(reactions, re)
		}
	}
	return reactions, nil
}
