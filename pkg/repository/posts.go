package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"unafeed/pkg/models"

	"github.com/lib/pq"
)

type PostsRepository interface {
	Feed(kind string, limit, offset int) ([]models.Post, int, error)
	GetByID(id int) (models.Post, error)
	Exists(id int) (bool, error)
	IncrementViews(id int) error
	Create(p models.Post) (models.Post, error)
	Update(p models.Post) error
	Delete(id int) error
	ToggleReaction(postID int, userID, reactionType string) ([]models.Reaction, error)
	SetRSVP(postID int, userID, status string) ([]models.RSVP, error)
}

type postsRepository struct {
	db *sql.DB
}

func NewPostsRepository(db *sql.DB) PostsRepository {
	return &postsRepository{db: db}
}

const postColumns = `
	p.id, p.kind, p.author_id, p.title, p.description, p.tags, p.views,
	p.created_at, p.updated_at,
	p.event_date, COALESCE(p.location, ''),
	COALESCE(p.item_name, ''), COALESCE(p.item_image_url, ''),
	COALESCE(p.contact_info, ''), COALESCE(p.item_status, ''),
	COALESCE(p.pdf_url, ''), COALESCE(p.importance, '')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (models.Post, error) {
	var p models.Post
	var tags pq.StringArray
	var eventDate sql.NullTime
	err := row.Scan(
		&p.ID, &p.Kind, &p.AuthorID, &p.Title, &p.Description, &tags, &p.Views,
		&p.CreatedAt, &p.UpdatedAt,
		&eventDate, &p.Location,
		&p.ItemName, &p.ItemImage,
		&p.ContactInfo, &p.ItemStatus,
		&p.PDFURL, &p.Importance,
	)
	if err != nil {
		return p, err
	}
	p.Tags = tags
	if eventDate.Valid {
		t := eventDate.Time
		p.Date = &t
	}
	p.Images = []models.Image{}
	p.Reactions = []models.Reaction{}
	if p.Kind == models.KindEvent {
		p.RSVPs = []models.RSVP{}
	}
	return p, nil
}

func (r *postsRepository) Feed(kind string, limit, offset int) ([]models.Post, int, error) {
	var rows *sql.Rows
	var total int
	var err error

	if kind != "" {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM posts WHERE kind = $1`, kind).Scan(&total)
		if err != nil {
			return nil, 0, err
		}
		rows, err = r.db.Query(`
			SELECT `+postColumns+` FROM posts p
			WHERE p.kind = $1
			ORDER BY p.created_at DESC
			LIMIT $2 OFFSET $3
		`, kind, limit, offset)
	} else {
		err = r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&total)
		if err != nil {
			return nil, 0, err
		}
		rows, err = r.db.Query(`
			SELECT `+postColumns+` FROM posts p
			ORDER BY p.created_at DESC
			LIMIT $1 OFFSET $2
		`, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := make([]models.Post, 0, limit)
	var ids []int
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			continue
		}
		ids = append(ids, p.ID)
		posts = append(posts, p)
	}

	if err := r.attachRelations(posts, ids); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *postsRepository) GetByID(id int) (models.Post, error) {
	row := r.db.QueryRow(`SELECT `+postColumns+` FROM posts p WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if err != nil {
		return p, err
	}
	posts := []models.Post{p}
	if err := r.attachRelations(posts, []int{p.ID}); err != nil {
		return p, err
	}
	return posts[0], nil
}

func (r *postsRepository) Exists(id int) (bool, error) {
	var one int
	err := r.db.QueryRow(`SELECT 1 FROM posts WHERE id = $1`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *postsRepository) IncrementViews(id int) error {
	_, err := r.db.Exec(`UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	return err
}

func (r *postsRepository) Create(p models.Post) (models.Post, error) {
	err := r.db.QueryRow(`
		INSERT INTO posts (kind, author_id, title, description, tags,
			event_date, location, item_name, item_image_url, contact_info, item_status,
			pdf_url, importance)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7,''), NULLIF($8,''), NULLIF($9,''),
			NULLIF($10,''), NULLIF($11,''), NULLIF($12,''), NULLIF($13,''))
		RETURNING id, views, created_at, updated_at
	`,
		p.Kind, p.AuthorID, p.Title, p.Description, pq.Array(p.Tags),
		p.Date, p.Location, p.ItemName, p.ItemImage, p.ContactInfo, p.ItemStatus,
		p.PDFURL, p.Importance,
	).Scan(&p.ID, &p.Views, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}

	for i, img := range p.Images {
		_, err := r.db.Exec(`
			INSERT INTO post_images (post_id, url, public_id, width, height, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, p.ID, img.URL, img.PublicID, img.Width, img.Height, i)
		if err != nil {
			return p, err
		}
	}
	p.Reactions = []models.Reaction{}
	if p.Kind == models.KindEvent {
		p.RSVPs = []models.RSVP{}
	}
	return p, nil
}

func (r *postsRepository) Update(p models.Post) error {
	result, err := r.db.Exec(`
		UPDATE posts SET
			title = $2, description = $3, tags = $4,
			event_date = $5, location = NULLIF($6,''),
			item_name = NULLIF($7,''), item_image_url = NULLIF($8,''),
			contact_info = NULLIF($9,''), item_status = NULLIF($10,''),
			pdf_url = NULLIF($11,''), importance = NULLIF($12,''),
			updated_at = NOW()
		WHERE id = $1
	`, p.ID, p.Title, p.Description, pq.Array(p.Tags),
		p.Date, p.Location, p.ItemName, p.ItemImage, p.ContactInfo, p.ItemStatus,
		p.PDFURL, p.Importance)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *postsRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ToggleReaction applies the one-reaction-per-user rule with two atomic
// statements: the delete only fires on an identical reaction (un-react);
// otherwise the upsert adds or replaces. Returns the fresh reaction list.
func (r *postsRepository) ToggleReaction(postID int, userID, reactionType string) ([]models.Reaction, error) {
	var one int
	err := r.db.QueryRow(`
		DELETE FROM post_reactions
		WHERE post_id = $1 AND user_id = $2 AND type = $3
		RETURNING 1
	`, postID, userID, reactionType).Scan(&one)

	if err == sql.ErrNoRows {
		_, err = r.db.Exec(`
			INSERT INTO post_reactions (post_id, user_id, type) VALUES ($1, $2, $3)
			ON CONFLICT (post_id, user_id) DO UPDATE SET type = EXCLUDED.type
		`, postID, userID, reactionType)
	}
	if err != nil {
		return nil, err
	}

	return r.listReactions(postID)
}

func (r *postsRepository) listReactions(postID int) ([]models.Reaction, error) {
	rows, err := r.db.Query(`
		SELECT user_id, type FROM post_reactions WHERE post_id = $1
	`, postID)
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

// SetRSVP upserts: a second call with a new status overwrites, never duplicates.
func (r *postsRepository) SetRSVP(postID int, userID, status string) ([]models.RSVP, error) {
	_, err := r.db.Exec(`
		INSERT INTO rsvps (post_id, user_id, status) VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
	`, postID, userID, status)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(`
		SELECT user_id, status, updated_at FROM rsvps WHERE post_id = $1 ORDER BY updated_at ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rsvps := []models.RSVP{}
	for rows.Next() {
		var rv models.RSVP
		if err := rows.Scan(&rv.UserID, &rv.Status, &rv.UpdatedAt); err == nil {
			rsvps = append(rsvps, rv)
		}
	}
	return rsvps, nil
}

// attachRelations batch-loads images, reactions and rsvps for a page of posts
// in three queries total (no N+1).
func (r *postsRepository) attachRelations(posts []models.Post, ids []int) error {
	if len(ids) == 0 {
		return nil
	}

	index := make(map[int]int, len(posts))
	for i, p := range posts {
		index[p.ID] = i
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	in := strings.Join(placeholders, ",")

	rows, err := r.db.Query(`
		SELECT post_id, url, public_id, width, height FROM post_images
		WHERE post_id IN (`+in+`) ORDER BY post_id, position ASC
	`, args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var postID int
		var img models.Image
		if err := rows.Scan(&postID, &img.URL, &img.PublicID, &img.Width, &img.Height); err == nil {
			i := index[postID]
			posts[i].Images = append(posts[i].Images, img)
		}
	}
	rows.Close()

	rows, err = r.db.Query(`
		SELECT post_id, user_id, type FROM post_reactions WHERE post_id IN (`+in+`)
	`, args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var postID int
		var re models.Reaction
		if err := rows.Scan(&postID, &re.UserID, &re.Type); err == nil {
			i := index[postID]
			posts[i].Reactions = append(posts[i].Reactions, re)
		}
	}
	rows.Close()

	rows, err = r.db.Query(`
		SELECT post_id, user_id, status, updated_at FROM rsvps
		WHERE post_id IN (`+in+`) ORDER BY post_id, updated_at ASC
	`, args...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var postID int
		var rv models.RSVP
		if err := rows.Scan(&postID, &rv.UserID, &rv.Status, &rv.UpdatedAt); err == nil {
			i := index[postID]
			posts[i].RSVPs = append(posts[i].RSVPs, rv)
		}
	}
	rows.Close()

	return nil
}
