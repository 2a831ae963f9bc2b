package models

import "time"

type Comment struct {
	ID              int        `json:"id"`
	PostID          int        `json:"postId"`
	AuthorID        string     `json:"authorId"`
	Text            string     `json:"text"`
	ParentCommentID *int       `json:"parentCommentId"`
	Reactions       []Reaction `json:"reactions"`
	IsMeme          bool       `json:"isMeme"`
	MemeURL         string     `json:"memeUrl,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// CommentNode is a comment with its replies attached, as returned by the
// thread endpoint.
type CommentNode struct {
	Comment
	Replies []CommentNode `json:"replies"`
}

type CreateCommentRequest struct {
	Text            string `json:"text"`
	ParentCommentID *int   `json:"parentCommentId"`
	ConfirmOverride bool   `json:"confirmOverride"`
}
