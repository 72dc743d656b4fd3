package store

import (
	"time"

	"github.com/polashmiya/polash-dairy-api/models"
)

// AuthorView is the resolved post author as exposed to clients.
type AuthorView struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CommentUserView is the resolved comment author. Only the display name is
// exposed, never the email.
type CommentUserView struct {
	ID   uint   `json:"id"`
	Name string `json:"name,omitempty"`
}

// CommentView keeps the stored user reference and adds a denormalized
// authorName on top of it. authorName is omitted when the referenced user
// could not be resolved.
type CommentView struct {
	ID         uint            `json:"id"`
	User       CommentUserView `json:"user"`
	AuthorName string          `json:"authorName,omitempty"`
	Text       string          `json:"text"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// PostView is the response shape of a post with related user data populated.
type PostView struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Category  string        `json:"category"`
	ImageURL  *string       `json:"imageUrl"`
	Author    AuthorView    `json:"author"`
	Comments  []CommentView `json:"comments"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// NewPostView shapes a stored post into its response view.
func NewPostView(p models.Post) PostView {
	comments := make([]CommentView, 0, len(p.Comments))
	for _, c := range p.Comments {
		comments = append(comments, NewCommentView(c))
	}
	return PostView{
		ID:       p.ID,
		Title:    p.Title,
		Content:  p.Content,
		Category: p.Category,
		ImageURL: p.ImageURL,
		Author: AuthorView{
			ID:    p.AuthorID,
			Name:  p.Author.Name,
			Email: p.Author.Email,
		},
		Comments:  comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// NewPostViews maps a slice of posts preserving order.
func NewPostViews(posts []models.Post) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, NewPostView(p))
	}
	return views
}

// NewCommentView shapes a stored comment, deriving authorName from the
// resolved user without discarding the underlying reference.
func NewCommentView(c models.Comment) CommentView {
	return CommentView{
		ID:         c.ID,
		User:       CommentUserView{ID: c.UserID, Name: c.User.Name},
		AuthorName: c.User.Name,
		Text:       c.Text,
		CreatedAt:  c.CreatedAt,
	}
}
