package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/polashmiya/polash-dairy-api/models"
)

func TestNewCommentViewKeepsReferenceAndDerivesName(t *testing.T) {
	c := models.Comment{
		ID:        7,
		PostID:    3,
		UserID:    42,
		Text:      "nice post",
		CreatedAt: time.Now(),
		User:      models.User{ID: 42, Name: "alice"},
	}

	v := NewCommentView(c)

	assert.Equal(t, uint(42), v.User.ID, "user reference must survive mapping")
	assert.Equal(t, "alice", v.AuthorName)
	assert.Equal(t, "nice post", v.Text)
}

func TestNewCommentViewUnresolvedUser(t *testing.T) {
	v := NewCommentView(models.Comment{ID: 1, UserID: 9, Text: "hi"})

	assert.Equal(t, uint(9), v.User.ID)
	assert.Empty(t, v.AuthorName, "authorName is omitted when user is not loaded")
}

func TestNewPostViewShapesAuthorAndComments(t *testing.T) {
	url := "http://example.test/img.png"
	p := models.Post{
		ID:       1,
		AuthorID: 5,
		Title:    "T",
		Content:  "C",
		Category: "tech",
		ImageURL: &url,
		Author:   models.User{ID: 5, Name: "bob", Email: "bob@example.test"},
		Comments: []models.Comment{
			{ID: 1, UserID: 6, Text: "first", User: models.User{ID: 6, Name: "carol"}},
			{ID: 2, UserID: 7, Text: "second"},
		},
	}

	v := NewPostView(p)

	assert.Equal(t, AuthorView{ID: 5, Name: "bob", Email: "bob@example.test"}, v.Author)
	assert.Equal(t, &url, v.ImageURL)
	if assert.Len(t, v.Comments, 2) {
		assert.Equal(t, "first", v.Comments[0].Text)
		assert.Equal(t, "carol", v.Comments[0].AuthorName)
		assert.Empty(t, v.Comments[1].AuthorName)
	}
}

func TestNewPostViewsEmptyCommentsNotNil(t *testing.T) {
	views := NewPostViews([]models.Post{{ID: 1}})
	if assert.Len(t, views, 1) {
		assert.NotNil(t, views[0].Comments)
		assert.Empty(t, views[0].Comments)
	}
}
