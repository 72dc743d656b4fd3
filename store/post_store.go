package store

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/polashmiya/polash-dairy-api/models"
)

// PostStore owns persistence and retrieval of the post aggregate, including
// its embedded comments. All mutating operations run their authorization and
// existence checks before touching the database.
type PostStore struct {
	db *gorm.DB
}

// NewPostStore creates a PostStore backed by the given database handle.
func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// CreatePostInput carries the client-supplied fields for a new post.
type CreatePostInput struct {
	Title    string
	Content  string
	Category string
	ImageURL *string
}

// UpdatePostInput is a partial patch: only non-empty fields overwrite the
// stored values.
type UpdatePostInput struct {
	Title    string
	Content  string
	Category string
	ImageURL *string
}

// Create persists a new post authored by authorID.
func (s *PostStore) Create(ctx context.Context, authorID uint, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, &ValidationError{Field: "title"}
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, &ValidationError{Field: "content"}
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, &ValidationError{Field: "category"}
	}

	post := models.Post{
		AuthorID: authorID,
		Title:    title,
		Content:  in.Content,
		Category: strings.TrimSpace(in.Category),
		ImageURL: in.ImageURL,
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, err
	}
	return s.load(ctx, post.ID)
}

// List returns posts newest-first, optionally filtered by a free-text search
// term over title, content, and category. Authors and comment users are
// resolved on every returned post.
func (s *PostStore) List(ctx context.Context, search string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.WithContext(ctx).
		Scopes(searchScope(search)).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.id ASC")
		}).
		Preload("Comments.User").
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID returns a single post with author and comments resolved. A
// malformed identifier and a missing row both yield ErrPostNotFound.
func (s *PostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	postID, ok := parseID(id)
	if !ok {
		return nil, ErrPostNotFound
	}
	return s.load(ctx, postID)
}

// Update applies a partial patch to a post. Only the author or an admin may
// update; absent or empty patch fields leave the stored value unchanged.
func (s *PostStore) Update(ctx context.Context, id string, actorID uint, actorRole string, patch UpdatePostInput) (*models.Post, error) {
	postID, ok := parseID(id)
	if !ok {
		return nil, ErrPostNotFound
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		return nil, translateNotFound(err, ErrPostNotFound)
	}
	if !CanModify(actorID, actorRole, post.AuthorID) {
		return nil, ErrForbidden
	}

	if v := strings.TrimSpace(patch.Title); v != "" {
		post.Title = v
	}
	if strings.TrimSpace(patch.Content) != "" {
		post.Content = patch.Content
	}
	if v := strings.TrimSpace(patch.Category); v != "" {
		post.Category = v
	}
	if patch.ImageURL != nil && strings.TrimSpace(*patch.ImageURL) != "" {
		post.ImageURL = patch.ImageURL
	}

	if err := s.db.WithContext(ctx).Save(&post).Error; err != nil {
		return nil, err
	}
	return s.load(ctx, post.ID)
}

// Delete removes a post and, transitively, its comments. Same authorization
// rule as Update. Deleting an already-deleted post yields ErrPostNotFound.
func (s *PostStore) Delete(ctx context.Context, id string, actorID uint, actorRole string) error {
	postID, ok := parseID(id)
	if !ok {
		return ErrPostNotFound
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, postID).Error; err != nil {
		return translateNotFound(err, ErrPostNotFound)
	}
	if !CanModify(actorID, actorRole, post.AuthorID) {
		return ErrForbidden
	}

	if err := s.db.WithContext(ctx).Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&post).Error
}

// AddComment appends a comment to a post on behalf of actorID and returns it
// with the acting user resolved.
func (s *PostStore) AddComment(ctx context.Context, postID string, actorID uint, text string) (*models.Comment, error) {
	id, ok := parseID(postID)
	if !ok {
		return nil, ErrPostNotFound
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text"}
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translateNotFound(err, ErrPostNotFound)
	}

	comment := models.Comment{
		PostID: post.ID,
		UserID: actorID,
		Text:   text,
	}
	if err := s.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes exactly one comment from a post. Only the comment's
// own author or an admin may delete it; other comments keep their order.
func (s *PostStore) DeleteComment(ctx context.Context, postID, commentID string, actorID uint, actorRole string) error {
	pid, ok := parseID(postID)
	if !ok {
		return ErrPostNotFound
	}
	cid, ok := parseID(commentID)
	if !ok {
		return ErrCommentNotFound
	}

	var post models.Post
	if err := s.db.WithContext(ctx).First(&post, pid).Error; err != nil {
		return translateNotFound(err, ErrPostNotFound)
	}

	var comment models.Comment
	if err := s.db.WithContext(ctx).Where("post_id = ?", post.ID).First(&comment, cid).Error; err != nil {
		return translateNotFound(err, ErrCommentNotFound)
	}
	if !CanModify(actorID, actorRole, comment.UserID) {
		return ErrForbidden
	}
	return s.db.WithContext(ctx).Delete(&comment).Error
}

func (s *PostStore) load(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.id ASC")
		}).
		Preload("Comments.User").
		First(&post, id).Error
	if err != nil {
		return nil, translateNotFound(err, ErrPostNotFound)
	}
	return &post, nil
}

func parseID(raw string) (uint, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

func translateNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
