package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polashmiya/polash-dairy-api/middleware"
	"github.com/polashmiya/polash-dairy-api/store"
	"github.com/polashmiya/polash-dairy-api/utils"
)

// PostController exposes the post aggregate over HTTP: CRUD, search listing,
// and nested comment operations.
type PostController struct {
	posts *store.PostStore
}

// NewPostController creates a new PostController instance.
func NewPostController(posts *store.PostStore) *PostController {
	return &PostController{posts: posts}
}

// CreatePost allows authenticated users to create new posts.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req struct {
		Title    string  `json:"title" binding:"required"`
		Content  string  `json:"content" binding:"required"`
		Category string  `json:"category" binding:"required"`
		ImageURL *string `json:"imageUrl"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "title, content and category are required")
		return
	}

	actorID, _, ok := actor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	post, err := p.posts.Create(ctx.Request.Context(), actorID, store.CreatePostInput{
		Title:    utils.Sanitize(strings.TrimSpace(req.Title)),
		Content:  utils.Sanitize(req.Content),
		Category: req.Category,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		p.fail(ctx, err, "Post not found")
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"post": store.NewPostView(*post)})
}

// ListPosts returns all posts, optionally filtered by the search query.
func (p *PostController) ListPosts(ctx *gin.Context) {
	posts, err := p.posts.List(ctx.Request.Context(), ctx.Query("search"))
	if err != nil {
		p.fail(ctx, err, "Post not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"posts": store.NewPostViews(posts)})
}

// GetPost returns a single post with its comments and resolved author data.
func (p *PostController) GetPost(ctx *gin.Context) {
	post, err := p.posts.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		p.fail(ctx, err, "No posts found of this id")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"post": store.NewPostView(*post)})
}

// UpdatePost applies a partial update; only the author or an admin may call it.
func (p *PostController) UpdatePost(ctx *gin.Context) {
	var req struct {
		Title    string  `json:"title"`
		Content  string  `json:"content"`
		Category string  `json:"category"`
		ImageURL *string `json:"imageUrl"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	actorID, actorRole, ok := actor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	post, err := p.posts.Update(ctx.Request.Context(), ctx.Param("id"), actorID, actorRole, store.UpdatePostInput{
		Title:    utils.Sanitize(strings.TrimSpace(req.Title)),
		Content:  utils.Sanitize(req.Content),
		Category: req.Category,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		p.fail(ctx, err, "Post not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Post updated successfully",
		"post":    store.NewPostView(*post),
	})
}

// DeletePost removes a post and its comments; author or admin only.
func (p *PostController) DeletePost(ctx *gin.Context) {
	actorID, actorRole, ok := actor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := p.posts.Delete(ctx.Request.Context(), ctx.Param("id"), actorID, actorRole); err != nil {
		p.fail(ctx, err, "Post not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
}

// AddComment appends a comment to a post. The canonical payload field is
// "text"; "comment" is kept as a legacy alias.
func (p *PostController) AddComment(ctx *gin.Context) {
	var req struct {
		Text    string `json:"text"`
		Comment string `json:"comment"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	text := req.Text
	if text == "" {
		text = req.Comment
	}

	actorID, _, ok := actor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	comment, err := p.posts.AddComment(ctx.Request.Context(), ctx.Param("id"), actorID, utils.Sanitize(text))
	if err != nil {
		p.fail(ctx, err, "Post not found")
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{
		"message": "Comment added successfully",
		"comment": store.NewCommentView(*comment),
	})
}

// DeleteComment removes a single comment; comment author or admin only.
func (p *PostController) DeleteComment(ctx *gin.Context) {
	actorID, actorRole, ok := actor(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, "unauthorized")
		return
	}

	err := p.posts.DeleteComment(ctx.Request.Context(), ctx.Param("id"), ctx.Param("commentId"), actorID, actorRole)
	if err != nil {
		p.fail(ctx, err, "Post not found")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

// fail translates store errors into the API's status codes. Unexpected
// failures are logged and answered with an opaque 500.
func (p *PostController) fail(ctx *gin.Context, err error, notFoundMsg string) {
	switch {
	case store.IsValidation(err):
		utils.Error(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrForbidden):
		utils.Error(ctx, http.StatusForbidden, "Forbidden")
	case errors.Is(err, store.ErrPostNotFound):
		utils.Error(ctx, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, store.ErrCommentNotFound):
		utils.Error(ctx, http.StatusNotFound, "Comment not found")
	default:
		utils.Sugar.Errorf("post operation failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "internal server error")
	}
}

// actor extracts the authenticated identity placed by the auth middleware.
func actor(ctx *gin.Context) (uint, string, bool) {
	idVal, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, "", false
	}
	id, ok := idVal.(uint)
	if !ok {
		return 0, "", false
	}
	role, _ := ctx.Get(middleware.ContextUserRoleKey)
	roleStr, _ := role.(string)
	return id, roleStr, true
}
