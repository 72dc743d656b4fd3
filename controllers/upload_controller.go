package controllers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polashmiya/polash-dairy-api/storage"
	"github.com/polashmiya/polash-dairy-api/utils"
)

// maxImageSize caps uploads at 10MB.
const maxImageSize = 10 * 1024 * 1024

// UploadController streams multipart images to object storage.
type UploadController struct {
	store storage.ObjectStore
}

// NewUploadController creates a new UploadController instance.
func NewUploadController(store storage.ObjectStore) *UploadController {
	return &UploadController{store: store}
}

// UploadImage accepts a multipart "image" field, spools it to a temp file,
// uploads it to the bucket, and returns the public URL. The temp file is
// removed on success and failure alike.
func (u *UploadController) UploadImage(ctx *gin.Context) {
	header, err := ctx.FormFile("image")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "No file uploaded")
		return
	}

	if header.Size > maxImageSize {
		utils.Error(ctx, http.StatusBadRequest, "file size exceeds 10MB")
		return
	}

	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		utils.Sugar.Errorf("failed to create temp file: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Upload failed")
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := ctx.SaveUploadedFile(header, tmpPath); err != nil {
		_ = tmp.Close()
		utils.Sugar.Errorf("failed to spool upload: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Upload failed")
		return
	}
	_ = tmp.Close()

	src, err := os.Open(tmpPath)
	if err != nil {
		utils.Sugar.Errorf("failed to reopen spooled upload: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Upload failed")
		return
	}
	defer src.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := "uploads/" + uuid.New().String() + filepath.Ext(header.Filename)

	url, err := u.store.Upload(ctx.Request.Context(), key, src, header.Size, contentType)
	if err != nil {
		utils.Sugar.Errorf("object storage upload failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "Upload failed")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully",
		"url":     url,
	})
}
