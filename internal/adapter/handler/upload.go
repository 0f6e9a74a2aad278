package handler

import (
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/vibecut/autoeditor/errors"
	"github.com/vibecut/autoeditor/internal/adapter/dto/common"
	uploaddto "github.com/vibecut/autoeditor/internal/adapter/dto/upload"
	"github.com/vibecut/autoeditor/internal/domain/entities"
	"github.com/vibecut/autoeditor/internal/domain/repositories"
	"github.com/vibecut/autoeditor/internal/infrastructure/storage"
)

// Upload exposes presigned video uploads and video record access
type Upload struct {
	videos        repositories.VideoRepository
	store         *storage.MinIOClient
	presignExpiry int
	logger        *zap.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(videos repositories.VideoRepository, store *storage.MinIOClient, presignExpirySeconds int, logger *zap.Logger) *Upload {
	return &Upload{
		videos:        videos,
		store:         store,
		presignExpiry: presignExpirySeconds,
		logger:        logger,
	}
}

// Presign creates the video record and returns a presigned PUT URL the
// client uploads the bytes to directly.
func (h *Upload) Presign(c echo.Context) error {
	var req uploaddto.PresignRequest
	if err := BindAndValidate(c, &req); err != nil {
		return RespondAppError(c, err)
	}

	mode := req.Mode
	if mode == "" {
		mode = "horizontal"
	}

	videoID := uuid.New()
	objectKey := fmt.Sprintf("videos/%s%s", videoID, path.Ext(req.Filename))

	ctx := c.Request().Context()
	uploadURL, err := h.store.PresignUpload(ctx, objectKey)
	if err != nil {
		return RespondAppError(c, errors.ErrUploadPresignFailed(err))
	}

	video := entities.NewVideo(objectKey, req.Filename, mode)
	video.ID = videoID
	if err := h.videos.Create(ctx, video); err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("create video", err))
	}

	if h.logger != nil {
		h.logger.Info("📤 upload presigned",
			zap.String("video_id", videoID.String()),
			zap.String("object_key", objectKey))
	}

	return c.JSON(http.StatusOK, uploaddto.PresignResponse{
		VideoID:   videoID,
		ObjectKey: objectKey,
		UploadURL: uploadURL,
		ExpiresIn: h.presignExpiry,
	})
}

// Confirm verifies the object landed in storage and marks the video ready
func (h *Upload) Confirm(c echo.Context) error {
	var req uploaddto.ConfirmRequest
	if err := BindAndValidate(c, &req); err != nil {
		return RespondAppError(c, err)
	}

	videoID, err := uuid.Parse(req.VideoID)
	if err != nil {
		return RespondAppError(c, errors.ErrInvalidArgument("video_id is not a valid uuid"))
	}

	ctx := c.Request().Context()
	video, err := h.videos.FindByID(ctx, videoID)
	if err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("find video", err))
	}
	if video == nil {
		return RespondAppError(c, errors.ErrVideoNotFound(req.VideoID))
	}

	if _, err := h.store.StatObject(ctx, video.ObjectKey); err != nil {
		return RespondAppError(c, errors.ErrStorageFailed("stat upload", err))
	}

	if err := h.videos.UpdateStatus(ctx, videoID, entities.VideoStatusReady); err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("update video status", err))
	}

	video.Status = entities.VideoStatusReady
	return c.JSON(http.StatusOK, uploaddto.VideoFromEntity(video))
}

// Get returns one video record with a presigned download URL
func (h *Upload) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondAppError(c, errors.ErrInvalidArgument("id is not a valid uuid"))
	}

	ctx := c.Request().Context()
	video, err := h.videos.FindByID(ctx, id)
	if err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("find video", err))
	}
	if video == nil {
		return RespondAppError(c, errors.ErrVideoNotFound(id.String()))
	}

	resp := uploaddto.VideoFromEntity(video)
	if video.Status != entities.VideoStatusUploading {
		if url, err := h.store.PresignDownload(ctx, video.ObjectKey); err == nil {
			resp.DownloadURL = url
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// List returns stored videos, newest first
func (h *Upload) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	videos, err := h.videos.List(c.Request().Context(), limit, offset)
	if err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("list videos", err))
	}

	out := make([]uploaddto.VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, uploaddto.VideoFromEntity(v))
	}
	return c.JSON(http.StatusOK, common.ListResponse{Data: out, Limit: limit, Offset: offset})
}

// Delete removes the video record and its stored object
func (h *Upload) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return RespondAppError(c, errors.ErrInvalidArgument("id is not a valid uuid"))
	}

	ctx := c.Request().Context()
	video, err := h.videos.FindByID(ctx, id)
	if err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("find video", err))
	}
	if video == nil {
		return RespondAppError(c, errors.ErrVideoNotFound(id.String()))
	}

	if err := h.store.RemoveObject(ctx, video.ObjectKey); err != nil && h.logger != nil {
		h.logger.Warn("failed to remove stored object", zap.Error(err))
	}
	if err := h.videos.Delete(ctx, id); err != nil {
		return RespondAppError(c, errors.ErrDBQueryFailed("delete video", err))
	}
	return c.JSON(http.StatusOK, common.SuccessResponse{Message: "video deleted"})
}
