package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"imagevault/internal/domain"
	"imagevault/internal/domain/services"
	"imagevault/internal/httputil"
)

// multipart overhead allowed on top of the image itself
const formOverheadBytes = 1 << 20

// ImageHandler handles image HTTP requests
type ImageHandler struct {
	imageService   services.ImageService
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService services.ImageService, maxUploadBytes int64, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		imageService:   imageService,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type deleteImageRequest struct {
	ImageID string `json:"imageId"`
}

// UploadImage accepts a multipart form with fields name, image and optional folderId
// POST /api/images/upload
func (h *ImageHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+formOverheadBytes)
	if err := r.ParseMultipartForm(formOverheadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
			return
		}
		handleError(w, r, h.logger, domain.NewValidationError("invalid multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("image")
	if err != nil {
		handleError(w, r, h.logger, domain.NewValidationError("image is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		handleError(w, r, h.logger, fmt.Errorf("read upload: %w", err))
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		httputil.RespondError(w, http.StatusRequestEntityTooLarge, h.tooLargeMessage())
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	img, err := h.imageService.UploadImage(r.Context(), httputil.GetUserID(r), &services.UploadImageRequest{
		Name:        r.FormValue("name"),
		FolderID:    httputil.OptionalFormValue(r, "folderId"),
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Image uploaded successfully",
		"image":   img,
	})
}

// DeleteImage deletes an image and its stored blob
// DELETE /api/images/delete
func (h *ImageHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var req deleteImageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if err := requireField(req.ImageID, "imageId"); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	if err := h.imageService.DeleteImage(r.Context(), httputil.GetUserID(r), req.ImageID); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondMessage(w, http.StatusOK, "Image deleted successfully")
}

// RenameImage renames an image
// PUT /api/images/rename
func (h *ImageHandler) RenameImage(w http.ResponseWriter, r *http.Request) {
	var req services.RenameImageRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if err := requireField(req.ImageID, "imageId"); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	img, err := h.imageService.RenameImage(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Image renamed successfully",
		"image":   img,
	})
}

// SearchImages finds images by name
// GET /api/images/search?q=
func (h *ImageHandler) SearchImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.imageService.SearchImages(r.Context(), httputil.GetUserID(r), r.URL.Query().Get("q"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, images)
}

func (h *ImageHandler) tooLargeMessage() string {
	return fmt.Sprintf("image exceeds the maximum size of %d bytes", h.maxUploadBytes)
}
