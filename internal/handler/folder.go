package handler

import (
	"log/slog"
	"net/http"

	"imagevault/internal/domain/services"
	"imagevault/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

type deleteFolderRequest struct {
	FolderID string `json:"folderId"`
}

// CreateFolder creates a new folder
// POST /api/folders/create
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	folder, err := h.folderService.CreateFolder(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Folder created successfully",
		"folder":  folder,
	})
}

// ListRoot lists root-level folders and images
// GET /api/folders/root
func (h *FolderHandler) ListRoot(w http.ResponseWriter, r *http.Request) {
	contents, err := h.folderService.ListContents(r.Context(), httputil.GetUserID(r), nil)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}

// ListContents lists the direct children of a folder
// GET /api/folders/{folderId}/contents
func (h *FolderHandler) ListContents(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("folderId")

	contents, err := h.folderService.ListContents(r.Context(), httputil.GetUserID(r), &folderID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}

// GetFolder retrieves a single folder
// GET /api/folders/{folderId}
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folder, err := h.folderService.GetFolder(r.Context(), httputil.GetUserID(r), r.PathValue("folderId"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// GetFolderPath returns the breadcrumb from the root down to the folder
// GET /api/folders/{folderId}/path
func (h *FolderHandler) GetFolderPath(w http.ResponseWriter, r *http.Request) {
	path, err := h.folderService.GetFolderPath(r.Context(), httputil.GetUserID(r), r.PathValue("folderId"))
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"path": path,
	})
}

// DeleteFolder deletes a folder and everything beneath it
// DELETE /api/folders/delete
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	var req deleteFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if err := requireField(req.FolderID, "folderId"); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	result, err := h.folderService.DeleteFolder(r.Context(), httputil.GetUserID(r), req.FolderID)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Folder deleted successfully",
		"deletedFolders": result.DeletedFolders,
		"deletedImages":  result.DeletedImages,
	})
}

// RenameFolder renames a folder
// PUT /api/folders/rename
func (h *FolderHandler) RenameFolder(w http.ResponseWriter, r *http.Request) {
	var req services.RenameFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if err := requireField(req.FolderID, "folderId"); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	folder, err := h.folderService.RenameFolder(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Folder renamed successfully",
		"folder":  folder,
	})
}

// MoveFolder moves a folder under another parent (null = root)
// PUT /api/folders/move
func (h *FolderHandler) MoveFolder(w http.ResponseWriter, r *http.Request) {
	var req services.MoveFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		handleError(w, r, h.logger, err)
		return
	}
	if err := requireField(req.FolderID, "folderId"); err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	folder, err := h.folderService.MoveFolder(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, r, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Folder moved successfully",
		"folder":  folder,
	})
}
