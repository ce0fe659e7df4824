package handler

import "net/http"

// Handlers groups the HTTP handlers served under /api
type Handlers struct {
	Folders *FolderHandler
	Images  *ImageHandler
	Tree    *TreeHandler
}

// Register mounts the API routes on mux (Go 1.22+ method and wildcard patterns).
// Literal segments such as /root and /tree take precedence over {folderId}.
func (h *Handlers) Register(mux *http.ServeMux) {
	// Folder routes
	mux.HandleFunc("POST /api/folders/create", h.Folders.CreateFolder)
	mux.HandleFunc("GET /api/folders/root", h.Folders.ListRoot)
	mux.HandleFunc("GET /api/folders/tree", h.Tree.GetTree)
	mux.HandleFunc("GET /api/folders/{folderId}", h.Folders.GetFolder)
	mux.HandleFunc("GET /api/folders/{folderId}/contents", h.Folders.ListContents)
	mux.HandleFunc("GET /api/folders/{folderId}/path", h.Folders.GetFolderPath)
	mux.HandleFunc("DELETE /api/folders/delete", h.Folders.DeleteFolder)
	mux.HandleFunc("PUT /api/folders/rename", h.Folders.RenameFolder)
	mux.HandleFunc("PUT /api/folders/move", h.Folders.MoveFolder)

	// Image routes
	mux.HandleFunc("POST /api/images/upload", h.Images.UploadImage)
	mux.HandleFunc("DELETE /api/images/delete", h.Images.DeleteImage)
	mux.HandleFunc("PUT /api/images/rename", h.Images.RenameImage)
	mux.HandleFunc("GET /api/images/search", h.Images.SearchImages)
}
