package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/app"
	"studybuddy/internal/transport/http/response"
)

type DocumentHandler struct {
	documentService *app.DocumentService
}

func NewDocumentHandler(documentService *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// UploadPDF accepts a multipart form with "pdf" (the file) and "room_id".
// The room id is stored as given; there is no room existence check.
func (h *DocumentHandler) UploadPDF(c *gin.Context) {
	file, err := c.FormFile("pdf")
	if err != nil {
		response.BadRequest(c, "No PDF uploaded")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.InternalError(c, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c, "failed to read file")
		return
	}

	_, err = h.documentService.Store(app.StoreDocumentInput{
		RoomID:   parseUintForm(c, "room_id"),
		Filename: file.Filename,
		Data:     data,
		Mime:     file.Header.Get("Content-Type"),
	})
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, gin.H{"status": "ok", "filename": file.Filename})
}

// List returns document metadata for a room, in upload order.
func (h *DocumentHandler) List(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("room_id"), 10, 64)
	if err != nil || roomID == 0 {
		response.BadRequest(c, "invalid room_id")
		return
	}

	docs, err := h.documentService.List(uint(roomID))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.OK(c, gin.H{"documents": docs})
}

func parseUintForm(c *gin.Context, key string) uint {
	s := c.PostForm(key)
	if s == "" {
		return 0
	}
	u, _ := strconv.ParseUint(s, 10, 64)
	return uint(u)
}
