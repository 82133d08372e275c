package handler

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"studybuddy/internal/app"
	"studybuddy/internal/transport/http/response"
)

type StudyHandler struct {
	studyService *app.StudyService
}

func NewStudyHandler(studyService *app.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

// AskPDFRequest binds from JSON or form; clients send either. Prompt is an
// accepted alias for Question kept for older clients.
type AskPDFRequest struct {
	RoomID   uint   `json:"room_id" form:"room_id"`
	Question string `json:"question" form:"question"`
	Prompt   string `json:"prompt" form:"prompt"`
	Level    string `json:"level" form:"level"`
}

type AskTextRequest struct {
	Question string `json:"question"`
	Level    string `json:"level"`
}

type AskImageRequest struct {
	Image    string `json:"image"` // data-URL or bare base64
	Question string `json:"question"`
}

type AskVoiceRequest struct {
	Audio string `json:"audio"` // data-URL or bare base64
}

// Num is a pointer so an explicit zero survives binding: zero cards/questions
// still issue a generation request.
type FlashcardsRequest struct {
	RoomID uint `json:"room_id"`
	Num    *int `json:"num"`
}

type SummarizeRequest struct {
	RoomID uint `json:"room_id"`
}

type QuizRequest struct {
	RoomID     uint   `json:"room_id"`
	Difficulty string `json:"difficulty"`
	Num        *int   `json:"num"`
}

func (h *StudyHandler) AskPDF(c *gin.Context) {
	var req AskPDFRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	question := req.Question
	if strings.TrimSpace(question) == "" {
		question = req.Prompt
	}
	if strings.TrimSpace(question) == "" {
		response.BadRequest(c, "No question provided")
		return
	}

	answer, err := h.studyService.AskDocuments(c.Request.Context(), app.AskDocumentsInput{
		RoomID:   req.RoomID,
		Question: question,
		Level:    req.Level,
	})
	if err != nil {
		h.writeStudyError(c, err)
		return
	}

	response.OK(c, gin.H{"answer": answer})
}

func (h *StudyHandler) AskText(c *gin.Context) {
	var req AskTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		response.BadRequest(c, "No question")
		return
	}

	answer, err := h.studyService.AskText(c.Request.Context(), app.AskTextInput{
		Question: req.Question,
		Level:    req.Level,
	})
	if err != nil {
		h.writeStudyError(c, err)
		return
	}

	response.OK(c, gin.H{"answer": answer})
}

func (h *StudyHandler) AskImage(c *gin.Context) {
	var req AskImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	if req.Image == "" {
		response.BadRequest(c, "No image")
		return
	}

	data, mime, err := decodeDataURL(req.Image)
	if err != nil {
		response.BadRequest(c, "invalid image encoding")
		return
	}

	answer, err := h.studyService.AskImage(c.Request.Context(), app.AskImageInput{
		Image:    data,
		MIME:     mime,
		Question: req.Question,
	})
	if err != nil {
		h.writeStudyError(c, err)
		return
	}

	response.OK(c, gin.H{"answer": answer})
}

func (h *StudyHandler) AskVoice(c *gin.Context) {
	var req AskVoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}
	if req.Audio == "" {
		response.BadRequest(c, "No audio")
		return
	}

	data, mime, err := decodeDataURL(req.Audio)
	if err != nil {
		response.BadRequest(c, "invalid audio encoding")
		return
	}

	answer, err := h.studyService.AskVoice(c.Request.Context(), app.AskVoiceInput{
		Audio: data,
		MIME:  mime,
	})
	if err != nil {
		h.writeStudyError(c, err)
		return
	}

	response.OK(c, gin.H{"answer": answer})
}

func (h *StudyHandler) Flashcards(c *gin.Context) {
	var req FlashcardsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	raw, err := h.studyService.Flashcards(c.Request.Context(), app.FlashcardsInput{
		RoomID: req.RoomID,
		Num:    req.Num,
	})
	if err != nil {
		h.writeStudyError(c, err)
		return
	}

	response.OK(c, gin.H{"flashcards_raw": raw})
}

func (h *StudyHandler) Summarize(c *gin.Context) {
	var req SummarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	raw, err := h.studyService.Summarize(c.Request.Context(), app.SummarizeInput{
		RoomID: req.RoomID,
	})
	if err != nil {
		h.writeStudyError(c, err)
		return
	}

	response.OK(c, gin.H{"summary_raw": raw})
}

func (h *StudyHandler) Quiz(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request payload")
		return
	}

	raw, err := h.studyService.Quiz(c.Request.Context(), app.QuizInput{
		RoomID:     req.RoomID,
		Difficulty: req.Difficulty,
		Num:        req.Num,
	})
	if err != nil {
		h.writeStudyError(c, err)
		return
	}

	response.OK(c, gin.H{"quiz_raw": raw})
}

// History returns recorded exchanges for a room.
func (h *StudyHandler) History(c *gin.Context) {
	roomID, err := strconv.ParseUint(c.Query("room_id"), 10, 64)
	if err != nil || roomID == 0 {
		response.BadRequest(c, "invalid room_id")
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, parseErr := strconv.Atoi(raw); parseErr == nil {
			limit = parsed
		}
	}

	history, err := h.studyService.History(c.Request.Context(), uint(roomID), limit)
	if err != nil {
		h.writeStudyError(c, err)
		return
	}

	response.OK(c, gin.H{"history": history})
}

// writeStudyError maps service failures uniformly: input sentinels become
// 400, everything else (storage, model transport) becomes 500 carrying the
// raw error text.
func (h *StudyHandler) writeStudyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrNoQuestion),
		errors.Is(err, app.ErrNoImage),
		errors.Is(err, app.ErrNoAudio),
		errors.Is(err, app.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

// decodeDataURL accepts "data:<mime>;base64,<payload>" or bare base64.
// The declared mime, when present, travels with the binary block; callers
// fall back to a task-appropriate default otherwise.
func decodeDataURL(s string) ([]byte, string, error) {
	mime := ""
	payload := s
	if header, rest, found := strings.Cut(s, ","); found {
		payload = rest
		if strings.HasPrefix(header, "data:") {
			mime = strings.TrimPrefix(header, "data:")
			if i := strings.IndexByte(mime, ';'); i >= 0 {
				mime = mime[:i]
			}
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", err
	}
	return data, mime, nil
}
