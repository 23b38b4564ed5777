package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examportal-api/internal/service"
)

// NoteHandler обрабатывает запросы к учебным материалам
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler создает новый обработчик материалов
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// ListNotes возвращает материалы с фильтром по предмету и поиском
// GET /api/notes?subject=...&search=...
func (h *NoteHandler) ListNotes(c *gin.Context) {
	subject := c.Query("subject")
	search := c.Query("search")

	notes, err := h.noteService.List(subject, search)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// DownloadNote регистрирует скачивание и возвращает ссылку на файл
// POST /api/notes/:id/download
func (h *NoteHandler) DownloadNote(c *gin.Context) {
	noteID := c.MustGet("noteID").(uint)

	fileURL, err := h.noteService.RegisterDownload(noteID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_url": fileURL})
}
