package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/examportal-api/internal/domain/entity"
	"github.com/yourusername/examportal-api/internal/domain/repository"
	"github.com/yourusername/examportal-api/internal/handler/dto"
	"github.com/yourusername/examportal-api/internal/service"
)

// AdminHandler обрабатывает административные запросы
type AdminHandler struct {
	adminService *service.AdminService
	examService  *service.ExamService
	noteService  *service.NoteService
}

// NewAdminHandler создает новый административный обработчик
func NewAdminHandler(
	adminService *service.AdminService,
	examService *service.ExamService,
	noteService *service.NoteService,
) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		examService:  examService,
		noteService:  noteService,
	}
}

// GetDashboard возвращает сводку для панели администратора
// GET /api/admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.adminService.GetDashboard()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetAnalytics возвращает успеваемость всех студентов
// GET /api/admin/analytics
func (h *AdminHandler) GetAnalytics(c *gin.Context) {
	analytics, err := h.adminService.GetStudentAnalytics()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analytics": analytics})
}

// CreateExam создает новый экзамен
// POST /api/admin/exams
func (h *AdminHandler) CreateExam(c *gin.Context) {
	var req dto.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam := req.ToEntity()
	if err := h.examService.Create(exam); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exam)
}

// UpdateExam обновляет экзамен
// PUT /api/admin/exams/:id
func (h *AdminHandler) UpdateExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	var req dto.ExamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exam, err := h.examService.Update(examID, req.ToEntity())
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, exam)
}

// DeleteExam удаляет экзамен вместе с вопросами и результатами
// DELETE /api/admin/exams/:id
func (h *AdminHandler) DeleteExam(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	if err := h.examService.Delete(examID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Exam deleted"})
}

// AddQuestion добавляет один вопрос к экзамену
// POST /api/admin/exams/:id/questions
func (h *AdminHandler) AddQuestion(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	var req dto.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question := req.ToEntity()
	if err := h.examService.AddQuestion(examID, &question); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Question added"})
}

// BulkAddQuestions добавляет вопросы к экзамену пачкой
// POST /api/admin/exams/:id/questions/bulk
func (h *AdminHandler) BulkAddQuestions(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	var req dto.BulkQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions := make([]entity.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, q.ToEntity())
	}

	if err := h.examService.AddQuestions(examID, questions); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("%d questions added", len(questions))})
}

// ListStudents возвращает всех студентов
// GET /api/admin/users
func (h *AdminHandler) ListStudents(c *gin.Context) {
	students, err := h.adminService.ListStudents()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": students})
}

// GetStudentResults возвращает результаты конкретного студента
// GET /api/admin/users/:id/results
func (h *AdminHandler) GetStudentResults(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	results, examsByID, err := h.adminService.GetStudentResults(userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": dto.NewHistory(results, examsByID)})
}

// DeleteStudent удаляет аккаунт студента вместе с результатами
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteStudent(c *gin.Context) {
	userID := c.MustGet("userID").(uint)

	if err := h.adminService.DeleteStudent(userID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student deleted"})
}

// ExportExamResults экспортирует результаты экзамена в CSV или Excel
// GET /api/admin/exams/:id/results/export?format=csv|xlsx
func (h *AdminHandler) ExportExamResults(c *gin.Context) {
	examID := c.MustGet("examID").(uint)
	format := c.DefaultQuery("format", "xlsx")

	exam, rows, err := h.adminService.GetExamResults(examID)
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("exam_%d_results_%s", exam.ID, time.Now().Format("2006-01-02"))

	switch format {
	case "csv":
		h.exportCSV(c, rows, filename)
	default:
		h.exportXLSX(c, rows, filename)
	}
}

// ListExamResults возвращает результаты экзамена для админского списка
// GET /api/admin/exams/:id/results
func (h *AdminHandler) ListExamResults(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	exam, rows, err := h.adminService.GetExamResults(examID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exam": exam, "results": rows})
}

// exportCSV экспортирует результаты в CSV с правильным экранированием спецсимволов
func (h *AdminHandler) exportCSV(c *gin.Context, rows []repository.ExamResultRow, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Место", "Студент", "Email", "Баллы", "Максимум", "Правильных", "Неправильных", "Пропущено", "Точность (%)", "Дата сдачи"})

	for i, r := range rows {
		writer.Write([]string{
			strconv.Itoa(i + 1),
			sanitizeForExcel(r.Name),
			sanitizeForExcel(r.Email),
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			strconv.Itoa(r.TotalMarks),
			strconv.Itoa(r.CorrectAnswers),
			strconv.Itoa(r.WrongAnswers),
			strconv.Itoa(r.SkippedAnswers),
			strconv.FormatFloat(r.Accuracy, 'f', 1, 64),
			r.SubmittedAt.Format("2006-01-02 15:04"),
		})
	}
}

// exportXLSX экспортирует результаты в Excel с использованием StreamWriter
func (h *AdminHandler) exportXLSX(c *gin.Context, rows []repository.ExamResultRow, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результаты"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[AdminHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Место", "Студент", "Email", "Баллы", "Максимум", "Правильных", "Неправильных", "Пропущено", "Точность (%)", "Дата сдачи"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[AdminHandler] Ошибка записи заголовков: %v", err)
	}

	for i, r := range rows {
		cell := fmt.Sprintf("A%d", i+2) // первая строка - заголовки
		row := []interface{}{
			i + 1,
			sanitizeForExcel(r.Name),
			sanitizeForExcel(r.Email),
			r.Score,
			r.TotalMarks,
			r.CorrectAnswers,
			r.WrongAnswers,
			r.SkippedAnswers,
			r.Accuracy,
			r.SubmittedAt.Format("2006-01-02 15:04"),
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[AdminHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[AdminHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[AdminHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

// CreateNote создает учебный материал
// POST /api/admin/notes
func (h *AdminHandler) CreateNote(c *gin.Context) {
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note := &entity.Note{
		Title:   req.Title,
		Subject: req.Subject,
		FileURL: req.FileURL,
		Type:    req.Type,
	}
	if err := h.noteService.Create(note); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// UpdateNote обновляет учебный материал
// PUT /api/admin/notes/:id
func (h *AdminHandler) UpdateNote(c *gin.Context) {
	noteID := c.MustGet("noteID").(uint)

	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	note, err := h.noteService.Update(noteID, &entity.Note{
		Title:   req.Title,
		Subject: req.Subject,
		FileURL: req.FileURL,
		Type:    req.Type,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// DeleteNote удаляет учебный материал
// DELETE /api/admin/notes/:id
func (h *AdminHandler) DeleteNote(c *gin.Context) {
	noteID := c.MustGet("noteID").(uint)

	if err := h.noteService.Delete(noteID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Note deleted"})
}

// CreateSubject создает новый предмет
// POST /api/admin/subjects
func (h *AdminHandler) CreateSubject(c *gin.Context) {
	var req dto.SubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subject := &entity.Subject{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := h.examService.CreateSubject(subject); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subject)
}
