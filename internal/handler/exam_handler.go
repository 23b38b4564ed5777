package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examportal-api/internal/handler/dto"
	"github.com/yourusername/examportal-api/internal/middleware"
	"github.com/yourusername/examportal-api/internal/service"
)

// ExamHandler обрабатывает запросы студентов к экзаменам
type ExamHandler struct {
	examService   *service.ExamService
	resultService *service.ResultService
}

// NewExamHandler создает новый обработчик экзаменов
func NewExamHandler(examService *service.ExamService, resultService *service.ResultService) *ExamHandler {
	return &ExamHandler{
		examService:   examService,
		resultService: resultService,
	}
}

// ListExams возвращает активные экзамены
// GET /api/exams
func (h *ExamHandler) ListExams(c *gin.Context) {
	exams, err := h.examService.ListActive()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"exams": exams})
}

// GetLandingStats возвращает публичную статистику портала
// GET /api/exams/public/stats
func (h *ExamHandler) GetLandingStats(c *gin.Context) {
	stats, err := h.examService.GetLandingStats()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// StartExam отдает экзамен с вопросами для сдачи (без правильных ответов)
// POST /api/exams/:id/start
func (h *ExamHandler) StartExam(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	examID := c.MustGet("examID").(uint)

	exam, questions, err := h.examService.StartExam(userID, examID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StartExamResponse{
		Exam:      exam,
		Questions: questions,
	})
}

// SubmitExam принимает ответы студента и возвращает подсчитанный результат
// POST /api/exams/:id/submit
func (h *ExamHandler) SubmitExam(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	examID := c.MustGet("examID").(uint)

	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.resultService.Submit(userID, examID, req.AnswersMap())
	if err != nil {
		handleError(c, err)
		return
	}

	rank, percentile, err := h.resultService.RankOf(result)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewResultResponse(result, rank, percentile))
}

// GetExamResult возвращает результат текущего пользователя с рангом
// GET /api/exams/:id/result
func (h *ExamHandler) GetExamResult(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	examID := c.MustGet("examID").(uint)

	result, rank, percentile, err := h.resultService.GetUserResult(userID, examID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewResultResponse(result, rank, percentile))
}

// ListSubjects возвращает активные предметы
// GET /api/subjects
func (h *ExamHandler) ListSubjects(c *gin.Context) {
	subjects, err := h.examService.ListSubjects()
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}
