package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examportal-api/internal/middleware"
	"github.com/yourusername/examportal-api/internal/service"
)

// LeaderboardHandler обрабатывает запросы лидерборда
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
}

// NewLeaderboardHandler создает новый обработчик лидерборда
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// GetLeaderboard возвращает оконный рейтинг.
// Аутентификация опциональна: для вошедших пользователей ответ дополняется
// их собственной позицией.
// GET /api/leaderboard?timeframe=weekly|all-time&subject=...
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	timeframe := c.DefaultQuery("timeframe", service.TimeframeWeekly)
	if timeframe != service.TimeframeWeekly && timeframe != service.TimeframeAllTime {
		c.JSON(http.StatusBadRequest, gin.H{"error": "timeframe must be 'weekly' or 'all-time'"})
		return
	}
	subject := c.Query("subject")

	viewerID, _ := middleware.UserID(c) // 0 для анонимных запросов

	leaderboard, err := h.leaderboardService.Get(timeframe, subject, viewerID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, leaderboard)
}
