package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/examportal-api/internal/handler/dto"
	"github.com/yourusername/examportal-api/internal/middleware"
	"github.com/yourusername/examportal-api/internal/service"
)

// UserHandler обрабатывает запросы личного кабинета студента
type UserHandler struct {
	userService         *service.UserService
	resultService       *service.ResultService
	notificationService *service.NotificationService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(
	userService *service.UserService,
	resultService *service.ResultService,
	notificationService *service.NotificationService,
) *UserHandler {
	return &UserHandler{
		userService:         userService,
		resultService:       resultService,
		notificationService: notificationService,
	}
}

// GetDashboard возвращает сводку личного кабинета
// GET /api/users/dashboard
func (h *UserHandler) GetDashboard(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	dashboard, err := h.userService.GetDashboard(userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// GetProfile возвращает профиль студента
// GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	user, err := h.userService.GetProfile(userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfile обновляет профиль студента
// PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, req.StudentClass, req.Stream, req.ProfileImage, req.Bio)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePassword меняет пароль студента
// POST /api/users/change-password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.ChangePassword(userID, req.CurrentPassword, req.NewPassword); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// GetHistory возвращает историю результатов студента
// GET /api/users/history
func (h *UserHandler) GetHistory(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	results, examsByID, err := h.resultService.GetUserHistory(userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": dto.NewHistory(results, examsByID)})
}

// DeleteResult удаляет результат из истории студента
// DELETE /api/users/results/:id
func (h *UserHandler) DeleteResult(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	resultID := c.MustGet("resultID").(uint)

	if err := h.resultService.DeleteOwnedResult(resultID, userID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Result deleted"})
}

// ListNotifications возвращает последние уведомления студента
// GET /api/users/notifications
func (h *UserHandler) ListNotifications(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	notifications, err := h.notificationService.List(userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkNotificationsRead помечает все уведомления прочитанными
// POST /api/users/notifications/read
func (h *UserHandler) MarkNotificationsRead(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.notificationService.MarkAllRead(userID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as read"})
}

// ToggleNotifications переключает подписку на уведомления
// POST /api/users/notifications/toggle
func (h *UserHandler) ToggleNotifications(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	enabled, err := h.notificationService.ToggleNotifications(userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications_enabled": enabled})
}

// DeleteNotification удаляет одно уведомление
// DELETE /api/users/notifications/:id
func (h *UserHandler) DeleteNotification(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	notificationID := c.MustGet("notificationID").(uint)

	if err := h.notificationService.DeleteOne(notificationID, userID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}

// DeleteAllNotifications очищает ленту уведомлений
// DELETE /api/users/notifications
func (h *UserHandler) DeleteAllNotifications(c *gin.Context) {
	userID, _ := middleware.UserID(c)

	if err := h.notificationService.DeleteAll(userID); err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "All notifications deleted"})
}
