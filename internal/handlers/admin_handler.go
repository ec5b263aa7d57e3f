package handlers

import (
	"net/http"

	"visacenter_backend/internal/auth"
	"visacenter_backend/internal/middleware"
	"visacenter_backend/internal/services"
	"visacenter_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AdminHandler - кабинет рассмотрения: очередь заявок, решения,
// управление пользователями. Агенты видят очередь, решения и
// пользователи - только админ.
type AdminHandler struct {
	*BaseHandler
	reviewService services.ReviewService
	authService   services.AuthService
	userService   services.UserService
}

func NewAdminHandler(base *BaseHandler, reviewService services.ReviewService, authService services.AuthService, userService services.UserService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   base,
		reviewService: reviewService,
		authService:   authService,
		userService:   userService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		review := admin.Group("/applications")
		review.Use(middleware.RequirePermission(auth.ResourceReview, auth.ActionList))
		{
			review.GET("", h.ListApplications)
		}

		decide := admin.Group("/applications")
		decide.Use(middleware.RequirePermission(auth.ResourceReview, auth.ActionDecide))
		{
			decide.PATCH("/:id/status", h.UpdateStatus)
		}

		users := admin.Group("/users")
		users.Use(middleware.RequirePermission(auth.ResourceUser, auth.ActionManage))
		{
			users.GET("", h.ListUsers)
			users.POST("/:id/unlock", h.UnlockUser)
		}
	}
}

// ListApplications godoc
// @Summary Очередь заявок на рассмотрение
// @Tags admin
// @Produce json
// @Param status query string false "Фильтр по статусу" Enums(submitted, in_review, approved, rejected)
// @Param visa_type query string false "Фильтр по типу визы"
// @Success 200 {object} dto.ApplicationListResponse
// @Security BearerAuth
// @Router /admin/applications [get]
func (h *AdminHandler) ListApplications(c *gin.Context) {
	var query dto.ListApplicationsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	db := h.GetDB(c)

	result, err := h.reviewService.List(db, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateStatus godoc
// @Summary Решение по заявке
// @Description Допустимые переходы: submitted -> in_review, in_review -> approved | rejected.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "ID анкеты"
// @Param request body dto.UpdateStatusRequest true "Новый статус и комментарий"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 409 {object} apperrors.ErrorResponse "Недопустимый переход или конкурентное изменение"
// @Security BearerAuth
// @Router /admin/applications/{id}/status [patch]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	reviewerID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	app, err := h.reviewService.UpdateStatus(db, reviewerID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query dto.ListUsersQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	db := h.GetDB(c)

	users, total, err := h.userService.ListUsers(db, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	page, pageSize := ParsePagination(c)
	c.JSON(http.StatusOK, gin.H{
		"items":     users,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// UnlockUser снимает блокировку входа и обнуляет счетчик неудачных попыток
func (h *AdminHandler) UnlockUser(c *gin.Context) {
	db := h.GetDB(c)

	if err := h.authService.UnlockUser(db, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User unlocked"})
}
