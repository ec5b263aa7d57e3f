package handlers

import (
	"net/http"

	"visacenter_backend/internal/middleware"
	"visacenter_backend/internal/models"
	"visacenter_backend/internal/services"
	"visacenter_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	appService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, appService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler: base,
		appService:  appService,
	}
}

// RegisterRoutes регистрирует маршруты анкетного мастера.
// Все операции доступны только аутентифицированному заявителю.
func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	apps := rg.Group("/applications")
	apps.Use(middleware.AuthMiddleware())
	{
		apps.GET("/draft", h.GetDraft)
		apps.GET("", h.ListOwn)
		apps.GET("/:id", h.GetByID)
		apps.PUT("/:id/steps", h.SaveStep)
		apps.POST("/:id/submit", h.Submit)
	}
}

// GetDraft godoc
// @Summary Получить (или создать) черновик анкеты по типу визы
// @Tags applications
// @Produce json
// @Param visa_type query string true "Тип визы" Enums(tourist, student, work, family, business)
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Security BearerAuth
// @Router /applications/draft [get]
func (h *ApplicationHandler) GetDraft(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.GetDraftQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	db := h.GetDB(c)

	app, err := h.appService.GetDraft(db, userID, models.VisaType(query.VisaType))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ListOwn(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	apps, err := h.appService.ListOwn(db, userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": apps})
}

func (h *ApplicationHandler) GetByID(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	app, err := h.appService.GetByID(db, userID, h.GetRole(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// SaveStep godoc
// @Summary Сохранить секцию шага анкеты
// @Description Секция валидируется по схеме шага; при повторном сохранении
// @Description данные шага замещаются целиком (last write wins).
// @Tags applications
// @Accept json
// @Produce json
// @Param id path string true "ID анкеты"
// @Param request body dto.SaveStepRequest true "Шаг и данные секции"
// @Success 200 {object} dto.ApplicationResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Анкета уже отправлена"
// @Security BearerAuth
// @Router /applications/{id}/steps [put]
func (h *ApplicationHandler) SaveStep(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SaveStepRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	app, err := h.appService.SaveStep(db, userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	db := h.GetDB(c)

	app, err := h.appService.Submit(db, userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}
