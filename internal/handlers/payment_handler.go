package handlers

import (
	"net/http"

	"visacenter_backend/internal/middleware"
	"visacenter_backend/internal/services"
	"visacenter_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

// RegisterRoutes: выставление счета требует аутентификации,
// callback от QPay приходит без токена и проверяется подписью.
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("/invoice", h.CreateInvoice)
	}

	rg.POST("/payments/qpay/callback", h.QPayCallback)
}

// CreateInvoice godoc
// @Summary Выставить счет на консульский сбор
// @Tags payments
// @Accept json
// @Produce json
// @Param request body dto.CreateInvoiceRequest true "ID отправленной анкеты"
// @Success 201 {object} dto.InvoiceResponse
// @Failure 409 {object} apperrors.ErrorResponse "Анкета не отправлена или уже оплачена"
// @Security BearerAuth
// @Router /payments/invoice [post]
func (h *PaymentHandler) CreateInvoice(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateInvoiceRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	invoice, err := h.paymentService.CreateInvoice(db, userID, req.ApplicationID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// QPayCallback godoc
// @Summary Callback платежного шлюза QPay
// @Description Подпись: hex(HMAC-SHA256("invoice_id|amount|status")).
// @Description Дубликаты callback идемпотентны и возвращают 200.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body dto.QPayCallbackRequest true "Уведомление о платеже"
// @Success 200 {object} map[string]string
// @Failure 401 {object} apperrors.ErrorResponse "Неверная подпись"
// @Failure 409 {object} apperrors.ErrorResponse "Сумма не совпадает со счетом"
// @Router /payments/qpay/callback [post]
func (h *PaymentHandler) QPayCallback(c *gin.Context) {
	var req dto.QPayCallbackRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	db := h.GetDB(c)

	if err := h.paymentService.HandleCallback(db, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
