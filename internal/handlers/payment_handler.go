package handlers

import (
	"net/http"

	"campaignhub_backend/internal/auth"
	"campaignhub_backend/internal/middleware"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/services"
	"campaignhub_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
	views          services.CommentViewService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService, views services.CommentViewService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
		views:          views,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	influencerOnly := middleware.RequireRoles(models.UserRoleInfluencer)
	reviewers := middleware.RequireRoles(models.UserRoleAdmin, models.UserRoleSuperAdmin, models.UserRoleBrand)

	payments := r.Group("/payments")
	payments.Use(h.Auth)
	{
		payments.GET("", reviewers, middleware.RequirePermission(auth.PermPaymentsView), h.ListPayments)
		payments.GET("/my", influencerOnly, h.ListMyPayments)
		payments.GET("/:id", h.GetPayment)

		payments.POST("/:id/submit-order-proof", influencerOnly, h.SubmitOrderProof)
		payments.POST("/:id/submit-deliverables", influencerOnly, h.SubmitDeliverables)

		manage := middleware.RequirePermission(auth.PermPaymentsManage)
		payments.PATCH("/:id", reviewers, manage, h.UpdatePayment)
		payments.POST("/:id/approve-partial", reviewers, manage, h.ApprovePartial)
		payments.POST("/:id/approve-remaining", reviewers, manage, h.ApproveRemaining)
	}
}

func (h *PaymentHandler) GetPayment(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.views.Payment(c.Request.Context(), actor, payment))
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.PaymentListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	payments, err := h.paymentService.ListPayments(c.Request.Context(), query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.respondList(c, actor, payments)
}

func (h *PaymentHandler) ListMyPayments(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	payments, err := h.paymentService.ListMyPayments(c.Request.Context(), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.respondList(c, actor, payments)
}

func (h *PaymentHandler) SubmitOrderProof(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.OrderProofRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	outcome, err := h.paymentService.SubmitOrderProof(c.Request.Context(), actor, c.Param("id"), &req)
	h.respondOutcome(c, actor, outcome, err)
}

func (h *PaymentHandler) SubmitDeliverables(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.DeliverablesRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	outcome, err := h.paymentService.SubmitDeliverables(c.Request.Context(), actor, c.Param("id"), &req)
	h.respondOutcome(c, actor, outcome, err)
}

func (h *PaymentHandler) ApprovePartial(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.PartialApprovalRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	outcome, err := h.paymentService.ApprovePartial(c.Request.Context(), actor, c.Param("id"), &req)
	h.respondOutcome(c, actor, outcome, err)
}

func (h *PaymentHandler) ApproveRemaining(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.RemainingRequest
	if !h.BindOptional_JSON(c, &req) {
		return
	}

	outcome, err := h.paymentService.ApproveRemaining(c.Request.Context(), actor, c.Param("id"), &req)
	h.respondOutcome(c, actor, outcome, err)
}

func (h *PaymentHandler) UpdatePayment(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdatePaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	outcome, err := h.paymentService.UpdatePayment(c.Request.Context(), actor, c.Param("id"), &req)
	h.respondOutcome(c, actor, outcome, err)
}

// --- helpers ---

func (h *PaymentHandler) respondOutcome(c *gin.Context, actor models.Actor, outcome *services.PaymentOutcome, err error) {
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	ctx := c.Request.Context()
	resp := dto.PaymentActionResponse{
		Payment: h.views.Payment(ctx, actor, outcome.Payment),
		Effects: outcome.Effects,
	}
	if outcome.Application != nil {
		resp.Application = h.views.Application(ctx, actor, outcome.Application)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) respondList(c *gin.Context, actor models.Actor, payments []models.Payment) {
	views := h.views.Payments(c.Request.Context(), actor, payments)
	if views == nil {
		views = []*dto.PaymentView{}
	}
	c.JSON(http.StatusOK, dto.PaymentListResponse{
		Payments: views,
		Total:    len(views),
	})
}
