package services

import (
	"testing"

	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories/memory"
	"campaignhub_backend/internal/services/dto"
	"campaignhub_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPayment_RefundOnDeliveryFlow - полный путь выплаты с зеркалированием в заявку
func TestPayment_RefundOnDeliveryFlow(t *testing.T) {
	// 1. Подготовка: заказ одобрен, выплата создана
	f := newFixture(t)
	f.seedCampaign(t, "camp-1", models.PayoutRefundOnDelivery, models.FulfillmentInfluencer)
	f.seedApplication(t, "app-1", "camp-1", models.ApplicationStatusOrderSubmitted)

	approved, err := f.svc.ApplicationService.ApproveOrder(f.ctx, f.admin, "app-1", &dto.OrderReviewRequest{
		ApprovedAmount: models.Float(50),
	})
	require.NoError(t, err)
	require.NotNil(t, approved.Payment)
	paymentID := approved.Payment.ID

	// 2. Инфлюенсер присылает скриншоты заказа
	out, err := f.svc.PaymentService.SubmitOrderProof(f.ctx, f.influencer, paymentID, &dto.OrderProofRequest{
		OrderScreenshot: "https://cdn.example.com/order.png",
		Comment:         "ordered",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusProofSubmitted, out.Payment.Status)
	require.NotNil(t, out.Application)
	assert.Equal(t, models.ApplicationStatusOrderSubmitted, out.Application.Status)
	t.Logf("ВЫПЛАТА: proof_submitted, заявка %s", out.Application.Status)

	// 3. Администратор одобряет частичную выплату и сразу платит
	out, err = f.svc.PaymentService.ApprovePartial(f.ctx, f.admin, paymentID, &dto.PartialApprovalRequest{PayNow: true})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartialApproved, out.Payment.Status)
	require.NotNil(t, out.Payment.PartialApproval)
	assert.Equal(t, 50.0, out.Payment.PartialApproval.Amount)
	assert.True(t, out.Payment.PartialApproval.Paid)
	assert.Equal(t, models.ApplicationStatusPartialPaymentProcessed, out.Application.Status)
	assert.True(t, out.Application.Payout.PartialPaid)

	// 4. Инфлюенсер сдает материалы
	out, err = f.svc.PaymentService.SubmitDeliverables(f.ctx, f.influencer, paymentID, &dto.DeliverablesRequest{
		Proof: "https://instagram.com/p/abc",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusDeliverablesSubmitted, out.Payment.Status)
	// Частичная выплата остается видна до окончательного расчета
	assert.Equal(t, models.ApplicationStatusPartialPaymentProcessed, out.Application.Status)

	// 5. Остаток выплачен
	out, err = f.svc.PaymentService.ApproveRemaining(f.ctx, f.admin, paymentID, &dto.RemainingRequest{Comment: "all good"})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, out.Payment.Status)
	assert.True(t, out.Payment.DeliverablesProof.Verified)
	assert.Equal(t, f.admin.ID, out.Payment.DeliverablesProof.VerifiedBy)

	stored := f.reloadApp(t, "app-1")
	assert.Equal(t, models.ApplicationStatusFullPaymentProcessed, stored.Status)
	assert.True(t, stored.Payout.Paid)
	require.NotNil(t, stored.Payout.PaidAt)

	// Комментарий администратора продублирован в журнал заявки
	last := stored.AdminComments[len(stored.AdminComments)-1]
	assert.Equal(t, "all good", last.Comment)
	assert.Equal(t, models.StagePayment, last.Stage)

	notifications, err := f.repos.Notifications.FindUserNotifications(f.ctx, f.influencer.ID, false)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "payment_paid", notifications[0].Type)
}

func TestPayment_GuardErrors(t *testing.T) {
	f := newFixture(t)
	f.seedApplication(t, "app-1", "camp-1", models.ApplicationStatusOrderFormApproved)
	f.seedPayment(t, "pay-after", "app-1", models.PaymentStatusPending, models.PayoutPayAfterDeliverables)
	f.seedPayment(t, "pay-refund", "app-1", models.PaymentStatusPartialApproved, models.PayoutRefundOnDelivery)

	tests := []struct {
		name string
		run  func() error
		code apperrors.ErrorCode
	}{
		{
			name: "partial approval outside refund flow",
			run: func() error {
				_, err := f.svc.PaymentService.ApprovePartial(f.ctx, f.admin, "pay-after", &dto.PartialApprovalRequest{})
				return err
			},
			code: apperrors.CodeInvalidPayoutFlow,
		},
		{
			name: "remaining without deliverables",
			run: func() error {
				_, err := f.svc.PaymentService.ApproveRemaining(f.ctx, f.admin, "pay-refund", &dto.RemainingRequest{})
				return err
			},
			code: apperrors.CodeDeliverablesMissing,
		},
		{
			name: "deliverables without proof",
			run: func() error {
				_, err := f.svc.PaymentService.SubmitDeliverables(f.ctx, f.influencer, "pay-refund", &dto.DeliverablesRequest{})
				return err
			},
			code: apperrors.CodeMissingFields,
		},
		{
			name: "order proof from another influencer",
			run: func() error {
				stranger := models.Actor{ID: "inf-2", Role: models.UserRoleInfluencer}
				_, err := f.svc.PaymentService.SubmitOrderProof(f.ctx, stranger, "pay-after", &dto.OrderProofRequest{OrderScreenshot: "x"})
				return err
			},
			code: apperrors.CodeForbidden,
		},
		{
			name: "order proof after partial approval",
			run: func() error {
				_, err := f.svc.PaymentService.SubmitOrderProof(f.ctx, f.influencer, "pay-refund", &dto.OrderProofRequest{OrderScreenshot: "x"})
				return err
			},
			code: apperrors.CodeInvalidTransition,
		},
		{
			name: "unknown payment",
			run: func() error {
				_, err := f.svc.PaymentService.ApproveRemaining(f.ctx, f.admin, "missing", &dto.RemainingRequest{})
				return err
			},
			code: apperrors.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}
}

func TestPayment_MirrorFailureIsBestEffort(t *testing.T) {
	f := newFixture(t)
	f.seedApplication(t, "app-1", "camp-1", models.ApplicationStatusOrderFormApproved)
	f.seedPayment(t, "pay-1", "app-1", models.PaymentStatusProofSubmitted, models.PayoutPayAfterDeliverables)
	f.store.FailOn["applications.update"] = memory.ErrInjected

	out, err := f.svc.PaymentService.SubmitDeliverables(f.ctx, f.influencer, "pay-1", &dto.DeliverablesRequest{
		Proof:   "link",
		Comment: "posted",
	})

	require.NoError(t, err)
	assert.True(t, effectByName(t, out.Effects, "save_payment").OK)
	assert.False(t, effectByName(t, out.Effects, "mirror_application").OK)

	stored, err := f.repos.Payments.FindByID(f.ctx, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusDeliverablesSubmitted, stored.Status)
	assert.Equal(t, models.ApplicationStatusOrderFormApproved, f.reloadApp(t, "app-1").Status)
}

func TestApprovePartial_WithoutPayNowKeepsApplicationStatus(t *testing.T) {
	f := newFixture(t)
	f.seedApplication(t, "app-1", "camp-1", models.ApplicationStatusOrderFormApproved)
	f.seedPayment(t, "pay-1", "app-1", models.PaymentStatusProofSubmitted, models.PayoutRefundOnDelivery)

	out, err := f.svc.PaymentService.ApprovePartial(f.ctx, f.admin, "pay-1", &dto.PartialApprovalRequest{
		PayNow:  false,
		Comment: "approved, pay later",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPartialApproved, out.Payment.Status)
	require.NotNil(t, out.Payment.PartialApproval)
	assert.False(t, out.Payment.PartialApproval.Paid)

	stored := f.reloadApp(t, "app-1")
	assert.Equal(t, models.ApplicationStatusOrderFormApproved, stored.Status)
	assert.False(t, stored.Payout.PartialPaid)
	// Комментарий зеркалируется в любом случае
	require.NotEmpty(t, stored.AdminComments)
	assert.Equal(t, "approved, pay later", stored.AdminComments[len(stored.AdminComments)-1].Comment)
}

func TestSubmitDeliverables_KeepsApplicationStatus(t *testing.T) {
	f := newFixture(t)
	f.seedApplication(t, "app-1", "camp-1", models.ApplicationStatusPartialPaymentProcessed)
	f.seedPayment(t, "pay-1", "app-1", models.PaymentStatusPartialApproved, models.PayoutRefundOnDelivery)

	out, err := f.svc.PaymentService.SubmitDeliverables(f.ctx, f.influencer, "pay-1", &dto.DeliverablesRequest{
		Proof:   "https://instagram.com/p/xyz",
		Comment: "posted",
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusDeliverablesSubmitted, out.Payment.Status)

	stored := f.reloadApp(t, "app-1")
	assert.Equal(t, models.ApplicationStatusPartialPaymentProcessed, stored.Status)
	require.NotEmpty(t, stored.InfluencerComments)
	assert.Equal(t, "posted", stored.InfluencerComments[len(stored.InfluencerComments)-1].Comment)
}

func TestUpdatePayment_MarkPaidMirrorsApplication(t *testing.T) {
	f := newFixture(t)
	f.seedApplication(t, "app-1", "camp-1", models.ApplicationStatusCompleted)
	f.seedPayment(t, "pay-1", "app-1", models.PaymentStatusDeliverablesSubmitted, models.PayoutPayAfterDeliverables)

	out, err := f.svc.PaymentService.UpdatePayment(f.ctx, f.admin, "pay-1", &dto.UpdatePaymentRequest{
		Status:   string(models.PaymentStatusPaid),
		Metadata: map[string]interface{}{"bank_ref": "TX-42"},
		Comment:  "paid via bank",
	})

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, out.Payment.Status)
	assert.Equal(t, "TX-42", out.Payment.Metadata["bank_ref"])
	require.Len(t, out.Payment.AdminComments, 1)

	stored := f.reloadApp(t, "app-1")
	assert.True(t, stored.Payout.Paid)
	// Ручная правка не трогает статус заявки
	assert.Equal(t, models.ApplicationStatusCompleted, stored.Status)
}

func TestPayment_Visibility(t *testing.T) {
	f := newFixture(t)
	f.seedApplication(t, "app-1", "camp-1", models.ApplicationStatusOrderFormApproved)
	f.seedPayment(t, "pay-1", "app-1", models.PaymentStatusPending, models.PayoutPayAfterDeliverables)

	_, err := f.svc.PaymentService.GetPayment(f.ctx, f.influencer, "pay-1")
	assert.NoError(t, err)

	stranger := models.Actor{ID: "inf-2", Role: models.UserRoleInfluencer}
	_, err = f.svc.PaymentService.GetPayment(f.ctx, stranger, "pay-1")
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	mine, err := f.svc.PaymentService.ListMyPayments(f.ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, mine)

	all, err := f.svc.PaymentService.ListPayments(f.ctx, dto.PaymentListQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
