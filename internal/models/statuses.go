package models

type UserRole string
type ApplicationStatus string
type PaymentStatus string
type FulfillmentMethod string
type PaymentType string
type PayoutRelease string
type Stage string

const (
	UserRoleInfluencer UserRole = "influencer"
	UserRoleAdmin      UserRole = "admin"
	UserRoleSuperAdmin UserRole = "superadmin"
	UserRoleBrand      UserRole = "brand"

	ApplicationStatusApplied                 ApplicationStatus = "applied"
	ApplicationStatusApproved                ApplicationStatus = "approved"
	ApplicationStatusRejected                ApplicationStatus = "rejected"
	ApplicationStatusOrderSubmitted          ApplicationStatus = "order_submitted"
	ApplicationStatusOrderFormApproved       ApplicationStatus = "order_form_approved"
	ApplicationStatusOrderFormRejected       ApplicationStatus = "order_form_rejected"
	ApplicationStatusCompleted               ApplicationStatus = "completed"
	ApplicationStatusPartialPaymentProcessed ApplicationStatus = "partial_payment_processed"
	ApplicationStatusFullPaymentProcessed    ApplicationStatus = "full_payment_processed"

	PaymentStatusPending               PaymentStatus = "pending"
	PaymentStatusProofSubmitted        PaymentStatus = "proof_submitted"
	PaymentStatusDeliverablesSubmitted PaymentStatus = "deliverables_submitted"
	PaymentStatusPartialApproved       PaymentStatus = "partial_approved"
	PaymentStatusPaid                  PaymentStatus = "paid"
	PaymentStatusFailed                PaymentStatus = "failed"

	FulfillmentInfluencer FulfillmentMethod = "influencer"
	FulfillmentBrand      FulfillmentMethod = "brand"

	PaymentTypePartial      PaymentType = "partial"
	PaymentTypeOnPlace      PaymentType = "on_place"
	PaymentTypeOnCompletion PaymentType = "on_completion"
	PaymentTypeFull         PaymentType = "full"

	PayoutRefundOnDelivery     PayoutRelease = "refund_on_delivery"
	PayoutPayAfterDeliverables PayoutRelease = "pay_after_deliverables"
	PayoutAdvanceThenRemaining PayoutRelease = "advance_then_remaining"

	StageApplication Stage = "application"
	StageOrder       Stage = "order"
	StagePayment     Stage = "payment"
)

var AllApplicationStatuses = []ApplicationStatus{
	ApplicationStatusApplied,
	ApplicationStatusApproved,
	ApplicationStatusRejected,
	ApplicationStatusOrderSubmitted,
	ApplicationStatusOrderFormApproved,
	ApplicationStatusOrderFormRejected,
	ApplicationStatusCompleted,
	ApplicationStatusPartialPaymentProcessed,
	ApplicationStatusFullPaymentProcessed,
}

var AllPaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusProofSubmitted,
	PaymentStatusDeliverablesSubmitted,
	PaymentStatusPartialApproved,
	PaymentStatusPaid,
	PaymentStatusFailed,
}

// OrderStageStatuses - статусы, в которых заявка видна в очереди заказов
var OrderStageStatuses = []ApplicationStatus{
	ApplicationStatusOrderSubmitted,
	ApplicationStatusOrderFormApproved,
	ApplicationStatusOrderFormRejected,
}

func (s ApplicationStatus) Valid() bool {
	for _, v := range AllApplicationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	for _, v := range AllPaymentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (f FulfillmentMethod) Valid() bool {
	return f == FulfillmentInfluencer || f == FulfillmentBrand
}

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleInfluencer, UserRoleAdmin, UserRoleSuperAdmin, UserRoleBrand:
		return true
	}
	return false
}
