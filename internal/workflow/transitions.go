package workflow

import (
	"campaignhub_backend/internal/models"
	"campaignhub_backend/pkg/apperrors"
)

// Action - действие, переводящее заявку или выплату в новый статус
type Action string

const (
	ActionApprove      Action = "approve"
	ActionReject       Action = "reject"
	ActionSubmitOrder  Action = "submit_order"
	ActionApproveOrder Action = "approve_order"
	ActionRejectOrder  Action = "reject_order"

	// Зеркалирование статуса заявки из действий над выплатой
	ActionMirrorOrderProof     Action = "mirror_order_proof"
	ActionMirrorPartialPayment Action = "mirror_partial_payment"
	ActionMirrorFullPayment    Action = "mirror_full_payment"

	ActionSubmitOrderProof   Action = "submit_order_proof"
	ActionSubmitDeliverables Action = "submit_deliverables"
	ActionApprovePartial     Action = "approve_partial"
	ActionApproveRemaining   Action = "approve_remaining"
)

type appEdge struct {
	from   models.ApplicationStatus
	action Action
}

type payEdge struct {
	from   models.PaymentStatus
	action Action
}

// applicationTransitions: (from, action) → to. Отсутствующая пара = недопустимый переход.
var applicationTransitions = map[appEdge]models.ApplicationStatus{}

// paymentTransitions: (from, action) → to.
var paymentTransitions = map[payEdge]models.PaymentStatus{}

func allowApp(action Action, to models.ApplicationStatus, from ...models.ApplicationStatus) {
	for _, f := range from {
		applicationTransitions[appEdge{from: f, action: action}] = to
	}
}

func allowPay(action Action, to models.PaymentStatus, from ...models.PaymentStatus) {
	for _, f := range from {
		paymentTransitions[payEdge{from: f, action: action}] = to
	}
}

func init() {
	const (
		applied       = models.ApplicationStatusApplied
		approved      = models.ApplicationStatusApproved
		rejected      = models.ApplicationStatusRejected
		orderSubmit   = models.ApplicationStatusOrderSubmitted
		orderApproved = models.ApplicationStatusOrderFormApproved
		orderRejected = models.ApplicationStatusOrderFormRejected
		completed     = models.ApplicationStatusCompleted
		partialPaid   = models.ApplicationStatusPartialPaymentProcessed
		fullPaid      = models.ApplicationStatusFullPaymentProcessed
	)

	allowApp(ActionApprove, approved, applied, approved, rejected)
	allowApp(ActionReject, rejected, applied, approved, rejected)
	allowApp(ActionSubmitOrder, orderSubmit, approved, orderSubmit, orderRejected)
	allowApp(ActionApproveOrder, orderApproved, applied, approved, orderSubmit, orderRejected)
	allowApp(ActionRejectOrder, orderRejected, orderSubmit)
	allowApp(ActionRejectOrder, rejected, applied, approved, orderApproved, orderRejected)

	allowApp(ActionMirrorOrderProof, orderSubmit, approved, orderSubmit, orderApproved)
	allowApp(ActionMirrorPartialPayment, partialPaid, orderSubmit, orderApproved, completed, partialPaid)
	allowApp(ActionMirrorFullPayment, fullPaid, orderSubmit, orderApproved, completed, partialPaid, fullPaid)

	const (
		pending      = models.PaymentStatusPending
		proof        = models.PaymentStatusProofSubmitted
		deliverables = models.PaymentStatusDeliverablesSubmitted
		partial      = models.PaymentStatusPartialApproved
		paid         = models.PaymentStatusPaid
	)

	allowPay(ActionSubmitOrderProof, proof, pending, proof)
	allowPay(ActionSubmitDeliverables, deliverables, proof, partial, deliverables)
	allowPay(ActionApprovePartial, partial, pending, proof, partial)
	allowPay(ActionApproveRemaining, paid, deliverables, partial)
}

// NextApplicationStatus возвращает целевой статус или invalid_transition
func NextApplicationStatus(from models.ApplicationStatus, action Action) (models.ApplicationStatus, error) {
	to, ok := applicationTransitions[appEdge{from: from, action: action}]
	if !ok {
		return from, apperrors.ErrInvalidTransitionFrom("application", string(from), string(action))
	}
	return to, nil
}

// NextPaymentStatus возвращает целевой статус выплаты или invalid_transition
func NextPaymentStatus(from models.PaymentStatus, action Action) (models.PaymentStatus, error) {
	to, ok := paymentTransitions[payEdge{from: from, action: action}]
	if !ok {
		return from, apperrors.ErrInvalidTransitionFrom("payment", string(from), string(action))
	}
	return to, nil
}

// CanTransition - проверка без ошибки (для зеркалирования)
func CanTransition(from models.ApplicationStatus, action Action) bool {
	_, ok := applicationTransitions[appEdge{from: from, action: action}]
	return ok
}

// ApplicationEdges возвращает все допустимые переходы заявки (для тестов и документации)
func ApplicationEdges() map[models.ApplicationStatus]map[Action]models.ApplicationStatus {
	out := make(map[models.ApplicationStatus]map[Action]models.ApplicationStatus)
	for edge, to := range applicationTransitions {
		if out[edge.from] == nil {
			out[edge.from] = make(map[Action]models.ApplicationStatus)
		}
		out[edge.from][edge.action] = to
	}
	return out
}
