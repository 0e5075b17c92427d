package models

import (
	"time"

	"gorm.io/datatypes"
)

type OrderProofs struct {
	OrderScreenshot     string     `json:"order_screenshot,omitempty"`
	DeliveredScreenshot string     `json:"delivered_screenshot,omitempty"`
	OrderAmount         *float64   `json:"order_amount,omitempty"`
	SubmittedAt         *time.Time `json:"submitted_at,omitempty"`
}

type DeliverablesProof struct {
	Proof       string     `json:"proof,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	Verified    bool       `json:"verified"`
	VerifiedBy  string     `json:"verified_by,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
}

// PartialApproval используется только при payout_release = refund_on_delivery
type PartialApproval struct {
	Amount     float64    `json:"amount"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	Paid       bool       `json:"paid"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
}

type Payment struct {
	BaseModel
	ApplicationID string        `gorm:"type:varchar(36);not null;index" json:"application_id"`
	InfluencerID  string        `gorm:"type:varchar(36);not null;index" json:"influencer_id"`
	CampaignID    string        `gorm:"type:varchar(36);not null;index" json:"campaign_id"`
	Amount        float64       `json:"amount"`
	TotalPayout   float64       `json:"total_payout"`
	Status        PaymentStatus `gorm:"type:varchar(40);not null;index" json:"status"`

	PaymentType       PaymentType       `gorm:"type:varchar(20)" json:"payment_type,omitempty"`
	PayoutRelease     PayoutRelease     `gorm:"type:varchar(40)" json:"payout_release,omitempty"`
	FulfillmentMethod FulfillmentMethod `gorm:"type:varchar(20)" json:"fulfillment_method,omitempty"`

	OrderProofs       OrderProofs       `gorm:"embedded;embeddedPrefix:order_proof_" json:"order_proofs"`
	DeliverablesProof DeliverablesProof `gorm:"embedded;embeddedPrefix:deliverables_" json:"deliverables_proof"`
	PartialApproval   *PartialApproval  `gorm:"serializer:json" json:"partial_approval,omitempty"`

	Metadata datatypes.JSONMap `json:"metadata,omitempty"`

	AdminComments      datatypes.JSONSlice[CommentEntry] `json:"admin_comments"`
	InfluencerComments datatypes.JSONSlice[CommentEntry] `json:"influencer_comments"`
}

func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	cp := *p
	cp.OrderProofs.OrderAmount = cloneFloat(p.OrderProofs.OrderAmount)
	cp.OrderProofs.SubmittedAt = cloneTime(p.OrderProofs.SubmittedAt)
	cp.DeliverablesProof.SubmittedAt = cloneTime(p.DeliverablesProof.SubmittedAt)
	cp.DeliverablesProof.VerifiedAt = cloneTime(p.DeliverablesProof.VerifiedAt)
	if p.PartialApproval != nil {
		pa := *p.PartialApproval
		pa.ApprovedAt = cloneTime(p.PartialApproval.ApprovedAt)
		pa.PaidAt = cloneTime(p.PartialApproval.PaidAt)
		cp.PartialApproval = &pa
	}
	cp.Metadata = cloneMap(p.Metadata)
	cp.AdminComments = CloneComments(p.AdminComments)
	cp.InfluencerComments = CloneComments(p.InfluencerComments)
	return &cp
}
