package models

import (
	"time"

	"gorm.io/datatypes"
)

// CommentEntry - запись журнала комментариев, stage делит журнал по фазам workflow
type CommentEntry struct {
	Stage     Stage     `json:"stage"`
	Comment   string    `json:"comment"`
	By        string    `json:"by"`
	ByName    string    `json:"by_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Payout struct {
	// nil или 0 считаются "не задано"
	Amount      *float64   `json:"amount"`
	Paid        bool       `json:"paid"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	PartialPaid bool       `json:"partial_paid"`
}

// IsSet - сумма задана и не равна нулю
func (p Payout) IsSet() bool {
	return p.Amount != nil && *p.Amount != 0
}

// Value возвращает сумму или 0
func (p Payout) Value() float64 {
	if p.Amount == nil {
		return 0
	}
	return *p.Amount
}

type ShippingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Field возвращает поле адреса по имени колонки экспорта (shippingAddress.<name>)
func (a *ShippingAddress) Field(name string) string {
	if a == nil {
		return ""
	}
	switch name {
	case "line1":
		return a.Line1
	case "line2":
		return a.Line2
	case "city":
		return a.City
	case "state":
		return a.State
	case "postalCode", "postal_code":
		return a.PostalCode
	case "country":
		return a.Country
	case "phone":
		return a.Phone
	}
	return ""
}

type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Application struct {
	BaseModel
	CampaignID   string            `gorm:"type:varchar(36);not null;index" json:"campaign_id"`
	InfluencerID string            `gorm:"type:varchar(36);not null;index" json:"influencer_id"`
	Status       ApplicationStatus `gorm:"type:varchar(40);not null;index" json:"status"`
	ReviewerID   string            `gorm:"type:varchar(36)" json:"reviewer_id,omitempty"`
	Payout       Payout            `gorm:"embedded;embeddedPrefix:payout_" json:"payout"`

	// Снимок настроек кампании
	FulfillmentMethod FulfillmentMethod           `gorm:"type:varchar(20)" json:"fulfillment_method,omitempty"`
	OrderFormFields   datatypes.JSONSlice[string] `json:"order_form_fields,omitempty"`
	PaymentType       PaymentType                 `gorm:"type:varchar(20)" json:"payment_type,omitempty"`
	PayoutRelease     PayoutRelease               `gorm:"type:varchar(40)" json:"payout_release,omitempty"`

	// Данные заказа
	OrderID            string            `json:"order_id,omitempty"`
	OrderData          datatypes.JSONMap `json:"order_data,omitempty"`
	CampaignScreenshot string            `json:"campaign_screenshot,omitempty"`
	ShippingAddress    *ShippingAddress  `gorm:"serializer:json" json:"shipping_address,omitempty"`

	AdminComments      datatypes.JSONSlice[CommentEntry] `json:"admin_comments"`
	InfluencerComments datatypes.JSONSlice[CommentEntry] `json:"influencer_comments"`

	RejectionReason string `json:"rejection_reason,omitempty"`
	NeedsAppeal     bool   `json:"needs_appeal"`
	AppealFormName  string `json:"appeal_form_name,omitempty"`

	// Анкета при отклике
	Answers          datatypes.JSONSlice[Answer] `json:"answers,omitempty"`
	SampleMedia      datatypes.JSONSlice[string] `json:"sample_media,omitempty"`
	ApplicantComment string                      `json:"applicant_comment,omitempty"`
	FollowersAtApply int                         `json:"followers_at_apply,omitempty"`
}

// ClearOrder сбрасывает данные заказа для повторной подачи
func (a *Application) ClearOrder() {
	a.OrderID = ""
	a.OrderData = nil
	a.CampaignScreenshot = ""
	a.ShippingAddress = nil
}

// Clone - глубокая копия (используется in-memory репозиторием)
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Payout.Amount = cloneFloat(a.Payout.Amount)
	cp.Payout.PaidAt = cloneTime(a.Payout.PaidAt)
	cp.Payout.ApprovedAt = cloneTime(a.Payout.ApprovedAt)
	cp.OrderFormFields = cloneStrings(a.OrderFormFields)
	cp.OrderData = cloneMap(a.OrderData)
	if a.ShippingAddress != nil {
		addr := *a.ShippingAddress
		cp.ShippingAddress = &addr
	}
	cp.AdminComments = CloneComments(a.AdminComments)
	cp.InfluencerComments = CloneComments(a.InfluencerComments)
	if a.Answers != nil {
		cp.Answers = append(datatypes.JSONSlice[Answer]{}, a.Answers...)
	}
	cp.SampleMedia = cloneStrings(a.SampleMedia)
	return &cp
}

func CloneComments(in []CommentEntry) []CommentEntry {
	if in == nil {
		return nil
	}
	out := make([]CommentEntry, len(in))
	copy(out, in)
	return out
}
