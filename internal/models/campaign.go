package models

import "gorm.io/datatypes"

// Campaign для workflow только читается
type Campaign struct {
	BaseModel
	Title             string                      `gorm:"not null" json:"title"`
	BrandName         string                      `json:"brand_name"`
	BrandID           string                      `gorm:"type:varchar(36);index" json:"brand_id,omitempty"`
	Category          string                      `json:"category,omitempty"`
	Budget            float64                     `json:"budget"`
	FulfillmentMethod FulfillmentMethod           `gorm:"type:varchar(20);default:'influencer'" json:"fulfillment_method"`
	OrderFormFields   datatypes.JSONSlice[string] `json:"order_form_fields,omitempty"`
	PaymentType       PaymentType                 `gorm:"type:varchar(20);default:'full'" json:"payment_type"`
	PayoutRelease     PayoutRelease               `gorm:"type:varchar(40);default:'pay_after_deliverables'" json:"payout_release"`
}

func (c *Campaign) Clone() *Campaign {
	if c == nil {
		return nil
	}
	cp := *c
	cp.OrderFormFields = cloneStrings(c.OrderFormFields)
	return &cp
}
