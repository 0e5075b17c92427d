package dto

// BulkNotFound - строка, для которой не нашлась заявка
type BulkNotFound struct {
	Row             int    `json:"row"`
	Reason          string `json:"reason"`
	ApplicationID   string `json:"application_id,omitempty"`
	InfluencerID    string `json:"influencer_id,omitempty"`
	InfluencerEmail string `json:"influencer_email,omitempty"`
	CampaignID      string `json:"campaign_id,omitempty"`
}

type BulkRowError struct {
	Row       int    `json:"row"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RawStatus string `json:"raw_status,omitempty"`
}

type BulkSkipped struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// BulkResult - итог пакетной обработки, отдается всегда с кодом 200
type BulkResult struct {
	Total    int            `json:"total"`
	Updated  int            `json:"updated"`
	NotFound []BulkNotFound `json:"notFound"`
	Errors   []BulkRowError `json:"errors"`
	Skipped  []BulkSkipped  `json:"skipped"`
}

func NewBulkResult(total int) *BulkResult {
	return &BulkResult{
		Total:    total,
		NotFound: []BulkNotFound{},
		Errors:   []BulkRowError{},
		Skipped:  []BulkSkipped{},
	}
}
