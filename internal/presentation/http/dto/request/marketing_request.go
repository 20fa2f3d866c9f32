package request

import "github.com/google/uuid"

// CampaignRequest creates an email campaign
type CampaignRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Subject string `json:"subject" binding:"required,max=255"`
	Body    string `json:"body" binding:"required"`
}

// BulkSendRequest sends a WhatsApp template. Empty subscriberIds targets
// every active subscriber.
type BulkSendRequest struct {
	Template      string      `json:"template" binding:"required"`
	Language      string      `json:"language" binding:"omitempty,max=10"`
	Params        []string    `json:"params"`
	SubscriberIDs []uuid.UUID `json:"subscriberIds"`
}
