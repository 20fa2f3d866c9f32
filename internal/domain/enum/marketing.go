package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CampaignStatus represents the delivery state of a newsletter campaign
type CampaignStatus int

const (
	CampaignStatusDraft   CampaignStatus = 0
	CampaignStatusSending CampaignStatus = 1
	CampaignStatusSent    CampaignStatus = 2
	CampaignStatusFailed  CampaignStatus = 3
)

var campaignStatusNames = []string{"draft", "sending", "sent", "failed"}

func (s CampaignStatus) String() string { return nameOf(campaignStatusNames, int(s)) }

func (s CampaignStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *CampaignStatus) UnmarshalJSON(data []byte) error {
	i, err := parse(campaignStatusNames, "campaign status", data)
	if err != nil {
		return err
	}
	*s = CampaignStatus(i)
	return nil
}

func (s CampaignStatus) Value() (driver.Value, error) { return intValue(int(s)) }

func (s *CampaignStatus) Scan(v interface{}) error {
	*s = CampaignStatus(scanInt(v))
	return nil
}

// SubscriberSource records where a subscriber signed up
type SubscriberSource int

const (
	SubscriberSourceNewsletter SubscriberSource = 0
	SubscriberSourceWhatsApp   SubscriberSource = 1
	SubscriberSourceStorefront SubscriberSource = 2
)

var subscriberSourceNames = []string{"newsletter", "whatsapp", "storefront"}

func (s SubscriberSource) String() string { return nameOf(subscriberSourceNames, int(s)) }

func (s SubscriberSource) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *SubscriberSource) UnmarshalJSON(data []byte) error {
	i, err := parse(subscriberSourceNames, "subscriber source", data)
	if err != nil {
		return err
	}
	*s = SubscriberSource(i)
	return nil
}

func (s SubscriberSource) Value() (driver.Value, error) { return intValue(int(s)) }

func (s *SubscriberSource) Scan(v interface{}) error {
	*s = SubscriberSource(scanInt(v))
	return nil
}

// ParseSubscriberSource maps a query-string name to a source.
func ParseSubscriberSource(name string) (SubscriberSource, bool) {
	i, ok := lookup(subscriberSourceNames, name)
	return SubscriberSource(i), ok
}
