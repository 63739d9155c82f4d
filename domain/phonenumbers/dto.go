package phonenumbers

// CreateRequest is the payload for POST .../phone-numbers.
type CreateRequest struct {
	Number      string     `json:"number"`
	ProviderSID string     `json:"providerSid,omitempty"`
	Type        NumberType `json:"type,omitempty"`
	Provider    string     `json:"provider,omitempty"`
}

// UpdateRequest is the payload for PATCH .../phone-numbers/{id}.
type UpdateRequest struct {
	CampaignID     *string `json:"campaignId,omitempty"`
	LiveKitTrunkID *string `json:"livekitTrunkId,omitempty"`
	IsActive       *bool   `json:"isActive,omitempty"`
}
