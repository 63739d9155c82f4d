package leads

import "encoding/json"

// BulkLeadInput is one row of a bulk-ingest request: `POST
// .../leads/bulk`, and the CSV columns `phoneNumber|phone|number`, `name`,
// `priority`, `metadata`.
type BulkLeadInput struct {
	PhoneNumber string          `json:"phoneNumber" csv:"phoneNumber"`
	Name        string          `json:"name,omitempty" csv:"name"`
	Priority    int             `json:"priority,omitempty" csv:"priority"`
	Metadata    json.RawMessage `json:"metadata,omitempty" csv:"metadata"`
}

// BulkIngestRequest is the body of `POST .../leads/bulk`.
type BulkIngestRequest struct {
	Leads []BulkLeadInput `json:"leads"`
}

// BulkIngestResult is the response of a bulk ingest: `created` leads were
// actually inserted; duplicates (same campaignId+phoneNumber) are skipped
// silently.
type BulkIngestResult struct {
	Created int `json:"created"`
	Total   int `json:"total"`
}
