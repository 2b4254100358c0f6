// Package queue defines message payloads exchanged over the message broker.
package queue

// CampaignSentEvent is published after a campaign send commits.  It carries
// enough information for downstream consumers to log or trigger analytics
// without querying the primary database.  Recipients holds the applicant
// emails the send addressed.
type CampaignSentEvent struct {
    CampaignID   uint64   `json:"campaign_id"`
    CycleID      uint64   `json:"cycle_id"`
    CampaignName string   `json:"campaign_name"`
    Subject      string   `json:"subject"`
    Recipients   []string `json:"recipients"`
    SentBy       uint64   `json:"sent_by"`
    SentAt       string   `json:"sent_at"`
}
