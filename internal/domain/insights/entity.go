package insights

import "time"

// InsightID identifier type
type InsightID string

// Insight represents an AI summary of a dispatch run, stored for
// auditing and retrieval
type Insight struct {
	ID        InsightID `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Result    string    `json:"result"` // JSON string from AI
	CreatedAt time.Time `json:"created_at"`
}
