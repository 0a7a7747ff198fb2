package triggers

// PaginatedExecutions represents a paginated audit-trail page with metadata
type PaginatedExecutions struct {
	Data       []*TriggerExecution `json:"data"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	Total      int64               `json:"totalItems"`
	TotalPages int                 `json:"totalPages"`
}
