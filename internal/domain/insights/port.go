package insights

import "context"

// Client port ke AI provider
type Client interface {
	Summarize(ctx context.Context, report string) (string, error)
}

// Repository port for persisting and querying insights
type Repository interface {
	Save(ctx context.Context, i *Insight) error
	Latest(ctx context.Context, tenant string, limit int) ([]*Insight, error)
}
