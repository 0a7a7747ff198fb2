package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/talenta-triggers/internal/domain/insights"
	trigdomain "github.com/bryanwahyu/talenta-triggers/internal/domain/triggers"
)

type Service struct {
	client domain.Client
	repo   domain.Repository
}

func NewService(client domain.Client, repo domain.Repository) *Service {
	return &Service{client: client, repo: repo}
}

// SummarizeAndStore rangkum hasil dispatch terakhir pakai AI, simpan
// hasilnya untuk audit.
func (s *Service) SummarizeAndStore(ctx context.Context, tenant string, execs []*trigdomain.TriggerExecution) (*domain.Insight, error) {
	if len(execs) == 0 {
		return nil, fmt.Errorf("no executions to summarize for tenant: %s", tenant)
	}

	report, err := json.Marshal(execs)
	if err != nil {
		return nil, fmt.Errorf("encoding execution report: %w", err)
	}

	result, err := s.client.Summarize(ctx, string(report))
	if err != nil {
		return nil, err
	}

	in := &domain.Insight{
		ID:        domain.InsightID(uuid.New().String()),
		TenantID:  tenant,
		Result:    result,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Save(ctx, in); err != nil {
		return nil, err
	}
	return in, nil
}

// Latest ambil N insight terakhir
func (s *Service) Latest(ctx context.Context, tenant string, limit int) ([]*domain.Insight, error) {
	return s.repo.Latest(ctx, tenant, limit)
}
