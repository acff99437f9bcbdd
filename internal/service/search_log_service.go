package service

import (
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/repository"
	"context"
	"time"

	"github.com/google/uuid"
)

const maxRecent = 100

type SearchLogService interface {
	Record(ctx context.Context, entry *domain.SearchLogEntry) error
	Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error)
}

type searchLogService struct {
	repo repository.SearchLogRepository
}

func NewSearchLogService(repo repository.SearchLogRepository) SearchLogService {
	return &searchLogService{repo: repo}
}

func (s *searchLogService) Record(ctx context.Context, entry *domain.SearchLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.Query == "" {
		return domain.ErrValidation("query is required")
	}
	return s.repo.SaveSearch(ctx, entry)
}

func (s *searchLogService) Recent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	if limit > maxRecent {
		limit = maxRecent
	}
	return s.repo.ListRecent(ctx, limit)
}
