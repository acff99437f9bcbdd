package repository

import (
	"cloud-function-discovery/internal/domain"
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const CollectionSearchLog = "search_log"

type SearchLogRepository interface {
	SaveSearch(ctx context.Context, entry *domain.SearchLogEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error)
}

type searchLogRepo struct {
	client     *firestore.Client
	collection string
}

func NewSearchLogRepository(client *firestore.Client, collection string) SearchLogRepository {
	if collection == "" {
		collection = CollectionSearchLog
	}
	return &searchLogRepo{client: client, collection: collection}
}

func (r *searchLogRepo) SaveSearch(ctx context.Context, entry *domain.SearchLogEntry) error {
	if entry.ID != "" {
		_, err := r.client.Collection(r.collection).Doc(entry.ID).Set(ctx, entry)
		return err
	}
	_, _, err := r.client.Collection(r.collection).Add(ctx, entry)
	return err
}

func (r *searchLogRepo) ListRecent(ctx context.Context, limit int) ([]domain.SearchLogEntry, error) {
	iter := r.client.Collection(r.collection).
		OrderBy("created_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var entries []domain.SearchLogEntry
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, retrievalError("list searches", err)
		}
		var e domain.SearchLogEntry
		if err := doc.DataTo(&e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}
