package repository

import (
	"cloud-function-discovery/internal/domain"
	"cloud-function-discovery/internal/logging"
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

const CollectionEvents = "events"

type EventRepository interface {
	// Find returns the events matching q, ordered by q.OrderBy unless q.Sample is set.
	// Every error wraps domain.ErrRetrieval.
	Find(ctx context.Context, q domain.EventQuery) ([]domain.Event, error)
	Save(ctx context.Context, event *domain.Event) error
}

type eventRepo struct {
	client     *firestore.Client
	collection string
	shuffle    Shuffler
}

// NewEventRepository returns a Firestore-backed repository. An empty collection means
// CollectionEvents and a nil shuffle uses math/rand/v2.
func NewEventRepository(client *firestore.Client, collection string, shuffle Shuffler) EventRepository {
	if collection == "" {
		collection = CollectionEvents
	}
	return &eventRepo{client: client, collection: collection, shuffle: defaultShuffler(shuffle)}
}

// Save writes the event with end_time filled in. Find filters on end_time in Firestore, so
// documents ingested by other writers must carry end_time too (equal to start_time for point events).
func (r *eventRepo) Save(ctx context.Context, event *domain.Event) error {
	stored := event.WithDefaultEnd()
	_, err := r.client.Collection(r.collection).Doc(event.ID).Set(ctx, stored)
	return err
}

func (r *eventRepo) Find(ctx context.Context, q domain.EventQuery) ([]domain.Event, error) {
	pushdown, residual := partition(q.Predicate)

	fq := r.client.Collection(r.collection).Query
	if f, ok := entityFilter(pushdown); ok {
		fq = fq.WhereEntity(f)
	}
	if q.OrderBy != "" {
		fq = fq.OrderBy(string(q.OrderBy), firestore.Asc)
	}
	fq = fq.Limit(fetchLimit(q, len(residual) > 0))

	iter := fq.Documents(ctx)
	defer iter.Stop()

	var events []domain.Event
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, retrievalError("find events", err)
		}

		var e domain.Event
		if err := doc.DataTo(&e); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("doc_id", doc.Ref.ID).Msg("skipping malformed event document")
			continue
		}
		if e.ID == "" {
			e.ID = doc.Ref.ID
		}
		events = append(events, e)
	}

	return finish(events, residual, q, r.shuffle), nil
}
