package local

import (
	"context"
	"time"

	"github.com/sulavtimsina/expense-sync/internal/models"
)

// Observation support: every committed write notifies subscribers, and each
// Observe* call returns a restartable snapshot stream: the current query
// result immediately, then a fresh result after every table change. A
// failed re-query emits an empty list instead of tearing the stream down,
// so a read fault shows up as "no data" rather than a dead screen.

// ObserveAll streams snapshots of every expense until ctx is cancelled.
func (s *Store) ObserveAll(ctx context.Context) <-chan []models.Expense {
	return s.observe(ctx, s.ListAll)
}

// ObserveByCategory streams snapshots of one category.
func (s *Store) ObserveByCategory(ctx context.Context, category models.Category) <-chan []models.Expense {
	return s.observe(ctx, func(ctx context.Context) ([]models.Expense, error) {
		return s.ListByCategory(ctx, category)
	})
}

// ObserveByDateRange streams snapshots of a date window.
func (s *Store) ObserveByDateRange(ctx context.Context, start, end time.Time) <-chan []models.Expense {
	return s.observe(ctx, func(ctx context.Context) ([]models.Expense, error) {
		return s.ListByDateRange(ctx, start, end)
	})
}

func (s *Store) observe(ctx context.Context, query func(context.Context) ([]models.Expense, error)) <-chan []models.Expense {
	out := make(chan []models.Expense, 1)
	id, changes := s.subscribe()

	go func() {
		defer close(out)
		defer s.unsubscribe(id)

		emit := func() bool {
			snapshot, err := query(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return false
				}
				snapshot = []models.Expense{}
			}
			select {
			case out <- snapshot:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				if !emit() {
					return
				}
			}
		}
	}()

	return out
}

func (s *Store) subscribe() (int, chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	// Buffer of one: a notification that arrives mid-query coalesces with
	// the next instead of being lost.
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return id, ch
}

func (s *Store) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func (s *Store) notifyChange() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
