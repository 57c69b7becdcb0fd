package firestorecloud

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/sulavtimsina/expense-sync/internal/errs"
	"github.com/sulavtimsina/expense-sync/internal/models"
)

// Source is the Firestore-backed cloud store. Expenses live in a per-user
// subcollection, so owner scoping is the document path itself: a session
// can only ever touch users/{uid}/expenses.
type Source struct {
	client *firestore.Client
	auth   *Auth
}

func NewSource(client *firestore.Client, auth *Auth) *Source {
	return &Source{client: client, auth: auth}
}

func (s *Source) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("expenses")
}

func (s *Source) CurrentUserID() string { return s.auth.CurrentUserID() }

func (s *Source) SignInAnonymously(ctx context.Context) (string, error) {
	return s.auth.SignInAnonymously(ctx)
}

func (s *Source) SignIn(ctx context.Context, email, password string) (string, error) {
	return s.auth.SignIn(ctx, email, password)
}

func (s *Source) SignUp(ctx context.Context, email, password string) (string, error) {
	return s.auth.SignUp(ctx, email, password)
}

func (s *Source) SignOut(ctx context.Context) error {
	return s.auth.SignOut(ctx)
}

// Upsert writes the record under its owner's collection, replacing any
// previous version of the same id.
func (s *Source) Upsert(ctx context.Context, c models.CloudExpense) error {
	if s.auth.CurrentUserID() == "" {
		return errs.NewAuthRequiredError()
	}
	if _, err := s.collection(c.UserID).Doc(c.ID).Set(ctx, c); err != nil {
		return errs.NewCloudSyncError("upsert", err.Error())
	}
	return nil
}

// Delete hard-deletes the record. There is no tombstone; other devices
// holding a local copy will re-push it on their next sync. Deleting an
// absent document is not an error.
func (s *Source) Delete(ctx context.Context, id string) error {
	uid := s.auth.CurrentUserID()
	if uid == "" {
		return errs.NewAuthRequiredError()
	}
	if _, err := s.collection(uid).Doc(id).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return errs.NewCloudSyncError("delete", err.Error())
	}
	return nil
}

// FetchAll pulls the owner's full record set in one shot.
func (s *Source) FetchAll(ctx context.Context, userID string) ([]models.CloudExpense, error) {
	docs, err := s.collection(userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewCloudSyncError("fetch", err.Error())
	}
	expenses := make([]models.CloudExpense, 0, len(docs))
	for _, d := range docs {
		var c models.CloudExpense
		if err := d.DataTo(&c); err != nil {
			return nil, errs.NewCloudSyncError("fetch", err.Error())
		}
		expenses = append(expenses, c)
	}
	return expenses, nil
}

// SubscribeAll emits the owner's record set on every collection change
// through a Firestore snapshot listener. The channel closes when ctx ends
// or the listener fails.
func (s *Source) SubscribeAll(ctx context.Context, userID string) <-chan []models.CloudExpense {
	out := make(chan []models.CloudExpense, 1)

	go func() {
		defer close(out)

		snaps := s.collection(userID).Snapshots(ctx)
		defer snaps.Stop()

		for {
			snap, err := snaps.Next()
			if err != nil {
				return
			}

			var batch []models.CloudExpense
			it := snap.Documents
			for {
				doc, err := it.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					return
				}
				var c models.CloudExpense
				if err := doc.DataTo(&c); err != nil {
					continue
				}
				batch = append(batch, c)
			}

			select {
			case out <- batch:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
