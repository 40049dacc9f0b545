package services

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/repository"
	"onway_routes/internal/storage"
)

// Session is the unit of work of one reconciliation: the transaction every
// repository call runs on, plus the object deletions owed once it commits.
type Session struct {
	DB dbctx.Context

	mu    sync.Mutex
	blobs []blobRef
	bound map[blobRef]bool
}

type blobRef struct {
	Collection storage.Collection
	FileName   string
}

// QueueBlobDelete records an object to remove after commit.
func (s *Session) QueueBlobDelete(collection storage.Collection, fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = append(s.blobs, blobRef{Collection: collection, FileName: fileName})
}

// MarkBound records an object a row written in this session points to. A
// queued deletion of the same object is dropped at sweep time.
func (s *Session) MarkBound(collection storage.Collection, fileName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bound == nil {
		s.bound = map[blobRef]bool{}
	}
	s.bound[blobRef{Collection: collection, FileName: fileName}] = true
}

// pending lists the queued objects no row of the session binds again.
func (s *Session) pending() []blobRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]blobRef, 0, len(s.blobs))
	for _, blob := range s.blobs {
		if !s.bound[blob] {
			out = append(out, blob)
		}
	}
	return out
}

// blobSweeper issues the object deletions of committed sessions.
type blobSweeper struct {
	store       storage.Gateway
	concurrency int
}

// inSession runs fn in one transaction and, only if it commits, deletes the
// objects fn queued. Deletion failures are logged and dropped.
func inSession(ctx context.Context, tx repository.TxRunner, sweeper blobSweeper, fn func(s *Session) error) error {
	var session *Session
	err := tx.InTx(ctx, func(dbc dbctx.Context) error {
		session = &Session{DB: dbc}
		return fn(session)
	})
	if err != nil {
		return err
	}
	sweeper.sweep(context.WithoutCancel(ctx), session.pending())
	return nil
}

func (b blobSweeper) sweep(ctx context.Context, blobs []blobRef) {
	if len(blobs) == 0 || b.store == nil {
		return
	}
	limit := b.concurrency
	if limit <= 0 {
		limit = 8
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for _, blob := range blobs {
		g.Go(func() error {
			err := b.store.Delete(ctx, blob.Collection, blob.FileName)
			if err == nil {
				return nil
			}
			entry := logrus.WithFields(logrus.Fields{
				"collection": blob.Collection,
				"key":        storage.ObjectKey(blob.Collection, blob.FileName),
			}).WithError(err)
			if errors.Is(err, storage.ErrNotFound) {
				entry.Info("Object already absent after row delete")
			} else {
				entry.Warn("Failed to delete object; left orphaned")
			}
			return nil
		})
	}
	_ = g.Wait()
}
