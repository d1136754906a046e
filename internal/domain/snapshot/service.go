package snapshot

import "context"

// Committer publishes the effect of a persisted write. It replaces the
// cached snapshot with reduce(current) and notifies subscribers. Failures are
// absorbed: the write already happened, so the cache is invalidated instead.
type Committer interface {
	Commit(ctx context.Context, companyID string, reduce Reducer)
}

type SnapshotService interface {
	Committer
	// Current returns the snapshot of the caller's company.
	Current(ctx context.Context) (Snapshot, error)
	// Load returns the snapshot of companyID. global adds the company list.
	Load(ctx context.Context, companyID string, global bool) (Snapshot, error)
}

// NopCommitter discards commits.
type NopCommitter struct{}

func (NopCommitter) Commit(context.Context, string, Reducer) {}
