package filesystem

import (
	"context"

	"atelier/internal/ports"
)

// VerifyAgainstDisk re-scans the per-asset documents on a background
// goroutine and corrects the in-memory snapshot where it has drifted:
// documents missing from the snapshot are inserted, snapshot entries
// without a document are removed, and entries differing on the defined
// equality (name, size, extension, folder, tag set) are replaced by
// the on-disk version. The cache is rewritten only when a correction
// was applied, which makes back-to-back runs idempotent.
func (r *Repository) VerifyAgainstDisk(ctx context.Context) <-chan ports.VerifyReport {
	ch := make(chan ports.VerifyReport, 1)
	go func() {
		defer close(ch)
		ch <- r.verify(ctx)
	}()
	return ch
}

func (r *Repository) verify(ctx context.Context) ports.VerifyReport {
	var report ports.VerifyReport

	if err := ctx.Err(); err != nil {
		report.Err = err
		return report
	}

	// The scan and the diff hold the lock together: a save landing
	// between them would otherwise look like an orphaned entry and be
	// dropped from the snapshot.
	r.mu.Lock()
	defer r.mu.Unlock()

	onDisk, err := r.readAssetDocuments()
	if err != nil {
		report.Err = err
		return report
	}

	for id, diskRecord := range onDisk {
		current, ok := r.assets[id]
		switch {
		case !ok:
			r.assets[id] = diskRecord
			report.Inserted++
			r.logger.Info("verify: inserted asset missing from cache", "id", id)
		case !current.Equivalent(diskRecord):
			r.assets[id] = diskRecord
			report.Updated++
			r.logger.Info("verify: replaced stale cache entry", "id", id)
		}
	}
	for id := range r.assets {
		if _, ok := onDisk[id]; !ok {
			delete(r.assets, id)
			report.Removed++
			r.logger.Info("verify: removed orphaned cache entry", "id", id)
		}
	}

	if report.Corrections() > 0 {
		if err := r.writeCacheLocked(); err != nil {
			report.Err = err
		}
	}
	return report
}
