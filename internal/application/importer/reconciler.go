package importer

import (
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"

	"atelier/internal/application"
	"atelier/internal/domain"
	"atelier/internal/ports"
)

// fallbackAssetName labels records whose feed entry carried no usable
// filename, item name or URL.
const fallbackAssetName = "Untitled item"

// Reconciler stages marketplace feed batches into the catalog without
// creating duplicates. It talks to the repository only; it never
// touches files directly. At most one batch runs at a time: a second
// concurrent call is rejected, not queued.
type Reconciler struct {
	repo   ports.CatalogRepository
	thumbs ports.ThumbnailFetcher // may be nil
	logger *slog.Logger
	busy   atomic.Bool
}

// NewReconciler creates a reconciler. thumbs may be nil when no
// thumbnail downloader is attached.
func NewReconciler(repo ports.CatalogRepository, thumbs ports.ThumbnailFetcher, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{repo: repo, thumbs: thumbs, logger: logger}
}

// Reconcile stages one feed batch and commits it atomically. New
// folders and assets go under parentFolderID (root when empty). It
// returns the number of newly committed assets: 0 on a rejected,
// empty, all-duplicate or failed batch.
func (rc *Reconciler) Reconcile(shops []Shop, parentFolderID string) (int, error) {
	if !rc.busy.CompareAndSwap(false, true) {
		rc.logger.Warn("import rejected: another import is running")
		return 0, application.ErrImportBusy
	}
	defer rc.busy.Store(false)

	originalLibrary := rc.repo.GetLibraryMetadata()
	if parentFolderID != "" {
		parent := originalLibrary.FindFolder(parentFolderID)
		if parent == nil {
			return 0, fmt.Errorf("parent %s: %w", parentFolderID, domain.ErrFolderNotFound)
		}
		if !parent.CanContainFolders() {
			return 0, fmt.Errorf("parent %s: %w", parentFolderID, domain.ErrNotAContainer)
		}
	}

	existing := rc.repo.GetAllAssets()
	library := originalLibrary.Clone()

	var staged []*domain.AssetRecord
	thumbCandidates := make(map[string]string)

	for _, shop := range shops {
		shopDomain := extractHost(shop.URL)
		for _, item := range shop.Items {
			itemID := extractItemID(item.URL)
			itemStaged := rc.stageItemFiles(shop, item, shopDomain, itemID, existing, staged)
			if len(itemStaged) == 0 {
				// No surviving files: no asset, no empty folder.
				continue
			}

			folder, err := resolveItemFolder(library, parentFolderID, shopDomain, shop.Name, item, itemID)
			if err != nil {
				return 0, err
			}
			for _, rec := range itemStaged {
				rec.SetFolder(folder.ID)
			}
			staged = append(staged, itemStaged...)

			// First-seen image wins per destination folder.
			if item.ImageURL != "" {
				if _, seen := thumbCandidates[folder.ID]; !seen {
					thumbCandidates[folder.ID] = item.ImageURL
				}
			}
		}
	}

	if len(staged) == 0 {
		rc.logger.Info("import produced no new assets")
		return 0, nil
	}

	// Commit: tree first, then the asset batch.
	if err := rc.repo.SaveLibraryMetadata(library); err != nil {
		rc.rollback(originalLibrary, staged)
		return 0, fmt.Errorf("failed to commit library tree: %w", err)
	}
	if err := rc.repo.SaveAssets(staged); err != nil {
		rc.rollback(originalLibrary, staged)
		return 0, fmt.Errorf("failed to commit imported assets: %w", err)
	}

	if rc.thumbs != nil && len(thumbCandidates) > 0 {
		rc.thumbs.Enqueue(thumbCandidates)
	}
	rc.logger.Info("import committed", "assets", len(staged), "folders", len(thumbCandidates))
	return len(staged), nil
}

// stageItemFiles synthesizes records for an item's files, skipping
// every file that duplicates an existing or already-staged record.
func (rc *Reconciler) stageItemFiles(shop Shop, item Item, shopDomain, itemID string, existing, staged []*domain.AssetRecord) []*domain.AssetRecord {
	var out []*domain.AssetRecord
	for _, file := range item.Files {
		downloadID := extractDownloadID(file.URL)
		dup := findDuplicate(out, downloadID, itemID, file.Filename)
		if dup == nil {
			dup = findDuplicate(staged, downloadID, itemID, file.Filename)
		}
		if dup == nil {
			dup = findDuplicate(existing, downloadID, itemID, file.Filename)
		}
		if dup != nil {
			rc.logger.Debug("skipping duplicate file", "file", file.URL, "asset", dup.ID)
			continue
		}

		name := firstNonEmpty(filenameStem(file.Filename), item.Name, item.URL, fallbackAssetName)
		rec := domain.NewAsset(name)
		rec.Description = item.Description
		rec.Extension = fileExtension(file.Filename)
		rec.Marketplace = &domain.MarketplaceItem{
			ShopDomain:     shopDomain,
			ItemID:         itemID,
			DownloadID:     downloadID,
			SourceFilename: file.Filename,
		}
		out = append(out, rec)
	}
	return out
}

// findDuplicate applies the two-tier duplicate key: a matching
// non-empty download ID, or a matching non-empty (item ID, source
// filename) pair. First match wins; there is no precedence between
// the keys beyond scan order.
func findDuplicate(records []*domain.AssetRecord, downloadID, itemID, filename string) *domain.AssetRecord {
	for _, rec := range records {
		m := rec.Marketplace
		if m == nil {
			continue
		}
		if downloadID != "" && m.DownloadID == downloadID {
			return rec
		}
		if itemID != "" && filename != "" && m.ItemID == itemID && m.SourceFilename == filename {
			return rec
		}
	}
	return nil
}

// resolveItemFolder finds the destination MarketplaceItemFolder for an
// item, patching its shop name and description when newly supplied
// values differ, or creates one under the requested parent.
func resolveItemFolder(library *domain.LibraryMetadata, parentFolderID, shopDomain, shopName string, item Item, itemID string) (*domain.FolderNode, error) {
	identifier := firstNonEmpty(itemID, item.Name, item.URL)

	var found *domain.FolderNode
	library.Walk(func(node, _ *domain.FolderNode) bool {
		if node.Kind != domain.KindMarketplaceItem {
			return true
		}
		if shopDomain != "" && node.ShopDomain != "" && node.ShopDomain != shopDomain {
			return true
		}
		if (node.ItemID != 0 && strconv.FormatInt(node.ItemID, 10) == identifier) || node.Name == identifier {
			found = node
			return false
		}
		return true
	})

	if found != nil {
		if shopName != "" && found.ShopName != shopName {
			found.SetShopName(shopName)
		}
		if item.Description != "" && found.Description != item.Description {
			found.SetDescription(item.Description)
		}
		return found, nil
	}

	name := firstNonEmpty(item.Name, item.URL, fallbackAssetName)
	var numericID int64
	if n, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		numericID = n
	}
	folder := domain.NewMarketplaceItemFolder(name, shopDomain, shopName, numericID)
	folder.Description = item.Description
	if err := library.InsertFolder(parentFolderID, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// rollback undoes a failed commit best-effort: every staged asset that
// was nonetheless written is deleted and the pre-import library is
// restored. Each step proceeds even if a previous one failed.
func (rc *Reconciler) rollback(original *domain.LibraryMetadata, staged []*domain.AssetRecord) {
	for _, rec := range staged {
		if err := rc.repo.DeleteAsset(rec.ID); err != nil {
			rc.logger.Warn("rollback: failed to delete staged asset", "id", rec.ID, "error", err)
		}
	}
	if err := rc.repo.SaveLibraryMetadata(original); err != nil {
		rc.logger.Warn("rollback: failed to restore library document", "error", err)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
