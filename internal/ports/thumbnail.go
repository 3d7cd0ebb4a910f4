package ports

// ThumbnailFetcher is the out-of-process collaborator that downloads
// folder thumbnails. The reconciler hands it folder-to-image-URL
// candidates after a successful commit; fetching, decoding and
// resizing happen entirely outside the core.
type ThumbnailFetcher interface {
	// Enqueue schedules downloads for a folder-ID-to-image-URL map.
	// It must not block.
	Enqueue(candidates map[string]string)
}
