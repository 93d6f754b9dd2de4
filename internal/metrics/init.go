package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics(engines []string) {
	for _, outcome := range []string{"added", "replaced", "rejected", "failed", "unclaimed"} {
		UploadsTotal.WithLabelValues("none", outcome)
	}

	for _, engine := range engines {
		ThumbnailGenerationsTotal.WithLabelValues(engine, "success")
		ThumbnailGenerationsTotal.WithLabelValues(engine, "error")
		ThumbnailGenerationDuration.WithLabelValues(engine)
	}

	for _, reason := range []string{"too_large", "static_pdf"} {
		ThumbnailPlaceholdersTotal.WithLabelValues(reason)
	}

	for _, op := range []string{"stat", "open"} {
		for _, vol := range []string{"images", "thumbs", "unknown"} {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}

	for _, op := range []string{"initialize_schema", "add_image", "replace_image", "find_image_by_id",
		"find_image_by_hash", "list_images", "set_rating", "set_locked", "set_tags", "count_images"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, event := range []string{"image_addition", "image_replace", "rating_set", "lock_set"} {
		NotificationsTotal.WithLabelValues(event, "success")
		NotificationsTotal.WithLabelValues(event, "error")
	}

	for _, outcome := range []string{"added", "skipped", "rejected", "failed"} {
		ImportFilesTotal.WithLabelValues(outcome)
	}

	DBImageCacheLookups.WithLabelValues("hit")
	DBImageCacheLookups.WithLabelValues("miss")
}
