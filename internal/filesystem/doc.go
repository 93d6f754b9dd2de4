/*
Package filesystem wraps the file operations the warehouse depends on.

Stat and Open retry ESTALE (stale NFS handle) errors with exponential backoff;
every other error is returned at once. Retry counts and durations are exported
per operation and volume, where the volume label comes from a VolumeResolver
installed at startup:

	filesystem.SetDefaultVolumeResolver(filesystem.NewVolumeResolver(map[string]string{
	    "images": cfg.ImagesDir(),
	    "thumbs": cfg.ThumbsDir(),
	}))

HashFile and CopyFile build on the same retrying open. CopyFile writes through
a temporary sibling and renames, so a reader never sees a half-written file.
*/
package filesystem
