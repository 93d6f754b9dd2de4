// Package storage implements the content-addressed warehouse and the Store
// collaborator handed to extensions.
//
// Files live under <root>/images/<hash[:2]>/<hash> and their thumbnails under
// <root>/thumbs/<hash[:2]>/<hash>. Archive writes are serialized across
// processes with a lock file in the warehouse root.
package storage
