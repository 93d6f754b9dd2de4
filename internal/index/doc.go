// Package index is the extension that persists images in the sqlite
// database.
//
// It listens for the events the ingestion pipeline publishes once a file
// has been archived and turns them into database writes:
//
//	ImageAddition -> Database.AddImage, assigns Image.ID
//	ImageReplace  -> Database.ReplaceImage
//	RatingSet     -> Database.SetRating
//	LockSet       -> Database.SetLocked
//
// The extension runs at priority 30 so the image has an id before
// notification extensions see the event. It declares support for the
// sqlite3 driver only and stays silent when another store is active.
//
// A hash that is already stored is refused with the "duplicate of existing"
// upload error; other database failures are fatal to the publish.
package index
