/*
Package ingest is the shared machinery behind media type handlers.

A handler supplies a MediaType (extension set, content sniffing, entity
decoding, thumbnailing) and embeds *Handler, which turns those capabilities
into bus behavior:

  - DataUpload runs the ingestion pipeline: validate, resolve a replace
    target, archive, thumbnail, then publish ImageAddition or ImageReplace
    and the rating/lock follow-ups.
  - ThumbnailGeneration rebuilds a thumbnail, skipping existing ones unless
    forced. Engine failures are recorded on the event and never abort.
  - DisplayingImage asks the bound theme to put a block on the page.

Archiving is irreversible: a failure after the archive step leaves the file in
the warehouse and is logged.
*/
package ingest
