// Package main implements boardctl, the media board admin CLI.
//
// It opens the same database and warehouse as the server, configured from
// the same environment (DATA_DIR, DATABASE_DIR, CONFIG_FILE, THUMB_*), and
// runs the same extension bus:
//
//	boardctl ingest ./scans --tags "scan archive"   bulk import a directory
//	boardctl regen-thumbs --force                     rebuild every thumbnail
//	boardctl show 42                                  print one image
//	boardctl engines                                  list thumbnail engines and tools
//
// NATS notification is disabled unless NATS_URL is set.
package main
