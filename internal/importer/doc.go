// Package importer adds every file under a directory to the board.
//
// Files are hashed in parallel; hashes the index already knows are skipped
// before any upload work. The remaining files are published one at a time as
// DataUpload events, tagged with the configured tags plus, optionally, the
// names of the directories they sit in:
//
//	photos/cats/tabby.jpg  ->  tags "cats photos"
package importer
