// Package notify publishes image events to NATS.
//
// The Notifier extension runs late (priority 90) so it sees images after the
// index has assigned ids. Each stored image event becomes one JSON message:
//
//	<prefix>.image.added     ImageAddition
//	<prefix>.image.replaced  ImageReplace
//	<prefix>.image.rated     RatingSet
//	<prefix>.image.locked    LockSet
//
// Delivery is best effort. A failed publish is logged and counted in
// media_board_notifications_total but never aborts the upload that caused it.
//
// Client is a thin wrapper over a nats.Conn; tests substitute any Publisher.
package notify
