// Package web serves a small console for posting, viewing and deleting flash
// messages across the configured channels.
package web
