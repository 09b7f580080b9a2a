// Package session keeps one analyzer per dashboard visitor.
//
// A Store maps opaque session ids to Sessions. Each Session owns an
// Analyzer, the latest result of every dashboard action and pending flash
// messages. Sessions expire after a period of inactivity; Run drives a cron
// janitor that purges them.
package session
