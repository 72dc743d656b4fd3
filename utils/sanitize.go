package utils

import "github.com/microcosm-cc/bluemonday"

// userContentPolicy is applied to every client-supplied post title, body,
// category and comment before it is persisted. The UGC rule set keeps basic
// formatting tags and strips scripts and event handlers.
var userContentPolicy = bluemonday.UGCPolicy()

// Sanitize strips unsafe HTML from user-authored text on the way into the
// store.
func Sanitize(input string) string {
	return userContentPolicy.Sanitize(input)
}
