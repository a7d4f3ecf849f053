// Package chrome implements the browser ports with chromedp.
//
// A Launcher starts one headless Chrome process per session. Sessions are
// used by a single goroutine and throttle navigations through a token
// bucket so a large batch does not hammer the redirect target.
package chrome
