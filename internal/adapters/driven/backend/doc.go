// Package backend is the HTTP client for the proemail extraction backend.
//
// The backend verifies Google ID tokens, lists the user's unread Gmail
// messages, extracts calendar events from a message and optionally inserts
// those events into the user's calendar. Every authenticated request carries
// the delegated access token obtained from a driven.TokenProvider.
package backend
