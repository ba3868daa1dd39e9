// Package google inserts extracted events directly into the user's primary
// Google Calendar, bypassing the backend's calendar endpoint.
//
// Requests authenticate with the session's delegated token, so the session
// must have been granted the calendar.events scope.
package google
