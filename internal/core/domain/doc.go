// Package domain defines the core business entities for proemail.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Session: The signed-in user's identity and delegated tokens
//   - Event: A calendar-like event extracted from mail or added by the user
//   - Tombstone: A deletion marker that suppresses an event key
//   - ClassifiedEvent: An event with its completed/missed/upcoming status
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
