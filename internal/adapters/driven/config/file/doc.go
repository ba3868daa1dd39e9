// Package file provides the TOML configuration store.
//
// Keys are exposed flattened in dot notation ("backend.url") and written
// back as nested TOML tables. Watch reloads the file when it changes on
// disk so long-running commands pick up edits without a restart.
package file
