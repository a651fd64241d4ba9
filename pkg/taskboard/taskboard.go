// Package taskboard holds module-level metadata.
package taskboard

// Version is the current taskboard release.
const Version = "0.1.0"
