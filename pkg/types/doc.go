// Package types defines the entity structs, store interfaces, collaborator
// interfaces, and standard errors for the taskboard tracking core.
package types
