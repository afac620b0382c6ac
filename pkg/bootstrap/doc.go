// Package bootstrap creates and seeds course repositories from a registry.
// For every entry it creates the missing repository, mirrors the discipline
// and workflow templates into a fresh working copy, pushes the result,
// fires the template dispatch events and waits for the Pages site to come
// up. Entries are processed independently: one failure never aborts the
// batch, and a repository that already exists is left completely untouched.
package bootstrap
