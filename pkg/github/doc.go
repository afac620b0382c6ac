// Package github provides the GitHub REST API surface studyforge needs to
// bootstrap course repositories: existence checks, repository creation,
// Pages configuration and repository_dispatch events.
//
// The package includes:
// - API interface consumed by the bootstrap orchestrator
// - Client implementation backed by go-github with retry handling
// - Structured error types for API failures
// - Token resolution from the environment or the config file
package github
