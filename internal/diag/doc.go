// Package diag defines the diagnostic model: codes, severities, fixes,
// and the Bag container with its ordering and suppression rules.
package diag
