// Package progress keeps aggregated counters of what a console session did:
// processes started and decisions taken or failed.
package progress
