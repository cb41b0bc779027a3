// Package model defines the types exchanged with the workflow engine
// (tasks, process status, start requests) and the console's own identity,
// message and error types.
package model
