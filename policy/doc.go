// Package policy decides how task decisions are confirmed: by asking the
// operator, automatically with default texts, or not at all.
package policy
