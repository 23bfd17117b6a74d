// Package policy implements the approval rule evaluator. Evaluation is a
// pure function over a rule tree and the approvals recorded on a request; it
// produces an overall verdict together with a per-node result tree suitable
// for audit and display. The evaluator never mutates its inputs and is safe
// to re-run after every recorded vote.
package policy
