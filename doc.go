// Package custodian provides a multi-party approval engine for the
// administrative and transactional operations of a digital asset custody
// platform.
//
// Every change, from moving funds to adding an approver, travels as a
// Request carrying a typed Operation. Requests are evaluated against
// declarative approval policies (quorums, allow lists, boolean
// combinators) and only execute once the policy verdict is Approved.
// The engine comes with pluggable layers such as:
//
//   - request    – request lifecycle, voting and policy snapshots
//   - registry   – operation handler dispatch and payload decoding
//   - operation  – built-in handlers for transfers, directory and policy edits
//   - repository – indexed in-memory stores for all entities
//   - messaging  – event and notification queues (memory or file system)
//
// Custodian is designed to be embedded in host applications. End-users
// typically interact with the engine via the high-level Service façade
// exposed by the root package:
//
//	srv, _ := custodian.New()
//	srv.Start(ctx)
//	request, _ := srv.Requests().Submit(ctx, "alice@acme.com", input)
//	_, _ = srv.Requests().Vote(ctx, request.ID, "bob@acme.com", model.DecisionApproved, "")
//
// For more details see the README and individual sub-packages.
package custodian
