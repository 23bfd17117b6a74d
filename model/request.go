package model

import (
	"fmt"
	"time"
)

// RequestStatus tracks a request through its lifecycle:
// Created -> Approved|Rejected, Approved -> Scheduled|Processing ->
// Completed|Failed. Any pre-terminal status may move to Cancelled.
type RequestStatus string

const (
	RequestStatusCreated    RequestStatus = "created"
	RequestStatusApproved   RequestStatus = "approved"
	RequestStatusRejected   RequestStatus = "rejected"
	RequestStatusScheduled  RequestStatus = "scheduled"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusCompleted  RequestStatus = "completed"
	RequestStatusFailed     RequestStatus = "failed"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// IsTerminal reports whether the status admits no further transitions.
func (s RequestStatus) IsTerminal() bool {
	switch s {
	case RequestStatusCompleted, RequestStatusFailed, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// Decision is an approver's recorded choice.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// Approval is a single approver's vote. Approvals are append-only: once an
// approver has voted, the entry is never mutated or removed.
type Approval struct {
	ApproverID ID        `json:"approverId" yaml:"approverId"`
	Decision   Decision  `json:"decision" yaml:"decision"`
	DecidedAt  time.Time `json:"decidedAt" yaml:"decidedAt"`
	Reason     string    `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// ExecutionPlan determines when an approved request executes. A nil
// ScheduledAt means immediately upon approval.
type ExecutionPlan struct {
	ScheduledAt *time.Time `json:"scheduledAt,omitempty" yaml:"scheduledAt,omitempty"`
}

// IsScheduled reports whether execution is deferred to a point in time.
func (p ExecutionPlan) IsScheduled() bool { return p.ScheduledAt != nil }

// Due reports whether a scheduled plan has reached its execution time.
func (p ExecutionPlan) Due(now time.Time) bool {
	return p.ScheduledAt != nil && !now.Before(*p.ScheduledAt)
}

func (p ExecutionPlan) clone() ExecutionPlan {
	if p.ScheduledAt == nil {
		return ExecutionPlan{}
	}
	at := *p.ScheduledAt
	return ExecutionPlan{ScheduledAt: &at}
}

// Request is the unit of governed change: a typed operation awaiting (or
// having completed) multi-party approval. Operation variant and Policy are
// immutable after creation; Approvals only grow.
type Request struct {
	ID             ID            `json:"id" yaml:"id"`
	Title          string        `json:"title,omitempty" yaml:"title,omitempty"`
	Summary        string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Operation      Operation     `json:"operation" yaml:"operation"`
	ProposedBy     ID            `json:"proposedBy" yaml:"proposedBy"`
	Policy         *Rule         `json:"policy" yaml:"policy"`
	Approvals      []Approval    `json:"approvals,omitempty" yaml:"approvals,omitempty"`
	Status         RequestStatus `json:"status" yaml:"status"`
	StatusReason   string        `json:"statusReason,omitempty" yaml:"statusReason,omitempty"`
	ExecutionPlan  ExecutionPlan `json:"executionPlan" yaml:"executionPlan"`
	ExpiresAt      *time.Time    `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
	CreatedAt      time.Time     `json:"createdAt" yaml:"createdAt"`
	LastModifiedAt time.Time     `json:"lastModifiedAt" yaml:"lastModifiedAt"`
}

// ApprovalBy returns the vote recorded for the given approver, or nil.
func (r *Request) ApprovalBy(approverID ID) *Approval {
	for i := range r.Approvals {
		if r.Approvals[i].ApproverID == approverID {
			return &r.Approvals[i]
		}
	}
	return nil
}

// AddApproval appends a vote. Re-submission by the same approver is a
// conflict.
func (r *Request) AddApproval(approval Approval) error {
	if existing := r.ApprovalBy(approval.ApproverID); existing != nil {
		return fmt.Errorf("approver %v already voted: %w", approval.ApproverID, ErrConflict)
	}
	r.Approvals = append(r.Approvals, approval)
	return nil
}

// IsExpired reports whether the request's expiration timestamp has passed.
func (r *Request) IsExpired(now time.Time) bool {
	return r.ExpiresAt != nil && now.After(*r.ExpiresAt)
}

// Clone returns an owned deep copy.
func (r *Request) Clone() *Request {
	out := *r
	out.Operation = r.Operation.Clone()
	out.Policy = r.Policy.Clone()
	if r.Approvals != nil {
		out.Approvals = append([]Approval(nil), r.Approvals...)
	}
	out.ExecutionPlan = r.ExecutionPlan.clone()
	if r.ExpiresAt != nil {
		at := *r.ExpiresAt
		out.ExpiresAt = &at
	}
	return &out
}

// RequestInput is the generic part of a submission; the operation carries the
// kind-specific payload.
type RequestInput struct {
	Title         string        `json:"title,omitempty" yaml:"title,omitempty"`
	Summary       string        `json:"summary,omitempty" yaml:"summary,omitempty"`
	Operation     Operation     `json:"operation" yaml:"operation"`
	ExecutionPlan ExecutionPlan `json:"executionPlan" yaml:"executionPlan"`
	ExpiresAt     *time.Time    `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}
