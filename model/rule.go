package model

import "fmt"

// Verdict is the outcome of evaluating an approval rule against the recorded
// approvals of a request.
type Verdict string

const (
	VerdictPending  Verdict = "pending"
	VerdictApproved Verdict = "approved"
	VerdictRejected Verdict = "rejected"
)

// RuleKind discriminates the rule tree union.
type RuleKind string

const (
	RuleAutoApproved          RuleKind = "autoApproved"
	RuleAllowListed           RuleKind = "allowListed"
	RuleAllowListedByMetadata RuleKind = "allowListedByMetadata"
	RuleQuorum                RuleKind = "quorum"
	RuleQuorumPercentage      RuleKind = "quorumPercentage"
	RuleAnyOf                 RuleKind = "anyOf"
	RuleAllOf                 RuleKind = "allOf"
	RuleNot                   RuleKind = "not"
)

// Rule is a composable approval requirement. Exactly the fields relevant to
// Kind are populated; the remaining fields stay zero. Rules are declared in
// policy documents (YAML/JSON) and snapshotted by value onto every request at
// creation time.
type Rule struct {
	Kind RuleKind `json:"kind" yaml:"kind"`

	// AllowListed
	Users []ID `json:"users,omitempty" yaml:"users,omitempty"`

	// AllowListedByMetadata
	MetadataKey   string `json:"metadataKey,omitempty" yaml:"metadataKey,omitempty"`
	MetadataValue string `json:"metadataValue,omitempty" yaml:"metadataValue,omitempty"`

	// Quorum and QuorumPercentage
	Approvers     []ID `json:"approvers,omitempty" yaml:"approvers,omitempty"`
	MinApproved   int  `json:"minApproved,omitempty" yaml:"minApproved,omitempty"`
	MinPercentage int  `json:"minPercentage,omitempty" yaml:"minPercentage,omitempty"`

	// AnyOf and AllOf
	Rules []*Rule `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Not
	Rule *Rule `json:"rule,omitempty" yaml:"rule,omitempty"`
}

// Clone deep-copies the rule tree so that later edits to live policy
// configuration never reach an in-flight request's snapshot.
func (r *Rule) Clone() *Rule {
	if r == nil {
		return nil
	}
	out := *r
	out.Users = cloneIDs(r.Users)
	out.Approvers = cloneIDs(r.Approvers)
	if r.Rules != nil {
		out.Rules = make([]*Rule, len(r.Rules))
		for i, child := range r.Rules {
			out.Rules[i] = child.Clone()
		}
	}
	out.Rule = r.Rule.Clone()
	return &out
}

// Validate rejects structurally malformed rule trees.
func (r *Rule) Validate() error {
	if r == nil {
		return NewValidationError("rule must not be nil")
	}
	switch r.Kind {
	case RuleAutoApproved, RuleAllowListed:
	case RuleAllowListedByMetadata:
		if r.MetadataKey == "" {
			return NewValidationError("allowListedByMetadata rule requires a metadata key")
		}
	case RuleQuorum:
		if r.MinApproved < 0 {
			return NewValidationError("quorum minApproved must not be negative")
		}
	case RuleQuorumPercentage:
		if r.MinPercentage <= 0 || r.MinPercentage > 100 {
			return NewValidationError("quorum percentage must be within (0, 100], got %d", r.MinPercentage)
		}
	case RuleAnyOf, RuleAllOf:
		if len(r.Rules) == 0 {
			return NewValidationError("%v rule requires at least one child", r.Kind)
		}
		for _, child := range r.Rules {
			if err := child.Validate(); err != nil {
				return err
			}
		}
	case RuleNot:
		if r.Rule == nil {
			return NewValidationError("not rule requires a child")
		}
		return r.Rule.Validate()
	default:
		return NewValidationError("unknown rule kind %q", r.Kind)
	}
	return nil
}

// ApproverSet returns the union of approver identifiers referenced anywhere
// in the tree. It bounds who may vote on a request governed by this rule.
func (r *Rule) ApproverSet() map[ID]struct{} {
	out := make(map[ID]struct{})
	r.collectApprovers(out)
	return out
}

func (r *Rule) collectApprovers(into map[ID]struct{}) {
	if r == nil {
		return
	}
	for _, id := range r.Approvers {
		into[id] = struct{}{}
	}
	for _, child := range r.Rules {
		child.collectApprovers(into)
	}
	r.Rule.collectApprovers(into)
}

func (r *Rule) String() string {
	if r == nil {
		return "<nil>"
	}
	return fmt.Sprintf("rule(%v)", r.Kind)
}
