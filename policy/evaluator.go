package policy

import (
	"github.com/viant/custodian/model"
)

// Resolver supplies facts the rule tree cannot carry by value, currently the
// metadata attached to a principal's identity. A nil Resolver fails metadata
// rules closed.
type Resolver interface {
	HasMetadata(userID model.ID, key, value string) bool
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(userID model.ID, key, value string) bool

func (f ResolverFunc) HasMetadata(userID model.ID, key, value string) bool {
	return f(userID, key, value)
}

// Evaluation is the per-node audit record produced alongside the verdict.
// The tree mirrors the rule tree shape; counts are populated for quorum
// nodes.
type Evaluation struct {
	Kind          model.RuleKind `json:"kind" yaml:"kind"`
	Status        model.Verdict  `json:"status" yaml:"status"`
	EligibleCount int            `json:"eligibleCount,omitempty" yaml:"eligibleCount,omitempty"`
	ApprovedCount int            `json:"approvedCount,omitempty" yaml:"approvedCount,omitempty"`
	RejectedCount int            `json:"rejectedCount,omitempty" yaml:"rejectedCount,omitempty"`
	Children      []*Evaluation  `json:"children,omitempty" yaml:"children,omitempty"`
}

// Evaluate computes the verdict of a rule tree against the request's
// recorded approvals. It is deterministic, idempotent and side-effect free;
// the returned Evaluation covers every node even when the verdict could be
// decided early.
func Evaluate(rule *model.Rule, request *model.Request, resolver Resolver) (model.Verdict, *Evaluation) {
	result := evaluateNode(rule, request, resolver)
	return result.Status, result
}

func evaluateNode(rule *model.Rule, request *model.Request, resolver Resolver) *Evaluation {
	result := &Evaluation{Kind: rule.Kind, Status: model.VerdictPending}
	switch rule.Kind {
	case model.RuleAutoApproved:
		result.Status = model.VerdictApproved

	case model.RuleAllowListed:
		result.Status = model.VerdictRejected
		for _, userID := range rule.Users {
			if userID == request.ProposedBy {
				result.Status = model.VerdictApproved
				break
			}
		}

	case model.RuleAllowListedByMetadata:
		result.Status = model.VerdictRejected
		if resolver != nil && resolver.HasMetadata(request.ProposedBy, rule.MetadataKey, rule.MetadataValue) {
			result.Status = model.VerdictApproved
		}

	case model.RuleQuorum:
		evaluateQuorum(result, rule.Approvers, rule.MinApproved, request)

	case model.RuleQuorumPercentage:
		evaluateQuorum(result, rule.Approvers, percentageToCount(rule.MinPercentage, len(dedupe(rule.Approvers))), request)

	case model.RuleAnyOf:
		approved, rejected := 0, 0
		for _, child := range rule.Rules {
			childResult := evaluateNode(child, request, resolver)
			result.Children = append(result.Children, childResult)
			switch childResult.Status {
			case model.VerdictApproved:
				approved++
			case model.VerdictRejected:
				rejected++
			}
		}
		switch {
		case approved > 0:
			result.Status = model.VerdictApproved
		case rejected == len(rule.Rules):
			result.Status = model.VerdictRejected
		}

	case model.RuleAllOf:
		approved, rejected := 0, 0
		for _, child := range rule.Rules {
			childResult := evaluateNode(child, request, resolver)
			result.Children = append(result.Children, childResult)
			switch childResult.Status {
			case model.VerdictApproved:
				approved++
			case model.VerdictRejected:
				rejected++
			}
		}
		switch {
		case rejected > 0:
			result.Status = model.VerdictRejected
		case approved == len(rule.Rules):
			result.Status = model.VerdictApproved
		}

	case model.RuleNot:
		childResult := evaluateNode(rule.Rule, request, resolver)
		result.Children = append(result.Children, childResult)
		switch childResult.Status {
		case model.VerdictApproved:
			result.Status = model.VerdictRejected
		case model.VerdictRejected:
			result.Status = model.VerdictApproved
		}
	}
	return result
}

// evaluateQuorum decides a fixed-set quorum. An empty approver set is
// rejected, never vacuously approved, so no operation can slip through
// ungoverned.
func evaluateQuorum(result *Evaluation, approvers []model.ID, minApproved int, request *model.Request) {
	members := dedupe(approvers)
	result.EligibleCount = len(members)
	for _, approval := range request.Approvals {
		if _, ok := members[approval.ApproverID]; !ok {
			continue
		}
		switch approval.Decision {
		case model.DecisionApproved:
			result.ApprovedCount++
		case model.DecisionRejected:
			result.RejectedCount++
		}
	}
	voted := result.ApprovedCount + result.RejectedCount
	remaining := result.EligibleCount - voted
	switch {
	case result.EligibleCount == 0:
		result.Status = model.VerdictRejected
	case result.ApprovedCount >= minApproved:
		result.Status = model.VerdictApproved
	case result.ApprovedCount+remaining < minApproved:
		result.Status = model.VerdictRejected
	}
}

// percentageToCount converts a percentage threshold into the minimum number
// of approvals, rounding up.
func percentageToCount(percentage, total int) int {
	if total == 0 {
		return 0
	}
	return (percentage*total + 99) / 100
}

func dedupe(ids []model.ID) map[model.ID]struct{} {
	out := make(map[model.ID]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
