package model

import "time"

// RequestSpecifierAny matches every operation kind.
const RequestSpecifierAny = "any"

// RequestSpecifier selects which operation kinds a request policy governs:
// a concrete OperationKind value or RequestSpecifierAny.
type RequestSpecifier string

// Matches reports whether the specifier covers the given kind.
func (s RequestSpecifier) Matches(kind OperationKind) bool {
	return s == RequestSpecifierAny || OperationKind(s) == kind
}

// RequestPolicy binds an approval rule to the operation kinds it governs.
// Policies are consulted only at request creation; the selected rule is
// snapshotted onto the request and later policy edits never apply
// retroactively.
type RequestPolicy struct {
	ID             ID               `json:"id" yaml:"id"`
	Specifier      RequestSpecifier `json:"specifier" yaml:"specifier"`
	Rule           *Rule            `json:"rule" yaml:"rule"`
	LastModifiedAt time.Time        `json:"lastModifiedAt" yaml:"lastModifiedAt"`
}

// Validate enforces structural bounds.
func (p *RequestPolicy) Validate() error {
	if p.Specifier == "" {
		return NewValidationError("request policy specifier must not be empty")
	}
	if p.Specifier != RequestSpecifierAny {
		known := false
		for _, kind := range OperationKinds() {
			if OperationKind(p.Specifier) == kind {
				known = true
				break
			}
		}
		if !known {
			return NewValidationError("unknown request policy specifier %q", p.Specifier)
		}
	}
	if p.Rule == nil {
		return NewValidationError("request policy requires a rule")
	}
	return p.Rule.Validate()
}

// Clone returns an owned deep copy.
func (p *RequestPolicy) Clone() *RequestPolicy {
	out := *p
	out.Rule = p.Rule.Clone()
	return &out
}

type AddRequestPolicyInput struct {
	Specifier RequestSpecifier `json:"specifier" yaml:"specifier"`
	Rule      *Rule            `json:"rule" yaml:"rule"`
}

// AddRequestPolicyOperation carries the payload and, after execution, the
// created policy's id.
type AddRequestPolicyOperation struct {
	Input    AddRequestPolicyInput `json:"input" yaml:"input"`
	PolicyID *ID                   `json:"policyId,omitempty" yaml:"policyId,omitempty"`
}

func (o *AddRequestPolicyOperation) Clone() *AddRequestPolicyOperation {
	out := *o
	out.Input.Rule = o.Input.Rule.Clone()
	if o.PolicyID != nil {
		id := *o.PolicyID
		out.PolicyID = &id
	}
	return &out
}

type EditRequestPolicyInput struct {
	PolicyID  ID                `json:"policyId" yaml:"policyId"`
	Specifier *RequestSpecifier `json:"specifier,omitempty" yaml:"specifier,omitempty"`
	Rule      *Rule             `json:"rule,omitempty" yaml:"rule,omitempty"`
}

type EditRequestPolicyOperation struct {
	Input EditRequestPolicyInput `json:"input" yaml:"input"`
}

func (o *EditRequestPolicyOperation) Clone() *EditRequestPolicyOperation {
	out := *o
	if o.Input.Specifier != nil {
		specifier := *o.Input.Specifier
		out.Input.Specifier = &specifier
	}
	out.Input.Rule = o.Input.Rule.Clone()
	return &out
}

type RemoveRequestPolicyInput struct {
	PolicyID ID `json:"policyId" yaml:"policyId"`
}

type RemoveRequestPolicyOperation struct {
	Input RemoveRequestPolicyInput `json:"input" yaml:"input"`
}
