package model

import "time"

// AccessPolicy grants users or groups access to a named resource (e.g. an
// account or an API surface). Enforcement sits in the out-of-scope boundary
// adapters; the engine governs the policy records themselves.
type AccessPolicy struct {
	ID             ID        `json:"id" yaml:"id"`
	Users          []ID      `json:"users,omitempty" yaml:"users,omitempty"`
	Groups         []ID      `json:"groups,omitempty" yaml:"groups,omitempty"`
	Resource       string    `json:"resource" yaml:"resource"`
	LastModifiedAt time.Time `json:"lastModifiedAt" yaml:"lastModifiedAt"`
}

// Validate enforces structural bounds.
func (p *AccessPolicy) Validate() error {
	if p.Resource == "" {
		return NewValidationError("access policy resource must not be empty")
	}
	if len(p.Users) == 0 && len(p.Groups) == 0 {
		return NewValidationError("access policy requires at least one user or group")
	}
	return nil
}

// Clone returns an owned deep copy.
func (p *AccessPolicy) Clone() *AccessPolicy {
	out := *p
	out.Users = cloneIDs(p.Users)
	out.Groups = cloneIDs(p.Groups)
	return &out
}

type AddAccessPolicyInput struct {
	Users    []ID   `json:"users,omitempty" yaml:"users,omitempty"`
	Groups   []ID   `json:"groups,omitempty" yaml:"groups,omitempty"`
	Resource string `json:"resource" yaml:"resource"`
}

// AddAccessPolicyOperation carries the payload and, after execution, the
// created policy's id.
type AddAccessPolicyOperation struct {
	Input    AddAccessPolicyInput `json:"input" yaml:"input"`
	PolicyID *ID                  `json:"policyId,omitempty" yaml:"policyId,omitempty"`
}

func (o *AddAccessPolicyOperation) Clone() *AddAccessPolicyOperation {
	out := *o
	out.Input.Users = cloneIDs(o.Input.Users)
	out.Input.Groups = cloneIDs(o.Input.Groups)
	if o.PolicyID != nil {
		id := *o.PolicyID
		out.PolicyID = &id
	}
	return &out
}

type EditAccessPolicyInput struct {
	PolicyID ID     `json:"policyId" yaml:"policyId"`
	Users    []ID   `json:"users,omitempty" yaml:"users,omitempty"`
	Groups   []ID   `json:"groups,omitempty" yaml:"groups,omitempty"`
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty"`
}

type EditAccessPolicyOperation struct {
	Input EditAccessPolicyInput `json:"input" yaml:"input"`
}

func (o *EditAccessPolicyOperation) Clone() *EditAccessPolicyOperation {
	out := *o
	out.Input.Users = cloneIDs(o.Input.Users)
	out.Input.Groups = cloneIDs(o.Input.Groups)
	return &out
}

type RemoveAccessPolicyInput struct {
	PolicyID ID `json:"policyId" yaml:"policyId"`
}

type RemoveAccessPolicyOperation struct {
	Input RemoveAccessPolicyInput `json:"input" yaml:"input"`
}
