package repository

import (
	"strings"

	"github.com/viant/custodian/model"
)

// AccessPolicies stores access policies indexed by guarded resource.
type AccessPolicies struct {
	*Memory[model.ID, *model.AccessPolicy]
	resource *Index[string, model.ID]
}

// NewAccessPolicies creates the access policy repository.
func NewAccessPolicies() *AccessPolicies {
	resource := NewIndex[string, model.ID](strings.Compare, model.CompareID)
	return &AccessPolicies{
		Memory:   NewMemory[model.ID, *model.AccessPolicy](ByEntries(resource, accessPolicyResourceEntries)),
		resource: resource,
	}
}

func accessPolicyResourceEntries(policy *model.AccessPolicy) []Entry[string, model.ID] {
	if policy == nil {
		return nil
	}
	return []Entry[string, model.ID]{{Group: policy.Resource, Key: policy.ID}}
}

// FindByResource returns the policies guarding resource.
func (p *AccessPolicies) FindByResource(resource string) []*model.AccessPolicy {
	var out []*model.AccessPolicy
	for _, key := range p.resource.FindByGroup(resource) {
		if policy, ok := p.Get(key); ok {
			out = append(out, policy)
		}
	}
	return out
}
