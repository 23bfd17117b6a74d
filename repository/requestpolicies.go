package repository

import (
	"strings"

	"github.com/viant/custodian/model"
)

// RequestPolicies stores approval policies indexed by operation specifier.
type RequestPolicies struct {
	*Memory[model.ID, *model.RequestPolicy]
	specifier *Index[string, model.ID]
}

// NewRequestPolicies creates the request policy repository.
func NewRequestPolicies() *RequestPolicies {
	specifier := NewIndex[string, model.ID](strings.Compare, model.CompareID)
	return &RequestPolicies{
		Memory:    NewMemory[model.ID, *model.RequestPolicy](ByEntries(specifier, requestPolicySpecifierEntries)),
		specifier: specifier,
	}
}

func requestPolicySpecifierEntries(policy *model.RequestPolicy) []Entry[string, model.ID] {
	if policy == nil {
		return nil
	}
	return []Entry[string, model.ID]{{Group: string(policy.Specifier), Key: policy.ID}}
}

// FindByKind returns the policies whose specifier matches kind, including
// wildcard policies.
func (p *RequestPolicies) FindByKind(kind model.OperationKind) []*model.RequestPolicy {
	keys := p.specifier.FindByGroup(string(kind))
	keys = append(keys, p.specifier.FindByGroup(string(model.RequestSpecifierAny))...)
	var out []*model.RequestPolicy
	for _, key := range keys {
		if policy, ok := p.Get(key); ok {
			out = append(out, policy)
		}
	}
	return out
}
