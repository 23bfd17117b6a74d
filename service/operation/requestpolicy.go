package operation

import (
	"context"
	"fmt"

	"github.com/viant/custodian/internal/clock"
	"github.com/viant/custodian/internal/idgen"
	"github.com/viant/custodian/model"
	"github.com/viant/custodian/repository"
	"github.com/viant/custodian/service/registry"
)

// AddRequestPolicy handles approval policy creation requests.
type AddRequestPolicy struct {
	approverNotifier
	policies *repository.RequestPolicies
}

// NewAddRequestPolicy creates the add-request-policy handler.
func NewAddRequestPolicy(policies *repository.RequestPolicies, notifier Notifier) *AddRequestPolicy {
	return &AddRequestPolicy{
		approverNotifier: approverNotifier{notifier: notifier},
		policies:         policies,
	}
}

func (h *AddRequestPolicy) Kind() model.OperationKind { return model.OperationAddRequestPolicy }

func (h *AddRequestPolicy) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.AddRequestPolicy
	if op.Input.Rule == nil {
		return model.NewValidationError("request policy rule must not be empty")
	}
	if err := op.Input.Rule.Validate(); err != nil {
		return err
	}
	policyID := idgen.New()
	op.PolicyID = &policyID
	return nil
}

func (h *AddRequestPolicy) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.AddRequestPolicy.Clone()
	if op.PolicyID == nil {
		policyID := idgen.New()
		op.PolicyID = &policyID
	}
	policy := &model.RequestPolicy{
		ID:             *op.PolicyID,
		Specifier:      op.Input.Specifier,
		Rule:           op.Input.Rule,
		LastModifiedAt: clock.Now(),
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	h.policies.Insert(policy.ID, policy)
	return registry.Completed(&model.Operation{AddRequestPolicy: op}), nil
}

// EditRequestPolicy handles approval policy mutation requests.
type EditRequestPolicy struct {
	approverNotifier
	policies *repository.RequestPolicies
}

// NewEditRequestPolicy creates the edit-request-policy handler.
func NewEditRequestPolicy(policies *repository.RequestPolicies, notifier Notifier) *EditRequestPolicy {
	return &EditRequestPolicy{
		approverNotifier: approverNotifier{notifier: notifier},
		policies:         policies,
	}
}

func (h *EditRequestPolicy) Kind() model.OperationKind { return model.OperationEditRequestPolicy }

func (h *EditRequestPolicy) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.EditRequestPolicy
	if _, ok := h.policies.Get(op.Input.PolicyID); !ok {
		return fmt.Errorf("request policy %v: %w", op.Input.PolicyID, model.ErrNotFound)
	}
	if op.Input.Rule != nil {
		if err := op.Input.Rule.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (h *EditRequestPolicy) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.EditRequestPolicy
	policy, ok := h.policies.Get(op.Input.PolicyID)
	if !ok {
		return nil, fmt.Errorf("request policy %v: %w", op.Input.PolicyID, model.ErrNotFound)
	}
	if op.Input.Specifier != nil {
		policy.Specifier = *op.Input.Specifier
	}
	if op.Input.Rule != nil {
		policy.Rule = op.Input.Rule.Clone()
	}
	policy.LastModifiedAt = clock.Now()
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	h.policies.Insert(policy.ID, policy)
	return registry.Completed(nil), nil
}

// RemoveRequestPolicy handles approval policy removal requests.
type RemoveRequestPolicy struct {
	approverNotifier
	policies *repository.RequestPolicies
}

// NewRemoveRequestPolicy creates the remove-request-policy handler.
func NewRemoveRequestPolicy(policies *repository.RequestPolicies, notifier Notifier) *RemoveRequestPolicy {
	return &RemoveRequestPolicy{
		approverNotifier: approverNotifier{notifier: notifier},
		policies:         policies,
	}
}

func (h *RemoveRequestPolicy) Kind() model.OperationKind { return model.OperationRemoveRequestPolicy }

func (h *RemoveRequestPolicy) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.RemoveRequestPolicy
	if _, ok := h.policies.Get(op.Input.PolicyID); !ok {
		return fmt.Errorf("request policy %v: %w", op.Input.PolicyID, model.ErrNotFound)
	}
	return nil
}

func (h *RemoveRequestPolicy) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.RemoveRequestPolicy
	if _, ok := h.policies.Remove(op.Input.PolicyID); !ok {
		return nil, fmt.Errorf("request policy %v: %w", op.Input.PolicyID, model.ErrNotFound)
	}
	return registry.Completed(nil), nil
}
