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

// AddAccessPolicy handles access policy creation requests.
type AddAccessPolicy struct {
	approverNotifier
	policies *repository.AccessPolicies
	users    *repository.Users
	groups   *repository.UserGroups
}

// NewAddAccessPolicy creates the add-access-policy handler.
func NewAddAccessPolicy(policies *repository.AccessPolicies, users *repository.Users, groups *repository.UserGroups, notifier Notifier) *AddAccessPolicy {
	return &AddAccessPolicy{
		approverNotifier: approverNotifier{notifier: notifier},
		policies:         policies,
		users:            users,
		groups:           groups,
	}
}

func (h *AddAccessPolicy) Kind() model.OperationKind { return model.OperationAddAccessPolicy }

func (h *AddAccessPolicy) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.AddAccessPolicy
	if err := h.validateSubjects(op.Input.Users, op.Input.Groups); err != nil {
		return err
	}
	if op.Input.Resource == "" {
		return model.NewValidationError("access policy resource must not be empty")
	}
	policyID := idgen.New()
	op.PolicyID = &policyID
	return nil
}

func (h *AddAccessPolicy) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.AddAccessPolicy.Clone()
	if op.PolicyID == nil {
		policyID := idgen.New()
		op.PolicyID = &policyID
	}
	policy := &model.AccessPolicy{
		ID:             *op.PolicyID,
		Users:          op.Input.Users,
		Groups:         op.Input.Groups,
		Resource:       op.Input.Resource,
		LastModifiedAt: clock.Now(),
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	h.policies.Insert(policy.ID, policy)
	return registry.Completed(&model.Operation{AddAccessPolicy: op}), nil
}

func (h *AddAccessPolicy) validateSubjects(users, groups []model.ID) error {
	if len(users) == 0 && len(groups) == 0 {
		return model.NewValidationError("access policy must name at least one user or group")
	}
	for _, userID := range users {
		if _, ok := h.users.Get(userID); !ok {
			return fmt.Errorf("user %v: %w", userID, model.ErrNotFound)
		}
	}
	for _, groupID := range groups {
		if _, ok := h.groups.Get(groupID); !ok {
			return fmt.Errorf("user group %v: %w", groupID, model.ErrNotFound)
		}
	}
	return nil
}

// EditAccessPolicy handles access policy mutation requests.
type EditAccessPolicy struct {
	approverNotifier
	policies *repository.AccessPolicies
	users    *repository.Users
	groups   *repository.UserGroups
}

// NewEditAccessPolicy creates the edit-access-policy handler.
func NewEditAccessPolicy(policies *repository.AccessPolicies, users *repository.Users, groups *repository.UserGroups, notifier Notifier) *EditAccessPolicy {
	return &EditAccessPolicy{
		approverNotifier: approverNotifier{notifier: notifier},
		policies:         policies,
		users:            users,
		groups:           groups,
	}
}

func (h *EditAccessPolicy) Kind() model.OperationKind { return model.OperationEditAccessPolicy }

func (h *EditAccessPolicy) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.EditAccessPolicy
	if _, ok := h.policies.Get(op.Input.PolicyID); !ok {
		return fmt.Errorf("access policy %v: %w", op.Input.PolicyID, model.ErrNotFound)
	}
	for _, userID := range op.Input.Users {
		if _, ok := h.users.Get(userID); !ok {
			return fmt.Errorf("user %v: %w", userID, model.ErrNotFound)
		}
	}
	for _, groupID := range op.Input.Groups {
		if _, ok := h.groups.Get(groupID); !ok {
			return fmt.Errorf("user group %v: %w", groupID, model.ErrNotFound)
		}
	}
	return nil
}

func (h *EditAccessPolicy) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.EditAccessPolicy
	policy, ok := h.policies.Get(op.Input.PolicyID)
	if !ok {
		return nil, fmt.Errorf("access policy %v: %w", op.Input.PolicyID, model.ErrNotFound)
	}
	if len(op.Input.Users) > 0 || len(op.Input.Groups) > 0 {
		policy.Users = op.Input.Users
		policy.Groups = op.Input.Groups
	}
	if op.Input.Resource != "" {
		policy.Resource = op.Input.Resource
	}
	policy.LastModifiedAt = clock.Now()
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	h.policies.Insert(policy.ID, policy)
	return registry.Completed(nil), nil
}

// RemoveAccessPolicy handles access policy removal requests.
type RemoveAccessPolicy struct {
	approverNotifier
	policies *repository.AccessPolicies
}

// NewRemoveAccessPolicy creates the remove-access-policy handler.
func NewRemoveAccessPolicy(policies *repository.AccessPolicies, notifier Notifier) *RemoveAccessPolicy {
	return &RemoveAccessPolicy{
		approverNotifier: approverNotifier{notifier: notifier},
		policies:         policies,
	}
}

func (h *RemoveAccessPolicy) Kind() model.OperationKind { return model.OperationRemoveAccessPolicy }

func (h *RemoveAccessPolicy) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.RemoveAccessPolicy
	if _, ok := h.policies.Get(op.Input.PolicyID); !ok {
		return fmt.Errorf("access policy %v: %w", op.Input.PolicyID, model.ErrNotFound)
	}
	return nil
}

func (h *RemoveAccessPolicy) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.RemoveAccessPolicy
	if _, ok := h.policies.Remove(op.Input.PolicyID); !ok {
		return nil, fmt.Errorf("access policy %v: %w", op.Input.PolicyID, model.ErrNotFound)
	}
	return registry.Completed(nil), nil
}
