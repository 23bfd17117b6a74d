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

// AddUserGroup handles group creation requests.
type AddUserGroup struct {
	approverNotifier
	groups *repository.UserGroups
}

// NewAddUserGroup creates the add-user-group handler.
func NewAddUserGroup(groups *repository.UserGroups, notifier Notifier) *AddUserGroup {
	return &AddUserGroup{
		approverNotifier: approverNotifier{notifier: notifier},
		groups:           groups,
	}
}

func (h *AddUserGroup) Kind() model.OperationKind { return model.OperationAddUserGroup }

func (h *AddUserGroup) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.AddUserGroup
	if op.Input.Name == "" {
		return model.NewValidationError("user group name must not be empty")
	}
	if len(h.groups.FindByName(op.Input.Name)) > 0 {
		return fmt.Errorf("user group name %q already taken: %w", op.Input.Name, model.ErrConflict)
	}
	groupID := idgen.New()
	op.GroupID = &groupID
	return nil
}

func (h *AddUserGroup) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.AddUserGroup.Clone()
	if op.GroupID == nil {
		groupID := idgen.New()
		op.GroupID = &groupID
	}
	group := &model.UserGroup{
		ID:             *op.GroupID,
		Name:           op.Input.Name,
		LastModifiedAt: clock.Now(),
	}
	if err := group.Validate(); err != nil {
		return nil, err
	}
	h.groups.Insert(group.ID, group)
	return registry.Completed(&model.Operation{AddUserGroup: op}), nil
}

// EditUserGroup handles group rename requests.
type EditUserGroup struct {
	approverNotifier
	groups *repository.UserGroups
}

// NewEditUserGroup creates the edit-user-group handler.
func NewEditUserGroup(groups *repository.UserGroups, notifier Notifier) *EditUserGroup {
	return &EditUserGroup{
		approverNotifier: approverNotifier{notifier: notifier},
		groups:           groups,
	}
}

func (h *EditUserGroup) Kind() model.OperationKind { return model.OperationEditUserGroup }

func (h *EditUserGroup) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.EditUserGroup
	if op.Input.Name == "" {
		return model.NewValidationError("user group name must not be empty")
	}
	if _, ok := h.groups.Get(op.Input.GroupID); !ok {
		return fmt.Errorf("user group %v: %w", op.Input.GroupID, model.ErrNotFound)
	}
	return nil
}

func (h *EditUserGroup) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.EditUserGroup
	group, ok := h.groups.Get(op.Input.GroupID)
	if !ok {
		return nil, fmt.Errorf("user group %v: %w", op.Input.GroupID, model.ErrNotFound)
	}
	group.Name = op.Input.Name
	group.LastModifiedAt = clock.Now()
	if err := group.Validate(); err != nil {
		return nil, err
	}
	h.groups.Insert(group.ID, group)
	return registry.Completed(nil), nil
}

// RemoveUserGroup handles group removal requests.
type RemoveUserGroup struct {
	approverNotifier
	groups *repository.UserGroups
	users  *repository.Users
}

// NewRemoveUserGroup creates the remove-user-group handler.
func NewRemoveUserGroup(groups *repository.UserGroups, users *repository.Users, notifier Notifier) *RemoveUserGroup {
	return &RemoveUserGroup{
		approverNotifier: approverNotifier{notifier: notifier},
		groups:           groups,
		users:            users,
	}
}

func (h *RemoveUserGroup) Kind() model.OperationKind { return model.OperationRemoveUserGroup }

func (h *RemoveUserGroup) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.RemoveUserGroup
	if _, ok := h.groups.Get(op.Input.GroupID); !ok {
		return fmt.Errorf("user group %v: %w", op.Input.GroupID, model.ErrNotFound)
	}
	return nil
}

// Execute removes the group and strips it from every member's group list.
func (h *RemoveUserGroup) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.RemoveUserGroup
	if _, ok := h.groups.Remove(op.Input.GroupID); !ok {
		return nil, fmt.Errorf("user group %v: %w", op.Input.GroupID, model.ErrNotFound)
	}
	for _, user := range h.users.List() {
		kept := user.Groups[:0]
		changed := false
		for _, groupID := range user.Groups {
			if groupID == op.Input.GroupID {
				changed = true
				continue
			}
			kept = append(kept, groupID)
		}
		if changed {
			user.Groups = kept
			user.LastModifiedAt = clock.Now()
			h.users.Insert(user.ID, user)
		}
	}
	return registry.Completed(nil), nil
}
