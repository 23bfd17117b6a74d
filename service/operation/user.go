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

// AddUser handles user creation requests.
type AddUser struct {
	approverNotifier
	users  *repository.Users
	groups *repository.UserGroups
}

// NewAddUser creates the add-user handler.
func NewAddUser(users *repository.Users, groups *repository.UserGroups, notifier Notifier) *AddUser {
	return &AddUser{
		approverNotifier: approverNotifier{notifier: notifier},
		users:            users,
		groups:           groups,
	}
}

func (h *AddUser) Kind() model.OperationKind { return model.OperationAddUser }

// Create validates the payload, checks identity uniqueness and allocates the
// user identifier.
func (h *AddUser) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.AddUser
	if len(op.Input.Identities) == 0 {
		return model.NewValidationError("user must have at least one identity")
	}
	for _, identity := range op.Input.Identities {
		if existing, ok := h.users.FindByIdentity(identity); ok {
			return fmt.Errorf("identity %q already belongs to user %v: %w", identity, existing.ID, model.ErrConflict)
		}
	}
	for _, groupID := range op.Input.Groups {
		if _, ok := h.groups.Get(groupID); !ok {
			return fmt.Errorf("user group %v: %w", groupID, model.ErrNotFound)
		}
	}
	userID := idgen.New()
	op.UserID = &userID
	return nil
}

// Execute writes the user record.
func (h *AddUser) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.AddUser.Clone()
	if op.UserID == nil {
		userID := idgen.New()
		op.UserID = &userID
	}
	status := op.Input.Status
	if status == "" {
		status = model.UserStatusActive
	}
	user := &model.User{
		ID:             *op.UserID,
		Name:           op.Input.Name,
		Status:         status,
		Identities:     op.Input.Identities,
		Groups:         op.Input.Groups,
		Metadata:       op.Input.Metadata,
		LastModifiedAt: clock.Now(),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	h.users.Insert(user.ID, user)
	return registry.Completed(&model.Operation{AddUser: op}), nil
}

// EditUser handles user mutation requests.
type EditUser struct {
	approverNotifier
	users  *repository.Users
	groups *repository.UserGroups
}

// NewEditUser creates the edit-user handler.
func NewEditUser(users *repository.Users, groups *repository.UserGroups, notifier Notifier) *EditUser {
	return &EditUser{
		approverNotifier: approverNotifier{notifier: notifier},
		users:            users,
		groups:           groups,
	}
}

func (h *EditUser) Kind() model.OperationKind { return model.OperationEditUser }

func (h *EditUser) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.EditUser
	if _, ok := h.users.Get(op.Input.UserID); !ok {
		return fmt.Errorf("user %v: %w", op.Input.UserID, model.ErrNotFound)
	}
	for _, identity := range op.Input.Identities {
		if existing, ok := h.users.FindByIdentity(identity); ok && existing.ID != op.Input.UserID {
			return fmt.Errorf("identity %q already belongs to user %v: %w", identity, existing.ID, model.ErrConflict)
		}
	}
	for _, groupID := range op.Input.Groups {
		if _, ok := h.groups.Get(groupID); !ok {
			return fmt.Errorf("user group %v: %w", groupID, model.ErrNotFound)
		}
	}
	return nil
}

// Execute applies the partial update; nil fields keep their value.
func (h *EditUser) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.EditUser
	user, ok := h.users.Get(op.Input.UserID)
	if !ok {
		return nil, fmt.Errorf("user %v: %w", op.Input.UserID, model.ErrNotFound)
	}
	if op.Input.Name != nil {
		user.Name = *op.Input.Name
	}
	if op.Input.Status != nil {
		user.Status = *op.Input.Status
	}
	if len(op.Input.Identities) > 0 {
		user.Identities = op.Input.Identities
	}
	if len(op.Input.Groups) > 0 {
		user.Groups = op.Input.Groups
	}
	user.LastModifiedAt = clock.Now()
	if err := user.Validate(); err != nil {
		return nil, err
	}
	h.users.Insert(user.ID, user)
	return registry.Completed(nil), nil
}
