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

// AddAccount handles account creation requests.
type AddAccount struct {
	approverNotifier
	accounts *repository.Accounts
	users    *repository.Users
}

// NewAddAccount creates the add-account handler.
func NewAddAccount(accounts *repository.Accounts, users *repository.Users, notifier Notifier) *AddAccount {
	return &AddAccount{
		approverNotifier: approverNotifier{notifier: notifier},
		accounts:         accounts,
		users:            users,
	}
}

func (h *AddAccount) Kind() model.OperationKind { return model.OperationAddAccount }

// Create validates the payload and allocates the account identifier so the
// caller learns it before execution.
func (h *AddAccount) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.AddAccount
	if err := h.validate(&op.Input); err != nil {
		return err
	}
	for _, account := range h.accounts.List() {
		if account.Name == op.Input.Name {
			return fmt.Errorf("account name %q already taken: %w", op.Input.Name, model.ErrConflict)
		}
	}
	accountID := idgen.New()
	op.AccountID = &accountID
	return nil
}

// Execute writes the account record.
func (h *AddAccount) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.AddAccount.Clone()
	if op.AccountID == nil {
		accountID := idgen.New()
		op.AccountID = &accountID
	}
	now := clock.Now()
	account := &model.Account{
		ID:             *op.AccountID,
		Name:           op.Input.Name,
		Blockchain:     op.Input.Blockchain,
		Standard:       op.Input.Standard,
		Owners:         op.Input.Owners,
		Metadata:       op.Input.Metadata,
		LastModifiedAt: now,
	}
	if err := account.Validate(); err != nil {
		return nil, err
	}
	h.accounts.Insert(account.ID, account)
	return registry.Completed(&model.Operation{AddAccount: op}), nil
}

func (h *AddAccount) validate(input *model.AddAccountInput) error {
	if input.Name == "" {
		return model.NewValidationError("account name must not be empty")
	}
	if len(input.Owners) == 0 {
		return model.NewValidationError("account must have at least one owner")
	}
	for _, ownerID := range input.Owners {
		if _, ok := h.users.Get(ownerID); !ok {
			return fmt.Errorf("account owner %v: %w", ownerID, model.ErrNotFound)
		}
	}
	return nil
}

// EditAccount handles account mutation requests.
type EditAccount struct {
	approverNotifier
	accounts *repository.Accounts
	users    *repository.Users
}

// NewEditAccount creates the edit-account handler.
func NewEditAccount(accounts *repository.Accounts, users *repository.Users, notifier Notifier) *EditAccount {
	return &EditAccount{
		approverNotifier: approverNotifier{notifier: notifier},
		accounts:         accounts,
		users:            users,
	}
}

func (h *EditAccount) Kind() model.OperationKind { return model.OperationEditAccount }

func (h *EditAccount) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.EditAccount
	if _, ok := h.accounts.Get(op.Input.AccountID); !ok {
		return fmt.Errorf("account %v: %w", op.Input.AccountID, model.ErrNotFound)
	}
	for _, ownerID := range op.Input.Owners {
		if _, ok := h.users.Get(ownerID); !ok {
			return fmt.Errorf("account owner %v: %w", ownerID, model.ErrNotFound)
		}
	}
	return nil
}

// Execute applies the partial update; unset fields keep their value.
func (h *EditAccount) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.EditAccount
	account, ok := h.accounts.Get(op.Input.AccountID)
	if !ok {
		return nil, fmt.Errorf("account %v: %w", op.Input.AccountID, model.ErrNotFound)
	}
	if op.Input.Name != nil {
		account.Name = *op.Input.Name
	}
	if len(op.Input.Owners) > 0 {
		account.Owners = op.Input.Owners
	}
	account.LastModifiedAt = clock.Now()
	if err := account.Validate(); err != nil {
		return nil, err
	}
	h.accounts.Insert(account.ID, account)
	return registry.Completed(nil), nil
}
