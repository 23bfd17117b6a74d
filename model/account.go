package model

import (
	"math/big"
	"time"
)

// Account is a custodial asset account governed by the approval workflow.
type Account struct {
	ID             ID                `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Blockchain     string            `json:"blockchain" yaml:"blockchain"`
	Standard       string            `json:"standard" yaml:"standard"`
	Address        string            `json:"address,omitempty" yaml:"address,omitempty"`
	Owners         []ID              `json:"owners" yaml:"owners"`
	Balance        *big.Int          `json:"balance,omitempty" yaml:"balance,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	LastModifiedAt time.Time         `json:"lastModifiedAt" yaml:"lastModifiedAt"`
}

const (
	maxAccountNameLen = 64
	maxAccountOwners  = 10
)

// Validate enforces structural bounds.
func (a *Account) Validate() error {
	if a.Name == "" {
		return NewValidationError("account name must not be empty")
	}
	if len(a.Name) > maxAccountNameLen {
		return NewValidationError("account name exceeds the maximum allowed: %d", maxAccountNameLen)
	}
	if a.Blockchain == "" {
		return NewValidationError("account blockchain must not be empty")
	}
	if len(a.Owners) == 0 {
		return NewValidationError("account requires at least one owner")
	}
	if len(a.Owners) > maxAccountOwners {
		return NewValidationError("account owners exceed the maximum allowed: %d", maxAccountOwners)
	}
	return nil
}

// IsOwner reports whether the user owns this account.
func (a *Account) IsOwner(userID ID) bool {
	for _, owner := range a.Owners {
		if owner == userID {
			return true
		}
	}
	return false
}

// Clone returns an owned deep copy.
func (a *Account) Clone() *Account {
	out := *a
	out.Owners = cloneIDs(a.Owners)
	out.Metadata = cloneMetadata(a.Metadata)
	if a.Balance != nil {
		out.Balance = new(big.Int).Set(a.Balance)
	}
	return &out
}

type AddAccountInput struct {
	Name       string            `json:"name" yaml:"name"`
	Blockchain string            `json:"blockchain" yaml:"blockchain"`
	Standard   string            `json:"standard" yaml:"standard"`
	Owners     []ID              `json:"owners" yaml:"owners"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AddAccountOperation carries the payload and, after execution, the created
// account's id.
type AddAccountOperation struct {
	Input     AddAccountInput `json:"input" yaml:"input"`
	AccountID *ID             `json:"accountId,omitempty" yaml:"accountId,omitempty"`
}

func (o *AddAccountOperation) Clone() *AddAccountOperation {
	out := *o
	out.Input.Owners = cloneIDs(o.Input.Owners)
	out.Input.Metadata = cloneMetadata(o.Input.Metadata)
	if o.AccountID != nil {
		id := *o.AccountID
		out.AccountID = &id
	}
	return &out
}

// EditAccountInput mutates an existing account; nil/empty fields are left
// untouched.
type EditAccountInput struct {
	AccountID ID      `json:"accountId" yaml:"accountId"`
	Name      *string `json:"name,omitempty" yaml:"name,omitempty"`
	Owners    []ID    `json:"owners,omitempty" yaml:"owners,omitempty"`
}

type EditAccountOperation struct {
	Input EditAccountInput `json:"input" yaml:"input"`
}

func (o *EditAccountOperation) Clone() *EditAccountOperation {
	out := *o
	if o.Input.Name != nil {
		name := *o.Input.Name
		out.Input.Name = &name
	}
	out.Input.Owners = cloneIDs(o.Input.Owners)
	return &out
}
