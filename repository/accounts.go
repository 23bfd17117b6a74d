package repository

import "github.com/viant/custodian/model"

// Accounts stores account records with an owner index so per-user account
// listings avoid a full scan.
type Accounts struct {
	*Memory[model.ID, *model.Account]
	owner *Index[model.ID, model.ID]
}

// NewAccounts creates the account repository.
func NewAccounts() *Accounts {
	owner := NewIndex[model.ID, model.ID](model.CompareID, model.CompareID)
	return &Accounts{
		Memory: NewMemory[model.ID, *model.Account](ByEntries(owner, accountOwnerEntries)),
		owner:  owner,
	}
}

func accountOwnerEntries(account *model.Account) []Entry[model.ID, model.ID] {
	if account == nil {
		return nil
	}
	out := make([]Entry[model.ID, model.ID], 0, len(account.Owners))
	for _, ownerID := range account.Owners {
		out = append(out, Entry[model.ID, model.ID]{Group: ownerID, Key: account.ID})
	}
	return out
}

// FindByOwner returns the accounts owned by userID.
func (a *Accounts) FindByOwner(userID model.ID) []*model.Account {
	var out []*model.Account
	for _, key := range a.owner.FindByGroup(userID) {
		if account, ok := a.Get(key); ok {
			out = append(out, account)
		}
	}
	return out
}
