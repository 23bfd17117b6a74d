package repository

import "github.com/viant/custodian/model"

// Transfers stores transfer records indexed by source account.
type Transfers struct {
	*Memory[model.ID, *model.Transfer]
	account *Index[model.ID, model.ID]
}

// NewTransfers creates the transfer repository.
func NewTransfers() *Transfers {
	account := NewIndex[model.ID, model.ID](model.CompareID, model.CompareID)
	return &Transfers{
		Memory:  NewMemory[model.ID, *model.Transfer](ByEntries(account, transferAccountEntries)),
		account: account,
	}
}

func transferAccountEntries(transfer *model.Transfer) []Entry[model.ID, model.ID] {
	if transfer == nil {
		return nil
	}
	return []Entry[model.ID, model.ID]{{Group: transfer.FromAccountID, Key: transfer.ID}}
}

// FindByAccount returns the transfers originating from accountID.
func (t *Transfers) FindByAccount(accountID model.ID) []*model.Transfer {
	var out []*model.Transfer
	for _, key := range t.account.FindByGroup(accountID) {
		if transfer, ok := t.Get(key); ok {
			out = append(out, transfer)
		}
	}
	return out
}
