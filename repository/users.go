package repository

import (
	"strings"

	"github.com/viant/custodian/model"
)

// Users stores user records and maintains an identity index so the engine
// can resolve an external identity to its user without a full scan.
type Users struct {
	*Memory[model.ID, *model.User]
	identity *Index[string, model.ID]
}

// NewUsers creates the user repository.
func NewUsers() *Users {
	identity := NewIndex[string, model.ID](strings.Compare, model.CompareID)
	return &Users{
		Memory:   NewMemory[model.ID, *model.User](ByEntries(identity, userIdentityEntries)),
		identity: identity,
	}
}

func userIdentityEntries(user *model.User) []Entry[string, model.ID] {
	if user == nil {
		return nil
	}
	out := make([]Entry[string, model.ID], 0, len(user.Identities))
	for _, identity := range user.Identities {
		out = append(out, Entry[string, model.ID]{Group: identity, Key: user.ID})
	}
	return out
}

// FindByIdentity resolves an external identity to its user.
func (u *Users) FindByIdentity(identity string) (*model.User, bool) {
	keys := u.identity.FindByGroup(identity)
	if len(keys) == 0 {
		return nil, false
	}
	return u.Get(keys[0])
}
