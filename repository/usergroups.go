package repository

import (
	"strings"

	"github.com/viant/custodian/model"
)

// UserGroups stores user group records with a name index.
type UserGroups struct {
	*Memory[model.ID, *model.UserGroup]
	name *Index[string, model.ID]
}

// NewUserGroups creates the user group repository.
func NewUserGroups() *UserGroups {
	name := NewIndex[string, model.ID](strings.Compare, model.CompareID)
	return &UserGroups{
		Memory: NewMemory[model.ID, *model.UserGroup](ByEntries(name, userGroupNameEntries)),
		name:   name,
	}
}

func userGroupNameEntries(group *model.UserGroup) []Entry[string, model.ID] {
	if group == nil {
		return nil
	}
	return []Entry[string, model.ID]{{Group: group.Name, Key: group.ID}}
}

// FindByName returns the groups registered under name.
func (g *UserGroups) FindByName(name string) []*model.UserGroup {
	var out []*model.UserGroup
	for _, key := range g.name.FindByGroup(name) {
		if group, ok := g.Get(key); ok {
			out = append(out, group)
		}
	}
	return out
}
