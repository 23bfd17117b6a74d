package model

import "time"

// UserGroup is a named set of users referenced by access policies.
type UserGroup struct {
	ID             ID        `json:"id" yaml:"id"`
	Name           string    `json:"name" yaml:"name"`
	LastModifiedAt time.Time `json:"lastModifiedAt" yaml:"lastModifiedAt"`
}

const maxUserGroupNameLen = 50

// Validate enforces structural bounds.
func (g *UserGroup) Validate() error {
	if g.Name == "" {
		return NewValidationError("user group name must not be empty")
	}
	if len(g.Name) > maxUserGroupNameLen {
		return NewValidationError("user group name exceeds the maximum allowed: %d", maxUserGroupNameLen)
	}
	return nil
}

// Clone returns an owned copy.
func (g *UserGroup) Clone() *UserGroup {
	out := *g
	return &out
}

type AddUserGroupInput struct {
	Name string `json:"name" yaml:"name"`
}

// AddUserGroupOperation carries the payload and, after execution, the created
// group's id.
type AddUserGroupOperation struct {
	Input   AddUserGroupInput `json:"input" yaml:"input"`
	GroupID *ID               `json:"groupId,omitempty" yaml:"groupId,omitempty"`
}

func (o *AddUserGroupOperation) Clone() *AddUserGroupOperation {
	out := *o
	if o.GroupID != nil {
		id := *o.GroupID
		out.GroupID = &id
	}
	return &out
}

type EditUserGroupInput struct {
	GroupID ID     `json:"groupId" yaml:"groupId"`
	Name    string `json:"name" yaml:"name"`
}

type EditUserGroupOperation struct {
	Input EditUserGroupInput `json:"input" yaml:"input"`
}

type RemoveUserGroupInput struct {
	GroupID ID `json:"groupId" yaml:"groupId"`
}

type RemoveUserGroupOperation struct {
	Input RemoveUserGroupInput `json:"input" yaml:"input"`
}
