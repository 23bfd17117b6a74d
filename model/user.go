package model

import "time"

// UserStatus marks whether a user may act in the system.
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User is a principal able to propose and approve requests. Identities are
// the external authentication handles (e.g. key principals) that resolve to
// this user.
type User struct {
	ID             ID                `json:"id" yaml:"id"`
	Name           string            `json:"name" yaml:"name"`
	Status         UserStatus        `json:"status" yaml:"status"`
	Identities     []string          `json:"identities" yaml:"identities"`
	Groups         []ID              `json:"groups,omitempty" yaml:"groups,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	LastModifiedAt time.Time         `json:"lastModifiedAt" yaml:"lastModifiedAt"`
}

const maxUserIdentities = 10

// Validate enforces structural bounds.
func (u *User) Validate() error {
	if u.Name == "" {
		return NewValidationError("user name must not be empty")
	}
	if len(u.Identities) == 0 {
		return NewValidationError("user requires at least one identity")
	}
	if len(u.Identities) > maxUserIdentities {
		return NewValidationError("user identities exceed the maximum allowed: %d", maxUserIdentities)
	}
	return nil
}

// HasMetadata reports whether the user carries the given metadata entry. An
// empty expected value matches any value under the key.
func (u *User) HasMetadata(key, value string) bool {
	actual, ok := u.Metadata[key]
	if !ok {
		return false
	}
	return value == "" || actual == value
}

// Clone returns an owned deep copy.
func (u *User) Clone() *User {
	out := *u
	out.Identities = cloneStrings(u.Identities)
	out.Groups = cloneIDs(u.Groups)
	out.Metadata = cloneMetadata(u.Metadata)
	return &out
}

// AddUserInput is the payload proposing a new user.
type AddUserInput struct {
	Name       string            `json:"name" yaml:"name"`
	Identities []string          `json:"identities" yaml:"identities"`
	Groups     []ID              `json:"groups,omitempty" yaml:"groups,omitempty"`
	Status     UserStatus        `json:"status" yaml:"status"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// AddUserOperation carries the payload and, after execution, the created
// user's id.
type AddUserOperation struct {
	Input  AddUserInput `json:"input" yaml:"input"`
	UserID *ID          `json:"userId,omitempty" yaml:"userId,omitempty"`
}

func (o *AddUserOperation) Clone() *AddUserOperation {
	out := *o
	out.Input.Identities = cloneStrings(o.Input.Identities)
	out.Input.Groups = cloneIDs(o.Input.Groups)
	out.Input.Metadata = cloneMetadata(o.Input.Metadata)
	if o.UserID != nil {
		id := *o.UserID
		out.UserID = &id
	}
	return &out
}

// EditUserInput mutates an existing user; nil/empty fields are left
// untouched.
type EditUserInput struct {
	UserID     ID          `json:"userId" yaml:"userId"`
	Name       *string     `json:"name,omitempty" yaml:"name,omitempty"`
	Identities []string    `json:"identities,omitempty" yaml:"identities,omitempty"`
	Groups     []ID        `json:"groups,omitempty" yaml:"groups,omitempty"`
	Status     *UserStatus `json:"status,omitempty" yaml:"status,omitempty"`
}

type EditUserOperation struct {
	Input EditUserInput `json:"input" yaml:"input"`
}

func (o *EditUserOperation) Clone() *EditUserOperation {
	out := *o
	if o.Input.Name != nil {
		name := *o.Input.Name
		out.Input.Name = &name
	}
	out.Input.Identities = cloneStrings(o.Input.Identities)
	out.Input.Groups = cloneIDs(o.Input.Groups)
	if o.Input.Status != nil {
		status := *o.Input.Status
		out.Input.Status = &status
	}
	return &out
}
