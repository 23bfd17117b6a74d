package model

// OperationKind identifies the variant of a request's operation union.
type OperationKind string

const (
	OperationTransfer            OperationKind = "transfer"
	OperationAddAccount          OperationKind = "addAccount"
	OperationEditAccount         OperationKind = "editAccount"
	OperationAddUser             OperationKind = "addUser"
	OperationEditUser            OperationKind = "editUser"
	OperationAddUserGroup        OperationKind = "addUserGroup"
	OperationEditUserGroup       OperationKind = "editUserGroup"
	OperationRemoveUserGroup     OperationKind = "removeUserGroup"
	OperationAddAccessPolicy     OperationKind = "addAccessPolicy"
	OperationEditAccessPolicy    OperationKind = "editAccessPolicy"
	OperationRemoveAccessPolicy  OperationKind = "removeAccessPolicy"
	OperationAddRequestPolicy    OperationKind = "addRequestPolicy"
	OperationEditRequestPolicy   OperationKind = "editRequestPolicy"
	OperationRemoveRequestPolicy OperationKind = "removeRequestPolicy"
	OperationUpgrade             OperationKind = "upgrade"
)

// OperationKinds lists every supported operation kind. The dispatch table in
// service/registry must cover all of them.
func OperationKinds() []OperationKind {
	return []OperationKind{
		OperationTransfer,
		OperationAddAccount,
		OperationEditAccount,
		OperationAddUser,
		OperationEditUser,
		OperationAddUserGroup,
		OperationEditUserGroup,
		OperationRemoveUserGroup,
		OperationAddAccessPolicy,
		OperationEditAccessPolicy,
		OperationRemoveAccessPolicy,
		OperationAddRequestPolicy,
		OperationEditRequestPolicy,
		OperationRemoveRequestPolicy,
		OperationUpgrade,
	}
}

// Operation is a tagged union over the supported operation kinds. Exactly one
// variant pointer is set; the variant never changes after the request is
// created.
type Operation struct {
	Transfer            *TransferOperation            `json:"transfer,omitempty" yaml:"transfer,omitempty"`
	AddAccount          *AddAccountOperation          `json:"addAccount,omitempty" yaml:"addAccount,omitempty"`
	EditAccount         *EditAccountOperation         `json:"editAccount,omitempty" yaml:"editAccount,omitempty"`
	AddUser             *AddUserOperation             `json:"addUser,omitempty" yaml:"addUser,omitempty"`
	EditUser            *EditUserOperation            `json:"editUser,omitempty" yaml:"editUser,omitempty"`
	AddUserGroup        *AddUserGroupOperation        `json:"addUserGroup,omitempty" yaml:"addUserGroup,omitempty"`
	EditUserGroup       *EditUserGroupOperation       `json:"editUserGroup,omitempty" yaml:"editUserGroup,omitempty"`
	RemoveUserGroup     *RemoveUserGroupOperation     `json:"removeUserGroup,omitempty" yaml:"removeUserGroup,omitempty"`
	AddAccessPolicy     *AddAccessPolicyOperation     `json:"addAccessPolicy,omitempty" yaml:"addAccessPolicy,omitempty"`
	EditAccessPolicy    *EditAccessPolicyOperation    `json:"editAccessPolicy,omitempty" yaml:"editAccessPolicy,omitempty"`
	RemoveAccessPolicy  *RemoveAccessPolicyOperation  `json:"removeAccessPolicy,omitempty" yaml:"removeAccessPolicy,omitempty"`
	AddRequestPolicy    *AddRequestPolicyOperation    `json:"addRequestPolicy,omitempty" yaml:"addRequestPolicy,omitempty"`
	EditRequestPolicy   *EditRequestPolicyOperation   `json:"editRequestPolicy,omitempty" yaml:"editRequestPolicy,omitempty"`
	RemoveRequestPolicy *RemoveRequestPolicyOperation `json:"removeRequestPolicy,omitempty" yaml:"removeRequestPolicy,omitempty"`
	Upgrade             *UpgradeOperation             `json:"upgrade,omitempty" yaml:"upgrade,omitempty"`
}

// Kind derives the union tag from the populated variant. It returns an empty
// kind when no variant is set.
func (o *Operation) Kind() OperationKind {
	switch {
	case o.Transfer != nil:
		return OperationTransfer
	case o.AddAccount != nil:
		return OperationAddAccount
	case o.EditAccount != nil:
		return OperationEditAccount
	case o.AddUser != nil:
		return OperationAddUser
	case o.EditUser != nil:
		return OperationEditUser
	case o.AddUserGroup != nil:
		return OperationAddUserGroup
	case o.EditUserGroup != nil:
		return OperationEditUserGroup
	case o.RemoveUserGroup != nil:
		return OperationRemoveUserGroup
	case o.AddAccessPolicy != nil:
		return OperationAddAccessPolicy
	case o.EditAccessPolicy != nil:
		return OperationEditAccessPolicy
	case o.RemoveAccessPolicy != nil:
		return OperationRemoveAccessPolicy
	case o.AddRequestPolicy != nil:
		return OperationAddRequestPolicy
	case o.EditRequestPolicy != nil:
		return OperationEditRequestPolicy
	case o.RemoveRequestPolicy != nil:
		return OperationRemoveRequestPolicy
	case o.Upgrade != nil:
		return OperationUpgrade
	}
	return ""
}

// Validate ensures exactly one variant is populated.
func (o *Operation) Validate() error {
	count := 0
	if o.Transfer != nil {
		count++
	}
	if o.AddAccount != nil {
		count++
	}
	if o.EditAccount != nil {
		count++
	}
	if o.AddUser != nil {
		count++
	}
	if o.EditUser != nil {
		count++
	}
	if o.AddUserGroup != nil {
		count++
	}
	if o.EditUserGroup != nil {
		count++
	}
	if o.RemoveUserGroup != nil {
		count++
	}
	if o.AddAccessPolicy != nil {
		count++
	}
	if o.EditAccessPolicy != nil {
		count++
	}
	if o.RemoveAccessPolicy != nil {
		count++
	}
	if o.AddRequestPolicy != nil {
		count++
	}
	if o.EditRequestPolicy != nil {
		count++
	}
	if o.RemoveRequestPolicy != nil {
		count++
	}
	if o.Upgrade != nil {
		count++
	}
	if count != 1 {
		return NewValidationError("operation must set exactly one variant, got %d", count)
	}
	return nil
}

// Clone deep-copies the populated variant.
func (o Operation) Clone() Operation {
	out := Operation{}
	if o.Transfer != nil {
		out.Transfer = o.Transfer.Clone()
	}
	if o.AddAccount != nil {
		out.AddAccount = o.AddAccount.Clone()
	}
	if o.EditAccount != nil {
		out.EditAccount = o.EditAccount.Clone()
	}
	if o.AddUser != nil {
		out.AddUser = o.AddUser.Clone()
	}
	if o.EditUser != nil {
		out.EditUser = o.EditUser.Clone()
	}
	if o.AddUserGroup != nil {
		out.AddUserGroup = o.AddUserGroup.Clone()
	}
	if o.EditUserGroup != nil {
		v := *o.EditUserGroup
		out.EditUserGroup = &v
	}
	if o.RemoveUserGroup != nil {
		v := *o.RemoveUserGroup
		out.RemoveUserGroup = &v
	}
	if o.AddAccessPolicy != nil {
		out.AddAccessPolicy = o.AddAccessPolicy.Clone()
	}
	if o.EditAccessPolicy != nil {
		out.EditAccessPolicy = o.EditAccessPolicy.Clone()
	}
	if o.RemoveAccessPolicy != nil {
		v := *o.RemoveAccessPolicy
		out.RemoveAccessPolicy = &v
	}
	if o.AddRequestPolicy != nil {
		out.AddRequestPolicy = o.AddRequestPolicy.Clone()
	}
	if o.EditRequestPolicy != nil {
		out.EditRequestPolicy = o.EditRequestPolicy.Clone()
	}
	if o.RemoveRequestPolicy != nil {
		v := *o.RemoveRequestPolicy
		out.RemoveRequestPolicy = &v
	}
	if o.Upgrade != nil {
		out.Upgrade = o.Upgrade.Clone()
	}
	return out
}
