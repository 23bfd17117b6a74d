package registry

import (
	"reflect"

	"github.com/viant/custodian/model"
	"github.com/viant/x"
)

// Types holds the Go type of every operation payload, keyed by operation
// kind, so untyped input can be materialized into its concrete struct.
type Types struct {
	x.Registry

	// pkgPath prefixes every registry key: x.Registry stores a type under
	// PkgPath + "." + Name, with PkgPath backfilled from the reflect type
	// even when registered empty.
	pkgPath string
}

// Register adds an operation payload type to the registry
func (t *Types) Register(dataType *x.Type) {
	t.Registry.Register(dataType)
}

// Lookup returns the payload type registered under kind, or nil.
func (t *Types) Lookup(kind model.OperationKind) *x.Type {
	return t.Registry.Lookup(t.pkgPath + "." + string(kind))
}

// NewTypes creates a type registry preloaded with every operation kind.
func NewTypes(options ...x.RegistryOption) *Types {
	result := &Types{
		Registry: *x.NewRegistry(options...),
		pkgPath:  reflect.TypeOf(model.TransferOperation{}).PkgPath(),
	}
	for kind, prototype := range map[model.OperationKind]interface{}{
		model.OperationTransfer:            model.TransferOperation{},
		model.OperationAddAccount:          model.AddAccountOperation{},
		model.OperationEditAccount:         model.EditAccountOperation{},
		model.OperationAddUser:             model.AddUserOperation{},
		model.OperationEditUser:            model.EditUserOperation{},
		model.OperationAddUserGroup:        model.AddUserGroupOperation{},
		model.OperationEditUserGroup:       model.EditUserGroupOperation{},
		model.OperationRemoveUserGroup:     model.RemoveUserGroupOperation{},
		model.OperationAddAccessPolicy:     model.AddAccessPolicyOperation{},
		model.OperationEditAccessPolicy:    model.EditAccessPolicyOperation{},
		model.OperationRemoveAccessPolicy:  model.RemoveAccessPolicyOperation{},
		model.OperationAddRequestPolicy:    model.AddRequestPolicyOperation{},
		model.OperationEditRequestPolicy:   model.EditRequestPolicyOperation{},
		model.OperationRemoveRequestPolicy: model.RemoveRequestPolicyOperation{},
		model.OperationUpgrade:             model.UpgradeOperation{},
	} {
		result.Register(x.NewType(reflect.TypeOf(prototype), x.WithName(string(kind))))
	}
	return result
}
