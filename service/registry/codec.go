package registry

import (
	"reflect"

	"github.com/viant/custodian/model"
	"github.com/viant/structology/conv"
)

// Codec materializes untyped operation payloads (decoded JSON or YAML maps)
// into their concrete operation structs.
type Codec struct {
	types     *Types
	converter *conv.Converter
}

// NewCodec creates an operation codec over the supplied type registry.
func NewCodec(types *Types) *Codec {
	options := conv.DefaultOptions()
	options.ClonePointerData = true
	options.IgnoreUnmapped = true
	return &Codec{
		types:     types,
		converter: conv.NewConverter(options),
	}
}

// DecodeOperation converts payload into the operation struct registered
// under kind and wraps it into an operation union.
func (c *Codec) DecodeOperation(kind model.OperationKind, payload interface{}) (*model.Operation, error) {
	xType := c.types.Lookup(kind)
	if xType == nil {
		return nil, model.NewValidationError("unknown operation kind %q", kind)
	}
	instance := reflect.New(xType.Type).Interface()
	if err := c.converter.Convert(payload, instance); err != nil {
		return nil, model.NewValidationError("invalid %v payload: %v", kind, err)
	}

	operation := &model.Operation{}
	switch kind {
	case model.OperationTransfer:
		operation.Transfer = instance.(*model.TransferOperation)
	case model.OperationAddAccount:
		operation.AddAccount = instance.(*model.AddAccountOperation)
	case model.OperationEditAccount:
		operation.EditAccount = instance.(*model.EditAccountOperation)
	case model.OperationAddUser:
		operation.AddUser = instance.(*model.AddUserOperation)
	case model.OperationEditUser:
		operation.EditUser = instance.(*model.EditUserOperation)
	case model.OperationAddUserGroup:
		operation.AddUserGroup = instance.(*model.AddUserGroupOperation)
	case model.OperationEditUserGroup:
		operation.EditUserGroup = instance.(*model.EditUserGroupOperation)
	case model.OperationRemoveUserGroup:
		operation.RemoveUserGroup = instance.(*model.RemoveUserGroupOperation)
	case model.OperationAddAccessPolicy:
		operation.AddAccessPolicy = instance.(*model.AddAccessPolicyOperation)
	case model.OperationEditAccessPolicy:
		operation.EditAccessPolicy = instance.(*model.EditAccessPolicyOperation)
	case model.OperationRemoveAccessPolicy:
		operation.RemoveAccessPolicy = instance.(*model.RemoveAccessPolicyOperation)
	case model.OperationAddRequestPolicy:
		operation.AddRequestPolicy = instance.(*model.AddRequestPolicyOperation)
	case model.OperationEditRequestPolicy:
		operation.EditRequestPolicy = instance.(*model.EditRequestPolicyOperation)
	case model.OperationRemoveRequestPolicy:
		operation.RemoveRequestPolicy = instance.(*model.RemoveRequestPolicyOperation)
	case model.OperationUpgrade:
		operation.Upgrade = instance.(*model.UpgradeOperation)
	default:
		return nil, model.NewValidationError("unknown operation kind %q", kind)
	}
	if err := operation.Validate(); err != nil {
		return nil, err
	}
	return operation, nil
}
