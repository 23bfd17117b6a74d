package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/custodian/model"
	"github.com/viant/custodian/service/registry"
)

type stubHandler struct {
	kind model.OperationKind
}

func (h *stubHandler) Kind() model.OperationKind { return h.kind }

func (h *stubHandler) Create(ctx context.Context, request *model.Request) error { return nil }

func (h *stubHandler) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	return registry.Completed(nil), nil
}

// TestLookup verifies handler registration and the unknown-kind error.
func TestLookup(t *testing.T) {
	service := registry.New(&stubHandler{kind: model.OperationAddUserGroup})

	handler, err := service.Lookup(model.OperationAddUserGroup)
	assert.NoError(t, err)
	assert.Equal(t, model.OperationAddUserGroup, handler.Kind())

	_, err = service.Lookup(model.OperationTransfer)
	assert.Error(t, err)
	var validation *model.ValidationError
	assert.ErrorAs(t, err, &validation)
}

// TestValidate verifies the dispatch table totality check.
func TestValidate(t *testing.T) {
	service := registry.New(&stubHandler{kind: model.OperationAddUserGroup})
	assert.NoError(t, service.Validate(model.OperationAddUserGroup))

	err := service.Validate(model.OperationKinds()...)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

// TestTypesLookup verifies every operation kind resolves to its payload
// struct.
func TestTypesLookup(t *testing.T) {
	types := registry.NewTypes()
	for _, kind := range model.OperationKinds() {
		registered := types.Lookup(kind)
		if assert.NotNil(t, registered, string(kind)) {
			assert.Equal(t, string(kind), registered.Name)
		}
	}
	assert.Nil(t, types.Lookup(model.OperationKind("mintToken")))
}

// TestDecodeOperation verifies that untyped payloads materialize into the
// registered operation structs.
func TestDecodeOperation(t *testing.T) {
	codec := registry.NewCodec(registry.NewTypes())

	type testCase struct {
		name        string
		kind        model.OperationKind
		payload     interface{}
		expectError bool
		check       func(t *testing.T, operation *model.Operation)
	}

	tests := []testCase{{
		name: "transfer",
		kind: model.OperationTransfer,
		payload: map[string]interface{}{
			"input": map[string]interface{}{
				"to":      "destination-address",
				"network": "mainnet",
			},
		},
		check: func(t *testing.T, operation *model.Operation) {
			if assert.NotNil(t, operation.Transfer) {
				assert.Equal(t, "destination-address", operation.Transfer.Input.To)
			}
		},
	}, {
		name: "add user group",
		kind: model.OperationAddUserGroup,
		payload: map[string]interface{}{
			"input": map[string]interface{}{"name": "operators"},
		},
		check: func(t *testing.T, operation *model.Operation) {
			if assert.NotNil(t, operation.AddUserGroup) {
				assert.Equal(t, "operators", operation.AddUserGroup.Input.Name)
			}
		},
	}, {
		name:        "unknown kind",
		kind:        model.OperationKind("mintToken"),
		payload:     map[string]interface{}{},
		expectError: true,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			operation, err := codec.DecodeOperation(tc.kind, tc.payload)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.kind, operation.Kind())
			if tc.check != nil {
				tc.check(t, operation)
			}
		})
	}
}
