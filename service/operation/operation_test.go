package operation_test

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"
	"golang.org/x/crypto/blake2b"

	"github.com/viant/custodian/model"
	"github.com/viant/custodian/repository"
	"github.com/viant/custodian/service/operation"
	"github.com/viant/custodian/service/registry"
)

func newID(b byte) model.ID {
	var id model.ID
	id[15] = b
	return id
}

func seedUser(users *repository.Users, id model.ID, identity string) {
	users.Insert(id, &model.User{
		ID:         id,
		Name:       "user-" + identity,
		Status:     model.UserStatusActive,
		Identities: []string{identity},
	})
}

// TestTransferLifecycle walks a transfer through create, execute and
// finalize, checking the fee pin, the written record and its settlement.
func TestTransferLifecycle(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUsers()
	accounts := repository.NewAccounts()
	transfers := repository.NewTransfers()
	ownerID := newID(1)
	seedUser(users, ownerID, "owner")

	accountID := newID(2)
	accounts.Insert(accountID, &model.Account{
		ID:         accountID,
		Name:       "treasury",
		Blockchain: "icp",
		Standard:   "native",
		Owners:     []model.ID{ownerID},
	})

	ledger := &operation.StaticLedger{Fee: big.NewInt(10), Network: "testnet"}
	handler := operation.NewTransfer(accounts, transfers, ledger, nil)

	request := &model.Request{
		ID:         newID(9),
		ProposedBy: ownerID,
		Operation: model.Operation{Transfer: &model.TransferOperation{
			Input: model.TransferInput{
				FromAccountID: accountID,
				To:            "destination",
				Amount:        big.NewInt(500),
			},
		}},
	}

	assert.NoError(t, handler.Create(ctx, request))
	op := request.Operation.Transfer
	assert.Equal(t, int64(10), op.Fee.Int64())
	assert.Equal(t, "testnet", op.Network)

	stage, err := handler.Execute(ctx, request)
	assert.NoError(t, err)
	assert.Equal(t, registry.StageProcessing, stage.Status)
	request.Operation = *stage.Operation
	transferID := request.Operation.Transfer.TransferID
	if assert.NotNil(t, transferID) {
		record, ok := transfers.Get(*transferID)
		assert.True(t, ok)
		assert.Equal(t, model.TransferStatusProcessing, record.Status)
		assert.NotEmpty(t, record.Hash)
	}

	assert.NoError(t, handler.Finalize(ctx, request, nil))
	record, _ := transfers.Get(*transferID)
	assert.Equal(t, model.TransferStatusCompleted, record.Status)
}

// TestTransferCreateRejections verifies payload validation on create.
func TestTransferCreateRejections(t *testing.T) {
	ctx := context.Background()
	accounts := repository.NewAccounts()
	transfers := repository.NewTransfers()
	handler := operation.NewTransfer(accounts, transfers, &operation.StaticLedger{}, nil)

	type testCase struct {
		name  string
		input model.TransferInput
		isErr func(error) bool
	}

	var validation *model.ValidationError
	tests := []testCase{{
		name:  "empty destination",
		input: model.TransferInput{FromAccountID: newID(1), Amount: big.NewInt(1)},
		isErr: func(err error) bool { return errors.As(err, &validation) },
	}, {
		name:  "non positive amount",
		input: model.TransferInput{FromAccountID: newID(1), To: "x", Amount: big.NewInt(0)},
		isErr: func(err error) bool { return errors.As(err, &validation) },
	}, {
		name:  "unknown account",
		input: model.TransferInput{FromAccountID: newID(1), To: "x", Amount: big.NewInt(1)},
		isErr: func(err error) bool { return errors.Is(err, model.ErrNotFound) },
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			request := &model.Request{
				Operation: model.Operation{Transfer: &model.TransferOperation{Input: tc.input}},
			}
			err := handler.Create(ctx, request)
			if assert.Error(t, err) {
				assert.True(t, tc.isErr(err))
			}
		})
	}
}

// TestAddUserIdentityConflict verifies that a taken identity rejects the
// request at creation.
func TestAddUserIdentityConflict(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUsers()
	groups := repository.NewUserGroups()
	seedUser(users, newID(1), "taken")

	handler := operation.NewAddUser(users, groups, nil)
	request := &model.Request{
		Operation: model.Operation{AddUser: &model.AddUserOperation{
			Input: model.AddUserInput{Name: "dup", Identities: []string{"taken"}},
		}},
	}
	err := handler.Create(ctx, request)
	assert.ErrorIs(t, err, model.ErrConflict)
}

// TestAddUserExecute verifies id allocation at create and the written record.
func TestAddUserExecute(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUsers()
	groups := repository.NewUserGroups()
	handler := operation.NewAddUser(users, groups, nil)

	request := &model.Request{
		Operation: model.Operation{AddUser: &model.AddUserOperation{
			Input: model.AddUserInput{Name: "carol", Identities: []string{"carol-principal"}},
		}},
	}
	assert.NoError(t, handler.Create(ctx, request))
	assert.NotNil(t, request.Operation.AddUser.UserID)

	stage, err := handler.Execute(ctx, request)
	assert.NoError(t, err)
	assert.Equal(t, registry.StageCompleted, stage.Status)

	user, ok := users.FindByIdentity("carol-principal")
	assert.True(t, ok)
	assert.Equal(t, model.UserStatusActive, user.Status)
}

// TestRemoveUserGroupStripsMembers verifies that removing a group also
// removes it from its members.
func TestRemoveUserGroupStripsMembers(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUsers()
	groups := repository.NewUserGroups()
	groupID := newID(5)
	groups.Insert(groupID, &model.UserGroup{ID: groupID, Name: "ops"})

	memberID := newID(1)
	users.Insert(memberID, &model.User{
		ID:         memberID,
		Name:       "member",
		Status:     model.UserStatusActive,
		Identities: []string{"member"},
		Groups:     []model.ID{groupID},
	})

	handler := operation.NewRemoveUserGroup(groups, users, nil)
	request := &model.Request{
		Operation: model.Operation{RemoveUserGroup: &model.RemoveUserGroupOperation{
			Input: model.RemoveUserGroupInput{GroupID: groupID},
		}},
	}
	assert.NoError(t, handler.Create(ctx, request))
	_, err := handler.Execute(ctx, request)
	assert.NoError(t, err)

	_, ok := groups.Get(groupID)
	assert.False(t, ok)
	member, _ := users.Get(memberID)
	assert.Empty(t, member.Groups)
}

// TestUpgradeChecksum verifies checksum validation and artifact staging.
func TestUpgradeChecksum(t *testing.T) {
	ctx := context.Background()
	module := []byte("module-bytes")
	digest := blake2b.Sum256(module)

	handler := operation.NewUpgrade(afs.New(), t.TempDir(), nil)

	bad := &model.Request{
		ID: newID(1),
		Operation: model.Operation{Upgrade: &model.UpgradeOperation{
			Input: model.UpgradeInput{Target: "station", Module: module, Checksum: "deadbeef"},
		}},
	}
	var validation *model.ValidationError
	assert.ErrorAs(t, handler.Create(ctx, bad), &validation)

	good := &model.Request{
		ID: newID(2),
		Operation: model.Operation{Upgrade: &model.UpgradeOperation{
			Input: model.UpgradeInput{Target: "station", Module: module, Checksum: hex.EncodeToString(digest[:])},
		}},
	}
	assert.NoError(t, handler.Create(ctx, good))

	stage, err := handler.Execute(ctx, good)
	assert.NoError(t, err)
	assert.Equal(t, registry.StageProcessing, stage.Status)
	assert.NotEmpty(t, stage.Operation.Upgrade.ArtifactURL)

	exists, _ := afs.New().Exists(ctx, stage.Operation.Upgrade.ArtifactURL)
	assert.True(t, exists)
}
