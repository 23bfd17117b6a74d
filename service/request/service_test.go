package request_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/custodian/model"
	"github.com/viant/custodian/repository"
	"github.com/viant/custodian/service/messaging/memory"
	"github.com/viant/custodian/service/operation"
	"github.com/viant/custodian/service/registry"
	"github.com/viant/custodian/service/request"
)

type fixture struct {
	users    *repository.Users
	groups   *repository.UserGroups
	policies *repository.RequestPolicies
	requests *repository.Requests
	events   *memory.Queue[request.Event]
	service  *request.Service
}

func newFixture(defaultPolicy *model.Rule) *fixture {
	f := &fixture{
		users:    repository.NewUsers(),
		groups:   repository.NewUserGroups(),
		policies: repository.NewRequestPolicies(),
		requests: repository.NewRequests(),
		events:   memory.NewQueue[request.Event](memory.DefaultConfig()),
	}
	handlers := registry.New(
		operation.NewAddUserGroup(f.groups, nil),
	)
	f.service = request.New(f.requests, f.users, f.policies, handlers, defaultPolicy, f.events)
	return f
}

func (f *fixture) seedUser(b byte, identity string) model.ID {
	var id model.ID
	id[15] = b
	f.users.Insert(id, &model.User{
		ID:         id,
		Name:       identity,
		Status:     model.UserStatusActive,
		Identities: []string{identity},
	})
	return id
}

func (f *fixture) quorumPolicy(min int, approvers ...model.ID) {
	var policyID model.ID
	policyID[0] = 0xff
	f.policies.Insert(policyID, &model.RequestPolicy{
		ID:        policyID,
		Specifier: model.RequestSpecifierAny,
		Rule:      &model.Rule{Kind: model.RuleQuorum, Approvers: approvers, MinApproved: min},
	})
}

func addGroupInput(name string) *model.RequestInput {
	return &model.RequestInput{
		Title: "add group " + name,
		Operation: model.Operation{AddUserGroup: &model.AddUserGroupOperation{
			Input: model.AddUserGroupInput{Name: name},
		}},
	}
}

// TestSubmitAutoApproves verifies that the default auto-approval policy
// executes the operation during submission.
func TestSubmitAutoApproves(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	f.seedUser(1, "proposer")

	got, err := f.service.Submit(ctx, "proposer", addGroupInput("ops"))
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusCompleted, got.Status)
	assert.Len(t, f.groups.FindByName("ops"), 1)

	// created, approved, processing and completed transitions all publish.
	assert.Equal(t, 4, f.events.Size())
	msg, err := f.events.Consume(ctx)
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusCreated, msg.T().Status)
	assert.NoError(t, msg.Ack())
}

// TestQuorumFlow walks a 2-of-3 quorum: the proposer's submission counts as
// one approval, the second vote triggers a single execution.
func TestQuorumFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	proposer := f.seedUser(1, "proposer")
	approver := f.seedUser(2, "approver")
	third := f.seedUser(3, "third")
	f.quorumPolicy(2, proposer, approver, third)

	got, err := f.service.Submit(ctx, "proposer", addGroupInput("ops"))
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusCreated, got.Status)
	assert.Len(t, got.Approvals, 1)

	// Proposer cannot vote twice.
	_, err = f.service.Vote(ctx, got.ID, "proposer", model.DecisionApproved, "")
	assert.ErrorIs(t, err, model.ErrConflict)

	// Outsider is not eligible.
	f.seedUser(4, "outsider")
	_, err = f.service.Vote(ctx, got.ID, "outsider", model.DecisionApproved, "")
	assert.ErrorIs(t, err, model.ErrForbidden)

	voted, err := f.service.Vote(ctx, got.ID, "approver", model.DecisionApproved, "looks good")
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusCompleted, voted.Status)
	assert.Len(t, f.groups.FindByName("ops"), 1)

	// The request is settled; further votes conflict.
	_, err = f.service.Vote(ctx, got.ID, "third", model.DecisionApproved, "")
	assert.ErrorIs(t, err, model.ErrConflict)
}

// TestQuorumEarlyReject verifies rejection as soon as the quorum becomes
// unreachable.
func TestQuorumEarlyReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	proposer := f.seedUser(1, "proposer")
	approver := f.seedUser(2, "approver")
	f.quorumPolicy(2, proposer, approver)

	got, err := f.service.Submit(ctx, "proposer", addGroupInput("ops"))
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusCreated, got.Status)

	voted, err := f.service.Vote(ctx, got.ID, "approver", model.DecisionRejected, "no")
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusRejected, voted.Status)
	assert.Empty(t, f.groups.FindByName("ops"))
}

// TestCancel verifies proposer-only cancellation and the double-cancel
// conflict.
func TestCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	proposer := f.seedUser(1, "proposer")
	approver := f.seedUser(2, "approver")
	f.quorumPolicy(2, proposer, approver)

	got, err := f.service.Submit(ctx, "proposer", addGroupInput("ops"))
	assert.NoError(t, err)

	assert.ErrorIs(t, f.service.Cancel(ctx, got.ID, "approver", "not mine"), model.ErrForbidden)
	assert.NoError(t, f.service.Cancel(ctx, got.ID, "proposer", "changed my mind"))
	assert.ErrorIs(t, f.service.Cancel(ctx, got.ID, "proposer", "again"), model.ErrConflict)

	stored, err := f.service.Get(ctx, got.ID)
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusCancelled, stored.Status)
	assert.Equal(t, "changed my mind", stored.StatusReason)
}

// TestScheduledExecution verifies that an approved request with a future
// plan waits until DispatchScheduled.
func TestScheduledExecution(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	f.seedUser(1, "proposer")

	at := time.Now().Add(time.Hour)
	input := addGroupInput("ops")
	input.ExecutionPlan = model.ExecutionPlan{ScheduledAt: &at}

	got, err := f.service.Submit(ctx, "proposer", input)
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusScheduled, got.Status)
	assert.Empty(t, f.groups.FindByName("ops"))

	// Not due yet.
	f.service.DispatchScheduled(ctx, time.Now())
	stored, _ := f.service.Get(ctx, got.ID)
	assert.Equal(t, model.RequestStatusScheduled, stored.Status)

	f.service.DispatchScheduled(ctx, at.Add(time.Minute))
	stored, _ = f.service.Get(ctx, got.ID)
	assert.Equal(t, model.RequestStatusCompleted, stored.Status)
	assert.Len(t, f.groups.FindByName("ops"), 1)
}

// TestVoteAfterDecision verifies that a late vote on a decided but still
// pending request is recorded without disturbing the status.
func TestVoteAfterDecision(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	proposer := f.seedUser(1, "proposer")
	approver := f.seedUser(2, "approver")
	f.quorumPolicy(1, proposer, approver)

	at := time.Now().Add(time.Hour)
	input := addGroupInput("ops")
	input.ExecutionPlan = model.ExecutionPlan{ScheduledAt: &at}

	got, err := f.service.Submit(ctx, "proposer", input)
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusScheduled, got.Status)

	voted, err := f.service.Vote(ctx, got.ID, "approver", model.DecisionApproved, "late but recorded")
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusScheduled, voted.Status)
	assert.Len(t, voted.Approvals, 2)
	assert.Empty(t, f.groups.FindByName("ops"))

	stored, err := f.service.Get(ctx, got.ID)
	assert.NoError(t, err)
	assert.Len(t, stored.Approvals, 2)
}

// TestExpiration verifies that an overdue open request is rejected on the
// next touch.
func TestExpiration(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)
	proposer := f.seedUser(1, "proposer")
	approver := f.seedUser(2, "approver")
	f.quorumPolicy(2, proposer, approver)

	expired := time.Now().Add(-time.Minute)
	input := addGroupInput("ops")
	input.ExpiresAt = &expired

	got, err := f.service.Submit(ctx, "proposer", input)
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusCreated, got.Status)

	_, err = f.service.Vote(ctx, got.ID, "approver", model.DecisionApproved, "")
	assert.ErrorIs(t, err, model.ErrConflict)

	stored, _ := f.service.Get(ctx, got.ID)
	assert.Equal(t, model.RequestStatusRejected, stored.Status)
	assert.Equal(t, "expired", stored.StatusReason)
}

// TestAsyncTransferSettlement drives a transfer to Processing and settles it
// through OnExecuteResult.
func TestAsyncTransferSettlement(t *testing.T) {
	ctx := context.Background()
	users := repository.NewUsers()
	accounts := repository.NewAccounts()
	transfers := repository.NewTransfers()
	policies := repository.NewRequestPolicies()
	requests := repository.NewRequests()

	var ownerID model.ID
	ownerID[15] = 1
	users.Insert(ownerID, &model.User{
		ID:         ownerID,
		Name:       "owner",
		Status:     model.UserStatusActive,
		Identities: []string{"owner"},
	})
	var accountID model.ID
	accountID[15] = 2
	accounts.Insert(accountID, &model.Account{
		ID:         accountID,
		Name:       "treasury",
		Blockchain: "icp",
		Standard:   "native",
		Owners:     []model.ID{ownerID},
	})

	handlers := registry.New(
		operation.NewTransfer(accounts, transfers, &operation.StaticLedger{Fee: big.NewInt(1)}, nil),
	)
	service := request.New(requests, users, policies, handlers, nil, nil)

	got, err := service.Submit(ctx, "owner", &model.RequestInput{
		Title: "payout",
		Operation: model.Operation{Transfer: &model.TransferOperation{
			Input: model.TransferInput{FromAccountID: accountID, To: "dest", Amount: big.NewInt(100)},
		}},
	})
	assert.NoError(t, err)
	assert.Equal(t, model.RequestStatusProcessing, got.Status)

	// Settling a request twice conflicts.
	assert.NoError(t, service.OnExecuteResult(ctx, got.ID, nil))
	assert.ErrorIs(t, service.OnExecuteResult(ctx, got.ID, nil), model.ErrConflict)

	stored, _ := service.Get(ctx, got.ID)
	assert.Equal(t, model.RequestStatusCompleted, stored.Status)
	if assert.NotNil(t, stored.Operation.Transfer.TransferID) {
		record, ok := transfers.Get(*stored.Operation.Transfer.TransferID)
		assert.True(t, ok)
		assert.Equal(t, model.TransferStatusCompleted, record.Status)
	}
}

// TestUnknownIdentity verifies identity resolution failures.
func TestUnknownIdentity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(nil)

	_, err := f.service.Submit(ctx, "ghost", addGroupInput("ops"))
	assert.ErrorIs(t, err, model.ErrForbidden)
}
