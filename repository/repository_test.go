package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/viant/custodian/model"
	"github.com/viant/custodian/repository"
)

func newID(b byte) model.ID {
	var id model.ID
	id[15] = b
	return id
}

// TestUsersIdentityIndex verifies that the identity index tracks inserts,
// overwrites and removals of user records.
func TestUsersIdentityIndex(t *testing.T) {
	users := repository.NewUsers()
	userID := newID(1)

	user := &model.User{
		ID:         userID,
		Name:       "alice",
		Status:     model.UserStatusActive,
		Identities: []string{"principal-a", "principal-b"},
	}
	_, had := users.Insert(userID, user)
	assert.False(t, had)

	found, ok := users.FindByIdentity("principal-a")
	assert.True(t, ok)
	assert.EqualValues(t, userID, found.ID)

	// Overwrite drops the identity no longer derived from the record.
	updated := user.Clone()
	updated.Identities = []string{"principal-b"}
	previous, had := users.Insert(userID, updated)
	assert.True(t, had)
	assert.EqualValues(t, []string{"principal-a", "principal-b"}, previous.Identities)

	_, ok = users.FindByIdentity("principal-a")
	assert.False(t, ok)
	_, ok = users.FindByIdentity("principal-b")
	assert.True(t, ok)

	_, had = users.Remove(userID)
	assert.True(t, had)
	_, ok = users.FindByIdentity("principal-b")
	assert.False(t, ok)
	assert.Equal(t, 0, users.Len())
}

// TestMemoryOwnedCopies verifies that records handed out by the store are
// detached from the stored state.
func TestMemoryOwnedCopies(t *testing.T) {
	users := repository.NewUsers()
	userID := newID(2)
	user := &model.User{ID: userID, Name: "bob", Status: model.UserStatusActive, Identities: []string{"p"}}
	users.Insert(userID, user)

	// Mutating the inserted value must not leak into the store.
	user.Name = "mutated"
	stored, ok := users.Get(userID)
	assert.True(t, ok)
	assert.Equal(t, "bob", stored.Name)

	// Mutating a read value must not leak either.
	stored.Name = "mutated again"
	again, _ := users.Get(userID)
	assert.Equal(t, "bob", again.Name)
}

// TestAccountsOwnerIndex verifies the N-owner round trip: every owner of an
// inserted account can find it, and removal cleans all entries up.
func TestAccountsOwnerIndex(t *testing.T) {
	accounts := repository.NewAccounts()
	owners := []model.ID{newID(1), newID(2), newID(3)}
	accountID := newID(9)

	accounts.Insert(accountID, &model.Account{
		ID:         accountID,
		Name:       "treasury",
		Blockchain: "icp",
		Standard:   "native",
		Owners:     owners,
	})
	for _, ownerID := range owners {
		held := accounts.FindByOwner(ownerID)
		if assert.Len(t, held, 1) {
			assert.EqualValues(t, accountID, held[0].ID)
		}
	}

	accounts.Remove(accountID)
	for _, ownerID := range owners {
		assert.Empty(t, accounts.FindByOwner(ownerID))
	}
}

// TestRequestsStatusIndex verifies that the status index follows a request
// through its transitions and that voter entries accumulate.
func TestRequestsStatusIndex(t *testing.T) {
	requests := repository.NewRequests()
	requestID := newID(7)
	proposer := newID(1)
	voter := newID(2)

	request := &model.Request{
		ID:         requestID,
		Title:      "transfer funds",
		ProposedBy: proposer,
		Status:     model.RequestStatusCreated,
		Operation:  model.Operation{AddUserGroup: &model.AddUserGroupOperation{Input: model.AddUserGroupInput{Name: "ops"}}},
	}
	requests.Insert(requestID, request)
	assert.Len(t, requests.FindByStatus(model.RequestStatusCreated), 1)
	assert.Len(t, requests.FindByProposer(proposer), 1)
	assert.Empty(t, requests.FindByApprover(voter))

	voted := request.Clone()
	voted.Approvals = append(voted.Approvals, model.Approval{ApproverID: voter, Decision: model.DecisionApproved, DecidedAt: time.Now()})
	voted.Status = model.RequestStatusApproved
	requests.Insert(requestID, voted)

	assert.Empty(t, requests.FindByStatus(model.RequestStatusCreated))
	assert.Len(t, requests.FindByStatus(model.RequestStatusApproved), 1)
	assert.Len(t, requests.FindByApprover(voter), 1)
}

// TestRequestsFindDue verifies due selection for scheduled requests. A
// request only parks in scheduled status with an explicit execution time;
// requests without one execute immediately and never reach this query.
func TestRequestsFindDue(t *testing.T) {
	requests := repository.NewRequests()
	now := time.Now()
	earlier := now.Add(-time.Minute)
	later := now.Add(time.Hour)

	overdue := &model.Request{ID: newID(1), Title: "a", Status: model.RequestStatusScheduled, ExecutionPlan: model.ExecutionPlan{ScheduledAt: &earlier}}
	deferred := &model.Request{ID: newID(2), Title: "b", Status: model.RequestStatusScheduled, ExecutionPlan: model.ExecutionPlan{ScheduledAt: &later}}
	requests.Insert(overdue.ID, overdue)
	requests.Insert(deferred.ID, deferred)

	due := requests.FindDue(now)
	if assert.Len(t, due, 1) {
		assert.EqualValues(t, overdue.ID, due[0].ID)
	}
	assert.Len(t, requests.FindDue(later), 2)
	assert.Empty(t, requests.FindDue(earlier.Add(-time.Second)))
}

// TestRequestPoliciesFindByKind verifies that wildcard policies are returned
// alongside kind-specific ones.
func TestRequestPoliciesFindByKind(t *testing.T) {
	policies := repository.NewRequestPolicies()
	transferPolicy := &model.RequestPolicy{
		ID:        newID(1),
		Specifier: model.RequestSpecifier(model.OperationTransfer),
		Rule:      &model.Rule{Kind: model.RuleAutoApproved},
	}
	anyPolicy := &model.RequestPolicy{
		ID:        newID(2),
		Specifier: model.RequestSpecifierAny,
		Rule:      &model.Rule{Kind: model.RuleAutoApproved},
	}
	policies.Insert(transferPolicy.ID, transferPolicy)
	policies.Insert(anyPolicy.ID, anyPolicy)

	assert.Len(t, policies.FindByKind(model.OperationTransfer), 2)
	assert.Len(t, policies.FindByKind(model.OperationAddUser), 1)
}

// TestIndexOrdering verifies closed-interval scans over the sorted entries.
func TestIndexOrdering(t *testing.T) {
	index := repository.NewIndex[string, int](func(a, b string) int {
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}, func(a, b int) int { return a - b })

	for _, entry := range []repository.Entry[string, int]{
		{Group: "b", Key: 2},
		{Group: "a", Key: 3},
		{Group: "b", Key: 1},
		{Group: "a", Key: 1},
		{Group: "c", Key: 5},
	} {
		index.Insert(entry)
	}
	// Duplicate insert is a no-op.
	index.Insert(repository.Entry[string, int]{Group: "b", Key: 2})

	assert.Equal(t, 5, index.Len())
	assert.EqualValues(t, []int{1, 3}, index.FindByGroup("a"))
	assert.EqualValues(t, []int{1, 2}, index.FindByGroup("b"))
	assert.Empty(t, index.FindByGroup("d"))

	assert.True(t, index.Remove(repository.Entry[string, int]{Group: "b", Key: 1}))
	assert.False(t, index.Remove(repository.Entry[string, int]{Group: "b", Key: 1}))
	assert.EqualValues(t, []int{2}, index.FindByGroup("b"))
}
