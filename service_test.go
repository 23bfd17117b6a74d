package custodian_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/afs"

	"github.com/viant/custodian"
	"github.com/viant/custodian/internal/idgen"
	"github.com/viant/custodian/model"
)

func newServiceID(b byte) model.ID {
	var id model.ID
	id[15] = b
	return id
}

func seedDirectory(t *testing.T, srv *custodian.Service, kind model.RequestSpecifier) []*model.User {
	t.Helper()
	users := []*model.User{
		{ID: newServiceID(1), Name: "Alice", Identities: []string{"alice@acme.com"}},
		{ID: newServiceID(2), Name: "Bob", Identities: []string{"bob@acme.com"}},
		{ID: newServiceID(3), Name: "Carol", Identities: []string{"carol@acme.com"}},
	}
	policy := &model.RequestPolicy{
		ID:        idgen.New(),
		Specifier: kind,
		Rule: &model.Rule{
			Kind:        model.RuleQuorum,
			Approvers:   []model.ID{users[0].ID, users[1].ID, users[2].ID},
			MinApproved: 2,
		},
	}
	err := srv.Bootstrap(context.Background(), users, []*model.RequestPolicy{policy})
	assert.Nil(t, err)
	return users
}

func TestServiceEndToEnd(t *testing.T) {
	srv, err := custodian.New()
	assert.Nil(t, err)
	users := seedDirectory(t, srv, model.RequestSpecifier(model.OperationAddUserGroup))
	ctx := context.Background()

	input := &model.RequestInput{
		Operation: model.Operation{
			AddUserGroup: &model.AddUserGroupOperation{
				Input: model.AddUserGroupInput{Name: "treasury"},
			},
		},
	}
	request, err := srv.Requests().Submit(ctx, "alice@acme.com", input)
	assert.Nil(t, err)
	assert.Equal(t, model.RequestStatusCreated, request.Status)
	assert.Equal(t, 1, len(request.Approvals))

	// The remaining approvers learn about the pending request.
	pending := srv.Notifications().List(ctx, users[1].ID)
	assert.Equal(t, 1, len(pending))

	_, err = srv.Requests().Vote(ctx, request.ID, "bob@acme.com", model.DecisionApproved, "lgtm")
	assert.Nil(t, err)

	settled, err := srv.Requests().Get(ctx, request.ID)
	assert.Nil(t, err)
	assert.Equal(t, model.RequestStatusCompleted, settled.Status)

	groups := srv.UserGroups().FindByName("treasury")
	assert.Equal(t, 1, len(groups))
}

func TestServiceSchedulerDispatch(t *testing.T) {
	config := custodian.DefaultConfig()
	config.Scheduler.PollInterval = 10 * time.Millisecond
	srv, err := custodian.New(custodian.WithConfig(config))
	assert.Nil(t, err)
	seedDirectory(t, srv, model.RequestSpecifier(model.RequestSpecifierAny))

	ctx := context.Background()
	srv.Start(ctx)
	defer srv.Shutdown()

	at := time.Now().Add(20 * time.Millisecond)
	input := &model.RequestInput{
		Operation: model.Operation{
			AddUserGroup: &model.AddUserGroupOperation{
				Input: model.AddUserGroupInput{Name: "ops"},
			},
		},
		ExecutionPlan: model.ExecutionPlan{ScheduledAt: &at},
	}
	request, err := srv.Requests().Submit(ctx, "alice@acme.com", input)
	assert.Nil(t, err)
	_, err = srv.Requests().Vote(ctx, request.ID, "bob@acme.com", model.DecisionApproved, "")
	assert.Nil(t, err)

	scheduled, err := srv.Requests().Get(ctx, request.ID)
	assert.Nil(t, err)
	assert.Equal(t, model.RequestStatusScheduled, scheduled.Status)

	assert.Eventually(t, func() bool {
		settled, err := srv.Requests().Get(ctx, request.ID)
		return err == nil && settled.Status == model.RequestStatusCompleted
	}, time.Second, 10*time.Millisecond)
}

func TestLoadConfig(t *testing.T) {
	location := filepath.Join(t.TempDir(), "config.yaml")
	document := `
upgrade:
  artifactUrl: /var/lib/custodian/artifacts
messaging:
  vendor: memory
  queueBuffer: 16
`
	err := os.WriteFile(location, []byte(document), 0o644)
	assert.Nil(t, err)

	config, err := custodian.LoadConfig(context.Background(), afs.New(), location)
	assert.Nil(t, err)
	assert.Equal(t, "/var/lib/custodian/artifacts", config.Upgrade.ArtifactURL)
	assert.Equal(t, 16, config.Messaging.QueueBuffer)
	// Unset sections keep their defaults.
	assert.Equal(t, time.Second, config.Scheduler.PollInterval)
	assert.Equal(t, model.RuleAutoApproved, config.DefaultPolicy.Kind)
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		description string
		mutate      func(config *custodian.Config)
		valid       bool
	}{
		{
			description: "defaults",
			mutate:      func(config *custodian.Config) {},
			valid:       true,
		},
		{
			description: "non positive poll interval",
			mutate:      func(config *custodian.Config) { config.Scheduler.PollInterval = 0 },
		},
		{
			description: "unknown messaging vendor",
			mutate:      func(config *custodian.Config) { config.Messaging.Vendor = "amqp" },
		},
		{
			description: "fs vendor without base path",
			mutate:      func(config *custodian.Config) { config.Messaging.Vendor = "fs" },
		},
	}
	for _, testCase := range testCases {
		config := custodian.DefaultConfig()
		testCase.mutate(config)
		err := config.Validate()
		if testCase.valid {
			assert.Nil(t, err, testCase.description)
			continue
		}
		assert.NotNil(t, err, testCase.description)
	}
}

func TestLoadPolicies(t *testing.T) {
	location := filepath.Join(t.TempDir(), "policies.yaml")
	document := `
- specifier: any
  rule:
    kind: autoApproved
- specifier: transfer
  rule:
    kind: quorum
    approvers:
      - "00000000-0000-0000-0000-000000000001"
      - "00000000-0000-0000-0000-000000000002"
    minApproved: 2
`
	err := os.WriteFile(location, []byte(document), 0o644)
	assert.Nil(t, err)

	srv, err := custodian.New()
	assert.Nil(t, err)
	err = srv.LoadPolicies(context.Background(), location)
	assert.Nil(t, err)

	policies := srv.RequestPolicies().List()
	assert.Equal(t, 2, len(policies))
	transfer := srv.RequestPolicies().FindByKind(model.OperationTransfer)
	assert.Equal(t, 2, len(transfer))
}
