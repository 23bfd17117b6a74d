// Package request implements the approval request lifecycle: submission,
// voting, policy evaluation, execution dispatch and cancellation.
package request

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/viant/custodian/internal/clock"
	"github.com/viant/custodian/internal/idgen"
	"github.com/viant/custodian/model"
	"github.com/viant/custodian/policy"
	"github.com/viant/custodian/repository"
	"github.com/viant/custodian/service/messaging"
	"github.com/viant/custodian/service/registry"
	"github.com/viant/custodian/tracing"
)

// Event is published on every request status transition.
type Event struct {
	RequestID model.ID            `json:"requestId"`
	Status    model.RequestStatus `json:"status"`
	Reason    string              `json:"reason,omitempty"`
	At        time.Time           `json:"at"`
}

// Service drives requests through their lifecycle. All transitions are
// serialized under one mutex so a request executes at most once.
type Service struct {
	mu            sync.Mutex
	requests      *repository.Requests
	users         *repository.Users
	policies      *repository.RequestPolicies
	registry      *registry.Service
	defaultPolicy *model.Rule
	events        messaging.Queue[Event]
}

// New creates the lifecycle manager. Events may be nil when no observer
// queue is attached.
func New(requests *repository.Requests, users *repository.Users, policies *repository.RequestPolicies, handlers *registry.Service, defaultPolicy *model.Rule, events messaging.Queue[Event]) *Service {
	if defaultPolicy == nil {
		defaultPolicy = &model.Rule{Kind: model.RuleAutoApproved}
	}
	return &Service{
		requests:      requests,
		users:         users,
		policies:      policies,
		registry:      handlers,
		defaultPolicy: defaultPolicy,
		events:        events,
	}
}

// Get returns the request, if present.
func (s *Service) Get(ctx context.Context, requestID model.ID) (*model.Request, error) {
	request, ok := s.requests.Get(requestID)
	if !ok {
		return nil, fmt.Errorf("request %v: %w", requestID, model.ErrNotFound)
	}
	return request, nil
}

// List returns requests, optionally narrowed to a status.
func (s *Service) List(ctx context.Context, status model.RequestStatus) []*model.Request {
	if status == "" {
		return s.requests.List()
	}
	return s.requests.FindByStatus(status)
}

// Submit creates a request on behalf of the identity's user, snapshots the
// applicable policy, records the proposer's implicit approval when eligible
// and, if the policy is already satisfied, proceeds to execution.
func (s *Service) Submit(ctx context.Context, identity string, input *model.RequestInput) (request *model.Request, err error) {
	ctx, span := tracing.StartSpan(ctx, "request.submit", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	proposer, err := s.resolveIdentity(identity)
	if err != nil {
		return nil, err
	}
	if err := input.Operation.Validate(); err != nil {
		return nil, err
	}
	kind := input.Operation.Kind()
	handler, err := s.registry.Lookup(kind)
	if err != nil {
		return nil, err
	}

	now := clock.Now()
	title := input.Title
	if title == "" {
		title = string(kind)
	}
	request = &model.Request{
		ID:             idgen.New(),
		Title:          title,
		Summary:        input.Summary,
		Operation:      input.Operation.Clone(),
		ProposedBy:     proposer.ID,
		Policy:         s.snapshotPolicy(kind),
		Status:         model.RequestStatusCreated,
		ExecutionPlan:  input.ExecutionPlan,
		ExpiresAt:      input.ExpiresAt,
		CreatedAt:      now,
		LastModifiedAt: now,
	}
	span.WithAttributes(map[string]string{
		"request.id":   request.ID.String(),
		"request.kind": string(kind),
	})

	if err := handler.Create(ctx, request); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests.Insert(request.ID, request)
	s.publish(ctx, request, "")

	if hook, ok := handler.(registry.CreateHook); ok {
		if hookErr := hook.AfterCreate(ctx, request); hookErr != nil {
			log.Printf("request %v: create hook failed: %v", request.ID, hookErr)
		}
	}

	// The proposer's submission counts as their approval when the policy
	// names them.
	if _, eligible := request.Policy.ApproverSet()[proposer.ID]; eligible {
		_ = request.AddApproval(model.Approval{
			ApproverID: proposer.ID,
			Decision:   model.DecisionApproved,
			DecidedAt:  now,
		})
	}
	s.progress(ctx, request)
	return request.Clone(), nil
}

// Vote records an approver's decision and advances the request. Votes on a
// request whose verdict is already decided but which has not reached a
// terminal status are recorded without changing the status.
func (s *Service) Vote(ctx context.Context, requestID model.ID, identity string, decision model.Decision, reason string) (request *model.Request, err error) {
	ctx, span := tracing.StartSpan(ctx, "request.vote", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	approver, err := s.resolveIdentity(identity)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests.Get(requestID)
	if !ok {
		return nil, fmt.Errorf("request %v: %w", requestID, model.ErrNotFound)
	}
	if s.expire(ctx, request) {
		return nil, fmt.Errorf("request %v expired: %w", requestID, model.ErrConflict)
	}
	if request.Status.IsTerminal() {
		return nil, fmt.Errorf("request %v is %v, no longer open for voting: %w", requestID, request.Status, model.ErrConflict)
	}
	if _, eligible := request.Policy.ApproverSet()[approver.ID]; !eligible {
		return nil, fmt.Errorf("user %v is not an eligible approver of request %v: %w", approver.ID, requestID, model.ErrForbidden)
	}
	if err := request.AddApproval(model.Approval{
		ApproverID: approver.ID,
		Decision:   decision,
		DecidedAt:  clock.Now(),
		Reason:     reason,
	}); err != nil {
		return nil, err
	}
	request.LastModifiedAt = clock.Now()
	s.progress(ctx, request)
	return request.Clone(), nil
}

// Cancel withdraws a non-terminal request. Only the proposer may cancel.
// Processing requests are deliberately excluded: an operation already handed
// to execution cannot be recalled and settles through OnExecuteResult.
func (s *Service) Cancel(ctx context.Context, requestID model.ID, identity string, reason string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "request.cancel", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	actor, err := s.resolveIdentity(identity)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests.Get(requestID)
	if !ok {
		return fmt.Errorf("request %v: %w", requestID, model.ErrNotFound)
	}
	if request.ProposedBy != actor.ID {
		return fmt.Errorf("user %v did not propose request %v: %w", actor.ID, requestID, model.ErrForbidden)
	}
	if request.Status.IsTerminal() || request.Status == model.RequestStatusProcessing {
		return fmt.Errorf("request %v is %v: %w", requestID, request.Status, model.ErrConflict)
	}
	s.transition(ctx, request, model.RequestStatusCancelled, reason)
	return nil
}

// OnExecuteResult settles a request whose operation completed
// asynchronously.
func (s *Service) OnExecuteResult(ctx context.Context, requestID model.ID, execErr error) (err error) {
	ctx, span := tracing.StartSpan(ctx, "request.onExecuteResult", "INTERNAL")
	defer func() { tracing.EndSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	request, ok := s.requests.Get(requestID)
	if !ok {
		return fmt.Errorf("request %v: %w", requestID, model.ErrNotFound)
	}
	if request.Status != model.RequestStatusProcessing {
		return fmt.Errorf("request %v is %v, not processing: %w", requestID, request.Status, model.ErrConflict)
	}

	if handler, lookupErr := s.registry.Lookup(request.Operation.Kind()); lookupErr == nil {
		if finalizer, ok := handler.(registry.Finalizer); ok {
			if finErr := finalizer.Finalize(ctx, request, execErr); finErr != nil {
				log.Printf("request %v: finalize failed: %v", requestID, finErr)
			}
		}
	}

	if execErr != nil {
		s.transition(ctx, request, model.RequestStatusFailed, execErr.Error())
	} else {
		s.transition(ctx, request, model.RequestStatusCompleted, "")
	}
	return nil
}

// DispatchScheduled executes approved requests whose scheduled time has
// arrived and expires overdue open requests.
func (s *Service) DispatchScheduled(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, request := range s.requests.FindByStatus(model.RequestStatusCreated) {
		s.expire(ctx, request)
	}
	for _, request := range s.requests.FindDue(now) {
		s.execute(ctx, request)
	}
}

// resolveIdentity maps an external identity to an active user.
func (s *Service) resolveIdentity(identity string) (*model.User, error) {
	user, ok := s.users.FindByIdentity(identity)
	if !ok {
		return nil, fmt.Errorf("identity %q is not registered: %w", identity, model.ErrForbidden)
	}
	if user.Status != model.UserStatusActive {
		return nil, fmt.Errorf("user %v is inactive: %w", user.ID, model.ErrForbidden)
	}
	return user, nil
}

// snapshotPolicy deep-copies the rules applicable to kind. Multiple matching
// policies combine disjunctively; with none the configured default applies.
func (s *Service) snapshotPolicy(kind model.OperationKind) *model.Rule {
	matching := s.policies.FindByKind(kind)
	switch len(matching) {
	case 0:
		return s.defaultPolicy.Clone()
	case 1:
		return matching[0].Rule.Clone()
	}
	rules := make([]*model.Rule, 0, len(matching))
	for _, requestPolicy := range matching {
		rules = append(rules, requestPolicy.Rule.Clone())
	}
	return &model.Rule{Kind: model.RuleAnyOf, Rules: rules}
}

// progress re-evaluates the policy and advances the request. Caller holds
// s.mu.
func (s *Service) progress(ctx context.Context, request *model.Request) {
	if request.Status != model.RequestStatusCreated {
		s.requests.Insert(request.ID, request)
		return
	}
	verdict, _ := policy.Evaluate(request.Policy, request, s.metadataResolver())
	switch verdict {
	case model.VerdictApproved:
		s.transition(ctx, request, model.RequestStatusApproved, "")
		if request.ExecutionPlan.IsScheduled() && !request.ExecutionPlan.Due(clock.Now()) {
			s.transition(ctx, request, model.RequestStatusScheduled, "")
			return
		}
		s.execute(ctx, request)
	case model.VerdictRejected:
		s.transition(ctx, request, model.RequestStatusRejected, "approval policy rejected the request")
	default:
		s.requests.Insert(request.ID, request)
	}
}

// execute runs the operation at most once; only approved or due scheduled
// requests enter. Caller holds s.mu.
func (s *Service) execute(ctx context.Context, request *model.Request) {
	if request.Status != model.RequestStatusApproved && request.Status != model.RequestStatusScheduled {
		return
	}
	s.transition(ctx, request, model.RequestStatusProcessing, "")

	handler, err := s.registry.Lookup(request.Operation.Kind())
	if err != nil {
		s.transition(ctx, request, model.RequestStatusFailed, err.Error())
		return
	}
	stage, err := handler.Execute(ctx, request)
	if err != nil {
		s.transition(ctx, request, model.RequestStatusFailed, err.Error())
		return
	}
	if stage.Operation != nil {
		request.Operation = *stage.Operation
	}
	if stage.Status == registry.StageCompleted {
		s.transition(ctx, request, model.RequestStatusCompleted, "")
		return
	}
	// Processing: completion arrives via OnExecuteResult.
	s.requests.Insert(request.ID, request)
}

// expire rejects an open request whose expiration passed. Caller holds s.mu.
func (s *Service) expire(ctx context.Context, request *model.Request) bool {
	if request.Status != model.RequestStatusCreated || !request.IsExpired(clock.Now()) {
		return false
	}
	s.transition(ctx, request, model.RequestStatusRejected, "expired")
	return true
}

// transition moves the request to status, persists it and publishes the
// event. Caller holds s.mu.
func (s *Service) transition(ctx context.Context, request *model.Request, status model.RequestStatus, reason string) {
	request.Status = status
	request.StatusReason = reason
	request.LastModifiedAt = clock.Now()
	s.requests.Insert(request.ID, request)
	s.publish(ctx, request, reason)
}

func (s *Service) publish(ctx context.Context, request *model.Request, reason string) {
	if s.events == nil {
		return
	}
	event := &Event{
		RequestID: request.ID,
		Status:    request.Status,
		Reason:    reason,
		At:        request.LastModifiedAt,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		log.Printf("request %v: failed to publish %v event: %v", request.ID, request.Status, err)
	}
}

func (s *Service) metadataResolver() policy.Resolver {
	return policy.ResolverFunc(func(userID model.ID, key, value string) bool {
		user, ok := s.users.Get(userID)
		if !ok {
			return false
		}
		return user.HasMetadata(key, value)
	})
}
