package custodian

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"

	"github.com/viant/custodian/internal/clock"
	"github.com/viant/custodian/internal/idgen"
	"github.com/viant/custodian/model"
	"github.com/viant/custodian/repository"
	"github.com/viant/custodian/service/messaging"
	mfs "github.com/viant/custodian/service/messaging/fs"
	mmemory "github.com/viant/custodian/service/messaging/memory"
	"github.com/viant/custodian/service/notification"
	"github.com/viant/custodian/service/operation"
	"github.com/viant/custodian/service/registry"
	"github.com/viant/custodian/service/request"
)

// Service is the embeddable façade wiring repositories, operation handlers
// and the request lifecycle together.
type Service struct {
	config            *Config
	fs                afs.Service
	ledger            operation.Ledger
	events            messaging.Queue[request.Event]
	notificationQueue messaging.Queue[model.Notification]
	extraHandlers     []registry.Handler

	users           *repository.Users
	groups          *repository.UserGroups
	accounts        *repository.Accounts
	transfers       *repository.Transfers
	notifications   *repository.Notifications
	requests        *repository.Requests
	requestPolicies *repository.RequestPolicies
	accessPolicies  *repository.AccessPolicies

	registry            *registry.Service
	codec               *registry.Codec
	requestService      *request.Service
	notificationService *notification.Service

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// New assembles a service. The zero-option call is fully functional with
// in-memory repositories and queues.
func New(options ...Option) (*Service, error) {
	s := &Service{done: make(chan struct{})}
	for _, option := range options {
		option(s)
	}
	if err := s.init(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) init() error {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	if s.ledger == nil {
		s.ledger = &operation.StaticLedger{}
	}
	if err := s.ensureQueues(); err != nil {
		return err
	}

	s.users = repository.NewUsers()
	s.groups = repository.NewUserGroups()
	s.accounts = repository.NewAccounts()
	s.transfers = repository.NewTransfers()
	s.notifications = repository.NewNotifications()
	s.requests = repository.NewRequests()
	s.requestPolicies = repository.NewRequestPolicies()
	s.accessPolicies = repository.NewAccessPolicies()

	s.notificationService = notification.New(s.notifications, s.notificationQueue)

	notifier := s.notificationService
	s.registry = registry.New(
		operation.NewTransfer(s.accounts, s.transfers, s.ledger, notifier),
		operation.NewAddAccount(s.accounts, s.users, notifier),
		operation.NewEditAccount(s.accounts, s.users, notifier),
		operation.NewAddUser(s.users, s.groups, notifier),
		operation.NewEditUser(s.users, s.groups, notifier),
		operation.NewAddUserGroup(s.groups, notifier),
		operation.NewEditUserGroup(s.groups, notifier),
		operation.NewRemoveUserGroup(s.groups, s.users, notifier),
		operation.NewAddAccessPolicy(s.accessPolicies, s.users, s.groups, notifier),
		operation.NewEditAccessPolicy(s.accessPolicies, s.users, s.groups, notifier),
		operation.NewRemoveAccessPolicy(s.accessPolicies, notifier),
		operation.NewAddRequestPolicy(s.requestPolicies, notifier),
		operation.NewEditRequestPolicy(s.requestPolicies, notifier),
		operation.NewRemoveRequestPolicy(s.requestPolicies, notifier),
		operation.NewUpgrade(s.fs, s.config.Upgrade.ArtifactURL, notifier),
	)
	for _, handler := range s.extraHandlers {
		s.registry.Register(handler)
	}
	if err := s.registry.Validate(model.OperationKinds()...); err != nil {
		return err
	}
	s.codec = registry.NewCodec(s.registry.Types())
	s.requestService = request.New(s.requests, s.users, s.requestPolicies, s.registry, s.config.DefaultPolicy, s.events)
	return nil
}

func (s *Service) ensureQueues() error {
	if s.events == nil {
		switch s.config.Messaging.Vendor {
		case messaging.VendorFs:
			config := mfs.DefaultConfig()
			config.BasePath = s.config.Messaging.BasePath + "/events"
			queue, err := mfs.NewQueue[request.Event](s.fs, config)
			if err != nil {
				return fmt.Errorf("failed to create event queue: %w", err)
			}
			s.events = queue
		default:
			config := mmemory.DefaultConfig()
			config.QueueBuffer = s.config.Messaging.QueueBuffer
			s.events = mmemory.NewQueue[request.Event](config)
		}
	}
	if s.notificationQueue == nil {
		switch s.config.Messaging.Vendor {
		case messaging.VendorFs:
			config := mfs.DefaultConfig()
			config.BasePath = s.config.Messaging.BasePath + "/notifications"
			queue, err := mfs.NewQueue[model.Notification](s.fs, config)
			if err != nil {
				return fmt.Errorf("failed to create notification queue: %w", err)
			}
			s.notificationQueue = queue
		default:
			config := mmemory.DefaultConfig()
			config.QueueBuffer = s.config.Messaging.QueueBuffer
			s.notificationQueue = mmemory.NewQueue[model.Notification](config)
		}
	}
	return nil
}

// Start launches the background dispatcher for scheduled and expiring
// requests.
func (s *Service) Start(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.config.Scheduler.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.requestService.DispatchScheduled(ctx, clock.Now())
			}
		}
	}()
}

// Shutdown stops the background dispatcher and waits for it to drain.
func (s *Service) Shutdown() {
	s.stopOnce.Do(func() { close(s.done) })
	s.wg.Wait()
}

// Requests returns the request lifecycle service.
func (s *Service) Requests() *request.Service { return s.requestService }

// Notifications returns the notification service.
func (s *Service) Notifications() *notification.Service { return s.notificationService }

// Codec returns the operation payload codec.
func (s *Service) Codec() *registry.Codec { return s.codec }

// Registry returns the operation handler registry.
func (s *Service) Registry() *registry.Service { return s.registry }

// Users returns the user repository.
func (s *Service) Users() *repository.Users { return s.users }

// UserGroups returns the user group repository.
func (s *Service) UserGroups() *repository.UserGroups { return s.groups }

// Accounts returns the account repository.
func (s *Service) Accounts() *repository.Accounts { return s.accounts }

// Transfers returns the transfer repository.
func (s *Service) Transfers() *repository.Transfers { return s.transfers }

// AccessPolicies returns the access policy repository.
func (s *Service) AccessPolicies() *repository.AccessPolicies { return s.accessPolicies }

// RequestPolicies returns the request policy repository.
func (s *Service) RequestPolicies() *repository.RequestPolicies { return s.requestPolicies }

// Bootstrap seeds users and request policies directly, bypassing approval.
// Intended for initial installation, before any approver exists.
func (s *Service) Bootstrap(ctx context.Context, users []*model.User, policies []*model.RequestPolicy) error {
	now := clock.Now()
	for _, user := range users {
		if user.ID == model.NilID {
			user.ID = idgen.New()
		}
		if user.Status == "" {
			user.Status = model.UserStatusActive
		}
		user.LastModifiedAt = now
		if err := user.Validate(); err != nil {
			return err
		}
		s.users.Insert(user.ID, user)
	}
	for _, requestPolicy := range policies {
		if requestPolicy.ID == model.NilID {
			requestPolicy.ID = idgen.New()
		}
		requestPolicy.LastModifiedAt = now
		if err := requestPolicy.Validate(); err != nil {
			return err
		}
		s.requestPolicies.Insert(requestPolicy.ID, requestPolicy)
	}
	return nil
}

// LoadPolicies reads a YAML document of request policies from URL and
// installs them.
func (s *Service) LoadPolicies(ctx context.Context, URL string) error {
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return fmt.Errorf("failed to load policies %v: %w", URL, err)
	}
	var policies []*model.RequestPolicy
	if err := yaml.Unmarshal(data, &policies); err != nil {
		return fmt.Errorf("failed to parse policies %v: %w", URL, err)
	}
	if err := s.Bootstrap(ctx, nil, policies); err != nil {
		return err
	}
	log.Printf("loaded %d request policies from %v", len(policies), URL)
	return nil
}
