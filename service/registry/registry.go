// Package registry dispatches requests to per-operation handlers. Each
// operation kind registers one handler covering the full lifecycle: Create
// normalizes and stages the operation when a request is submitted, the
// optional create hook runs side effects after the request is persisted, and
// Execute applies the approved operation.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/viant/custodian/model"
)

// StageStatus reports how far an execution got.
type StageStatus string

const (
	// StageCompleted indicates the operation was fully applied.
	StageCompleted StageStatus = "completed"

	// StageProcessing indicates the operation was handed to an external
	// system and completes asynchronously.
	StageProcessing StageStatus = "processing"
)

// Stage is the outcome of executing an operation. Operation, when set,
// carries payload updates (generated identifiers, resolved fees) to persist
// on the request.
type Stage struct {
	Status    StageStatus
	Operation *model.Operation
}

// Completed builds a completed stage carrying the updated operation.
func Completed(operation *model.Operation) *Stage {
	return &Stage{Status: StageCompleted, Operation: operation}
}

// Processing builds a processing stage carrying the updated operation.
func Processing(operation *model.Operation) *Stage {
	return &Stage{Status: StageProcessing, Operation: operation}
}

// Handler implements one operation kind.
type Handler interface {
	// Kind returns the operation kind this handler serves.
	Kind() model.OperationKind

	// Create validates the operation payload against current state and
	// stages whatever the operation needs before the request is stored,
	// mutating request.Operation in place (e.g. allocating identifiers).
	Create(ctx context.Context, request *model.Request) error

	// Execute applies the approved operation.
	Execute(ctx context.Context, request *model.Request) (*Stage, error)
}

// CreateHook is implemented by handlers that run side effects after the
// request has been persisted, such as notifying eligible approvers.
type CreateHook interface {
	AfterCreate(ctx context.Context, request *model.Request) error
}

// Finalizer is implemented by handlers of asynchronous operations to settle
// their records once the external outcome is known.
type Finalizer interface {
	Finalize(ctx context.Context, request *model.Request, execErr error) error
}

// Service maps operation kinds to their handlers.
type Service struct {
	types    *Types
	handlers map[model.OperationKind]Handler
	mux      sync.RWMutex
}

// Types returns the payload type registry.
func (s *Service) Types() *Types {
	return s.types
}

// Lookup returns the handler for kind.
func (s *Service) Lookup(kind model.OperationKind) (Handler, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	handler, ok := s.handlers[kind]
	if !ok {
		return nil, model.NewValidationError("no handler registered for operation kind %q", kind)
	}
	return handler, nil
}

// Register registers a handler under its kind, replacing any previous one.
func (s *Service) Register(handler Handler) {
	s.mux.Lock()
	defer s.mux.Unlock()
	s.handlers[handler.Kind()] = handler
}

// Validate asserts a handler exists for every listed kind, so a partial
// dispatch table is caught at wiring time rather than on first use.
func (s *Service) Validate(kinds ...model.OperationKind) error {
	s.mux.RLock()
	defer s.mux.RUnlock()
	for _, kind := range kinds {
		if _, ok := s.handlers[kind]; !ok {
			return fmt.Errorf("no handler registered for operation kind %q", kind)
		}
	}
	return nil
}

// Kinds returns the registered operation kinds.
func (s *Service) Kinds() []model.OperationKind {
	s.mux.RLock()
	defer s.mux.RUnlock()
	out := make([]model.OperationKind, 0, len(s.handlers))
	for kind := range s.handlers {
		out = append(out, kind)
	}
	return out
}

// New creates a handler registry.
func New(handlers ...Handler) *Service {
	ret := &Service{
		types:    NewTypes(),
		handlers: make(map[model.OperationKind]Handler),
	}
	for _, handler := range handlers {
		if handler != nil {
			ret.Register(handler)
		}
	}
	return ret
}
