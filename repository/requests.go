package repository

import (
	"strings"
	"time"

	"github.com/viant/custodian/model"
)

// Requests stores approval requests with secondary indexes by the users who
// voted, by proposer and by status. The status index is what the scheduler
// scans when dispatching due requests.
type Requests struct {
	*Memory[model.ID, *model.Request]
	approver *Index[model.ID, model.ID]
	proposer *Index[model.ID, model.ID]
	status   *Index[string, model.ID]
}

// NewRequests creates the request repository.
func NewRequests() *Requests {
	approver := NewIndex[model.ID, model.ID](model.CompareID, model.CompareID)
	proposer := NewIndex[model.ID, model.ID](model.CompareID, model.CompareID)
	status := NewIndex[string, model.ID](strings.Compare, model.CompareID)
	return &Requests{
		Memory: NewMemory[model.ID, *model.Request](
			ByEntries(approver, requestApproverEntries),
			ByEntries(proposer, requestProposerEntries),
			ByEntries(status, requestStatusEntries),
		),
		approver: approver,
		proposer: proposer,
		status:   status,
	}
}

func requestApproverEntries(request *model.Request) []Entry[model.ID, model.ID] {
	if request == nil {
		return nil
	}
	out := make([]Entry[model.ID, model.ID], 0, len(request.Approvals))
	for _, approval := range request.Approvals {
		out = append(out, Entry[model.ID, model.ID]{Group: approval.ApproverID, Key: request.ID})
	}
	return out
}

func requestProposerEntries(request *model.Request) []Entry[model.ID, model.ID] {
	if request == nil {
		return nil
	}
	return []Entry[model.ID, model.ID]{{Group: request.ProposedBy, Key: request.ID}}
}

func requestStatusEntries(request *model.Request) []Entry[string, model.ID] {
	if request == nil {
		return nil
	}
	return []Entry[string, model.ID]{{Group: string(request.Status), Key: request.ID}}
}

// FindByApprover returns the requests the user has voted on.
func (r *Requests) FindByApprover(userID model.ID) []*model.Request {
	return r.collect(r.approver.FindByGroup(userID))
}

// FindByProposer returns the requests the user proposed.
func (r *Requests) FindByProposer(userID model.ID) []*model.Request {
	return r.collect(r.proposer.FindByGroup(userID))
}

// FindByStatus returns the requests currently in status.
func (r *Requests) FindByStatus(status model.RequestStatus) []*model.Request {
	return r.collect(r.status.FindByGroup(string(status)))
}

// FindDue returns scheduled requests whose execution time is at or before
// now.
func (r *Requests) FindDue(now time.Time) []*model.Request {
	var out []*model.Request
	for _, request := range r.FindByStatus(model.RequestStatusScheduled) {
		if request.ExecutionPlan.Due(now) {
			out = append(out, request)
		}
	}
	return out
}

func (r *Requests) collect(keys []model.ID) []*model.Request {
	var out []*model.Request
	for _, key := range keys {
		if request, ok := r.Get(key); ok {
			out = append(out, request)
		}
	}
	return out
}
