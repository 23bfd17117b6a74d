package model

import (
	"math/big"
	"time"
)

// TransferStatus tracks an outbound transfer from submission to the chain
// until its confirmation.
type TransferStatus string

const (
	TransferStatusCreated    TransferStatus = "created"
	TransferStatusProcessing TransferStatus = "processing"
	TransferStatusCompleted  TransferStatus = "completed"
	TransferStatusFailed     TransferStatus = "failed"
)

// Transfer is the durable record of an asset movement started by an approved
// transfer request.
type Transfer struct {
	ID             ID                `json:"id" yaml:"id"`
	RequestID      ID                `json:"requestId" yaml:"requestId"`
	FromAccountID  ID                `json:"fromAccountId" yaml:"fromAccountId"`
	To             string            `json:"to" yaml:"to"`
	Amount         *big.Int          `json:"amount" yaml:"amount"`
	Fee            *big.Int          `json:"fee" yaml:"fee"`
	Network        string            `json:"network" yaml:"network"`
	Status         TransferStatus    `json:"status" yaml:"status"`
	Hash           string            `json:"hash,omitempty" yaml:"hash,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	CreatedAt      time.Time         `json:"createdAt" yaml:"createdAt"`
	LastModifiedAt time.Time         `json:"lastModifiedAt" yaml:"lastModifiedAt"`
}

// Validate enforces structural bounds.
func (t *Transfer) Validate() error {
	if t.To == "" {
		return NewValidationError("transfer destination must not be empty")
	}
	if t.Amount == nil || t.Amount.Sign() <= 0 {
		return NewValidationError("transfer amount must be positive")
	}
	return nil
}

// Clone returns an owned deep copy.
func (t *Transfer) Clone() *Transfer {
	out := *t
	if t.Amount != nil {
		out.Amount = new(big.Int).Set(t.Amount)
	}
	if t.Fee != nil {
		out.Fee = new(big.Int).Set(t.Fee)
	}
	out.Metadata = cloneMetadata(t.Metadata)
	return &out
}

// TransferInput is the payload proposing an asset transfer.
type TransferInput struct {
	FromAccountID ID                `json:"fromAccountId" yaml:"fromAccountId"`
	To            string            `json:"to" yaml:"to"`
	Amount        *big.Int          `json:"amount" yaml:"amount"`
	Fee           *big.Int          `json:"fee,omitempty" yaml:"fee,omitempty"`
	Network       string            `json:"network,omitempty" yaml:"network,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// TransferOperation carries the payload plus the fee and network resolved at
// creation time; TransferID links the record written when execution starts.
type TransferOperation struct {
	Input      TransferInput `json:"input" yaml:"input"`
	Fee        *big.Int      `json:"fee" yaml:"fee"`
	Network    string        `json:"network" yaml:"network"`
	TransferID *ID           `json:"transferId,omitempty" yaml:"transferId,omitempty"`
}

func (o *TransferOperation) Clone() *TransferOperation {
	out := *o
	if o.Input.Amount != nil {
		out.Input.Amount = new(big.Int).Set(o.Input.Amount)
	}
	if o.Input.Fee != nil {
		out.Input.Fee = new(big.Int).Set(o.Input.Fee)
	}
	out.Input.Metadata = cloneMetadata(o.Input.Metadata)
	if o.Fee != nil {
		out.Fee = new(big.Int).Set(o.Fee)
	}
	if o.TransferID != nil {
		id := *o.TransferID
		out.TransferID = &id
	}
	return &out
}
