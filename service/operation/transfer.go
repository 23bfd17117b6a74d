package operation

import (
	"context"
	"fmt"
	"math/big"

	"github.com/viant/custodian/internal/clock"
	"github.com/viant/custodian/internal/idgen"
	"github.com/viant/custodian/model"
	"github.com/viant/custodian/repository"
	"github.com/viant/custodian/service/registry"
)

// Ledger abstracts the blockchain gateway used to resolve transaction fees
// and submit signed transfers.
type Ledger interface {
	// TransactionFee quotes the fee for moving amount out of account.
	TransactionFee(ctx context.Context, account *model.Account, amount *big.Int) (*big.Int, error)

	// DefaultNetwork returns the network used when the proposer named none.
	DefaultNetwork(blockchain string) string

	// Submit hands the transfer to the chain and returns the transaction
	// hash. Confirmation arrives asynchronously.
	Submit(ctx context.Context, transfer *model.Transfer) (string, error)
}

// Transfer handles asset transfer requests.
type Transfer struct {
	approverNotifier
	accounts  *repository.Accounts
	transfers *repository.Transfers
	ledger    Ledger
}

// NewTransfer creates the transfer handler.
func NewTransfer(accounts *repository.Accounts, transfers *repository.Transfers, ledger Ledger, notifier Notifier) *Transfer {
	return &Transfer{
		approverNotifier: approverNotifier{notifier: notifier},
		accounts:         accounts,
		transfers:        transfers,
		ledger:           ledger,
	}
}

func (h *Transfer) Kind() model.OperationKind { return model.OperationTransfer }

// Create validates the payload and pins the fee and network the transfer
// will execute with.
func (h *Transfer) Create(ctx context.Context, request *model.Request) error {
	op := request.Operation.Transfer
	if op.Input.To == "" {
		return model.NewValidationError("transfer destination must not be empty")
	}
	if op.Input.Amount == nil || op.Input.Amount.Sign() <= 0 {
		return model.NewValidationError("transfer amount must be positive")
	}
	account, ok := h.accounts.Get(op.Input.FromAccountID)
	if !ok {
		return fmt.Errorf("account %v: %w", op.Input.FromAccountID, model.ErrNotFound)
	}
	if op.Input.Fee != nil {
		op.Fee = new(big.Int).Set(op.Input.Fee)
	} else {
		fee, err := h.ledger.TransactionFee(ctx, account, op.Input.Amount)
		if err != nil {
			return fmt.Errorf("failed to quote transaction fee: %w", err)
		}
		op.Fee = fee
	}
	op.Network = op.Input.Network
	if op.Network == "" {
		op.Network = h.ledger.DefaultNetwork(account.Blockchain)
	}
	return nil
}

// Execute writes the transfer record and submits it to the ledger. The
// request stays in processing until the outcome is finalized.
func (h *Transfer) Execute(ctx context.Context, request *model.Request) (*registry.Stage, error) {
	op := request.Operation.Transfer.Clone()
	if _, ok := h.accounts.Get(op.Input.FromAccountID); !ok {
		return nil, fmt.Errorf("account %v: %w", op.Input.FromAccountID, model.ErrNotFound)
	}

	now := clock.Now()
	transfer := &model.Transfer{
		ID:             idgen.New(),
		RequestID:      request.ID,
		FromAccountID:  op.Input.FromAccountID,
		To:             op.Input.To,
		Amount:         new(big.Int).Set(op.Input.Amount),
		Fee:            op.Fee,
		Network:        op.Network,
		Status:         model.TransferStatusProcessing,
		Metadata:       op.Input.Metadata,
		CreatedAt:      now,
		LastModifiedAt: now,
	}
	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	hash, err := h.ledger.Submit(ctx, transfer)
	if err != nil {
		transfer.Status = model.TransferStatusFailed
		h.transfers.Insert(transfer.ID, transfer)
		return nil, model.NewExecutionError("ledger rejected transfer: %v", err)
	}
	transfer.Hash = hash
	h.transfers.Insert(transfer.ID, transfer)

	transferID := transfer.ID
	op.TransferID = &transferID
	return registry.Processing(&model.Operation{Transfer: op}), nil
}

// Finalize settles the transfer record once the chain outcome is known.
func (h *Transfer) Finalize(ctx context.Context, request *model.Request, execErr error) error {
	op := request.Operation.Transfer
	if op == nil || op.TransferID == nil {
		return nil
	}
	transfer, ok := h.transfers.Get(*op.TransferID)
	if !ok {
		return fmt.Errorf("transfer %v: %w", *op.TransferID, model.ErrNotFound)
	}
	if execErr != nil {
		transfer.Status = model.TransferStatusFailed
	} else {
		transfer.Status = model.TransferStatusCompleted
	}
	transfer.LastModifiedAt = clock.Now()
	h.transfers.Insert(transfer.ID, transfer)
	return nil
}
