package operation

import (
	"context"
	"math/big"

	"github.com/viant/custodian/internal/idgen"
	"github.com/viant/custodian/model"
)

// StaticLedger is a Ledger with fixed fee and network answers. It serves
// deployments without a chain gateway and the test suites.
type StaticLedger struct {
	Fee     *big.Int
	Network string

	// SubmitFunc, when set, overrides Submit.
	SubmitFunc func(ctx context.Context, transfer *model.Transfer) (string, error)
}

func (l *StaticLedger) TransactionFee(ctx context.Context, account *model.Account, amount *big.Int) (*big.Int, error) {
	if l.Fee == nil {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(l.Fee), nil
}

func (l *StaticLedger) DefaultNetwork(blockchain string) string {
	if l.Network == "" {
		return "mainnet"
	}
	return l.Network
}

func (l *StaticLedger) Submit(ctx context.Context, transfer *model.Transfer) (string, error) {
	if l.SubmitFunc != nil {
		return l.SubmitFunc(ctx, transfer)
	}
	return idgen.New().String(), nil
}
