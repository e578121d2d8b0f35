package wallet

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// mockConnector は Connector のモックなのだ。
type mockConnector struct {
	id          ConnectorID
	name        string
	connectFunc func(ctx context.Context) (Account, error)
	calls       int
}

func (m *mockConnector) ID() ConnectorID { return m.id }
func (m *mockConnector) Name() string    { return m.name }

func (m *mockConnector) Connect(ctx context.Context) (Account, error) {
	m.calls++
	if m.connectFunc != nil {
		return m.connectFunc(ctx)
	}
	return &mockAccount{address: common.HexToAddress("0x00000000000000000000000000000000000000aa")}, nil
}

type mockAccount struct {
	address common.Address
}

func (m *mockAccount) Address() common.Address { return m.address }

func (m *mockAccount) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return tx, nil
}
