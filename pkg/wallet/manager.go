package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// Manager は Session の実装で、登録されたコネクターと現在の接続を管理します。
type Manager struct {
	mu         sync.RWMutex
	connectors []Connector
	chains     []uint64
	chainID    uint64
	account    Account
}

var _ Session = (*Manager)(nil)

// NewManager は initialChainID を現在のチェーンとして Manager を生成します。
// chains は SwitchChain で切り替え可能なチェーンの一覧です。
func NewManager(initialChainID uint64, chains []uint64, connectors ...Connector) *Manager {
	return &Manager{
		connectors: connectors,
		chains:     chains,
		chainID:    initialChainID,
	}
}

func (m *Manager) Connectors() []Connector {
	return slices.Clone(m.connectors)
}

// Connect は id に一致するコネクターで接続します。
func (m *Manager) Connect(ctx context.Context, id ConnectorID) error {
	idx := slices.IndexFunc(m.connectors, func(c Connector) bool { return c.ID() == id })
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrConnectorNotFound, id)
	}
	connector := m.connectors[idx]

	account, err := connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%s への接続に失敗しました: %w", connector.Name(), err)
	}

	m.mu.Lock()
	m.account = account
	m.mu.Unlock()

	slog.InfoContext(ctx, "ウォレットに接続しました", "connector", connector.Name(), "address", account.Address().Hex())
	return nil
}

func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = nil
}

func (m *Manager) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account != nil
}

func (m *Manager) Address() (common.Address, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.account == nil {
		return common.Address{}, false
	}
	return m.account.Address(), true
}

func (m *Manager) ChainID() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.chainID
}

// SwitchChain は接続中のウォレットのチェーンを切り替えます。
func (m *Manager) SwitchChain(ctx context.Context, chainID uint64) error {
	if !slices.Contains(m.chains, chainID) {
		return fmt.Errorf("%w: %d", ErrUnsupportedChain, chainID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.account == nil {
		return ErrNotConnected
	}
	m.chainID = chainID

	slog.InfoContext(ctx, "チェーンを切り替えました", "chain_id", chainID)
	return nil
}

func (m *Manager) Account() (Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.account, m.account != nil
}
