package studio

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shouni/go-http-kit/pkg/httpkit"

	"github.com/shouni/gemini-coin-kit/pkg/coin"
	"github.com/shouni/gemini-coin-kit/pkg/domain"
	"github.com/shouni/gemini-coin-kit/pkg/wallet"
)

// mockImageRequester は ImageRequester のモックなのだ。
type mockImageRequester struct {
	requestFunc func(ctx context.Context, prompt string) (string, error)
	calls       int
	lastPrompt  string
}

func (m *mockImageRequester) RequestImage(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.requestFunc != nil {
		return m.requestFunc(ctx, prompt)
	}
	return "data:image/png;base64,AAAA", nil
}

// mockHTTPClient は httpkit.ClientInterface を実装します。使わないメソッドは埋め込みに任せるのだ。
type mockHTTPClient struct {
	httpkit.ClientInterface
	postFunc func(ctx context.Context, url string, data any) ([]byte, error)
}

func (m *mockHTTPClient) PostJSONAndFetchBytes(ctx context.Context, url string, data any) ([]byte, error) {
	return m.postFunc(ctx, url, data)
}

type mockAccount struct {
	address common.Address
}

func (m *mockAccount) Address() common.Address { return m.address }

func (m *mockAccount) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return tx, nil
}

// mockSession は wallet.Session のモックなのだ。
// connected が true でも clientReady が false ならアカウントを返さない。
type mockSession struct {
	connected   bool
	clientReady bool
	address     common.Address
	chainID     uint64
	switchErr   error
}

func (m *mockSession) Connectors() []wallet.Connector { return nil }

func (m *mockSession) Connect(ctx context.Context, id wallet.ConnectorID) error {
	m.connected = true
	m.clientReady = true
	return nil
}

func (m *mockSession) Disconnect() { m.connected = false }

func (m *mockSession) IsConnected() bool { return m.connected }

func (m *mockSession) Address() (common.Address, bool) {
	if !m.connected {
		return common.Address{}, false
	}
	return m.address, true
}

func (m *mockSession) ChainID() uint64 { return m.chainID }

func (m *mockSession) SwitchChain(ctx context.Context, chainID uint64) error {
	if m.switchErr != nil {
		return m.switchErr
	}
	m.chainID = chainID
	return nil
}

func (m *mockSession) Account() (wallet.Account, bool) {
	if !m.connected || !m.clientReady {
		return nil, false
	}
	return &mockAccount{address: m.address}, true
}

// mockUploader は Uploader のモックなのだ。
type mockUploader struct {
	uploadFileFunc func(ctx context.Context, name string) (string, error)
	fileName       string
	creator        common.Address
}

func (m *mockUploader) UploadFile(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	m.fileName = name
	if m.uploadFileFunc != nil {
		return m.uploadFileFunc(ctx, name)
	}
	return "ipfs://image", nil
}

func (m *mockUploader) UploadJSON(ctx context.Context, data []byte) (string, error) {
	return "ipfs://metadata", nil
}

func (m *mockUploader) factory() coin.UploaderFactory {
	return coin.UploaderFactoryFunc(func(creator common.Address) coin.Uploader {
		m.creator = creator
		return m
	})
}

// mockCreator は coin.Creator のモックなのだ。
type mockCreator struct {
	createFunc func(ctx context.Context, params domain.CoinParams) (*domain.DeployResult, error)
	calls      int
	params     domain.CoinParams
	chainID    uint64
	opts       domain.DeployOptions
}

func (m *mockCreator) CreateCoin(ctx context.Context, params domain.CoinParams, account wallet.Account, walletChainID uint64, opts domain.DeployOptions) (*domain.DeployResult, error) {
	m.calls++
	m.params = params
	m.chainID = walletChainID
	m.opts = opts
	if m.createFunc != nil {
		return m.createFunc(ctx, params)
	}
	return &domain.DeployResult{Address: common.HexToAddress("0x00000000000000000000000000000000c0111111")}, nil
}
