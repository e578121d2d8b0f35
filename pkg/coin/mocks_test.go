package coin

import (
	"context"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// mockUploader は Uploader のモックなのだ。
type mockUploader struct {
	uploadFileFunc func(ctx context.Context, name, mimeType string, data []byte) (string, error)
	uploadJSONFunc func(ctx context.Context, data []byte) (string, error)

	fileName string
	fileMime string
	jsonBody []byte
}

func (m *mockUploader) UploadFile(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	m.fileName = name
	m.fileMime = mimeType
	if m.uploadFileFunc != nil {
		return m.uploadFileFunc(ctx, name, mimeType, data)
	}
	return "ipfs://image", nil
}

func (m *mockUploader) UploadJSON(ctx context.Context, data []byte) (string, error) {
	m.jsonBody = data
	if m.uploadJSONFunc != nil {
		return m.uploadJSONFunc(ctx, data)
	}
	return "ipfs://metadata", nil
}

// mockOutputWriter は remoteio.OutputWriter のモックで、書き込まれたオブジェクトを URI ごとに記録するのだ。
type mockOutputWriter struct {
	err     error
	objects map[string][]byte
	mimes   map[string]string
}

func (m *mockOutputWriter) Write(ctx context.Context, uri string, r io.Reader, contentType string) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if m.objects == nil {
		m.objects = make(map[string][]byte)
		m.mimes = make(map[string]string)
	}
	m.objects[uri] = data
	m.mimes[uri] = contentType
	return nil
}

// mockChainClient は ChainClient のモックなのだ。未設定の関数は成功を返す。
type mockChainClient struct {
	chainID        uint64
	estimate       uint64
	estimateErr    error
	receiptFunc    func(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	sendErr        error
	sent           *types.Transaction
	estimatedCalls int
}

func (m *mockChainClient) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).SetUint64(m.chainID), nil
}

func (m *mockChainClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return 7, nil
}

func (m *mockChainClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000), nil
}

func (m *mockChainClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: big.NewInt(10_000_000)}, nil
}

func (m *mockChainClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	m.estimatedCalls++
	return m.estimate, m.estimateErr
}

func (m *mockChainClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	m.sent = tx
	return m.sendErr
}

func (m *mockChainClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if m.receiptFunc != nil {
		return m.receiptFunc(ctx, hash)
	}
	return nil, ethereum.NotFound
}

// mockAccount は署名せずにトランザクションを返すのだ。
type mockAccount struct {
	address common.Address
	signed  int
}

func (m *mockAccount) Address() common.Address { return m.address }

func (m *mockAccount) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	m.signed++
	return tx, nil
}
