package coin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/shouni/gemini-coin-kit/pkg/domain"
	"github.com/shouni/gemini-coin-kit/pkg/wallet"
)

var (
	// DefaultFactoryAddress は Base 上のコインファクトリーのアドレスです。
	DefaultFactoryAddress = common.HexToAddress("0x777777751622c0d3258f214F9DF38E35BF45baF3")
	// ZoraTokenAddress は Base 上の ZORA トークンのアドレスです。
	ZoraTokenAddress = common.HexToAddress("0x1111111111166b7FE7bd91427724B487980aFc69")
)

const (
	poolConfigVersion   uint8 = 4
	defaultPollInterval       = 2 * time.Second
)

var (
	ErrChainMismatch     = errors.New("wallet chain does not match the coin chain")
	ErrTransactionFailed = errors.New("coin deployment transaction reverted")
	ErrCoinNotFound      = errors.New("CoinCreated event not found in receipt")
)

const factoryABIJSON = `[
  {"type":"function","name":"deploy","stateMutability":"payable",
   "inputs":[
     {"name":"payoutRecipient","type":"address"},
     {"name":"owners","type":"address[]"},
     {"name":"uri","type":"string"},
     {"name":"name","type":"string"},
     {"name":"symbol","type":"string"},
     {"name":"poolConfig","type":"bytes"},
     {"name":"platformReferrer","type":"address"},
     {"name":"orderSize","type":"uint256"}],
   "outputs":[{"name":"coin","type":"address"},{"name":"coinsPurchased","type":"uint256"}]},
  {"type":"event","name":"CoinCreated","anonymous":false,
   "inputs":[
     {"name":"caller","type":"address","indexed":true},
     {"name":"payoutRecipient","type":"address","indexed":true},
     {"name":"platformReferrer","type":"address","indexed":true},
     {"name":"currency","type":"address","indexed":false},
     {"name":"uri","type":"string","indexed":false},
     {"name":"name","type":"string","indexed":false},
     {"name":"symbol","type":"string","indexed":false},
     {"name":"coin","type":"address","indexed":false},
     {"name":"pool","type":"address","indexed":false},
     {"name":"version","type":"string","indexed":false}]}
]`

var factoryABI = mustParseABI(factoryABIJSON)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("factory ABI の解析に失敗しました: %v", err))
	}
	return parsed
}

// ChainClient はコイン作成に必要な ethclient.Client のサブセットです。
type ChainClient interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasTipCap(ctx context.Context) (*big.Int, error)
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Creator はコインをオンチェーンで作成します。
type Creator interface {
	CreateCoin(ctx context.Context, params domain.CoinParams, account wallet.Account, walletChainID uint64, opts domain.DeployOptions) (*domain.DeployResult, error)
}

// FactoryCreator はコインファクトリーの deploy を呼び出す Creator です。
type FactoryCreator struct {
	client       ChainClient
	factory      common.Address
	pollInterval time.Duration
}

var _ Creator = (*FactoryCreator)(nil)

// NewFactoryCreator は FactoryCreator を生成します。factory がゼロアドレスの場合は DefaultFactoryAddress を使います。
func NewFactoryCreator(client ChainClient, factory common.Address) *FactoryCreator {
	if factory == (common.Address{}) {
		factory = DefaultFactoryAddress
	}
	return &FactoryCreator{
		client:       client,
		factory:      factory,
		pollInterval: defaultPollInterval,
	}
}

// CurrencyAddress は取引通貨に対応するトークンアドレスを返します。ETH はゼロアドレスです。
func CurrencyAddress(c domain.DeployCurrency) (common.Address, error) {
	switch c {
	case domain.CurrencyZORA:
		return ZoraTokenAddress, nil
	case domain.CurrencyETH:
		return common.Address{}, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported currency: %q", c)
	}
}

// ApplyGasMultiplier は見積もったガスに multiplier/100 を掛けます。
func ApplyGasMultiplier(estimate, multiplier uint64) uint64 {
	if multiplier == 0 {
		multiplier = domain.DefaultGasMultiplier
	}
	return estimate * multiplier / 100
}

// CreateCoin は deploy トランザクションを署名して送信し、作成されたコインのアドレスを返します。
func (f *FactoryCreator) CreateCoin(ctx context.Context, params domain.CoinParams, account wallet.Account, walletChainID uint64, opts domain.DeployOptions) (*domain.DeployResult, error) {
	if walletChainID != params.ChainID {
		return nil, fmt.Errorf("%w: wallet=%d coin=%d", ErrChainMismatch, walletChainID, params.ChainID)
	}
	rpcChainID, err := f.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("チェーンIDの取得に失敗しました: %w", err)
	}
	if rpcChainID.Uint64() != params.ChainID {
		return nil, fmt.Errorf("%w: rpc=%d coin=%d", ErrChainMismatch, rpcChainID.Uint64(), params.ChainID)
	}

	calldata, err := packDeploy(params)
	if err != nil {
		return nil, err
	}

	from := account.Address()
	estimate, err := f.client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &f.factory, Data: calldata})
	if err != nil {
		return nil, fmt.Errorf("ガスの見積もりに失敗しました: %w", err)
	}
	gasLimit := ApplyGasMultiplier(estimate, opts.GasMultiplier)

	nonce, err := f.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("nonce の取得に失敗しました: %w", err)
	}
	tipCap, err := f.client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, fmt.Errorf("チップの取得に失敗しました: %w", err)
	}
	head, err := f.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("最新ブロックの取得に失敗しました: %w", err)
	}
	feeCap := new(big.Int).Set(tipCap)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	chainID := new(big.Int).SetUint64(params.ChainID)
	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &f.factory,
		Value:     big.NewInt(0),
		Data:      calldata,
	})

	signed, err := account.SignTx(tx, chainID)
	if err != nil {
		return nil, fmt.Errorf("トランザクションの署名に失敗しました: %w", err)
	}
	if err := f.client.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("トランザクションの送信に失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "コイン作成トランザクションを送信しました", "tx", signed.Hash().Hex(), "gas", gasLimit)

	receipt, err := f.waitReceipt(ctx, signed.Hash())
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", ErrTransactionFailed, signed.Hash().Hex())
	}

	coinAddr, err := f.coinFromReceipt(receipt)
	if err != nil {
		return nil, err
	}
	return &domain.DeployResult{Address: coinAddr, TxHash: signed.Hash()}, nil
}

func packDeploy(params domain.CoinParams) ([]byte, error) {
	currency, err := CurrencyAddress(params.Currency)
	if err != nil {
		return nil, err
	}
	poolConfig, err := encodePoolConfig(currency)
	if err != nil {
		return nil, err
	}
	data, err := factoryABI.Pack("deploy",
		params.PayoutRecipient,
		[]common.Address{params.PayoutRecipient},
		params.URI,
		params.Name,
		params.Symbol,
		poolConfig,
		common.Address{},
		big.NewInt(0),
	)
	if err != nil {
		return nil, fmt.Errorf("deploy 呼び出しのエンコードに失敗しました: %w", err)
	}
	return data, nil
}

func encodePoolConfig(currency common.Address) ([]byte, error) {
	uint8Type, err := abi.NewType("uint8", "", nil)
	if err != nil {
		return nil, err
	}
	addressType, err := abi.NewType("address", "", nil)
	if err != nil {
		return nil, err
	}
	args := abi.Arguments{{Type: uint8Type}, {Type: addressType}}
	return args.Pack(poolConfigVersion, currency)
}

func (f *FactoryCreator) waitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(f.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := f.client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, fmt.Errorf("レシートの取得に失敗しました: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *FactoryCreator) coinFromReceipt(receipt *types.Receipt) (common.Address, error) {
	event := factoryABI.Events["CoinCreated"]
	for _, lg := range receipt.Logs {
		if lg.Address != f.factory || len(lg.Topics) == 0 || lg.Topics[0] != event.ID {
			continue
		}
		values := make(map[string]any)
		if err := factoryABI.UnpackIntoMap(values, "CoinCreated", lg.Data); err != nil {
			return common.Address{}, fmt.Errorf("CoinCreated のデコードに失敗しました: %w", err)
		}
		addr, ok := values["coin"].(common.Address)
		if !ok {
			return common.Address{}, ErrCoinNotFound
		}
		return addr, nil
	}
	return common.Address{}, ErrCoinNotFound
}
