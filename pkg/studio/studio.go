package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/shouni/gemini-coin-kit/pkg/coin"
	"github.com/shouni/gemini-coin-kit/pkg/domain"
	"github.com/shouni/gemini-coin-kit/pkg/imgutil"
	"github.com/shouni/gemini-coin-kit/pkg/wallet"
)

var (
	// ErrBusy は同じ操作が実行中のときに返されます。状態は変更されません。
	ErrBusy = errors.New("operation already in progress")
	// ErrWalletUnavailable はウォレットが構成されていない場合のエラーです。
	ErrWalletUnavailable = errors.New("wallet is not configured")
)

const (
	msgNoImage        = "No image to mint"
	msgNotConnected   = "Wallet not connected"
	msgClientNotReady = "Wallet client not ready. Please reconnect the wallet."
	msgNotConfigured  = "Coin minting is not configured"
	msgUnknownError   = "Unknown error"
)

// Dependencies は Studio が利用する外部コンポーネントです。起動時に一度だけ組み立てます。
// Images 以外は nil でも構いませんが、その場合ウォレット操作とミントは失敗します。
type Dependencies struct {
	Images    ImageRequester
	Wallet    wallet.Session
	Uploaders coin.UploaderFactory
	Creator   coin.Creator
}

// Options はミント時の固定パラメータです。ゼロ値の項目には既定値が入ります。
type Options struct {
	RequiredChainID uint64
	Currency        domain.DeployCurrency
	GasMultiplier   uint64
}

func (o Options) withDefaults() Options {
	if o.RequiredChainID == 0 {
		o.RequiredChainID = domain.BaseMainnetChainID
	}
	if o.Currency == "" {
		o.Currency = domain.CurrencyZORA
	}
	if o.GasMultiplier == 0 {
		o.GasMultiplier = domain.DefaultGasMultiplier
	}
	return o
}

// State は画面に表示する状態のスナップショットです。
type State struct {
	Prompt    string
	Image     string
	Loading   bool
	Error     string
	ShowModal bool

	CoinName   string
	CoinSymbol string
	CoinDesc   string
	Mint       domain.MintState

	Address          common.Address
	IsConnected      bool
	ChainID          uint64
	NeedsChainSwitch bool
	CanMint          bool
}

// Studio は画像生成からコインのミントまでの画面状態と操作を管理します。
type Studio struct {
	deps Dependencies
	opts Options

	mu         sync.Mutex
	prompt     string
	image      string
	loading    bool
	err        string
	showModal  bool
	coinName   string
	coinSymbol string
	coinDesc   string
	mint       domain.MintState
}

// New は Studio を生成します。
func New(deps Dependencies, opts Options) (*Studio, error) {
	if deps.Images == nil {
		return nil, errors.New("image requester is required")
	}
	return &Studio{
		deps: deps,
		opts: opts.withDefaults(),
		mint: domain.MintIdle{},
	}, nil
}

// State は現在の状態を返します。
func (s *Studio) State() State {
	s.mu.Lock()
	st := State{
		Prompt:     s.prompt,
		Image:      s.image,
		Loading:    s.loading,
		Error:      s.err,
		ShowModal:  s.showModal,
		CoinName:   s.coinName,
		CoinSymbol: s.coinSymbol,
		CoinDesc:   s.coinDesc,
		Mint:       s.mint,
	}
	s.mu.Unlock()

	if w := s.deps.Wallet; w != nil {
		st.Address, st.IsConnected = w.Address()
		st.ChainID = w.ChainID()
	}
	st.NeedsChainSwitch = st.IsConnected && st.ChainID != s.opts.RequiredChainID
	st.CanMint = st.Image != "" && st.IsConnected && st.ChainID == s.opts.RequiredChainID
	return st
}

func (s *Studio) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = prompt
}

// Generate は現在のプロンプトで画像を生成します。
// 空白だけのプロンプトではリクエストを送らずに nil を返します。
func (s *Studio) Generate(ctx context.Context) error {
	s.mu.Lock()
	prompt := s.prompt
	if strings.TrimSpace(prompt) == "" {
		s.mu.Unlock()
		return nil
	}
	if s.loading {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loading = true
	s.err = ""
	s.image = ""
	s.mu.Unlock()

	slog.InfoContext(ctx, "画像生成を開始します", "prompt_length", len(prompt))
	imageURL, err := s.deps.Images.RequestImage(ctx, prompt)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = errorMessage(err)
		return err
	}
	s.image = imageURL
	return nil
}

// Download は画像のファイル名とバイト列を返します。画像がない場合 ok は false です。
func (s *Studio) Download() (name string, data []byte, ok bool) {
	s.mu.Lock()
	image := s.image
	s.mu.Unlock()

	if image == "" {
		return "", nil, false
	}
	data, _, err := imgutil.DecodeDataURL(image)
	if err != nil {
		slog.Warn("画像の data URL を解析できません", "error", err)
		return "", nil, false
	}
	return imgutil.DefaultDownloadName, data, true
}

// OpenMintModal はミント用のモーダルを開きます。画像がなければ何もせず false を返します。
func (s *Studio) OpenMintModal() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image == "" {
		return false
	}
	s.showModal = true
	return true
}

func (s *Studio) CloseMintModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showModal = false
}

func (s *Studio) SetCoinFields(name, symbol, desc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coinName = name
	s.coinSymbol = symbol
	s.coinDesc = desc
}

// Connect は id のコネクターでウォレットに接続します。
func (s *Studio) Connect(ctx context.Context, id wallet.ConnectorID) error {
	if s.deps.Wallet == nil {
		return ErrWalletUnavailable
	}
	return s.deps.Wallet.Connect(ctx, id)
}

// NeedsChainSwitch は接続中のウォレットが必要なチェーン以外にいるかを返します。
func (s *Studio) NeedsChainSwitch() bool {
	return s.State().NeedsChainSwitch
}

// SwitchToRequiredChain はウォレットのチェーンをミントに必要なチェーンへ切り替えます。
func (s *Studio) SwitchToRequiredChain(ctx context.Context) error {
	if s.deps.Wallet == nil {
		return ErrWalletUnavailable
	}
	return s.deps.Wallet.SwitchChain(ctx, s.opts.RequiredChainID)
}

// CanMint は画像があり、ウォレットが接続済みで、必要なチェーンにいる場合に true です。
func (s *Studio) CanMint() bool {
	return s.State().CanMint
}

// Mint は画像とメタデータをアップロードしてからコインを作成します。
// 状態は MintUploading, MintMinting を経て MintMinted か MintFailed になります。
func (s *Studio) Mint(ctx context.Context) error {
	s.mu.Lock()
	if domain.IsMintInProgress(s.mint) {
		s.mu.Unlock()
		return ErrBusy
	}
	s.mint = domain.MintUploading{}
	image := s.image
	builder := coin.NewMetadataBuilder().
		WithName(s.coinName).
		WithSymbol(s.coinSymbol).
		WithDescription(s.coinDesc)
	s.mu.Unlock()

	result, err := s.runMint(ctx, image, builder)
	if err != nil {
		slog.ErrorContext(ctx, "コインのミントに失敗しました", "error", err)
		s.setMint(domain.MintFailed{Message: errorMessage(err)})
		return err
	}

	slog.InfoContext(ctx, "コインをミントしました", "address", result.Address.Hex(), "tx", result.TxHash.Hex())
	s.setMint(domain.MintMinted{Address: result.Address})
	return nil
}

func (s *Studio) runMint(ctx context.Context, image string, builder *coin.MetadataBuilder) (*domain.DeployResult, error) {
	if image == "" {
		return nil, errors.New(msgNoImage)
	}
	if s.deps.Wallet == nil {
		return nil, errors.New(msgNotConnected)
	}
	address, ok := s.deps.Wallet.Address()
	if !ok {
		return nil, errors.New(msgNotConnected)
	}
	account, ok := s.deps.Wallet.Account()
	if !ok {
		return nil, errors.New(msgClientNotReady)
	}
	if s.deps.Uploaders == nil || s.deps.Creator == nil {
		return nil, errors.New(msgNotConfigured)
	}

	data, _, err := imgutil.DecodeDataURL(image)
	if err != nil {
		return nil, err
	}
	metadata, err := builder.WithImage(data, imgutil.CoinImageName).Upload(ctx, s.deps.Uploaders.ForCreator(address))
	if err != nil {
		return nil, err
	}

	s.setMint(domain.MintMinting{})
	params := domain.CoinParams{
		MetadataParameters: metadata,
		PayoutRecipient:    address,
		Currency:           s.opts.Currency,
		ChainID:            s.opts.RequiredChainID,
	}
	result, err := s.deps.Creator.CreateCoin(ctx, params, account, s.deps.Wallet.ChainID(), domain.DeployOptions{GasMultiplier: s.opts.GasMultiplier})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("coin creator returned no result")
	}
	return result, nil
}

func (s *Studio) setMint(state domain.MintState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mint = state
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgUnknownError
}
