package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shouni/go-remote-io/pkg/gcsfactory"

	"github.com/shouni/gemini-coin-kit/pkg/coin"
	"github.com/shouni/gemini-coin-kit/pkg/config"
	"github.com/shouni/gemini-coin-kit/pkg/studio"
	"github.com/shouni/gemini-coin-kit/pkg/wallet"
)

var errNoUploader = errors.New("either gcs_bucket or uploader_url must be configured to mint")

// mintDependencies はミントに必要な依存関係を組み立てます。成功時に返す cleanup で接続を閉じます。
func mintDependencies(ctx context.Context, cfg *config.Config) (studio.Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	key, err := wallet.NewKeyConnector(cfg.PrivateKey)
	if err != nil {
		return studio.Dependencies{}, nil, fmt.Errorf("WALLET_PRIVATE_KEY: %w", err)
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return studio.Dependencies{}, nil, fmt.Errorf("RPC への接続に失敗しました: %w", err)
	}
	closers = append(closers, client.Close)

	// 鍵ウォレットは RPC が指すチェーンにいるものとして扱う
	rpcChainID, err := client.ChainID(ctx)
	if err != nil {
		cleanup()
		return studio.Dependencies{}, nil, fmt.Errorf("チェーンIDの取得に失敗しました: %w", err)
	}

	uploaders, closeUploader, err := newUploaderFactory(ctx, cfg)
	if err != nil {
		cleanup()
		return studio.Dependencies{}, nil, err
	}
	closers = append(closers, closeUploader)

	return studio.Dependencies{
		Images:    studio.NewHTTPImageClient(cfg.APIBaseURL, nil),
		Wallet:    wallet.NewManager(rpcChainID.Uint64(), []uint64{cfg.ChainID}, key),
		Uploaders: uploaders,
		Creator:   coin.NewFactoryCreator(client, cfg.Factory()),
	}, cleanup, nil
}

// newUploaderFactory は GCS バケットが設定されていれば GCS を、なければアップロードサービスを使います。
func newUploaderFactory(ctx context.Context, cfg *config.Config) (coin.UploaderFactory, func(), error) {
	switch {
	case cfg.GCSBucket != "":
		ioFactory, err := gcsfactory.New(ctx)
		if err != nil {
			return nil, nil, err
		}
		writer, err := ioFactory.OutputWriter()
		if err != nil {
			_ = ioFactory.Close()
			return nil, nil, err
		}
		factory := coin.GCSUploaderFactory{Writer: writer, Bucket: cfg.GCSBucket}
		return factory, func() { _ = ioFactory.Close() }, nil
	case cfg.UploaderURL != "":
		return coin.NewHTTPUploaderFactory(cfg.UploaderURL, cfg.ZoraAPIKey), func() {}, nil
	default:
		return nil, nil, errNoUploader
	}
}
