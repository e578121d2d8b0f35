package domain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// BaseMainnetChainID は Base メインネットのチェーンIDです。
const BaseMainnetChainID uint64 = 8453

// DefaultGasMultiplier はガス見積もりに掛けるパーセンテージ (120 = 1.2倍) です。
const DefaultGasMultiplier uint64 = 120

// DeployCurrency はコインのプールで使用する報酬通貨です。
type DeployCurrency string

const (
	CurrencyZORA DeployCurrency = "ZORA"
	CurrencyETH  DeployCurrency = "ETH"
)

// ParseDeployCurrency は文字列を DeployCurrency に変換します。大文字小文字は区別しません。
func ParseDeployCurrency(s string) (DeployCurrency, error) {
	switch c := DeployCurrency(strings.ToUpper(strings.TrimSpace(s))); c {
	case CurrencyZORA, CurrencyETH:
		return c, nil
	default:
		return "", fmt.Errorf("unsupported deploy currency: %q", s)
	}
}

// MetadataParameters はメタデータのアップロード結果で、コイン作成の入力になります。
type MetadataParameters struct {
	Name   string
	Symbol string
	URI    string
}

// CoinParams はコイン作成トランザクションに渡すパラメータです。
type CoinParams struct {
	MetadataParameters
	PayoutRecipient common.Address
	Currency        DeployCurrency
	ChainID         uint64
}

// DeployOptions はデプロイ時の調整値です。
type DeployOptions struct {
	// GasMultiplier はガス見積もりに対するパーセンテージです (100 で等倍)。
	GasMultiplier uint64
}

// DeployResult はオンチェーンで作成されたコインの情報です。
type DeployResult struct {
	Address common.Address
	TxHash  common.Hash
}
