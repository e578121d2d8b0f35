package wallet

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyConnector は ECDSA の秘密鍵で署名するコネクターです。
// ブラウザの注入ウォレットの代わりに、サーバーや CLI から利用します。
type KeyConnector struct {
	key *ecdsa.PrivateKey
}

var _ Connector = (*KeyConnector)(nil)

// NewKeyConnector は16進数の秘密鍵 (0x 接頭辞は任意) から KeyConnector を生成します。
func NewKeyConnector(hexKey string) (*KeyConnector, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, fmt.Errorf("private key is empty")
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("秘密鍵の読み込みに失敗しました: %w", err)
	}
	return &KeyConnector{key: key}, nil
}

func (c *KeyConnector) ID() ConnectorID { return ConnectorLocalKey }

func (c *KeyConnector) Name() string { return "Local Key" }

func (c *KeyConnector) Connect(ctx context.Context) (Account, error) {
	return &keyAccount{
		key:     c.key,
		address: crypto.PubkeyToAddress(c.key.PublicKey),
	}, nil
}

type keyAccount struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func (a *keyAccount) Address() common.Address { return a.address }

func (a *keyAccount) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), a.key)
}
