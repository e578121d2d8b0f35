package domain

import "github.com/ethereum/go-ethereum/common"

// MintState はミント処理の進行状態を表すタグ付きユニオンです。
// 実装は MintIdle, MintUploading, MintMinting, MintMinted, MintFailed のみです。
type MintState interface {
	// Status は画面に表示するメッセージを返します。空文字は表示なしを意味します。
	Status() string
	mintState()
}

// MintIdle はまだミントを開始していない状態です。
type MintIdle struct{}

// MintUploading は画像とメタデータのアップロード中です。
type MintUploading struct{}

// MintMinting はオンチェーンでのコイン作成中です。
type MintMinting struct{}

// MintMinted はミントが完了し、コインのアドレスが確定した状態です。
type MintMinted struct {
	Address common.Address
}

// MintFailed はいずれかのステップで失敗した状態です。
type MintFailed struct {
	Message string
}

func (MintIdle) Status() string      { return "" }
func (MintUploading) Status() string { return "Uploading image and metadata..." }
func (MintMinting) Status() string   { return "Creating coin onchain..." }
func (MintMinted) Status() string    { return "Coin minted!" }
func (s MintFailed) Status() string  { return "Error: " + s.Message }

func (MintIdle) mintState()      {}
func (MintUploading) mintState() {}
func (MintMinting) mintState()   {}
func (MintMinted) mintState()    {}
func (MintFailed) mintState()    {}

// MintedAddress はミント済みであればコインのアドレスを返します。
func MintedAddress(s MintState) (common.Address, bool) {
	if m, ok := s.(MintMinted); ok {
		return m.Address, true
	}
	return common.Address{}, false
}

// IsMintInProgress はアップロード中またはミント中かどうかを返します。
func IsMintInProgress(s MintState) bool {
	switch s.(type) {
	case MintUploading, MintMinting:
		return true
	}
	return false
}
