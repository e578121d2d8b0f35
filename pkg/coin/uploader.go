package coin

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// Uploader はコインの画像とメタデータを保存し、参照用の URI を返します。
type Uploader interface {
	UploadFile(ctx context.Context, name, mimeType string, data []byte) (string, error)
	UploadJSON(ctx context.Context, data []byte) (string, error)
}

// UploaderFactory は作成者のアドレスに紐づいた Uploader を生成します。
type UploaderFactory interface {
	ForCreator(creator common.Address) Uploader
}

// UploaderFactoryFunc は関数を UploaderFactory として扱うためのアダプターです。
type UploaderFactoryFunc func(creator common.Address) Uploader

func (f UploaderFactoryFunc) ForCreator(creator common.Address) Uploader {
	return f(creator)
}
