package coin

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const (
	gcsObjectPrefix = "coins"
	gcsPublicHost   = "https://storage.googleapis.com"
	metadataName    = "metadata.json"
)

// GCSUploader は Cloud Storage のバケットにコインの画像とメタデータを保存します。
// 1つの Uploader が書き込むオブジェクトは coins/<creator>/<id>/ の下にまとまります。
type GCSUploader struct {
	writer remoteio.OutputWriter
	bucket string
	prefix string
}

var _ Uploader = (*GCSUploader)(nil)

// GCSUploaderFactory は作成者ごとに GCSUploader を生成する UploaderFactory です。
type GCSUploaderFactory struct {
	Writer remoteio.OutputWriter
	Bucket string
}

func (f GCSUploaderFactory) ForCreator(creator common.Address) Uploader {
	return NewGCSUploader(f.Writer, f.Bucket, creator)
}

// NewGCSUploader は writer を通じて gs://<bucket>/ に書き込む GCSUploader を生成します。
func NewGCSUploader(writer remoteio.OutputWriter, bucket string, creator common.Address) *GCSUploader {
	return &GCSUploader{
		writer: writer,
		bucket: bucket,
		prefix: path.Join(gcsObjectPrefix, strings.ToLower(creator.Hex()), uuid.NewString()),
	}
}

func (u *GCSUploader) UploadFile(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	return u.put(ctx, name, mimeType, data)
}

func (u *GCSUploader) UploadJSON(ctx context.Context, data []byte) (string, error) {
	return u.put(ctx, metadataName, "application/json", data)
}

func (u *GCSUploader) put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	object := path.Join(u.prefix, path.Base(name))
	uri := "gs://" + u.bucket + "/" + object
	if err := u.writer.Write(ctx, uri, bytes.NewReader(data), contentType); err != nil {
		return "", fmt.Errorf("%s への書き込みに失敗しました: %w", uri, err)
	}
	return publicURL(u.bucket, object), nil
}

func publicURL(bucket, object string) string {
	return gcsPublicHost + "/" + bucket + "/" + (&url.URL{Path: object}).EscapedPath()
}
