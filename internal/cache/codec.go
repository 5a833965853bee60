package cache

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/zstd"
)

// zstdMagic 是 zstd 帧头，用于识别压缩记录，使压缩与明文记录可以共存于同一目录。
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// recordCodec 处理记录的压缩层，JSON 编解码由 encodeRecord/decodeRecord 完成。
type recordCodec struct {
	compress bool
	encoder  *zstd.Encoder
	decoder  *zstd.Decoder
}

func newRecordCodec(compress bool) (*recordCodec, error) {
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	codec := &recordCodec{compress: compress, decoder: decoder}
	if compress {
		codec.encoder, err = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		if err != nil {
			decoder.Close()
			return nil, fmt.Errorf("create zstd encoder: %w", err)
		}
	}
	return codec, nil
}

func (c *recordCodec) pack(raw []byte) []byte {
	if !c.compress {
		return raw
	}
	return c.encoder.EncodeAll(raw, make([]byte, 0, len(raw)))
}

func (c *recordCodec) unpack(payload []byte) ([]byte, error) {
	if !bytes.HasPrefix(payload, zstdMagic) {
		return payload, nil
	}
	return c.decoder.DecodeAll(payload, nil)
}

func (c *recordCodec) close() {
	c.decoder.Close()
	if c.encoder != nil {
		c.encoder.Close()
	}
}

func encodeRecord[V any](c *recordCodec, entry Entry[V]) ([]byte, error) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return c.pack(raw), nil
}

func decodeRecord[V any](c *recordCodec, payload []byte) (Entry[V], error) {
	var entry Entry[V]
	raw, err := c.unpack(payload)
	if err != nil {
		return entry, fmt.Errorf("decompress record: %w", err)
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return entry, fmt.Errorf("decode record: %w", err)
	}
	return entry, nil
}
