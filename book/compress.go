package book

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Shared by every store; EncodeAll and DecodeAll are safe for concurrent use.
var (
	encoder, _ = zstd.NewWriter(nil)
	decoder, _ = zstd.NewReader(nil)
)

// pack is the stored form of a book: its BSON encoding compressed with zstd.
func pack(b *Book) ([]byte, error) {
	data, err := Encode(b)
	if err != nil {
		return nil, err
	}
	return encoder.EncodeAll(data, nil), nil
}

func unpack(compressed []byte) (*Book, error) {
	data, err := decoder.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompressing: %v", ErrMalformedBook, err)
	}
	return Decode(data)
}
