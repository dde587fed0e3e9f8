package codec

import (
	"fmt"

	"github.com/goccy/go-json"
	"google.golang.org/grpc/encoding"
)

// Name は gRPC の content-subtype です。
const Name = "json"

// Codec は JSON でメッセージを符号化する gRPC コーデックです。
type Codec struct{}

func init() {
	encoding.RegisterCodec(Codec{})
}

// Marshal は v を JSON に符号化します。
func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal %T: %w", v, err)
	}
	return b, nil
}

// Unmarshal は JSON を v に復号します。
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("codec: unmarshal %T: %w", v, err)
	}
	return nil
}

// Name はコーデック名を返します。
func (Codec) Name() string {
	return Name
}
