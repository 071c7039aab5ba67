package keyfile

import (
	"bytes"
	"fmt"

	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	aes_sivpb "github.com/tink-crypto/tink-go/v2/proto/aes_siv_go_proto"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"
	"github.com/tink-crypto/tink-go/v2/tink"

	"google.golang.org/protobuf/proto"
)

const (
	// WrapKeySize is the required AES-SIV wrap key size in bytes.
	WrapKeySize = 64

	sealMagic = "HILLKEY\x01"
)

// sealAssociatedData binds sealed payloads to this file type.
var sealAssociatedData = []byte("hill/keyfile/v1") //nolint:gochecknoglobals

// IsSealed reports whether data starts with the sealed key file header.
func IsSealed(data []byte) bool {
	return bytes.HasPrefix(data, []byte(sealMagic))
}

// Seal encrypts an encoded key file with AES-SIV under wrapKey.
func Seal(data, wrapKey []byte) ([]byte, error) {
	primitive, err := newWrapper(wrapKey)
	if err != nil {
		return nil, err
	}

	sealed, err := primitive.EncryptDeterministically(data, sealAssociatedData)
	if err != nil {
		return nil, fmt.Errorf("sealing key file: %w", err)
	}

	return append([]byte(sealMagic), sealed...), nil
}

// Open reverses Seal. Data that is not sealed is returned unchanged.
func Open(data, wrapKey []byte) ([]byte, error) {
	if !IsSealed(data) {
		return data, nil
	}

	if len(wrapKey) == 0 {
		return nil, ErrSealed
	}

	primitive, err := newWrapper(wrapKey)
	if err != nil {
		return nil, err
	}

	plain, err := primitive.DecryptDeterministically(data[len(sealMagic):], sealAssociatedData)
	if err != nil {
		return nil, fmt.Errorf("opening sealed key file: %w", err)
	}

	return plain, nil
}

func newWrapper(wrapKey []byte) (tink.DeterministicAEAD, error) {
	if len(wrapKey) != WrapKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrWrapKey, len(wrapKey), WrapKeySize)
	}

	handle, err := newDeterministicAEADKeyHandle(wrapKey)
	if err != nil {
		return nil, err
	}

	primitive, err := daead.New(handle)
	if err != nil {
		return nil, fmt.Errorf("creating DeterministicAEAD: %w", err)
	}

	return primitive, nil
}

// newDeterministicAEADKeyHandle creates a Tink keyset handle for AES-SIV from raw key bytes.
func newDeterministicAEADKeyHandle(key []byte) (*keyset.Handle, error) {
	serializedKey, err := proto.Marshal(&aes_sivpb.AesSivKey{
		Version:  0,
		KeyValue: key,
	})
	if err != nil {
		return nil, fmt.Errorf("serializing AesSivKey: %w", err)
	}

	keySet := &tinkpb.Keyset{
		PrimaryKeyId: 1,
		Key: []*tinkpb.Keyset_Key{
			{
				KeyData: &tinkpb.KeyData{
					TypeUrl:         "type.googleapis.com/google.crypto.tink.AesSivKey",
					Value:           serializedKey,
					KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
				},
				Status:           tinkpb.KeyStatusType_ENABLED,
				KeyId:            1,
				OutputPrefixType: tinkpb.OutputPrefixType_RAW,
			},
		},
	}

	serializedKeyset, err := proto.Marshal(keySet)
	if err != nil {
		return nil, fmt.Errorf("serializing keyset: %w", err)
	}

	handle, err := insecurecleartextkeyset.Read(keyset.NewBinaryReader(bytes.NewReader(serializedKeyset)))
	if err != nil {
		return nil, fmt.Errorf("creating keyset handle: %w", err)
	}

	return handle, nil
}
