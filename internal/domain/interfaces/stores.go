package interfaces

import domaintypes "dhlib/internal/domain/types"

// ParamStore persists generated group parameters keyed by modulus bit length.
type ParamStore interface {
	SaveParameters(params domaintypes.Parameters) error
	LoadParameters(bits int) (domaintypes.Parameters, bool, error)
}

// KeyStore keeps derived key material sealed under a passphrase.
type KeyStore interface {
	SaveKey(name, passphrase string, key []byte) error
	LoadKey(name, passphrase string) ([]byte, error)
	ListKeys() ([]string, error)
}
