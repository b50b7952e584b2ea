package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"dhlib/internal/util/memzero"
)

// envelopeVersion is the sealed-file format written by this package.
const envelopeVersion = 1

// ErrWrongPassphrase is returned when a sealed file does not open, either
// because the passphrase is wrong or the file was modified.
var ErrWrongPassphrase = errors.New("wrong passphrase or corrupted key file")

// scryptParams are the key-derivation cost parameters stored with each file.
type scryptParams struct {
	N, R, P int
}

// defaultScrypt is the interactive-login cost recommended for scrypt.
var defaultScrypt = scryptParams{N: 1 << 15, R: 8, P: 1}

// envelope is the on-disk JSON structure of a sealed file. The salt doubles
// as associated data, binding the ciphertext to its KDF input.
type envelope struct {
	V      int    `json:"v"`
	Name   string `json:"name"`
	Salt   []byte `json:"salt"`
	N      int    `json:"scrypt_N"`
	R      int    `json:"scrypt_r"`
	P      int    `json:"scrypt_p"`
	Cipher []byte `json:"cipher"`
}

// seal encrypts raw under a key derived from passphrase.
func seal(name, passphrase string, raw []byte, kp scryptParams) ([]byte, error) {
	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	aead, err := newAEAD(passphrase, salt[:], kp)
	if err != nil {
		return nil, err
	}
	// Zero nonce: every file gets a fresh salt and therefore a fresh key.
	var nonce [chacha20poly1305.NonceSize]byte
	ct := aead.Seal(nil, nonce[:], raw, append(salt[:], name...))

	return json.Marshal(envelope{
		V:      envelopeVersion,
		Name:   name,
		Salt:   salt[:],
		N:      kp.N,
		R:      kp.R,
		P:      kp.P,
		Cipher: ct,
	})
}

// open decrypts a sealed file written by seal.
func open(passphrase string, b []byte) (string, []byte, error) {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return "", nil, fmt.Errorf("decode key file: %w", err)
	}
	if env.V > envelopeVersion {
		return "", nil, fmt.Errorf("unsupported key file version %d", env.V)
	}
	aead, err := newAEAD(passphrase, env.Salt, scryptParams{N: env.N, R: env.R, P: env.P})
	if err != nil {
		return "", nil, err
	}
	var nonce [chacha20poly1305.NonceSize]byte
	pt, err := aead.Open(nil, nonce[:], env.Cipher, append(env.Salt, env.Name...))
	if err != nil {
		return "", nil, ErrWrongPassphrase
	}
	return env.Name, pt, nil
}

func newAEAD(passphrase string, salt []byte, kp scryptParams) (cipher.AEAD, error) {
	key, err := scrypt.Key([]byte(passphrase), salt, kp.N, kp.R, kp.P, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer memzero.Zero(key)
	return chacha20poly1305.New(key)
}
