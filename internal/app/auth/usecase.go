package auth

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrInvalidRequest   = errors.New("invalid auth request")
	ErrInvalidSigner    = errors.New("invalid signer public key")
	ErrInvalidSignature = errors.New("invalid request signature")
)

// VerifyRequest carries the signer's base58 public key, the base64
// signature, and the exact bytes that were signed.
type VerifyRequest struct {
	Signer    string
	Signature string
	Body      []byte
}

// VerifyUseCase authenticates a request by checking an ed25519 signature
// over the raw body. The recovered public key is the identity handlers
// compare against stored account authorities; there is no credential store.
type VerifyUseCase struct{}

func (VerifyUseCase) Execute(_ context.Context, req VerifyRequest) (solana.PublicKey, error) {
	signer := strings.TrimSpace(req.Signer)
	signature := strings.TrimSpace(req.Signature)
	if signer == "" || signature == "" {
		return solana.PublicKey{}, ErrInvalidRequest
	}

	pub, err := solana.PublicKeyFromBase58(signer)
	if err != nil {
		return solana.PublicKey{}, ErrInvalidSigner
	}

	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil || len(raw) != ed25519.SignatureSize {
		return solana.PublicKey{}, ErrInvalidSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(pub.Bytes()), req.Body, raw) {
		return solana.PublicKey{}, ErrInvalidSignature
	}
	return pub, nil
}
