package wallet

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/term"
)

// Signer holds the single signing key of a connected wallet.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

func NewSigner(key *ecdsa.PrivateKey) (*Signer, error) {
	if key == nil {
		return nil, errors.New("signing key is nil")
	}
	return &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

func (s *Signer) Address() common.Address {
	return s.address
}

// LoadKeystore decrypts a go-ethereum V3 keystore file.
func LoadKeystore(path string, passphrase []byte) (*Signer, error) {
	defer ZeroBytes(passphrase)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read keystore %s", path)
	}

	key, err := keystore.DecryptKey(raw, string(passphrase))
	if err != nil {
		return nil, errors.Wrap(err, "decrypt keystore")
	}
	return NewSigner(key.PrivateKey)
}

// SignerFromHex builds a signer from a raw hex private key. Meant for development networks.
func SignerFromHex(hexKey string) (*Signer, error) {
	hexKey = strings.TrimPrefix(strings.TrimSpace(hexKey), "0x")
	if hexKey == "" {
		return nil, errors.New("private key is empty")
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, errors.Wrap(err, "parse private key")
	}
	return NewSigner(key)
}

func PromptPassphrase(prompt string) ([]byte, error) {
	_, _ = fmt.Fprint(os.Stderr, prompt)

	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(os.Stderr) // best-effort newline

	if err != nil {
		ZeroBytes(pw)
		return nil, errors.Wrap(err, "passphrase input failed")
	}
	if len(pw) == 0 {
		return nil, errors.New("passphrase is empty")
	}
	return pw, nil
}

func ZeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
