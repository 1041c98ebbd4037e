package wallet

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrNoSigner           = errors.New("no signing key configured")
	ErrPassphraseRequired = errors.New("keystore passphrase required")
)

// SignerSource says where a signer comes from when a connect request names none.
type SignerSource struct {
	KeystorePath  string
	PassphraseEnv string
	HexKeyEnv     string
	// Prompt reads the keystore passphrase from the terminal when the env var
	// is empty. Only ConnectInteractive prompts.
	Prompt bool
}

type ConnectRequest struct {
	KeystorePath string `json:"keystorePath,omitempty"`
	Passphrase   string `json:"passphrase,omitempty"`
}

// Connector loads a signer and connects it to a session.
type Connector struct {
	session *Session
	src     SignerSource
	getenv  func(string) string
	prompt  func(string) ([]byte, error)
}

func NewConnector(session *Session, src SignerSource) *Connector {
	return &Connector{session: session, src: src, getenv: os.Getenv, prompt: PromptPassphrase}
}

// Connect never reads the terminal. A configured keystore that would need the
// prompt fails with ErrPassphraseRequired.
func (c *Connector) Connect(req ConnectRequest) (common.Address, error) {
	return c.connect(req, false)
}

// ConnectInteractive is Connect for the foreground process; it may prompt for
// the keystore passphrase.
func (c *Connector) ConnectInteractive(req ConnectRequest) (common.Address, error) {
	return c.connect(req, true)
}

func (c *Connector) connect(req ConnectRequest, interactive bool) (common.Address, error) {
	signer, err := c.load(req, interactive)
	if err != nil {
		return common.Address{}, err
	}
	c.session.Connect(signer)
	return signer.Address(), nil
}

func (c *Connector) Disconnect() {
	c.session.Disconnect()
}

func (c *Connector) Account() (common.Address, bool) {
	return c.session.Account()
}

func (c *Connector) load(req ConnectRequest, interactive bool) (*Signer, error) {
	if path := strings.TrimSpace(req.KeystorePath); path != "" {
		return LoadKeystore(path, []byte(req.Passphrase))
	}

	if c.src.KeystorePath != "" {
		pass := []byte(req.Passphrase)
		if len(pass) == 0 && c.src.PassphraseEnv != "" {
			pass = []byte(c.getenv(c.src.PassphraseEnv))
		}
		if len(pass) == 0 && c.src.Prompt {
			if !interactive {
				return nil, ErrPassphraseRequired
			}
			var err error
			if pass, err = c.prompt("Keystore passphrase: "); err != nil {
				return nil, err
			}
		}
		return LoadKeystore(c.src.KeystorePath, pass)
	}

	if c.src.HexKeyEnv != "" {
		if hexKey := c.getenv(c.src.HexKeyEnv); hexKey != "" {
			return SignerFromHex(hexKey)
		}
	}

	return nil, ErrNoSigner
}
