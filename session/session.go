// Package session persists encryption records: the ciphertext together
// with the timestamp and salt a holder of the master key needs to decrypt
// it later.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/pbkdf2"

	"github.com/BackendStack21/k-isotope-go/utils"
)

// Armor framing constants.
const (
	armorMagic = "KISO1"
	kdfSaltLen = 16
	kdfIters   = 600000
)

// Session is a persistable encryption record.
type Session struct {
	ID         string `json:"id"`
	Ciphertext string `json:"ciphertext"`
	Timestamp  string `json:"timestamp"`
	Salt       string `json:"salt"`
	CreatedAt  string `json:"created_at"`
	Mac        string `json:"mac,omitempty"`
}

// New assembles a session record with a fresh UUID and creation time.
func New(ciphertext, timestamp, salt string) *Session {
	return &Session{
		ID:         uuid.NewString(),
		Ciphertext: ciphertext,
		Timestamp:  timestamp,
		Salt:       salt,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}

// Marshal renders the session as indented JSON.
func (s *Session) Marshal() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Unmarshal parses a JSON session document.
func Unmarshal(data []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse session JSON: %w", err)
	}
	return &s, nil
}

// macInput serializes the fields covered by the integrity tag.
func (s *Session) macInput() []byte {
	return []byte(s.ID + "\x00" + s.Ciphertext + "\x00" + s.Timestamp + "\x00" + s.Salt + "\x00" + s.CreatedAt)
}

// Authenticate stamps the session with an HMAC-SHA256 tag keyed by the
// master key. The tag lets a consumer notice a wrong key or an edited
// record before decrypting; it does not upgrade the scheme's security.
func (s *Session) Authenticate(masterKey string) {
	mac := hmac.New(sha256.New, []byte(masterKey))
	mac.Write(s.macInput())
	s.Mac = base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify checks the integrity tag against masterKey. Sessions without a
// tag never verify.
func (s *Session) Verify(masterKey string) bool {
	if s.Mac == "" {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(s.Mac)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(masterKey))
	mac.Write(s.macInput())
	return utils.ConstantTimeEqual(mac.Sum(nil), want)
}

// Seal armors the session JSON under a passphrase. PBKDF2-SHA256 derives a
// ChaCha20-Poly1305 key; the output frames magic, KDF salt, nonce and the
// sealed body.
func Seal(s *Session, passphrase string) ([]byte, error) {
	body, err := s.Marshal()
	if err != nil {
		return nil, err
	}
	kdfSalt, err := utils.SecureRandomBytes(kdfSaltLen)
	if err != nil {
		return nil, fmt.Errorf("KDF salt generation failed: %w", err)
	}
	key := pbkdf2.Key([]byte(passphrase), kdfSalt, kdfIters, chacha20poly1305.KeySize, sha256.New)
	defer utils.Zeroize(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce, err := utils.SecureRandomBytes(aead.NonceSize())
	if err != nil {
		return nil, fmt.Errorf("nonce generation failed: %w", err)
	}

	out := make([]byte, 0, len(armorMagic)+len(kdfSalt)+len(nonce)+len(body)+aead.Overhead())
	out = append(out, armorMagic...)
	out = append(out, kdfSalt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, body, nil), nil
}

// Open reverses Seal. It fails if the passphrase is wrong or the blob was
// modified.
func Open(data []byte, passphrase string) (*Session, error) {
	if !IsArmored(data) {
		return nil, errors.New("not an armored session")
	}
	rest := data[len(armorMagic):]
	if len(rest) < kdfSaltLen+chacha20poly1305.NonceSize {
		return nil, utils.ErrInvalidLength
	}
	kdfSalt := rest[:kdfSaltLen]
	nonce := rest[kdfSaltLen : kdfSaltLen+chacha20poly1305.NonceSize]
	box := rest[kdfSaltLen+chacha20poly1305.NonceSize:]

	key := pbkdf2.Key([]byte(passphrase), kdfSalt, kdfIters, chacha20poly1305.KeySize, sha256.New)
	defer utils.Zeroize(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	body, err := aead.Open(nil, nonce, box, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	return Unmarshal(body)
}

// IsArmored reports whether data carries the armor magic.
func IsArmored(data []byte) bool {
	return len(data) >= len(armorMagic) && string(data[:len(armorMagic)]) == armorMagic
}
