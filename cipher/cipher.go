// Package cipher implements the kISOTOPE transform engine: reversible
// character-to-token obfuscation over a seeded, timestamp-rotated symbol
// table.
package cipher

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	kisotope "github.com/BackendStack21/k-isotope-go"
	"github.com/BackendStack21/k-isotope-go/core"
	"github.com/BackendStack21/k-isotope-go/rotor"
	"github.com/BackendStack21/k-isotope-go/table"
	"github.com/BackendStack21/k-isotope-go/utils"
)

const (
	// padWidth is the number of random padding characters added to each
	// end of a message before encryption.
	padWidth = 2

	// Padding characters are drawn uniformly from the printable ASCII
	// range [printableMin, printableMax].
	printableMin = 33
	printableMax = 126

	// fallbackToken stands in for any character that cannot be encoded.
	fallbackToken = "000_0"

	// fallbackPos and fallbackChain stand in for the parts of a
	// ciphertext token with no underscore separator.
	fallbackPos   = "000"
	fallbackChain = "0"

	// fallbackRune marks any token that cannot be decoded.
	fallbackRune = '?'

	tokenSeparator  = ":"
	timestampLayout = "20060102150405"

	// saltBytes of entropy, hex-encoded to twice as many characters.
	saltBytes = 4
)

// Debug logging helpers
var debugTransform = os.Getenv("KISOTOPE_DEBUG") != ""

func logDebug(format string, args ...interface{}) {
	if debugTransform {
		fmt.Fprintf(os.Stderr, "[kISOTOPE] "+format+"\n", args...)
	}
}

// Cipher is a configured transform engine. It is immutable after
// construction: Encrypt and Decrypt only read instance state, so a Cipher
// is safe for concurrent use. The rotated table is recomputed on every
// call from the stored timestamp.
type Cipher struct {
	timestamp string
	salt      string
	catalog   kisotope.Catalog
	index     map[string]int
	set       *kisotope.TableSet
}

// New builds a Cipher for masterKey with a fresh timestamp (current local
// time as YYYYMMDDHHMMSS) and a random 8-character lowercase hex salt.
// Callers must retain Timestamp() and Salt() to decrypt later.
func New(masterKey string) (*Cipher, error) {
	raw, err := utils.SecureRandomBytes(saltBytes)
	if err != nil {
		return nil, fmt.Errorf("salt generation failed: %w", err)
	}
	salt := hex.EncodeToString(raw)
	timestamp := time.Now().Format(timestampLayout)
	return NewWithParams(masterKey, timestamp, salt)
}

// NewWithParams builds a Cipher from explicit parameters. Identical
// parameters always yield an engine with an identical table set, which is
// how ciphertexts travel: the recipient rebuilds the engine from the same
// (masterKey, timestamp, salt). The timestamp is not validated here; a bad
// one surfaces as ErrInvalidTimestamp from Encrypt or Decrypt.
func NewWithParams(masterKey, timestamp, salt string) (*Cipher, error) {
	catalog, err := core.GenerateCatalog()
	if err != nil {
		return nil, err
	}
	set, err := table.Build(masterKey, salt, catalog)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int, len(catalog))
	for i, symbol := range catalog {
		index[symbol] = i
	}
	return &Cipher{
		timestamp: timestamp,
		salt:      salt,
		catalog:   catalog,
		index:     index,
		set:       set,
	}, nil
}

// Timestamp returns the timestamp the engine rotates with.
func (c *Cipher) Timestamp() string {
	return c.timestamp
}

// Salt returns the salt the table set was derived from.
func (c *Cipher) Salt() string {
	return c.salt
}

// Seed returns the derived shuffle seed.
func (c *Cipher) Seed() uint64 {
	return c.set.Seed
}

// Encrypt obfuscates message into a colon-separated token string. The
// message is first padded with padWidth random printable characters on
// each side, then every rune is encoded against the rotated table. An
// empty message encrypts to an empty ciphertext. Characters that cannot
// be encoded become the fallback token rather than failing the call.
func (c *Cipher) Encrypt(message string) (string, error) {
	if message == "" {
		return "", nil
	}
	if err := utils.CheckLength(len(message), utils.MaxMessageLen); err != nil {
		return "", fmt.Errorf("message rejected: %w", err)
	}

	params, err := rotor.DeriveParams(c.timestamp)
	if err != nil {
		return "", err
	}
	rotated := rotor.Rotate(c.set.Table, params)
	positions := cellPositions(rotated)

	lead, err := randomPadding(padWidth)
	if err != nil {
		return "", fmt.Errorf("padding generation failed: %w", err)
	}
	trail, err := randomPadding(padWidth)
	if err != nil {
		return "", fmt.Errorf("padding generation failed: %w", err)
	}

	padded := string(lead) + message + string(trail)
	tokens := make([]string, 0, utf8.RuneCountInString(padded))
	for _, r := range padded {
		tokens = append(tokens, c.encodeRune(r, positions))
	}
	return strings.Join(tokens, tokenSeparator), nil
}

// Decrypt reverses Encrypt for a ciphertext produced with the same
// (masterKey, timestamp, salt). Tokens that cannot be decoded become '?'
// instead of failing the call. An empty ciphertext decrypts to an empty
// message, as does any ciphertext too short to carry padding plus content.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	if ciphertext == "" {
		return "", nil
	}
	if err := utils.CheckLength(len(ciphertext), utils.MaxCiphertextLen); err != nil {
		return "", fmt.Errorf("ciphertext rejected: %w", err)
	}

	params, err := rotor.DeriveParams(c.timestamp)
	if err != nil {
		return "", err
	}
	rotated := rotor.Rotate(c.set.Table, params)

	tokens := strings.Split(ciphertext, tokenSeparator)
	recovered := make([]rune, 0, len(tokens))
	for _, token := range tokens {
		recovered = append(recovered, c.decodeToken(token, rotated))
	}

	if len(recovered) <= 2*padWidth {
		return "", nil
	}
	return string(recovered[padWidth : len(recovered)-padWidth]), nil
}

// encodeRune maps one rune to its ciphertext token: rune code mod 256
// selects the catalog symbol, the substitution map names its partner and
// chain digit, and the partner's position in the rotated table becomes the
// token coordinates. Every lookup that can miss falls back to
// fallbackToken.
func (c *Cipher) encodeRune(r rune, positions map[string][3]int) string {
	code := int(r) % core.CatalogSize
	symbol := c.catalog[code]

	label, ok := c.set.Substitution[symbol]
	if !ok {
		logDebug("no substitution for symbol %q", symbol)
		return fallbackToken
	}
	cut := strings.LastIndex(label, "_")
	if cut < 0 {
		logDebug("substitution label %q has no separator", label)
		return fallbackToken
	}
	partner, chain := label[:cut], label[cut+1:]

	pos, ok := positions[partner]
	if !ok {
		logDebug("partner %q missing from rotated table", partner)
		return fallbackToken
	}
	return fmt.Sprintf("%d%d%d_%s", pos[0], pos[1], pos[2], chain)
}

// decodeToken reverses encodeRune for one token. A token without an
// underscore decodes through the fallback position and chain; coordinates
// that do not parse or fall outside the rotated dimensions decode to
// fallbackRune; an unknown partner label decodes through catalog index 0.
func (c *Cipher) decodeToken(token string, rotated kisotope.Table) rune {
	posPart, chain := fallbackPos, fallbackChain
	if cut := strings.LastIndex(token, "_"); cut >= 0 {
		posPart, chain = token[:cut], token[cut+1:]
	}

	pos, ok := parseCoords(posPart, rotated.Dims)
	if !ok {
		logDebug("unreadable token %q", token)
		return fallbackRune
	}

	chem := rotated.Cells[(pos[0]*rotated.Dims[1]+pos[1])*rotated.Dims[2]+pos[2]]
	symbol, ok := c.set.Reverse[chem+"_"+chain]
	if !ok {
		symbol = c.catalog[0]
	}

	code, ok := c.index[symbol]
	if !ok {
		logDebug("symbol %q missing from catalog index", symbol)
		return fallbackRune
	}
	return rune(code)
}

// parseCoords reads a three-digit position string into coordinates and
// bounds-checks them against dims.
func parseCoords(s string, dims [3]int) ([3]int, bool) {
	if len(s) != 3 {
		return [3]int{}, false
	}
	var pos [3]int
	for i := 0; i < 3; i++ {
		if s[i] < '0' || s[i] > '9' {
			return [3]int{}, false
		}
		pos[i] = int(s[i] - '0')
	}
	for i := 0; i < 3; i++ {
		if pos[i] >= dims[i] {
			return [3]int{}, false
		}
	}
	return pos, true
}

// cellPositions indexes a table by symbol for constant-time position
// lookups during encoding.
func cellPositions(t kisotope.Table) map[string][3]int {
	positions := make(map[string][3]int, len(t.Cells))
	for x := 0; x < t.Dims[0]; x++ {
		for y := 0; y < t.Dims[1]; y++ {
			for z := 0; z < t.Dims[2]; z++ {
				positions[t.Cells[(x*t.Dims[1]+y)*t.Dims[2]+z]] = [3]int{x, y, z}
			}
		}
	}
	return positions
}

// randomPadding draws n printable ASCII characters from the package
// entropy source.
func randomPadding(n int) ([]rune, error) {
	pad := make([]rune, n)
	for i := range pad {
		v, err := utils.RandomInt(printableMax - printableMin + 1)
		if err != nil {
			return nil, err
		}
		pad[i] = rune(printableMin + v)
	}
	return pad, nil
}
