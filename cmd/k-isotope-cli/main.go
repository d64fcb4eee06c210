// Package main provides the k-isotope-cli command line interface for kISOTOPE operations.
package main

import (
	"bufio"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	kisotope "github.com/BackendStack21/k-isotope-go"
	"github.com/BackendStack21/k-isotope-go/cipher"
	"github.com/BackendStack21/k-isotope-go/core"
	"github.com/BackendStack21/k-isotope-go/rotor"
	"github.com/BackendStack21/k-isotope-go/session"
	"github.com/BackendStack21/k-isotope-go/table"
	"github.com/BackendStack21/k-isotope-go/utils"
)

const (
	version = "1.0.0"
	appName = "k-isotope-cli"
)

// MaxInputFileSize bounds file reads for messages and session documents.
const MaxInputFileSize = 16 * 1024 * 1024

// OutputFormat represents the output format for serialization
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// CLIConfig holds the resolved configuration for one invocation. Values come
// from the config file, then KISOTOPE_* environment variables, then flags.
type CLIConfig struct {
	MasterKey    string
	Timestamp    string
	Salt         string
	OutputFormat OutputFormat
	OutputFile   string
	InputFile    string
	Passphrase   string
	Verbose      bool
	Timing       bool
}

// EncryptExport represents an exported encryption result.
type EncryptExport struct {
	Ciphertext string `json:"ciphertext"`
	Timestamp  string `json:"timestamp"`
	Salt       string `json:"salt"`
	Tokens     int    `json:"tokens"`
}

// DecryptExport represents an exported decryption result.
type DecryptExport struct {
	Message string `json:"message"`
	Runes   int    `json:"runes"`
}

// InspectExport describes the table a key and parameters produce.
type InspectExport struct {
	Seed               uint64 `json:"seed"`
	Timestamp          string `json:"timestamp"`
	Salt               string `json:"salt"`
	Axis               int    `json:"axis"`
	Magnitude          int    `json:"magnitude"`
	Turns              int    `json:"turns"`
	RotatedDims        [3]int `json:"rotated_dims"`
	CatalogFingerprint string `json:"catalog_fingerprint"`
}

// CatalogExport represents the exported symbol catalog.
type CatalogExport struct {
	Size        int      `json:"size"`
	Fingerprint string   `json:"fingerprint"`
	Symbols     []string `json:"symbols"`
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "help", "--help", "-h":
		printUsage()
	case "version", "--version", "-v":
		fmt.Printf("%s version %s\n", appName, version)
		fmt.Printf("kISOTOPE library version %s\n", kisotope.Version)
	case "encrypt", "enc":
		handleEncrypt(os.Args[2:])
	case "decrypt", "dec":
		handleDecrypt(os.Args[2:])
	case "inspect":
		handleInspect(os.Args[2:])
	case "catalog":
		handleCatalog(os.Args[2:])
	case "interactive", "shell":
		handleInteractive(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`%s - kISOTOPE Reversible Text Obfuscation CLI

NOTE: kISOTOPE is an obfuscation layer, not encryption. Do not use it to
protect sensitive data.

USAGE:
    %s <COMMAND> [OPTIONS]

COMMANDS:
    encrypt       Encrypt a message
    decrypt       Decrypt a ciphertext or session document
    inspect       Show the table a key and parameters produce
    catalog       Print the symbol catalog
    interactive   Start an interactive shell
    version       Show version information
    help          Show this help message

OPTIONS:
    --key <key>                    Master key (or KISOTOPE_MASTER_KEY, or config file)
    --timestamp <YYYYMMDDHHMMSS>   Pin the rotation timestamp
    --salt <salt>                  Pin the shuffle salt
    --message <text>               Message to encrypt (default: stdin)
    --ciphertext <tokens>          Ciphertext to decrypt
    --input <file>                 Input file (message, session JSON, or sealed session)
    --output <file>                Output file (default: stdout)
    --format <text|json>           Output format (default: text)
    --session                      Export the encryption as a session document
    --passphrase <pass>            Seal or open session documents
    --timing                       Show timing information
    --verbose                      Verbose output

EXAMPLES:
    # Encrypt with generated timestamp and salt
    %s encrypt --key "master" --message "Hello World"

    # Deterministic table with pinned parameters
    %s encrypt --key "master" --timestamp 20240101120000 --salt abcd1234 --message "Hi"

    # Export a session document and decrypt it later
    %s encrypt --key "master" --message "Hi" --session --output session.json
    %s decrypt --key "master" --input session.json

    # Seal the session under a passphrase
    %s encrypt --key "master" --message "Hi" --session --passphrase "pw" --output s.kiso
    %s decrypt --key "master" --input s.kiso --passphrase "pw"

    # Inspect the rotation a timestamp selects
    %s inspect --key "master" --timestamp 20240101120000 --salt abcd1234

For more information, visit: https://github.com/BackendStack21/k-isotope-go
`, appName, appName, appName, appName, appName, appName, appName, appName, appName)
}

// ============================================================================
// Encrypt / Decrypt Commands
// ============================================================================

func handleEncrypt(args []string) {
	config := parseConfig(args)
	message := readMessage(config, args)
	c := buildCipher(config)

	start := time.Now()
	ciphertext, err := c.Encrypt(message)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encrypting: %v\n", err)
		os.Exit(1)
	}

	if config.Timing {
		fmt.Fprintf(os.Stderr, "Encryption took: %v\n", elapsed)
	}

	switch {
	case hasFlag(args, "--session", "-s") || config.Passphrase != "":
		s := session.New(ciphertext, c.Timestamp(), c.Salt())
		s.Authenticate(config.MasterKey)

		var output []byte
		if config.Passphrase != "" {
			output, err = session.Seal(s, config.Passphrase)
		} else {
			output, err = s.Marshal()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting session: %v\n", err)
			os.Exit(1)
		}
		writeOutput(output, config.OutputFile)

	case config.OutputFormat == FormatJSON:
		export := EncryptExport{
			Ciphertext: ciphertext,
			Timestamp:  c.Timestamp(),
			Salt:       c.Salt(),
			Tokens:     tokenCount(ciphertext),
		}
		output, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
			os.Exit(1)
		}
		writeOutput(output, config.OutputFile)

	default:
		writeOutput([]byte(ciphertext), config.OutputFile)
		// Without these the generated parameters are lost and the
		// ciphertext cannot be decrypted.
		if config.Timestamp == "" || config.Salt == "" {
			fmt.Fprintf(os.Stderr, "Timestamp: %s\nSalt: %s\n", c.Timestamp(), c.Salt())
		}
	}

	if config.Verbose {
		fmt.Fprintf(os.Stderr, "Encryption successful\n")
		fmt.Fprintf(os.Stderr, "Message runes: %d\n", len([]rune(message)))
		fmt.Fprintf(os.Stderr, "Ciphertext tokens: %d\n", tokenCount(ciphertext))
	}
}

func handleDecrypt(args []string) {
	config := parseConfig(args)
	requireKey(config)

	var ciphertext, timestamp, salt string

	if config.InputFile != "" {
		data := readInputFile(config.InputFile)

		switch {
		case session.IsArmored(data):
			if config.Passphrase == "" {
				fmt.Fprintf(os.Stderr, "Error: --passphrase is required for sealed sessions\n")
				os.Exit(1)
			}
			s, err := session.Open(data, config.Passphrase)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening session: %v\n", err)
				os.Exit(1)
			}
			verifySession(s, config)
			ciphertext, timestamp, salt = s.Ciphertext, s.Timestamp, s.Salt

		case gjson.ValidBytes(data):
			ciphertext = sessionField(data, "ciphertext", "ct", "encrypted")
			timestamp = sessionField(data, "timestamp", "ts")
			salt = sessionField(data, "salt")
			if ciphertext == "" {
				fmt.Fprintf(os.Stderr, "Error: no ciphertext field in %s\n", config.InputFile)
				os.Exit(1)
			}
			if s, err := session.Unmarshal(data); err == nil && s.Mac != "" {
				verifySession(s, config)
			}

		default:
			ciphertext = strings.TrimSpace(string(data))
		}
	} else {
		ciphertext = getArg(args, "--ciphertext", "-c")
	}

	// Explicit flags beat whatever the session document carried.
	if v := getArg(args, "--timestamp", "-ts"); v != "" {
		timestamp = v
	}
	if v := getArg(args, "--salt", "-sa"); v != "" {
		salt = v
	}
	if timestamp == "" {
		timestamp = config.Timestamp
	}
	if salt == "" {
		salt = config.Salt
	}

	if ciphertext == "" {
		fmt.Fprintf(os.Stderr, "Error: --ciphertext or --input is required\n")
		os.Exit(1)
	}
	if timestamp == "" || salt == "" {
		fmt.Fprintf(os.Stderr, "Error: timestamp and salt are required (flags, session document, or config)\n")
		os.Exit(1)
	}

	c, err := cipher.NewWithParams(config.MasterKey, timestamp, salt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing cipher: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	message, err := c.Decrypt(ciphertext)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decrypting: %v\n", err)
		os.Exit(1)
	}

	if config.Timing {
		fmt.Fprintf(os.Stderr, "Decryption took: %v\n", elapsed)
	}

	if config.OutputFormat == FormatJSON {
		export := DecryptExport{
			Message: message,
			Runes:   len([]rune(message)),
		}
		output, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
			os.Exit(1)
		}
		writeOutput(output, config.OutputFile)
	} else {
		writeOutput([]byte(message), config.OutputFile)
	}
}

// verifySession enforces the integrity tag when a session carries one.
func verifySession(s *session.Session, config CLIConfig) {
	if s.Mac == "" {
		return
	}
	if !s.Verify(config.MasterKey) {
		fmt.Fprintf(os.Stderr, "Error: session integrity check failed (wrong key or edited record)\n")
		os.Exit(1)
	}
	if config.Verbose {
		fmt.Fprintf(os.Stderr, "Session %s integrity verified\n", s.ID)
	}
}

// ============================================================================
// Inspect / Catalog Commands
// ============================================================================

func handleInspect(args []string) {
	config := parseConfig(args)
	c := buildCipher(config)

	catalog, err := core.GenerateCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating catalog: %v\n", err)
		os.Exit(1)
	}

	start := time.Now()
	set, err := table.Build(config.MasterKey, c.Salt(), catalog)
	elapsed := time.Since(start)

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building table: %v\n", err)
		os.Exit(1)
	}

	if config.Timing {
		fmt.Fprintf(os.Stderr, "Table build took: %v\n", elapsed)
	}

	params, err := rotor.DeriveParams(c.Timestamp())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deriving rotation: %v\n", err)
		os.Exit(1)
	}
	rotated := rotor.Rotate(set.Table, params)

	export := InspectExport{
		Seed:               set.Seed,
		Timestamp:          c.Timestamp(),
		Salt:               c.Salt(),
		Axis:               params.Axis,
		Magnitude:          params.Magnitude,
		Turns:              params.Magnitude % 4,
		RotatedDims:        rotated.Dims,
		CatalogFingerprint: catalogFingerprint(catalog),
	}

	output, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
		os.Exit(1)
	}
	writeOutput(output, config.OutputFile)

	if config.Verbose {
		fmt.Fprintf(os.Stderr, "Substitution entries: %d\n", len(set.Substitution))
		fmt.Fprintf(os.Stderr, "Reverse entries: %d\n", len(set.Reverse))
	}
}

func handleCatalog(args []string) {
	config := parseConfig(args)

	catalog, err := core.GenerateCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating catalog: %v\n", err)
		os.Exit(1)
	}

	if config.OutputFormat == FormatJSON {
		export := CatalogExport{
			Size:        len(catalog),
			Fingerprint: catalogFingerprint(catalog),
			Symbols:     catalog,
		}
		output, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling output: %v\n", err)
			os.Exit(1)
		}
		writeOutput(output, config.OutputFile)
		return
	}

	var b strings.Builder
	for i := 0; i < len(catalog); i += 8 {
		row := catalog[i:min(i+8, len(catalog))]
		for j, symbol := range row {
			if j > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%-6s", symbol)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "%d symbols, fingerprint %s", len(catalog), catalogFingerprint(catalog))
	writeOutput([]byte(b.String()), config.OutputFile)
}

// ============================================================================
// Interactive Shell
// ============================================================================

func handleInteractive(args []string) {
	config := parseConfig(args)
	c := buildCipher(config)

	fmt.Printf("%s %s interactive shell (seed %d)\n", appName, version, c.Seed())
	fmt.Println("Commands: encrypt <text>, decrypt <tokens>, inspect, quit")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		command, rest, _ := strings.Cut(line, " ")
		switch command {
		case "quit", "exit":
			return
		case "encrypt":
			ciphertext, err := c.Encrypt(rest)
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Println(ciphertext)
		case "decrypt":
			message, err := c.Decrypt(strings.TrimSpace(rest))
			if err != nil {
				fmt.Printf("error: %v\n", err)
				continue
			}
			fmt.Println(message)
		case "inspect":
			fmt.Printf("timestamp=%s salt=%s seed=%d\n", c.Timestamp(), c.Salt(), c.Seed())
		default:
			fmt.Printf("unknown command %q\n", command)
		}
	}
}

// ============================================================================
// Utility Functions
// ============================================================================

func parseConfig(args []string) CLIConfig {
	fc := loadFileConfig()

	config := CLIConfig{
		MasterKey:    fc.MasterKey,
		Timestamp:    fc.Timestamp,
		Salt:         fc.Salt,
		OutputFormat: FormatText,
		Verbose:      fc.Verbose,
		Timing:       fc.Timing,
	}
	if fc.Format == "json" {
		config.OutputFormat = FormatJSON
	}

	if v := getArg(args, "--key", "-k"); v != "" {
		config.MasterKey = v
	}
	if v := getArg(args, "--timestamp", "-ts"); v != "" {
		config.Timestamp = v
	}
	if v := getArg(args, "--salt", "-sa"); v != "" {
		config.Salt = v
	}

	format := getArg(args, "--format", "-f")
	switch format {
	case "text":
		config.OutputFormat = FormatText
	case "json":
		config.OutputFormat = FormatJSON
	case "":
		// No format specified, keep resolved default
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid format '%s'. Must be one of: text, json\n", format)
		os.Exit(1)
	}

	config.OutputFile = getArg(args, "--output", "-o")
	config.InputFile = getArg(args, "--input", "-i")
	config.Passphrase = getArg(args, "--passphrase", "-p")
	config.Verbose = config.Verbose || hasFlag(args, "--verbose", "-v")
	config.Timing = config.Timing || hasFlag(args, "--timing", "-t")

	return config
}

func requireKey(config CLIConfig) {
	if config.MasterKey == "" {
		fmt.Fprintf(os.Stderr, "Error: master key is required (--key, KISOTOPE_MASTER_KEY, or a config file)\n")
		os.Exit(1)
	}
}

// buildCipher constructs the engine from the resolved configuration,
// generating whichever parameters the caller did not pin.
func buildCipher(config CLIConfig) *cipher.Cipher {
	requireKey(config)

	if config.Timestamp == "" && config.Salt == "" {
		c, err := cipher.New(config.MasterKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error initializing cipher: %v\n", err)
			os.Exit(1)
		}
		return c
	}

	timestamp := config.Timestamp
	if timestamp == "" {
		timestamp = time.Now().Format("20060102150405")
	}
	salt := config.Salt
	if salt == "" {
		raw, err := utils.SecureRandomBytes(4)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating salt: %v\n", err)
			os.Exit(1)
		}
		salt = hex.EncodeToString(raw)
	}

	c, err := cipher.NewWithParams(config.MasterKey, timestamp, salt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing cipher: %v\n", err)
		os.Exit(1)
	}
	return c
}

// readMessage gets the plaintext from the flag, the input file, or stdin.
func readMessage(config CLIConfig, args []string) string {
	if message := getArg(args, "--message", "-m"); message != "" {
		return message
	}
	if config.InputFile != "" {
		return string(readInputFile(config.InputFile))
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading from stdin: %v\n", err)
		os.Exit(1)
	}
	return string(data)
}

func readInputFile(filename string) []byte {
	info, err := os.Stat(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}
	if info.Size() > MaxInputFileSize {
		fmt.Fprintf(os.Stderr, "Error: input file too large: %d > %d bytes\n", info.Size(), MaxInputFileSize)
		os.Exit(1)
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
		os.Exit(1)
	}
	return data
}

// sessionField returns the first JSON path present in data.
func sessionField(data []byte, paths ...string) string {
	for _, path := range paths {
		if v := gjson.GetBytes(data, path); v.Exists() {
			return v.String()
		}
	}
	return ""
}

func tokenCount(ciphertext string) int {
	if ciphertext == "" {
		return 0
	}
	return strings.Count(ciphertext, ":") + 1
}

// catalogFingerprint hashes the catalog into a short hex identifier.
func catalogFingerprint(catalog kisotope.Catalog) string {
	digest := utils.SHA3256([]byte(strings.Join(catalog, ",")))
	return hex.EncodeToString(digest[:8])
}

func getArg(args []string, long, short string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == long || args[i] == short {
			return args[i+1]
		}
	}
	return ""
}

func hasFlag(args []string, long, short string) bool {
	for _, arg := range args {
		if arg == long || arg == short {
			return true
		}
	}
	return false
}

func writeOutput(data []byte, filename string) {
	if filename != "" {
		// 0600 keeps exported sessions owner-only even with a permissive umask.
		f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()

		if _, err := f.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}

		if err := os.Chmod(filename, 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error setting file permissions: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(string(data))
	}
}
