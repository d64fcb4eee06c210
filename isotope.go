// Package kisotope implements the kISOTOPE reversible text obfuscation scheme.
// This file records the public surface; the pipeline itself lives in the
// sub-packages: core (symbol catalog), table (seeded builder), rotor
// (timestamp-driven rotation), cipher (transform engine) and session
// (persistable encryption records).
package kisotope

// Version of the kISOTOPE Go implementation.
const Version = "1.0.0"

// API summary:
//
// Transform engine:
//   - cipher.New(masterKey) - Engine with a fresh timestamp and random salt
//   - cipher.NewWithParams(masterKey, timestamp, salt) - Deterministic twin
//   - (*cipher.Cipher).Encrypt(message) - Obfuscate a message
//   - (*cipher.Cipher).Decrypt(ciphertext) - Recover a message
//
// Pipeline stages:
//   - core.GenerateCatalog() - The 256 isotope-style symbols
//   - table.Build(masterKey, salt, catalog) - Seeded table and substitutions
//   - rotor.DeriveParams(timestamp) - Rotation axis and magnitude
//   - rotor.Rotate(table, params) - Pure plane rotation
//
// Sessions:
//   - session.New(ciphertext, timestamp, salt) - Persistable record
//   - session.Seal / session.Open - Passphrase-armored session files
