// Package domain re-exports the OTR session engine's core types and
// collaborator interfaces under one import path, the way a caller wants
// them: concrete wire/protocol types from internal/domain/types, and the
// leaf collaborator contracts (Host, CryptoProvider, Codec, AuthContext,
// SmpEngine) from internal/domain/interfaces.
package domain
