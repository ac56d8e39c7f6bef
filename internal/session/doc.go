// Package session implements the OTR session core: the Plaintext /
// Encrypted / Finished state machine, the inbound message pipeline that
// classifies and dispatches wire traffic, data-message encryption and
// decryption against a keys.Matrix, SMP delegation, and the
// InstanceRouter that fans a single OTR conversation out across the
// several client instances an OTRv3 peer may run concurrently. Core is
// driven only through the domain.Host/CryptoProvider/Codec/AuthContext/
// SmpEngine interfaces; it never touches a socket or a keystore itself.
package session
