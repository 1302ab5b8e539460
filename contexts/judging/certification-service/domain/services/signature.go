package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"verdict/contexts/judging/certification-service/domain/entities"
)

// Fingerprints below are tamper-evident audit digests. They carry no key
// material and prove nothing cryptographically about the signer.

// WinnerSignature digests a winners sign-off.
func WinnerSignature(
	userID string,
	categoryID string,
	role entities.Role,
	signedAt time.Time,
	ipAddress string,
	userAgent string,
) string {
	return fingerprint(map[string]string{
		"user_id":     strings.TrimSpace(userID),
		"category_id": strings.TrimSpace(categoryID),
		"role":        string(role),
		"timestamp":   signedAt.UTC().Format(time.RFC3339Nano),
		"ip_address":  strings.TrimSpace(ipAddress),
		"user_agent":  strings.TrimSpace(userAgent),
	})
}

// QuorumSignatureFingerprint digests one co-signature on a quorum request.
func QuorumSignatureFingerprint(
	requestID string,
	role entities.Role,
	signerID string,
	signatureName string,
	signedAt time.Time,
) string {
	return fingerprint(map[string]string{
		"request_id":     strings.TrimSpace(requestID),
		"role":           string(role),
		"signer_id":      strings.TrimSpace(signerID),
		"signature_name": strings.TrimSpace(signatureName),
		"timestamp":      signedAt.UTC().Format(time.RFC3339Nano),
	})
}

func fingerprint(fields map[string]string) string {
	// encoding/json sorts map keys, so the digest is stable for equal input.
	payload, _ := json.Marshal(fields)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
