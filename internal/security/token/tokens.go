package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ResetTokenBytes es la entropía de un token de reset (256 bits).
const ResetTokenBytes = 32

// GenerateHex genera un token aleatorio de nBytes codificado en hex.
func GenerateHex(nBytes int) (string, error) {
	if nBytes <= 0 {
		return "", fmt.Errorf("tokens: invalid length %d", nBytes)
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// SHA256Hex devuelve sha256(input) en hex. Es la clave de lookup que se
// persiste; el token crudo nunca se guarda.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
