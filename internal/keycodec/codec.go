// Package keycodec generates and masks API key strings.
package keycodec

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/arent-kient/api-key-dashboard/internal/models"
)

const (
	// Prefix starts every generated key
	Prefix = "arent-kient-"
	// SuffixLength is the number of random characters after the environment tag
	SuffixLength = 30
	// VisiblePrefix is the number of characters Mask leaves readable
	VisiblePrefix = 12
	// MaskRun is the placeholder appended by Mask
	MaskRun = "************************"

	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// ErrInvalidType is returned for key types other than dev/prod and their long forms
var ErrInvalidType = errors.New("type must be one of development, production, dev, prod")

var randReader io.Reader = rand.Reader

// NormalizeType maps development/production (and dev/prod) to the stored tag
func NormalizeType(keyType string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(keyType)) {
	case "development", models.KeyTypeDev:
		return models.KeyTypeDev, nil
	case "production", models.KeyTypeProd:
		return models.KeyTypeProd, nil
	}
	return "", ErrInvalidType
}

// Generate builds a new key: Prefix, the environment tag, a dash and
// SuffixLength random alphanumeric characters.
func Generate(keyType string) (string, error) {
	tag, err := NormalizeType(keyType)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(Prefix) + len(tag) + 1 + SuffixLength)
	b.WriteString(Prefix)
	b.WriteString(tag)
	b.WriteByte('-')

	size := big.NewInt(int64(len(alphabet)))
	for i := 0; i < SuffixLength; i++ {
		n, err := rand.Int(randReader, size)
		if err != nil {
			return "", fmt.Errorf("failed to read random data: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

// Mask returns the readable prefix of key followed by MaskRun. Keys shorter
// than twice VisiblePrefix reveal at most half of their characters. The
// prefix is counted in runes so the result stays valid UTF-8.
func Mask(key string) string {
	runes := []rune(key)
	visible := VisiblePrefix
	if half := len(runes) / 2; half < visible {
		visible = half
	}
	return string(runes[:visible]) + MaskRun
}
