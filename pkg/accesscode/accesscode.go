package accesscode

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const (
	// Length длина кода доступа
	Length = 8

	// Alphabet допустимые символы кода
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Generator генерирует коды доступа из криптографически стойкого источника
type Generator struct {
	source io.Reader
}

// NewGenerator создает генератор поверх crypto/rand
func NewGenerator() *Generator {
	return &Generator{source: rand.Reader}
}

// NewGeneratorWithSource создает генератор поверх произвольного источника (для тестов)
func NewGeneratorWithSource(source io.Reader) *Generator {
	return &Generator{source: source}
}

// Generate возвращает новый код из Length символов Alphabet
func (g *Generator) Generate() (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	code := make([]byte, Length)

	for i := range code {
		n, err := rand.Int(g.source, max)
		if err != nil {
			return "", fmt.Errorf("accesscode: read random: %w", err)
		}
		code[i] = Alphabet[n.Int64()]
	}

	return string(code), nil
}

// IsValid проверяет формат кода
func IsValid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
