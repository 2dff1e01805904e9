package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var firstNames = []string{
	"Anna", "Mikhail", "Sergey", "Elena", "Dmitry",
	"Maria", "Alexey", "Olga", "Ivan", "Aigerim",
	"Timur", "Dana", "Nikita", "Sofia", "Arman",
}

var lastInitials = []rune("ABDEGIKLMNPRSTVZ")

// GenerateDisplayName creates a seller name in the "First L." form listings
// show, such as "Anna K.".
func GenerateDisplayName() (string, error) {
	firstIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(firstNames))))
	if err != nil {
		return "", fmt.Errorf("failed to pick first name: %w", err)
	}

	initialIdx, err := rand.Int(rand.Reader, big.NewInt(int64(len(lastInitials))))
	if err != nil {
		return "", fmt.Errorf("failed to pick initial: %w", err)
	}

	return fmt.Sprintf("%s %c.", firstNames[firstIdx.Int64()], lastInitials[initialIdx.Int64()]), nil
}

// RandomRating returns a seller rating between 4.0 and 5.0 in tenths.
func RandomRating() (float64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(11))
	if err != nil {
		return 0, fmt.Errorf("failed to generate rating: %w", err)
	}
	return 4.0 + float64(n.Int64())/10, nil
}
