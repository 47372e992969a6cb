package utils

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/okothbrian/socialite/models"
	"gorm.io/gorm"
)

const suffixLength = 4
const digitBytes = "0123456789"

// slugify lowercases the full name and keeps only letters and digits, so
// "Ada Lovelace" becomes "adalovelace".
func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "user"
	}
	return b.String()
}

// GenerateUniqueHandle derives a handle from the full name, appending a
// random digit suffix until no existing user claims it.
func GenerateUniqueHandle(tx *gorm.DB, fullName string) (string, error) {
	base := slugify(fullName)
	if len(base) > 20 {
		base = base[:20]
	}
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	candidate := base
	for {
		var user models.User
		err := tx.Where("handle = ?", candidate).First(&user).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return candidate, nil
			}
			return "", err
		}

		b := make([]byte, suffixLength)
		for i := range b {
			b[i] = digitBytes[seededRand.Intn(len(digitBytes))]
		}
		candidate = base + string(b)
	}
}
