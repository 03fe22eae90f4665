package auth

import "golang.org/x/crypto/bcrypt"

// MinBcryptCost is the lowest work factor BcryptHasher will use.
const MinBcryptCost = bcrypt.DefaultCost

// BcryptHasher hashes passwords with bcrypt. The salt is generated per hash
// and stored inside the digest.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost, raised to
// MinBcryptCost when lower.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < MinBcryptCost {
		cost = MinBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches digest. A malformed digest is
// simply a mismatch.
func (h *BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
