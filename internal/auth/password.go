package auth

import "golang.org/x/crypto/bcrypt"

// dummyHash is a well-formed bcrypt digest compared against when a login
// targets an unknown email, so the unknown-email path costs the same as a
// real verification and cannot be timed to enumerate accounts.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether plain matches the stored hash. Any failure,
// including a corrupt hash value, reads as a plain mismatch; callers cannot
// tell the cases apart.
func VerifyPassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// BurnVerification runs a bcrypt comparison against the dummy digest. Called
// on login paths that already know they will reject, to keep their timing in
// line with a real verification.
func BurnVerification(plain string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plain))
}
