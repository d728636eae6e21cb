package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/angelmondragon/farmfresh-backend/pkg/config"
)

// ErrInvalidHash signals a stored hash that is not in argon2id PHC form.
var ErrInvalidHash = errors.New("invalid argon2id hash")

var b64 = base64.RawStdEncoding

// argonCost is the tunable half of an argon2id hash. It travels inside the
// encoded string so old hashes keep verifying after the config changes.
type argonCost struct {
	memoryKB uint32
	passes   uint32
	threads  uint8
}

func costFromConfig(cfg config.PasswordConfig) (argonCost, int, uint32) {
	cost := argonCost{
		memoryKB: uint32(clamp(cfg.ArgonMemoryKB, 8, 512*1024)),
		passes:   uint32(clamp(cfg.ArgonTime, 1, 10)),
		threads:  uint8(clamp(cfg.ArgonParallelism, 1, 255)),
	}
	return cost, clamp(cfg.ArgonSaltLen, 8, 64), uint32(clamp(cfg.ArgonKeyLen, 16, 64))
}

func (c argonCost) derive(password string, salt []byte, keyLen uint32) []byte {
	return argon2.IDKey([]byte(password), salt, c.passes, c.memoryKB, c.threads, keyLen)
}

// HashPassword derives an argon2id key with a random salt and returns it as
// $argon2id$v=19$m=..,t=..,p=..$salt$key.
func HashPassword(password string, cfg config.PasswordConfig) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	cost, saltLen, keyLen := costFromConfig(cfg)

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := cost.derive(password, salt, keyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, cost.memoryKB, cost.passes, cost.threads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifyPassword reports whether password matches encoded. A malformed
// encoded value returns ErrInvalidHash.
func VerifyPassword(password, encoded string) (bool, error) {
	cost, salt, want, err := decode(encoded)
	if err != nil {
		return false, err
	}
	got := cost.derive(password, salt, uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

func decode(encoded string) (argonCost, []byte, []byte, error) {
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != "argon2id" {
		return argonCost{}, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return argonCost{}, nil, nil, ErrInvalidHash
	}

	var cost argonCost
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &cost.memoryKB, &cost.passes, &cost.threads); err != nil {
		return argonCost{}, nil, nil, ErrInvalidHash
	}
	if cost.memoryKB == 0 || cost.passes == 0 || cost.threads == 0 {
		return argonCost{}, nil, nil, ErrInvalidHash
	}

	salt, err := b64.DecodeString(fields[4])
	if err != nil || len(salt) == 0 {
		return argonCost{}, nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(fields[5])
	if err != nil || len(key) == 0 {
		return argonCost{}, nil, nil, ErrInvalidHash
	}
	return cost, salt, key, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
