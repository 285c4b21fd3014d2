// Package password はbcryptによるパスワードのハッシュ化と検証を提供します。
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// dummyHash はユーザーが存在しない場合でもbcrypt比較を行うためのハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// MaxLength はbcryptが扱えるパスワードの最大バイト数です。
const MaxLength = 72

// ErrPasswordTooLong はMaxLengthを超えるパスワードをハッシュ化しようとした場合に返されます。
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

// Hasher はソルト付きのハッシュ生成と照合を行います。
type Hasher struct {
	cost int
}

// NewHasher は指定コストのHasherを生成します。範囲外のコストはbcrypt.DefaultCostに置き換えます。
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash は平文パスワードからダイジェストを生成します。ソルトは呼び出しごとに生成されます。
// MaxLengthを超える平文は切り詰めずにErrPasswordTooLongを返します。
func (h *Hasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxLength {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify は平文がダイジェストに一致する場合のみtrueを返します。
func (h *Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// Burn はダミーハッシュとの比較を行い、存在しないユーザーでも照合時間を揃えます。
func (h *Hasher) Burn(plaintext string) {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(plaintext))
}
