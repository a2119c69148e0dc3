// Package md5auth implements PostgreSQL's legacy MD5 password challenge
// (spec §7.2). It builds on crypto/md5 only: no example repo in the
// retrieval pack imports a third-party MD5 implementation, and the
// algorithm is a fixed, two-round hash with no room for a richer library to
// add value.
package md5auth

import (
	"crypto/md5"
	"encoding/hex"
)

// HashPassword computes PostgreSQL's MD5 password response:
// "md5" + md5(md5(password + username) + salt).
func HashPassword(username, password string, salt []byte) string {
	inner := md5.Sum([]byte(password + username))
	innerHex := hex.EncodeToString(inner[:])

	outer := md5.New()
	outer.Write([]byte(innerHex))
	outer.Write(salt)

	return "md5" + hex.EncodeToString(outer.Sum(nil))
}
