package md5auth_test

import (
	"strings"
	"testing"

	"github.com/pgwire/pgwire/md5auth"
	"github.com/stretchr/testify/assert"
)

func TestHashPasswordFormat(t *testing.T) {
	hash := md5auth.HashPassword("postgres", "password", []byte{0x01, 0x02, 0x03, 0x04})
	assert.True(t, strings.HasPrefix(hash, "md5"))
	assert.Len(t, hash, 35)
}

func TestHashPasswordIsDeterministic(t *testing.T) {
	salt := []byte{0xde, 0xad, 0xbe, 0xef}
	a := md5auth.HashPassword("alice", "hunter2", salt)
	b := md5auth.HashPassword("alice", "hunter2", salt)
	assert.Equal(t, a, b)
}

func TestHashPasswordVariesWithSaltAndUser(t *testing.T) {
	base := md5auth.HashPassword("alice", "hunter2", []byte{1, 2, 3, 4})
	otherSalt := md5auth.HashPassword("alice", "hunter2", []byte{5, 6, 7, 8})
	otherUser := md5auth.HashPassword("bob", "hunter2", []byte{1, 2, 3, 4})

	assert.NotEqual(t, base, otherSalt)
	assert.NotEqual(t, base, otherUser)
}
