// Package backend parses server (backend) messages zero-copy: each parser
// accepts a message payload slice and returns a borrowed view or a small
// owned struct, per spec §4.2.
package backend

import (
	"fmt"

	"github.com/pgwire/pgwire/wire"
)

// AuthKind identifies the authentication method requested by an
// AuthenticationXXX message (the first int32 of the payload).
type AuthKind int32

const (
	AuthOK                AuthKind = 0
	AuthKerberosV5        AuthKind = 2
	AuthCleartextPassword AuthKind = 3
	AuthMD5Password       AuthKind = 5
	AuthSCMCredential     AuthKind = 6
	AuthGSS               AuthKind = 7
	AuthGSSContinue       AuthKind = 8
	AuthSSPI              AuthKind = 9
	AuthSASL              AuthKind = 10
	AuthSASLContinue      AuthKind = 11
	AuthSASLFinal         AuthKind = 12
)

// Authentication is the parsed form of an AuthenticationXXX backend message.
type Authentication struct {
	Kind AuthKind

	// MD5Salt is populated for AuthMD5Password (4 bytes).
	MD5Salt []byte

	// Mechanisms is populated for AuthSASL: the NUL-separated, doubly
	// NUL-terminated list of SASL mechanism names the server offers.
	Mechanisms []string

	// Data is populated for AuthSASLContinue and AuthSASLFinal: the raw
	// SCRAM server-first/server-final message bytes.
	Data []byte
}

// ParseAuthentication parses an AuthenticationXXX message payload. Unknown
// kinds raise a protocol error (spec §4.2).
func ParseAuthentication(payload []byte) (Authentication, error) {
	r := wire.NewReader(payload)

	kind, err := r.GetInt32()
	if err != nil {
		return Authentication{}, fmt.Errorf("authentication: %w", err)
	}

	auth := Authentication{Kind: AuthKind(kind)}

	switch auth.Kind {
	case AuthOK, AuthKerberosV5, AuthSCMCredential, AuthGSS, AuthSSPI:
		return auth, nil
	case AuthCleartextPassword:
		return auth, nil
	case AuthMD5Password:
		salt, err := r.GetBytes(4)
		if err != nil {
			return Authentication{}, fmt.Errorf("authentication md5 salt: %w", err)
		}
		auth.MD5Salt = salt
		return auth, nil
	case AuthGSSContinue, AuthSASLContinue, AuthSASLFinal:
		auth.Data = r.Bytes()
		return auth, nil
	case AuthSASL:
		for {
			if r.Remaining() == 0 {
				break
			}
			name, err := r.GetCString()
			if err != nil {
				return Authentication{}, fmt.Errorf("authentication sasl mechanisms: %w", err)
			}
			if name == "" {
				break
			}
			auth.Mechanisms = append(auth.Mechanisms, name)
		}
		return auth, nil
	default:
		return Authentication{}, fmt.Errorf("%w: unknown authentication kind %d", ErrProtocol, kind)
	}
}
