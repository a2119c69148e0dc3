// Package scram implements the client side of a SCRAM-SHA-256 SASL
// exchange (RFC 5802), as required by PostgreSQL's AuthenticationSASL
// authentication flow (spec §7.3).
package scram

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Mechanism is the SASL mechanism name this package implements.
const Mechanism = "SCRAM-SHA-256"

const keyLength = sha256.Size

// Client drives a single SCRAM-SHA-256 exchange: one client-first message,
// one server-first response, one client-final message, and one server-final
// verification. A Client is single-use.
type Client struct {
	nonce          string
	channelBinding string
	password       string

	serverFirst    string
	authMessage    string
	saltedPassword []byte
}

// NewClient constructs a Client with no channel binding ("n,,", spec §7.3)
// and a fresh 24-byte random nonce.
func NewClient(password string) (*Client, error) {
	nonceBytes := make([]byte, 24)
	if _, err := rand.Read(nonceBytes); err != nil {
		return nil, fmt.Errorf("scram: generate nonce: %w", err)
	}

	return &Client{
		nonce:          base64.StdEncoding.EncodeToString(nonceBytes),
		channelBinding: "n,,",
		password:       password,
	}, nil
}

// ClientFirstMessage returns the client-first-message sent as the initial
// SASL response: "n,,n=,r=<nonce>". The username field is left empty
// because PostgreSQL ignores it in SCRAM.
func (c *Client) ClientFirstMessage() string {
	return c.channelBinding + c.clientFirstMessageBare()
}

func (c *Client) clientFirstMessageBare() string {
	return "n=,r=" + c.nonce
}

// ProcessServerFirst parses the server-first-message carried in
// SASLContinue, derives SaltedPassword/ClientKey/StoredKey via PBKDF2 and
// HMAC-SHA-256, and returns the client-final-message to send as the
// SASLResponse (spec §7.3).
func (c *Client) ProcessServerFirst(serverFirst string) (string, error) {
	c.serverFirst = serverFirst

	var combinedNonce, saltB64 string
	var iterations int
	var haveNonce, haveSalt, haveIterations bool

	for _, part := range strings.Split(serverFirst, ",") {
		switch {
		case strings.HasPrefix(part, "r="):
			combinedNonce = part[2:]
			haveNonce = true
		case strings.HasPrefix(part, "s="):
			saltB64 = part[2:]
			haveSalt = true
		case strings.HasPrefix(part, "i="):
			n, err := strconv.Atoi(part[2:])
			if err != nil {
				return "", fmt.Errorf("scram: invalid iteration count: %w", err)
			}
			iterations = n
			haveIterations = true
		}
	}

	if !haveNonce {
		return "", errors.New("scram: server-first-message missing nonce")
	}
	if !haveSalt {
		return "", errors.New("scram: server-first-message missing salt")
	}
	if !haveIterations {
		return "", errors.New("scram: server-first-message missing iteration count")
	}

	if !strings.HasPrefix(combinedNonce, c.nonce) {
		return "", errors.New("scram: server nonce does not extend client nonce")
	}

	salt, err := base64.StdEncoding.DecodeString(saltB64)
	if err != nil {
		return "", fmt.Errorf("scram: invalid salt: %w", err)
	}

	saltedPassword := pbkdf2.Key([]byte(c.password), salt, iterations, keyLength, sha256.New)
	c.saltedPassword = saltedPassword

	clientKey := hmacSum(saltedPassword, []byte("Client Key"))
	storedKey := sha256.Sum256(clientKey)

	channelBindingB64 := base64.StdEncoding.EncodeToString([]byte(c.channelBinding))
	clientFinalWithoutProof := fmt.Sprintf("c=%s,r=%s", channelBindingB64, combinedNonce)

	authMessage := strings.Join([]string{c.clientFirstMessageBare(), serverFirst, clientFinalWithoutProof}, ",")
	c.authMessage = authMessage

	clientSignature := hmacSum(storedKey[:], []byte(authMessage))

	clientProof := make([]byte, keyLength)
	for i := range clientProof {
		clientProof[i] = clientKey[i] ^ clientSignature[i]
	}

	proofB64 := base64.StdEncoding.EncodeToString(clientProof)
	return fmt.Sprintf("%s,p=%s", clientFinalWithoutProof, proofB64), nil
}

// VerifyServerFinal parses the server-final-message carried in SASLFinal and
// verifies the server's signature against the AuthMessage computed during
// ProcessServerFirst, in constant time.
func (c *Client) VerifyServerFinal(serverFinal string) error {
	sigB64, ok := strings.CutPrefix(serverFinal, "v=")
	if !ok {
		return errors.New("scram: malformed server-final-message")
	}

	serverSignature, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return fmt.Errorf("scram: invalid server signature: %w", err)
	}

	if c.saltedPassword == nil || c.authMessage == "" {
		return errors.New("scram: verify called before client-final-message was generated")
	}

	serverKey := hmacSum(c.saltedPassword, []byte("Server Key"))
	expected := hmacSum(serverKey, []byte(c.authMessage))

	if !hmac.Equal(serverSignature, expected) {
		return errors.New("scram: server signature verification failed")
	}

	return nil
}

func hmacSum(key, data []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return mac.Sum(nil)
}
