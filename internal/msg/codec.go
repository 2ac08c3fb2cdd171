package msg

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Codec turns a message list into a cookie value and back.
type Codec interface {
	Encode(messages []Message) (string, error)
	Decode(value string) ([]Message, error)
}

// JSONCodec stores the list as base64url encoded JSON.
type JSONCodec struct{}

// Encode implements Codec.
func (JSONCodec) Encode(messages []Message) (string, error) {
	payload, err := encodeMessages(messages)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// Decode implements Codec.
func (JSONCodec) Decode(value string) ([]Message, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("decode cookie payload: %w", err)
	}
	return decodeMessages(payload)
}

const signedCodecIssuer = "blurb"

// SignedCodec stores the list in an HS256 JWT so clients cannot forge or edit
// messages.
type SignedCodec struct {
	key []byte
	now func() time.Time
}

type messageClaims struct {
	Messages []Message `json:"msgs"`
	jwt.RegisteredClaims
}

// NewSignedCodec returns a codec signing with secret. Secrets shorter than 32
// bytes are rejected.
func NewSignedCodec(secret []byte) (*SignedCodec, error) {
	if len(secret) < 32 {
		return nil, configurationError("cookie signing secret must be at least 32 bytes", nil)
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &SignedCodec{key: key, now: time.Now}, nil
}

// Encode implements Codec.
func (c *SignedCodec) Encode(messages []Message) (string, error) {
	claims := messageClaims{
		Messages: messages,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   signedCodecIssuer,
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", fmt.Errorf("sign cookie payload: %w", err)
	}
	return token, nil
}

// Decode implements Codec.
func (c *SignedCodec) Decode(value string) ([]Message, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	var claims messageClaims
	_, err := jwt.ParseWithClaims(
		value,
		&claims,
		func(*jwt.Token) (any, error) { return c.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(signedCodecIssuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify cookie payload: %w", err)
	}
	if len(claims.Messages) == 0 {
		return nil, nil
	}
	return claims.Messages, nil
}

// ErrCookieFlushed is returned when a cookie channel is written after its
// cookie was already sent with the response.
var ErrCookieFlushed = errors.New("msg: cookie already written for this response")
