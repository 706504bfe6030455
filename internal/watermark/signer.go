package watermark

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// length of the encoded signature stored in the payload
const signatureLength = 16

var ErrEmptyKey = errors.New("watermark: signing key is empty")

// issues and verifies payload signatures with a keyed blake2b MAC
type Signer struct {
	key []byte
}

// creates a signer; keys longer than blake2b allows are hashed down first
func NewSigner(key []byte) (*Signer, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}

	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}

	return &Signer{key: append([]byte(nil), key...)}, nil
}

// builds a fresh signed payload for a creator
func (s *Signer) NewPayload(creatorID string, now time.Time) Payload {
	p := Payload{
		ID:        uuid.NewString(),
		CreatorID: creatorID,
		Timestamp: now.UnixMilli(),
	}
	p.Signature = s.Sign(p)

	return p
}

// computes the signature over id, creator and timestamp
func (s *Signer) Sign(p Payload) string {
	mac, _ := blake2b.New256(s.key) // key length is checked in NewSigner
	mac.Write([]byte(p.ID))
	mac.Write([]byte{':'})
	mac.Write([]byte(p.CreatorID))
	mac.Write([]byte{':'})
	mac.Write([]byte(strconv.FormatInt(p.Timestamp, 10)))

	encoded := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	return encoded[:signatureLength]
}

// reports whether the payload signature was issued by this signer
func (s *Signer) Verify(p Payload) bool {
	expected := s.Sign(p)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(p.Signature)) == 1
}
