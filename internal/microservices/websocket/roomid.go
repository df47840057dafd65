package websocket

import (
	"crypto/sha256"
	"encoding/hex"
)

// RoomID derives the push-channel room for a user: a stable one-way hash of
// the user id. It is a routing key, not a secret - membership only scopes
// delivery, authorization happens at the HTTP layer.
func RoomID(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}
