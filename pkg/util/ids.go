// Package util collects the small cross-cutting helpers the runtime needs in
// more than one package: ID generation and safe, idempotent disposal.
package util

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewID returns a globally unique identifier, prefixed for readability in
// logs (e.g. "sess_3f9a...", "tc_1a2b...").
func NewID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}

// NewConversationID generates a conversation ID from the current time plus a
// random suffix, per the specification's "auto-generated from
// timestamp+random if not supplied" requirement for AgentConfig.conversationId.
func NewConversationID() string {
	return fmt.Sprintf("conv_%d_%s", time.Now().UnixNano(), uuid.NewString()[:8])
}
