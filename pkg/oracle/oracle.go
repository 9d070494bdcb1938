package oracle

import (
	"context"
)

// Role vocabulary the Oracle understands. The store's sender vocabulary
// ("user"/"bot") is mapped to these at the replay boundary, never inside
// the store.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn is one transcript entry in the Oracle's vocabulary.
type Turn struct {
	Role string
	Text string
}

// Oracle is the external conversational model capability. Stateless per
// call: the caller supplies full context every time.
type Oracle interface {
	// GenerateReply produces the next bot turn. priorContext is the
	// conversation so far, current is the new user input; current must
	// appear exactly once in the assembled request.
	GenerateReply(ctx context.Context, priorContext []Turn, current string) (string, error)

	// GenerateTitle derives a short free-form title from the first user
	// message. Callers treat any failure as recoverable.
	GenerateTitle(ctx context.Context, seedText string) (string, error)
}
