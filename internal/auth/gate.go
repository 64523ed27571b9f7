package auth

import (
	"context"

	"taskboard/internal/errors"
)

// Operation identifies a core operation for access classification.
type Operation string

const (
	OpHello         Operation = "hello"
	OpGetAllTasks   Operation = "getAllTask"
	OpGetAllUsers   Operation = "getAllUsers"
	OpGetAllProject Operation = "getAllProjects"
	OpCreateTask    Operation = "createTask"
	OpUpdateTask    Operation = "updateTask"
	OpSecretMessage Operation = "getSecretMessage"
)

// protectedOps classifies each operation. Missing entries are treated
// as protected so a new operation fails closed until classified.
var protectedOps = map[Operation]bool{
	OpHello:         false,
	OpGetAllTasks:   false,
	OpGetAllUsers:   false,
	OpGetAllProject: false,
	OpCreateTask:    true,
	OpUpdateTask:    true,
	OpSecretMessage: true,
}

// Gate enforces the public/protected boundary for core operations.
// It performs no authentication itself; it only checks whether a
// pre-resolved actor identity is present on the context.
type Gate struct{}

// NewGate creates a new access control gate.
func NewGate() *Gate {
	return &Gate{}
}

// IsProtected reports whether an operation requires an authenticated
// actor. Unknown operations are protected.
func (g *Gate) IsProtected(op Operation) bool {
	isProtected, known := protectedOps[op]
	if !known {
		return true
	}
	return isProtected
}

// Require admits or rejects an operation. Protected operations fail
// with an unauthorized error when no actor is present; public
// operations are admitted unconditionally.
func (g *Gate) Require(ctx context.Context, op Operation) (Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if g.IsProtected(op) && !ok {
		return Actor{}, errors.NewUnauthorizedError(string(op))
	}
	return actor, nil
}
