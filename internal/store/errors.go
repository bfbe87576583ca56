package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"nommie/internal/domain"
)

// postgres unique-violation SQLSTATE, see
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const pgUniqueViolation = "23505"

// uniqueConstraintConflict classifies a unique-violation *pgconn.PgError by
// constraint name into the Conflict taxonomy of domain.Error.
func uniqueConstraintConflict(err error) *domain.Error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case "idx_users_email":
		return &domain.Error{Kind: domain.KindConflict, Code: domain.CodeUniqueEmail, Message: "email already registered"}
	case "idx_membership_turn":
		return &domain.Error{Kind: domain.KindConflict, Code: domain.CodeSeatTaken, Message: "seat already taken"}
	case "idx_games_join_code":
		return &domain.Error{Kind: domain.KindConflict, Code: domain.CodeJoinCodeConflict, Message: "join code already in use"}
	default:
		return &domain.Error{Kind: domain.KindConflict, Code: domain.CodeConflictOther, Message: "unique constraint violated: " + pgErr.ConstraintName}
	}
}

// ClassifyWriteError turns a raw driver error from an append-only insert
// into a domain.Error: a classified Conflict for a unique violation,
// otherwise an Infra error carrying the driver error's message.
func ClassifyWriteError(err error) *domain.Error {
	if err == nil {
		return nil
	}
	if conflict := uniqueConstraintConflict(err); conflict != nil {
		return conflict
	}
	return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
}
