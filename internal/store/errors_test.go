package store

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"nommie/internal/domain"
)

func TestClassifyWriteErrorMapsKnownConstraints(t *testing.T) {
	cases := []struct {
		constraint string
		wantCode   domain.Code
	}{
		{"idx_users_email", domain.CodeUniqueEmail},
		{"idx_membership_turn", domain.CodeSeatTaken},
		{"idx_games_join_code", domain.CodeJoinCodeConflict},
		{"idx_bid_order", domain.CodeConflictOther},
	}
	for _, tc := range cases {
		err := &pgconn.PgError{Code: pgUniqueViolation, ConstraintName: tc.constraint}
		de := ClassifyWriteError(err)
		require.NotNil(t, de)
		require.Equal(t, domain.KindConflict, de.Kind)
		require.Equal(t, tc.wantCode, de.Code)
	}
}

func TestClassifyWriteErrorNonUniqueViolationIsInfra(t *testing.T) {
	err := &pgconn.PgError{Code: "40001"} // serialization_failure
	de := ClassifyWriteError(err)
	require.NotNil(t, de)
	require.Equal(t, domain.KindInfra, de.Kind)
}
