package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"nommie/internal/domain"
)

// GameRepo reads and writes the Game aggregate.
type GameRepo struct{}

func NewGameRepo() *GameRepo { return &GameRepo{} }

func (r *GameRepo) Load(ctx context.Context, gameID uint64) (*GameRow, *domain.Error) {
	tx := TxFromContext(ctx)
	var row GameRow
	err := tx.DB().WithContext(ctx).First(&row, "id = ?", gameID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, domain.ErrNotFoundGame()
	}
	if err != nil {
		return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return &row, nil
}

// Deltas holds the column changes of a single guarded update.
type Deltas map[string]any

// CompareAndSwap performs the guarded update of spec §4.4: a single UPDATE
// filtered on both id and lock_version, which simultaneously bumps
// updated_at, increments lock_version by 1, and applies the caller's column
// deltas. Zero affected rows triggers the NotFound/Conflict disambiguation
// read; on success it re-reads and returns the new row.
func (r *GameRepo) CompareAndSwap(ctx context.Context, gameID uint64, expectedLockVersion int64, deltas Deltas) (*GameRow, *domain.Error) {
	tx := TxFromContext(ctx)
	db := tx.DB().WithContext(ctx)

	updates := Deltas{}
	for k, v := range deltas {
		updates[k] = v
	}
	updates["updated_at"] = time.Now()
	updates["lock_version"] = gorm.Expr("lock_version + 1")

	result := db.Model(&GameRow{}).
		Where("id = ? AND lock_version = ?", gameID, expectedLockVersion).
		Updates(map[string]any(updates))
	if result.Error != nil {
		return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: result.Error.Error()}
	}

	if result.RowsAffected == 0 {
		var current GameRow
		err := db.First(&current, "id = ?", gameID).Error
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFoundGame()
		}
		if err != nil {
			return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
		}
		return nil, domain.ErrOptimisticLock(expectedLockVersion, current.LockVersion)
	}

	return r.Load(ctx, gameID)
}

func (r *GameRepo) Create(ctx context.Context, row *GameRow) *domain.Error {
	tx := TxFromContext(ctx)
	if err := tx.DB().WithContext(ctx).Create(row).Error; err != nil {
		if de := ClassifyWriteError(err); de != nil {
			return de
		}
		return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return nil
}
