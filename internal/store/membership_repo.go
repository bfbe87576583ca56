package store

import (
	"context"

	"nommie/internal/domain"
)

// MembershipRepo reads and writes a game's seat memberships.
type MembershipRepo struct{}

func NewMembershipRepo() *MembershipRepo { return &MembershipRepo{} }

// ListByGame returns a game's memberships ordered by seat (turn_order).
func (r *MembershipRepo) ListByGame(ctx context.Context, gameID uint64) ([]MembershipRow, *domain.Error) {
	tx := TxFromContext(ctx)
	var rows []MembershipRow
	if err := tx.DB().WithContext(ctx).Where("game_id = ?", gameID).Order("turn_order ASC").Find(&rows).Error; err != nil {
		return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return rows, nil
}

// SetReady flips a seat's is_ready flag.
func (r *MembershipRepo) SetReady(ctx context.Context, gameID uint64, seat int, ready bool) *domain.Error {
	tx := TxFromContext(ctx)
	res := tx.DB().WithContext(ctx).Model(&MembershipRow{}).
		Where("game_id = ? AND turn_order = ?", gameID, seat).
		Update("is_ready", ready)
	if res.Error != nil {
		return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: res.Error.Error()}
	}
	if res.RowsAffected == 0 {
		return &domain.Error{Kind: domain.KindNotFound, Code: domain.CodeNotFoundPlayer, Message: "no membership at that seat"}
	}
	return nil
}

// Create inserts a new seat membership; unique-violation on (game_id,
// turn_order) classifies to Conflict(SeatTaken) via ClassifyWriteError.
func (r *MembershipRepo) Create(ctx context.Context, row *MembershipRow) *domain.Error {
	tx := TxFromContext(ctx)
	if err := tx.DB().WithContext(ctx).Create(row).Error; err != nil {
		if de := ClassifyWriteError(err); de != nil {
			return de
		}
		return &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return nil
}

// AiProfile loads an AI profile by id.
func (r *MembershipRepo) AiProfile(ctx context.Context, id uint64) (*AiProfileRow, *domain.Error) {
	tx := TxFromContext(ctx)
	var row AiProfileRow
	if err := tx.DB().WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, &domain.Error{Kind: domain.KindInfra, Code: domain.CodeInfraOther, Message: err.Error()}
	}
	return &row, nil
}
