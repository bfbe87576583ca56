// Package store implements the persistence adapters: GORM entity mapping,
// the optimistic-locking guarded update on Game, append-only writers for
// the round-scoped entities, and the transaction handle threaded through
// context.Context.
package store

import (
	"time"

	"gorm.io/gorm"
)

// Visibility is the Game's public/private flag.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// GameRow is the Game aggregate root row.
type GameRow struct {
	ID                 uint64 `gorm:"primaryKey"`
	CreatorUserID      uint64
	Visibility         Visibility `gorm:"type:text"`
	LifecycleState     string     `gorm:"type:text;index"`
	RulesVersion       string
	Seed               []byte `gorm:"type:bytea;size:32"` // immutable once set
	CurrentRound       *int
	StartingDealerSeat *int
	CurrentTrickNumber int
	LockVersion        int64 `gorm:"not null;default:1"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	StartedAt          *time.Time
	EndedAt            *time.Time
}

func (GameRow) TableName() string { return "games" }

// MembershipRow is one of a game's (up to) four seats.
type MembershipRow struct {
	ID        uint64 `gorm:"primaryKey"`
	GameID    uint64 `gorm:"uniqueIndex:idx_membership_turn,priority:1"`
	UserID    uint64
	TurnOrder int `gorm:"uniqueIndex:idx_membership_turn,priority:2"`
	IsReady   bool
	Role      string `gorm:"type:text"`
	AiProfileID *uint64
}

func (MembershipRow) TableName() string { return "memberships" }

// RoundRow records one round's schedule facts and trump choice.
type RoundRow struct {
	ID          uint64 `gorm:"primaryKey"`
	GameID      uint64 `gorm:"uniqueIndex:idx_round_no,priority:1"`
	RoundNo     int    `gorm:"uniqueIndex:idx_round_no,priority:2"`
	HandSize    int
	DealerSeat  int
	Trump       *string // verbose trump name, nil until TrumpSelect resolves
	CompletedAt *time.Time
}

func (RoundRow) TableName() string { return "rounds" }

// HandRow is the immutable dealt hand of record for one seat in one round.
type HandRow struct {
	ID       uint64 `gorm:"primaryKey"`
	RoundID  uint64 `gorm:"uniqueIndex:idx_hand_seat,priority:1"`
	Seat     int    `gorm:"uniqueIndex:idx_hand_seat,priority:2"`
	CardsRaw []byte `gorm:"type:jsonb"` // verbose-form JSON array of cards, dealt order
}

func (HandRow) TableName() string { return "hands" }

// BidRow is one seat's bid within a round.
type BidRow struct {
	ID       uint64 `gorm:"primaryKey"`
	RoundID  uint64 `gorm:"uniqueIndex:idx_bid_seat,priority:1;uniqueIndex:idx_bid_order,priority:1"`
	Seat     int    `gorm:"uniqueIndex:idx_bid_seat,priority:2"`
	BidValue int
	BidOrder int `gorm:"uniqueIndex:idx_bid_order,priority:2"`
}

func (BidRow) TableName() string { return "bids" }

// TrickRow is written atomically once the trick's fourth play completes.
type TrickRow struct {
	ID        uint64 `gorm:"primaryKey"`
	RoundID   uint64 `gorm:"index"`
	TrickNo   int
	LeadSuit  string
	WinnerSeat int
}

func (TrickRow) TableName() string { return "tricks" }

// PlayRow is one seat's card within a trick.
type PlayRow struct {
	ID        uint64 `gorm:"primaryKey"`
	TrickID   uint64 `gorm:"uniqueIndex:idx_play_seat,priority:1;uniqueIndex:idx_play_order,priority:1"`
	Seat      int    `gorm:"uniqueIndex:idx_play_seat,priority:2"`
	CardRaw   []byte `gorm:"type:jsonb"`
	PlayOrder int    `gorm:"uniqueIndex:idx_play_order,priority:2"`
}

func (PlayRow) TableName() string { return "plays" }

// RoundScoreRow is written once per seat per round at scoring time.
type RoundScoreRow struct {
	ID              uint64 `gorm:"primaryKey"`
	RoundID         uint64 `gorm:"uniqueIndex:idx_score_seat,priority:1"`
	Seat            int    `gorm:"uniqueIndex:idx_score_seat,priority:2"`
	Bid             int
	TricksWon       int
	BidMet          bool
	BaseScore       int
	Bonus           int
	RoundScore      int
	TotalScoreAfter int
}

func (RoundScoreRow) TableName() string { return "round_scores" }

// AiProfileRow configures one AI-occupied membership.
type AiProfileRow struct {
	ID            uint64 `gorm:"primaryKey"`
	UserID        uint64
	EngineKind    string
	EngineVersion string
	ConfigJSON    []byte `gorm:"type:jsonb"`
	MemoryLevel   int
}

func (AiProfileRow) TableName() string { return "ai_profiles" }

// AllModels lists every entity for migration registration.
func AllModels() []any {
	return []any{
		&GameRow{}, &MembershipRow{}, &RoundRow{}, &HandRow{},
		&BidRow{}, &TrickRow{}, &PlayRow{}, &RoundScoreRow{}, &AiProfileRow{},
	}
}

// AutoMigrate registers the schema with GORM's migrator.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
