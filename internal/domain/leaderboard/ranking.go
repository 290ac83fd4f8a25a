// Package leaderboard builds the weekly ranked view of a league roster.
// Rankings are ephemeral: computed per request from the roster, the user
// records, and the aggregated weekly XP, and never persisted.
package leaderboard

import (
	"sort"

	"github.com/biteburst/biteburst-leagues/internal/domain/league"
	"github.com/biteburst/biteburst-leagues/internal/domain/user"
)

// Row is one line of the rendered leaderboard.
type Row struct {
	// Rank is the 1-based ordinal position. Dense: ranks are exactly 1..N.
	Rank int `json:"rank"`

	// UserID is the member's user ID.
	UserID string `json:"user_id"`

	// Name is the member's display name.
	Name string `json:"name"`

	// Avatar is the derived glyph, stable for a given (ID, name).
	Avatar string `json:"avatar"`

	// XPWeek is the member's XP sum inside the week window.
	XPWeek int `json:"xp_week"`

	// Streak is the member's consecutive-day logging streak.
	Streak int `json:"streak"`
}

// BuildRanking joins roster membership with user records and weekly XP,
// sorts with a total order, and assigns ordinal ranks.
//
// Sort order: weekly XP descending, then streak descending, then user ID
// ascending. The ID tie-break makes the order total, so repeated calls
// with identical inputs produce identical output.
//
// Member IDs without a user record are skipped: stale membership is an
// empty contribution, not a failure.
func BuildRanking(memberIDs []string, users map[string]*user.User, weeklyXP map[string]int) []Row {
	rows := make([]Row, 0, len(memberIDs))

	for _, id := range memberIDs {
		u, ok := users[id]
		if !ok {
			continue
		}
		rows = append(rows, Row{
			UserID: id,
			Name:   u.DisplayName,
			Avatar: DeriveAvatar(id, u.DisplayName),
			XPWeek: weeklyXP[id], // missing entries default to 0
			Streak: u.Streak,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].XPWeek != rows[j].XPWeek {
			return rows[i].XPWeek > rows[j].XPWeek
		}
		if rows[i].Streak != rows[j].Streak {
			return rows[i].Streak > rows[j].Streak
		}
		return rows[i].UserID < rows[j].UserID
	})

	// Ordinal ranking: ties in XP/streak still get distinct sequential
	// ranks via the ID tie-break, so ranks are always exactly 1..N.
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows
}

// Zones locates the promotion and demotion cut lines for a tier.
// The promotion boundary is the last rank that advances; the demotion
// boundary is the first rank that drops, or nil when the tier has no
// demotion zone (bronze). Ranks are 1-based, so a board smaller than its
// demotion count has no valid cut line and gets nil too; a lazily created
// board starts with a single member and must still render cleanly.
func Zones(cfg league.Config, totalMembers int) (promotionRank int, demotionRank *int) {
	promotionRank = cfg.PromoteCount
	if cfg.DemoteCount > 0 {
		if r := totalMembers - cfg.DemoteCount + 1; r >= 1 {
			demotionRank = &r
		}
	}
	return promotionRank, demotionRank
}

// FindRow returns the row belonging to userID, or nil when the user is not
// on the board. Callers render "my row" from this; absence is not an error.
func FindRow(rows []Row, userID string) *Row {
	for i := range rows {
		if rows[i].UserID == userID {
			return &rows[i]
		}
	}
	return nil
}
