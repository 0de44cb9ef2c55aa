package models

import "math"

type Reputation struct {
	BaseModel

	AreaID    uint `json:"area_id" gorm:"uniqueIndex:idx_reputations_area_account"`
	Area      Area `json:"area"`
	AccountID uint `json:"account_id" gorm:"uniqueIndex:idx_reputations_area_account"`

	Reputation int `json:"reputation"`
}

// SpreadOf derives the spread quota from a raw reputation score:
// cube root of three times the reputation, plus three, floored at min.
func SpreadOf(reputation, min int) int {
	spread := int(math.Cbrt(float64(3*reputation))) + 3
	if spread < min {
		spread = min
	}
	return spread
}

func (v Reputation) Spread(area Area) int {
	return SpreadOf(v.Reputation, area.SpreadMin)
}
