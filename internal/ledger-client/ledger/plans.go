package ledger

import (
	"github.com/shopspring/decimal"
)

type Plan struct {
	ID                   int             `json:"id"`
	Name                 string          `json:"name"`
	DailyPercent         decimal.Decimal `json:"dailyPercent"`
	TotalROIPercent      decimal.Decimal `json:"totalRoiPercent"`
	DurationDays         int             `json:"durationDays"`
	GiveawayBonusPercent decimal.Decimal `json:"giveawayBonusPercent"`
}

var plans = []Plan{
	newPlan(0, "SAVINGS", "12.6", "151.2", 12, "0"),
	newPlan(1, "CLASSICS", "10.5", "189.0", 18, "0"),
	newPlan(2, "PREMIUM", "9.7", "242.5", 25, "0"),
	newPlan(3, "SILVER", "13.3", "159.6", 12, "1"),
	newPlan(4, "GOLD", "11.6", "208.8", 18, "2"),
	newPlan(5, "PLATINUM", "11.3", "282.5", 25, "3"),
}

func newPlan(id int, name, daily, total string, days int, giveaway string) Plan {
	return Plan{
		ID:                   id,
		Name:                 name,
		DailyPercent:         decimal.RequireFromString(daily),
		TotalROIPercent:      decimal.RequireFromString(total),
		DurationDays:         days,
		GiveawayBonusPercent: decimal.RequireFromString(giveaway),
	}
}

// Plans returns a copy of the investment plan catalog.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

func PlanByID(id int) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// ProjectedReturn is the total payout of amount over the whole plan, rounded to 2 places.
func (p Plan) ProjectedReturn(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.TotalROIPercent).Div(decimal.NewFromInt(100)).Round(2)
}
