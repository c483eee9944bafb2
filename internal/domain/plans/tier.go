package plans

import "github.com/abenfraj/menufique-sub001/internal/domain/users"

// Limits describes what a subscription tier allows. Zero means unlimited.
type Limits struct {
	MaxMenus            int
	MaxSnapshotsPerMenu int
}

func ForPlan(plan string) Limits {
	if plan == users.PlanPro {
		return Limits{}
	}
	return Limits{MaxMenus: 1, MaxSnapshotsPerMenu: 3}
}

func (l Limits) MenusAllowed(current int) bool {
	return l.MaxMenus == 0 || current < l.MaxMenus
}

func (l Limits) SnapshotsAllowed(current int) bool {
	return l.MaxSnapshotsPerMenu == 0 || current < l.MaxSnapshotsPerMenu
}
