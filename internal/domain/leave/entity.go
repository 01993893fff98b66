package leave

import (
	"math"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/timeutil"
)

type Category string

const (
	CategoryAnnual    Category = "annual"
	CategorySick      Category = "sick"
	CategoryCasual    Category = "casual"
	CategoryMaternity Category = "maternity"
)

var Categories = []Category{CategoryAnnual, CategorySick, CategoryCasual, CategoryMaternity}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// Request is an application for time off. StartDate and EndDate are inclusive dates.
type Request struct {
	ID        string
	UserID    string
	Category  Category
	StartDate time.Time
	EndDate   time.Time
	Reason    string
	Status    RequestStatus
	DecidedBy *string
	DecidedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Days is the inclusive calendar-day span of the request.
func (r Request) Days() int {
	return timeutil.InclusiveDays(r.StartDate, r.EndDate)
}

// Entitlements are the per-category ceilings in days.
type Entitlements map[Category]float64

func DefaultEntitlements() Entitlements {
	return Entitlements{
		CategoryAnnual:    21,
		CategorySick:      14,
		CategoryCasual:    7,
		CategoryMaternity: 40,
	}
}

// Balance is the per-user ledger of remaining days. It is a cache derived from
// approved requests and can be rebuilt at any time with Recompute.
type Balance struct {
	UserID    string
	Annual    float64
	Sick      float64
	Casual    float64
	Maternity float64
	UpdatedAt time.Time
}

// NewBalance returns a ledger with every counter at its ceiling.
func NewBalance(userID string, ceilings Entitlements) Balance {
	b := Balance{UserID: userID}
	for _, c := range Categories {
		b.Set(c, ceilings[c])
	}
	return b
}

func (b Balance) Remaining(c Category) float64 {
	switch c {
	case CategoryAnnual:
		return b.Annual
	case CategorySick:
		return b.Sick
	case CategoryCasual:
		return b.Casual
	case CategoryMaternity:
		return b.Maternity
	}
	return 0
}

// SameAmounts reports whether every counter of b equals o's.
func (b Balance) SameAmounts(o Balance) bool {
	for _, c := range Categories {
		if b.Remaining(c) != o.Remaining(c) {
			return false
		}
	}
	return true
}

func (b *Balance) Set(c Category, days float64) {
	switch c {
	case CategoryAnnual:
		b.Annual = days
	case CategorySick:
		b.Sick = days
	case CategoryCasual:
		b.Casual = days
	case CategoryMaternity:
		b.Maternity = days
	}
}

// Recompute derives the balance from the user's requests. Only approved requests
// count; each counter is ceiling minus used days, clamped to [0, ceiling].
func Recompute(userID string, ceilings Entitlements, requests []Request) Balance {
	used := make(map[Category]float64, len(Categories))
	for _, r := range requests {
		if r.UserID != userID || r.Status != RequestStatusApproved {
			continue
		}
		used[r.Category] += float64(r.Days())
	}

	b := Balance{UserID: userID}
	for _, c := range Categories {
		ceiling := math.Max(0, ceilings[c])
		remaining := math.Min(ceiling, math.Max(0, ceiling-used[c]))
		b.Set(c, timeutil.RoundHours(remaining))
	}
	return b
}
