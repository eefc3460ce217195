package analytics

import (
	"quickshow/internal/shows"
)

// DashboardData is the admin console summary. Only paid bookings count.
type DashboardData struct {
	TotalBookings int64        `json:"totalBookings"`
	TotalRevenue  float64      `json:"totalRevenue"`
	ActiveShows   []shows.Show `json:"activeShows"`
	TotalUser     int64        `json:"totalUser"`
}

// PaidBookingStats is one aggregate row over paid bookings
type PaidBookingStats struct {
	Count   int64   `gorm:"column:count"`
	Revenue float64 `gorm:"column:revenue"`
}
