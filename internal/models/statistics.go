package models

// MonthlyStat is one row of the yearly revenue table.
type MonthlyStat struct {
	Month           int     `json:"month"`
	Revenue         float64 `json:"revenue"`
	NewUsers        int     `json:"newUsers"`
	NewPremiumUsers int     `json:"newPremiumUsers"`
	Growth          float64 `json:"growth"` // percent vs previous month
}

// AdminStat is the payload of GET /statistics/admin?year=.
type AdminStat struct {
	Year              int           `json:"year"`
	TotalUsers        int           `json:"totalUsers"`
	TotalPremiumUsers int           `json:"totalPremiumUsers"`
	TotalRevenue      float64       `json:"totalRevenue"`
	GrowthRate        float64       `json:"growthRate"`
	MonthlyStats      []MonthlyStat `json:"monthlyStats"`
}

// SubscriptionStatus counts subscriptions by state.
type SubscriptionStatus struct {
	Active    int `json:"active"`
	Expired   int `json:"expired"`
	Cancelled int `json:"cancelled"`
}

// ChurnStat is the churn rate for one month.
type ChurnStat struct {
	Month     int     `json:"month"`
	ChurnRate float64 `json:"churnRate"`
	Churned   int     `json:"churned"`
}

// PopularCourse ranks a course by enrolments.
type PopularCourse struct {
	CourseID    int64   `json:"courseId"`
	CourseName  string  `json:"courseName"`
	Enrollments int     `json:"enrollments"`
	Star        float64 `json:"star"`
}

// RevenueByType splits revenue by subscription duration.
type RevenueByType struct {
	Type    string  `json:"type"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// ActiveUserStat reports active-user metrics.
type ActiveUserStat struct {
	DailyActive   int `json:"dailyActive"`
	WeeklyActive  int `json:"weeklyActive"`
	MonthlyActive int `json:"monthlyActive"`
}
