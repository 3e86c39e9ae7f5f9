package utils

// MonthlyEarnings is one row of the earnings-by-month aggregation over
// completed trips.
type MonthlyEarnings struct {
	Year     int     `json:"year" bson:"year"`
	Month    int     `json:"month" bson:"month"`
	Earnings float64 `json:"earnings" bson:"earnings"`
	Profit   float64 `json:"profit" bson:"profit"`
	Trips    int64   `json:"trips" bson:"trips"`
}
