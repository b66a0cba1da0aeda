package domain

import "github.com/shopspring/decimal"

// StatusBuckets groups orders by coarse fulfillment stage.
type StatusBuckets struct {
	Pending    int `json:"pending"`
	Processing int `json:"processing"`
	Delivered  int `json:"delivered"`
}

// DailyRevenue is one point of the trailing series.
type DailyRevenue struct {
	Label   string          `json:"label"`
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// BestSeller aggregates order lines sharing an item name.
type BestSeller struct {
	Name    string          `json:"name"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Dashboard is the read-side report over the order ledger.
type Dashboard struct {
	TotalRevenue decimal.Decimal
	TodayRevenue decimal.Decimal
	TotalOrders  int
	Buckets      StatusBuckets
	Series       []DailyRevenue
	BestSellers  []BestSeller
	Recent       []Order
}
