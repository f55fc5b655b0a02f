package models

// DashboardStats - сводка для панели администратора.
type DashboardStats struct {
	OrdersByStatus     map[string]int `json:"orders_by_status"`
	BookingsByStatus   map[string]int `json:"bookings_by_status"`
	TotalOrders        int            `json:"total_orders"`
	Customers          int            `json:"customers"`
	MeasurementPending int            `json:"measurement_pending"`
}
