package orderflow

import "strings"

// Status описывает этап жизненного цикла заказа.
type Status string

const (
	StatusPlaced          Status = "placed"
	StatusProcessing      Status = "processing"
	StatusStitching       Status = "stitching"
	StatusButtoning       Status = "buttoning"
	StatusIroning         Status = "ironing"
	StatusReadyForPickup  Status = "ready_for_pickup"
	StatusPickedUp        Status = "picked_up"
	StatusReturned        Status = "returned"
	StatusDepositRefunded Status = "deposit_refunded"
	StatusCancelled       Status = "cancelled"
)

const (
	// DefaultLabel возвращается для нераспознанного статуса.
	DefaultLabel = "Unknown"
	// DefaultColor - нейтральный цвет для нераспознанного статуса.
	DefaultColor = "default"
)

// statusDisplay - подпись и цветовой токен бейджа.
type statusDisplay struct {
	label string
	color string
}

var displays = map[Status]statusDisplay{
	StatusPlaced:          {label: "Placed", color: "default"},
	StatusProcessing:      {label: "Processing", color: "blue"},
	StatusStitching:       {label: "Stitching", color: "purple"},
	StatusButtoning:       {label: "Buttoning", color: "cyan"},
	StatusIroning:         {label: "Ironing", color: "gold"},
	StatusReadyForPickup:  {label: "Ready for Pickup", color: "orange"},
	StatusPickedUp:        {label: "Picked Up", color: "green"},
	StatusReturned:        {label: "Returned", color: "volcano"},
	StatusDepositRefunded: {label: "Deposit Refunded", color: "lime"},
	StatusCancelled:       {label: "Cancelled", color: "red"},
}

// allStatuses в порядке жизненного цикла.
var allStatuses = []Status{
	StatusPlaced,
	StatusProcessing,
	StatusStitching,
	StatusButtoning,
	StatusIroning,
	StatusReadyForPickup,
	StatusPickedUp,
	StatusReturned,
	StatusDepositRefunded,
	StatusCancelled,
}

// Normalize приводит статус к каноническому виду (без пробелов, в нижнем регистре).
func Normalize(s string) Status {
	return Status(strings.ToLower(strings.TrimSpace(s)))
}

// Valid сообщает, входит ли статус в общий словарь.
func (s Status) Valid() bool {
	_, ok := displays[Normalize(string(s))]
	return ok
}

// Label возвращает подпись статуса для отображения.
func Label(s Status) string {
	if d, ok := displays[Normalize(string(s))]; ok {
		return d.label
	}
	return DefaultLabel
}

// Color возвращает семантический цветовой токен статуса.
func Color(s Status) string {
	if d, ok := displays[Normalize(string(s))]; ok {
		return d.color
	}
	return DefaultColor
}

// AllStatuses возвращает копию полного словаря статусов.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}
