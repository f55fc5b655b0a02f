package orderflow

// OrderType - тип заказа, как его присылает витрина.
type OrderType string

const (
	OrderTypeFabricOnly          OrderType = "fabric_only"
	OrderTypeFabricWithStitching OrderType = "fabric_with_stitching"
	OrderTypeReadyMade           OrderType = "ready_made"
	OrderTypeAccessory           OrderType = "accessory"
	OrderTypeInnerwear           OrderType = "innerwear"
	OrderTypeTraditional         OrderType = "traditional"
	OrderTypeRental              OrderType = "rental"
	OrderTypeRentalBuy           OrderType = "rental_buy"
)

// Valid сообщает, известен ли тип заказа.
func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeFabricOnly, OrderTypeFabricWithStitching, OrderTypeReadyMade,
		OrderTypeAccessory, OrderTypeInnerwear, OrderTypeTraditional,
		OrderTypeRental, OrderTypeRentalBuy:
		return true
	}
	return false
}

// Category определяет, какой граф переходов применяется к заказу.
type Category string

const (
	CategoryRental         Category = "RENTAL"
	CategoryReadyMadeGroup Category = "READY_MADE_GROUP"
	CategoryCustomStitched Category = "CUSTOM_STITCHED"
	CategoryFabricOnly     Category = "FABRIC_ONLY"
	CategoryUnknown        Category = "UNKNOWN"
)

// Classify относит заказ к категории. Порядок проверок важен: первое совпадение выигрывает.
func Classify(orderType OrderType, stitchType string, rentalDays int) Category {
	if rentalDays > 0 {
		return CategoryRental
	}

	switch orderType {
	case OrderTypeReadyMade, OrderTypeAccessory, OrderTypeInnerwear:
		return CategoryReadyMadeGroup
	case OrderTypeFabricWithStitching:
		return CategoryCustomStitched
	case OrderTypeTraditional:
		if stitchType != "" {
			return CategoryCustomStitched
		}
	case OrderTypeFabricOnly:
		return CategoryFabricOnly
	}

	return CategoryUnknown
}
