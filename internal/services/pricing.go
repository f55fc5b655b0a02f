package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/shopspring/decimal"
)

var ErrInvalidOrder = errors.New("invalid order")

// Надбавка за пошив из ткани магазина, за единицу.
var stitchCharges = map[string]decimal.Decimal{
	"shirt": decimal.NewFromInt(350),
	"pant":  decimal.NewFromInt(450),
	"kurta": decimal.NewFromInt(400),
}

// Надбавка за пошив традиционной одежды.
var traditionalCharges = map[string]decimal.Decimal{
	"shirt": decimal.NewFromInt(350),
	"dhoti": decimal.NewFromInt(300),
	"both":  decimal.NewFromInt(550),
}

// Раздел каталога, из которого оформляется заказ каждого типа.
var orderItemKinds = map[orderflow.OrderType]models.ItemKind{
	orderflow.OrderTypeFabricOnly:          models.KindFabric,
	orderflow.OrderTypeFabricWithStitching: models.KindFabric,
	orderflow.OrderTypeReadyMade:           models.KindProduct,
	orderflow.OrderTypeTraditional:         models.KindProduct,
	orderflow.OrderTypeAccessory:           models.KindAccessory,
	orderflow.OrderTypeInnerwear:           models.KindInnerwear,
	orderflow.OrderTypeRental:              models.KindRental,
	orderflow.OrderTypeRentalBuy:           models.KindRental,
}

// Quote - расчёт стоимости заказа.
type Quote struct {
	UnitPrice       decimal.Decimal
	Meters          decimal.Decimal
	StitchType      string
	StitchingCharge decimal.Decimal
	RentalDays      int
	RentalDeposit   decimal.Decimal
	Quantity        int
	Total           decimal.Decimal
}

func invalidOrder(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOrder, fmt.Sprintf(format, args...))
}

// PriceOrder проверяет запрос на заказ и считает его стоимость по позиции каталога.
func PriceOrder(req *models.CreateOrderRequest, item *models.CatalogItem) (*Quote, error) {
	kind, ok := orderItemKinds[req.OrderType]
	if !ok {
		return nil, invalidOrder("unknown order type %q", req.OrderType)
	}
	if item.Kind != kind {
		return nil, invalidOrder("%s orders need a %s item, got %s", req.OrderType, kind, item.Kind)
	}

	q := &Quote{Quantity: req.Quantity, StitchType: strings.ToLower(strings.TrimSpace(req.StitchType))}
	if q.Quantity == 0 {
		q.Quantity = 1
	}
	if q.Quantity < 0 {
		return nil, invalidOrder("quantity must be positive")
	}
	if req.Size != "" && !item.HasSize(req.Size) {
		return nil, invalidOrder("size %q is not available", req.Size)
	}

	qty := decimal.NewFromInt(int64(q.Quantity))

	switch req.OrderType {
	case orderflow.OrderTypeFabricOnly, orderflow.OrderTypeFabricWithStitching:
		if !req.Meters.IsPositive() {
			return nil, invalidOrder("meters must be positive")
		}
		q.UnitPrice = item.Price
		q.Meters = req.Meters
		unit := item.Price.Mul(req.Meters)

		if req.OrderType == orderflow.OrderTypeFabricWithStitching {
			charge, ok := stitchCharges[q.StitchType]
			if !ok {
				return nil, invalidOrder("stitch type must be one of shirt, pant, kurta")
			}
			q.StitchingCharge = charge
			unit = unit.Add(charge)
		} else {
			q.StitchType = ""
		}
		q.Total = unit.Mul(qty)

	case orderflow.OrderTypeTraditional:
		q.UnitPrice = item.Price
		unit := item.Price
		if q.StitchType != "" {
			charge, ok := traditionalCharges[q.StitchType]
			if !ok {
				return nil, invalidOrder("stitch type must be one of shirt, dhoti, both")
			}
			q.StitchingCharge = charge
			unit = unit.Add(charge)
		}
		q.Total = unit.Mul(qty)

	case orderflow.OrderTypeRental:
		if req.RentalDays <= 0 {
			return nil, invalidOrder("rental_days must be positive")
		}
		q.StitchType = ""
		q.UnitPrice = item.PricePerDay
		q.RentalDays = req.RentalDays
		q.RentalDeposit = item.Deposit
		unit := item.PricePerDay.Mul(decimal.NewFromInt(int64(req.RentalDays))).Add(item.Deposit)
		q.Total = unit.Mul(qty)

	case orderflow.OrderTypeRentalBuy:
		if !item.BuyPrice.Valid {
			return nil, invalidOrder("%s is not for sale", item.Name)
		}
		q.StitchType = ""
		q.UnitPrice = item.BuyPrice.Decimal
		q.Total = item.BuyPrice.Decimal.Mul(qty)

	default:
		q.StitchType = ""
		q.UnitPrice = item.Price
		q.Total = item.Price.Mul(qty)
	}

	return q, nil
}
