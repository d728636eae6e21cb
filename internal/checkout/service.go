package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/farmfresh-backend/internal/address"
	"github.com/angelmondragon/farmfresh-backend/internal/cart"
	"github.com/angelmondragon/farmfresh-backend/internal/checkout/helpers"
	"github.com/angelmondragon/farmfresh-backend/internal/orders"
	pkgcheckout "github.com/angelmondragon/farmfresh-backend/pkg/checkout"
	"github.com/angelmondragon/farmfresh-backend/pkg/db"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
	"github.com/angelmondragon/farmfresh-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmfresh-backend/pkg/errors"
	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

type customerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type addressBook interface {
	ListAddresses(ctx context.Context, customerID uuid.UUID) ([]address.AddressDTO, error)
	AddAddress(ctx context.Context, customerID uuid.UUID, input address.AddressInput, makeDefault bool) ([]address.AddressDTO, error)
	Resolve(ctx context.Context, customerID uuid.UUID, addressID *uuid.UUID) (*address.AddressDTO, error)
}

type cartReader interface {
	View(ctx context.Context, customerID uuid.UUID) (*cart.View, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
}

type orderFinalizer interface {
	Finalize(ctx context.Context, draft orders.Draft) (*orders.CustomerOrderView, error)
	CustomerOrder(ctx context.Context, customerID, orderID uuid.UUID) (*orders.CustomerOrderView, error)
}

// Service turns a customer's cart into an order.
type Service interface {
	PlaceOrder(ctx context.Context, customerID uuid.UUID, input PlaceOrderInput) (*orders.CustomerOrderView, error)
	Quote(ctx context.Context, customerID uuid.UUID, couponCode string) (*Quote, error)
}

// PlaceOrderInput selects the delivery address and options for an order.
// Address, when set, is used instead of a saved address.
type PlaceOrderInput struct {
	AddressID         *uuid.UUID
	Address           *address.AddressInput
	SaveAddress       bool
	DeliverySlot      enums.DeliverySlot
	PaymentMethod     enums.PaymentMethod
	OnlinePaymentType enums.OnlinePaymentType
	CouponCode        string
	IdempotencyKey    string
}

// Quote is the priced cart without placing an order.
type Quote struct {
	Items     []cart.Line `json:"items"`
	ItemCount int         `json:"item_count"`
	helpers.Totals
}

type ServiceParams struct {
	Customers   customerLoader
	Addresses   addressBook
	Cart        cartReader
	Orders      orderFinalizer
	DeliveryFee decimal.Decimal
	Coupon      helpers.CouponRule
	Logger      *logger.Logger
}

type service struct {
	customers   customerLoader
	addresses   addressBook
	cart        cartReader
	orders      orderFinalizer
	deliveryFee decimal.Decimal
	coupon      helpers.CouponRule
	logg        *logger.Logger
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Customers == nil {
		return nil, fmt.Errorf("customer loader required")
	}
	if params.Addresses == nil {
		return nil, fmt.Errorf("address book required")
	}
	if params.Cart == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders service required")
	}
	return &service{
		customers:   params.Customers,
		addresses:   params.Addresses,
		cart:        params.Cart,
		orders:      params.Orders,
		deliveryFee: params.DeliveryFee,
		coupon:      params.Coupon,
		logg:        params.Logger,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, customerID uuid.UUID, input PlaceOrderInput) (*orders.CustomerOrderView, error) {
	if err := validatePlaceOrder(input); err != nil {
		return nil, err
	}

	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load customer")
	}
	if customer.UserType != enums.UserTypeCustomer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can place orders")
	}

	draftID := helpers.DraftID(customerID, input.IdempotencyKey)
	if strings.TrimSpace(input.IdempotencyKey) != "" {
		// a replay must not depend on the cart, which the first attempt cleared
		existing, err := s.orders.CustomerOrder(ctx, customerID, draftID)
		if err == nil {
			return existing, nil
		}
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
	}

	fields, err := s.deliveryFields(ctx, customerID, input)
	if err != nil {
		return nil, err
	}

	view, err := s.cart.View(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := helpers.ValidateReadiness(fields, len(view.Lines) > 0); err != nil {
		return nil, err
	}

	if input.Address != nil && input.SaveAddress {
		if err := s.saveAddress(ctx, customerID, *input.Address); err != nil {
			return nil, err
		}
	}

	totals := helpers.Price(s.coupon, view.Subtotal, s.deliveryFee, input.CouponCode)
	draft := helpers.BuildOrderDraft(
		draftID,
		helpers.Customer{
			ID:    customer.ID,
			Name:  customer.Name,
			Email: customer.Email,
			Phone: contactPhone(fields, customer),
		},
		view.Lines,
		helpers.Delivery{
			Address:      address.FormatDeliveryAddress(fields),
			SlotLabel:    input.DeliverySlot.Label(),
			PaymentLabel: enums.PaymentLabel(input.PaymentMethod, input.OnlinePaymentType),
		},
		totals,
	)

	order, err := s.orders.Finalize(ctx, draft)
	if err != nil {
		return nil, err
	}

	// the order is already committed
	if err := s.cart.Clear(ctx, customerID); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"order_id": order.ID.String(),
			"error":    err.Error(),
		}), "checkout.cart_clear_failed")
	}
	return order, nil
}

func (s *service) Quote(ctx context.Context, customerID uuid.UUID, couponCode string) (*Quote, error) {
	view, err := s.cart.View(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Items:     view.Lines,
		ItemCount: view.ItemCount,
		Totals:    helpers.Price(s.coupon, view.Subtotal, s.deliveryFee, couponCode),
	}, nil
}

func validatePlaceOrder(input PlaceOrderInput) error {
	details := map[string]string{}
	if !input.DeliverySlot.IsValid() {
		details["delivery_slot"] = "must be morning, afternoon or evening"
	}
	if !input.PaymentMethod.IsValid() {
		details["payment_method"] = "must be cod or online"
	}
	if input.PaymentMethod == enums.PaymentMethodOnline && !input.OnlinePaymentType.IsValid() {
		details["online_payment_type"] = "must be card, upi, netbanking or wallet"
	}
	if input.Address != nil && input.AddressID != nil {
		details["address_id"] = "send either address_id or address, not both"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid checkout request").WithDetails(details)
	}
	return nil
}

// deliveryFields picks the inline address, the requested saved address, or
// the customer's default, in that order. No address yields empty fields.
func (s *service) deliveryFields(ctx context.Context, customerID uuid.UUID, input PlaceOrderInput) (pkgcheckout.AddressFields, error) {
	if input.Address != nil {
		return trimFields(input.Address.Fields()), nil
	}
	saved, err := s.addresses.Resolve(ctx, customerID, input.AddressID)
	if err != nil {
		return pkgcheckout.AddressFields{}, err
	}
	if saved == nil {
		return pkgcheckout.AddressFields{}, nil
	}
	return saved.Fields(), nil
}

// saveAddress stores an inline address unless an identical one is already saved.
func (s *service) saveAddress(ctx context.Context, customerID uuid.UUID, input address.AddressInput) error {
	existing, err := s.addresses.ListAddresses(ctx, customerID)
	if err != nil {
		return err
	}
	want := trimFields(input.Fields())
	for _, saved := range existing {
		if saved.Fields() == want {
			return nil
		}
	}
	_, err = s.addresses.AddAddress(ctx, customerID, input, false)
	return err
}

func trimFields(f pkgcheckout.AddressFields) pkgcheckout.AddressFields {
	return pkgcheckout.AddressFields{
		FullName: strings.TrimSpace(f.FullName),
		Street:   strings.TrimSpace(f.Street),
		City:     strings.TrimSpace(f.City),
		State:    strings.TrimSpace(f.State),
		Zip:      strings.TrimSpace(f.Zip),
		Phone:    strings.TrimSpace(f.Phone),
	}
}

func contactPhone(fields pkgcheckout.AddressFields, customer *models.User) string {
	if fields.Phone != "" {
		return fields.Phone
	}
	if customer.Phone != nil {
		return *customer.Phone
	}
	return ""
}
