package order

import (
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/minishop-payorder/internal/domain"
	"github.com/Zhima-Mochi/minishop-payorder/internal/domain/money"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("order: not found")
	ErrIDRequired        = errors.New("order: id is required")
	ErrCustomerRequired  = errors.New("order: customer id is required")
	ErrInvalidQuantity   = errors.New("order: quantity must be greater than zero")
	ErrEmptyOrder        = domain.NewError(domain.CodeEmptyOrder, "Cannot pay empty order")
	ErrOrderAlreadyPaid  = domain.NewError(domain.CodeOrderAlreadyPaid, "Order is already paid")
	ErrOrderModification = domain.NewError(domain.CodeOrderModification, "Cannot modify paid order")
)

type Status string

const (
	StatusCreated Status = "created"
	StatusPaid    Status = "paid"
	// StatusCancelled is reserved; no operation produces it yet.
	StatusCancelled Status = "cancelled"
)

// Line is a single product entry owned by an Order.
type Line struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   money.Money
}

// TotalPrice is unit price times quantity. A negative quantity yields
// money.ErrInvalidValue.
func (l Line) TotalPrice() (money.Money, error) {
	return l.UnitPrice.Scale(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is the aggregate root. Lines may only change before the order is paid.
type Order struct {
	ID         string
	CustomerID string
	Currency   string
	Lines      []Line
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func New(id, customerID, currency string) (*Order, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if customerID == "" {
		return nil, ErrCustomerRequired
	}
	if currency == "" {
		currency = money.DefaultCurrency
	}

	now := time.Now().UTC()
	return &Order{
		ID:         id,
		CustomerID: customerID,
		Currency:   currency,
		Status:     StatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// AddLine appends a line. Lines with the same product id are kept separate.
func (o *Order) AddLine(productID, productName string, quantity int, unitPrice money.Money) error {
	if o.Status == StatusPaid {
		return ErrOrderModification
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if unitPrice.Currency() != o.currency() {
		return fmt.Errorf("order: add line %s: %w: %s vs %s",
			productID, money.ErrCurrencyMismatch, unitPrice.Currency(), o.currency())
	}

	o.Lines = append(o.Lines, Line{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
	})
	o.touch()
	return nil
}

// RemoveLine drops every line for productID. Unknown ids are ignored.
func (o *Order) RemoveLine(productID string) error {
	if o.Status == StatusPaid {
		return ErrOrderModification
	}

	kept := make([]Line, 0, len(o.Lines))
	for _, l := range o.Lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	o.Lines = kept
	o.touch()
	return nil
}

// TotalAmount sums all line totals in the order's currency.
func (o *Order) TotalAmount() (money.Money, error) {
	total := money.Zero(o.currency())
	for _, l := range o.Lines {
		price, err := l.TotalPrice()
		if err != nil {
			return money.Money{}, fmt.Errorf("order %s: line %s: %w", o.ID, l.ProductID, err)
		}
		total, err = total.Add(price)
		if err != nil {
			return money.Money{}, fmt.Errorf("order %s: total: %w", o.ID, err)
		}
	}
	return total, nil
}

// Pay moves the order to paid. An order without lines, or whose total cannot
// be computed, can never be paid.
func (o *Order) Pay() error {
	if len(o.Lines) == 0 {
		return ErrEmptyOrder
	}
	if o.Status == StatusPaid {
		return ErrOrderAlreadyPaid
	}
	if _, err := o.TotalAmount(); err != nil {
		return err
	}
	o.Status = StatusPaid
	o.touch()
	return nil
}

func (o *Order) IsPaid() bool {
	return o.Status == StatusPaid
}

// Clone returns a deep copy that shares no mutable state with o.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.Lines != nil {
		c.Lines = make([]Line, len(o.Lines))
		copy(c.Lines, o.Lines)
	}
	return &c
}

func (o *Order) String() string {
	total, err := o.TotalAmount()
	if err != nil {
		return fmt.Sprintf("Order %s - %s - Total: invalid", o.ID, o.Status)
	}
	return fmt.Sprintf("Order %s - %s - Total: %s", o.ID, o.Status, total)
}

func (o *Order) currency() string {
	if o.Currency == "" {
		return money.DefaultCurrency
	}
	return o.Currency
}

func (o *Order) touch() {
	o.UpdatedAt = time.Now().UTC()
}
