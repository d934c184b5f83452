package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/minishop-payorder/internal/domain/money"
	domain "github.com/Zhima-Mochi/minishop-payorder/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-payorder/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrNotFound     = domain.ErrNotFound
	ErrInvalidInput = errors.New("order: invalid input")
)

// Service manages orders before they are paid. Every call loads the order,
// mutates it through the aggregate and saves it back.
type Service struct {
	repo            Repository
	idGenerator     IDGenerator
	defaultCurrency string

	tracer       observability.Tracer
	log          observability.Logger
	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
}

func NewService(repo Repository, idGen IDGenerator, defaultCurrency string, tel observability.Observability) *Service {
	if tel == nil {
		tel = observability.Nop()
	}
	if defaultCurrency == "" {
		defaultCurrency = money.DefaultCurrency
	}
	metrics := tel.Metrics()

	return &Service{
		repo:            repo,
		idGenerator:     idGen,
		defaultCurrency: defaultCurrency,
		tracer:          tel.Tracer(),
		log:             tel.Logger().With(observability.F("service", orderService)),
		reqCounter:      metrics.Counter(observability.MUsecaseRequests),
		durHistogram:    metrics.Histogram(observability.MUsecaseDuration),
	}
}

// LineInput describes a line to add. UnitPrice is a decimal literal in the
// order's currency, e.g. "10.50".
type LineInput struct {
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   string
}

type CreateOrderInput struct {
	CustomerID string
	Currency   string
	Lines      []LineInput
}

type CreateOrderResult struct {
	OrderID string
	Status  domain.Status
	Total   money.Money
}

func (s *Service) CreateOrder(ctx context.Context, input CreateOrderInput) (_ *CreateOrderResult, err error) {
	ctx, op := s.begin(ctx, useCaseOrderCreate, "CreateOrder",
		attribute.String("order.customer_id", input.CustomerID),
		attribute.Int("order.lines", len(input.Lines)),
	)
	defer func() { op.end(err) }()

	currency := input.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	entity, err := domain.New(s.idGenerator.NewID(), input.CustomerID, currency)
	if err != nil {
		op.fail("DOMAIN_CONSTRUCTION_FAILED")
		return nil, invalid(err)
	}
	for _, l := range input.Lines {
		if err := addLine(entity, l); err != nil {
			op.fail("LINE_REJECTED")
			return nil, err
		}
	}

	total, err := entity.TotalAmount()
	if err != nil {
		op.fail("TOTAL_FAILED")
		return nil, err
	}

	if err := s.repo.Save(ctx, entity); err != nil {
		op.fail("REPO_SAVE_FAILED")
		return nil, fmt.Errorf("order: save: %w", err)
	}

	op.span.SetAttributes(attribute.String("order.id", entity.ID))
	op.logger.Info("order_created",
		observability.F("order_id", entity.ID),
		observability.F("total", total.String()),
	)
	return &CreateOrderResult{OrderID: entity.ID, Status: entity.Status, Total: total}, nil
}

func (s *Service) AddLine(ctx context.Context, orderID string, line LineInput) (_ *domain.Order, err error) {
	ctx, op := s.begin(ctx, useCaseOrderAddLine, "AddLine",
		attribute.String("order.id", orderID),
		attribute.String("order.product_id", line.ProductID),
	)
	defer func() { op.end(err) }()

	entity, err := s.load(ctx, op, orderID)
	if err != nil {
		return nil, err
	}
	if err := addLine(entity, line); err != nil {
		op.fail("LINE_REJECTED")
		return nil, err
	}
	if err := s.repo.Save(ctx, entity); err != nil {
		op.fail("REPO_SAVE_FAILED")
		return nil, fmt.Errorf("order: save: %w", err)
	}
	return entity, nil
}

// RemoveLine drops every line for productID. Unknown products are not an error.
func (s *Service) RemoveLine(ctx context.Context, orderID, productID string) (_ *domain.Order, err error) {
	ctx, op := s.begin(ctx, useCaseOrderRemoveLine, "RemoveLine",
		attribute.String("order.id", orderID),
		attribute.String("order.product_id", productID),
	)
	defer func() { op.end(err) }()

	entity, err := s.load(ctx, op, orderID)
	if err != nil {
		return nil, err
	}
	if err := entity.RemoveLine(productID); err != nil {
		op.fail("LINE_REJECTED")
		return nil, err
	}
	if err := s.repo.Save(ctx, entity); err != nil {
		op.fail("REPO_SAVE_FAILED")
		return nil, fmt.Errorf("order: save: %w", err)
	}
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id string) (_ *domain.Order, err error) {
	ctx, op := s.begin(ctx, useCaseOrderGet, "GetOrder", attribute.String("order.id", id))
	defer func() { op.end(err) }()

	return s.load(ctx, op, id)
}

func (s *Service) load(ctx context.Context, op *operation, id string) (*domain.Order, error) {
	if id == "" {
		op.fail("ORDER_ID_REQUIRED")
		return nil, invalid(domain.ErrIDRequired)
	}
	entity, err := s.repo.FindByID(ctx, id)
	switch {
	case err == nil:
		return entity, nil
	case errors.Is(err, domain.ErrNotFound):
		op.fail("ORDER_NOT_FOUND")
		return nil, err
	default:
		op.fail("REPO_LOOKUP_FAILED")
		return nil, fmt.Errorf("order: find %s: %w", id, err)
	}
}

// addLine keeps the paid-order rule as a domain error and reports everything
// else about the line as invalid input.
func addLine(entity *domain.Order, l LineInput) error {
	if l.ProductID == "" {
		return invalid(errors.New("product id is required"))
	}
	price, err := money.FromString(l.UnitPrice, entity.Currency)
	if err != nil {
		return invalid(err)
	}
	if err := entity.AddLine(l.ProductID, l.ProductName, l.Quantity, price); err != nil {
		if errors.Is(err, domain.ErrOrderModification) {
			return err
		}
		return invalid(err)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidInput, err)
}
