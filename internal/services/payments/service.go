package payments

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/BearBump/ZapShift/internal/broker/messages"
	"github.com/BearBump/ZapShift/internal/integrations/payment"
	"github.com/BearBump/ZapShift/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type Repository interface {
	CreatePayment(ctx context.Context, p *models.Payment) (bson.ObjectID, error)
	ListPayments(ctx context.Context, userEmail string) ([]*models.Payment, error)
	MarkParcelPaid(ctx context.Context, parcelID bson.ObjectID) (int64, error)
}

type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

type Service struct {
	repo    Repository
	gateway payment.Gateway

	pub   Publisher
	topic string

	now func() time.Time
}

func New(repo Repository, gateway payment.Gateway) *Service {
	return &Service{repo: repo, gateway: gateway, now: time.Now}
}

// WithEvents makes Record publish a ParcelPaid message to topic.
func (s *Service) WithEvents(pub Publisher, topic string) *Service {
	s.pub = pub
	s.topic = topic
	return s
}

// CreateIntent asks the gateway for a USD payment intent. Gateway failures
// come back as *payment.GatewayError.
func (s *Service) CreateIntent(ctx context.Context, amount int64) (string, error) {
	secret, err := s.gateway.CreatePaymentIntent(ctx, amount, payment.CurrencyUSD)
	if err != nil {
		var gwErr *payment.GatewayError
		if !errors.As(err, &gwErr) {
			err = &payment.GatewayError{Message: err.Error(), Err: err}
		}
		return "", err
	}
	return secret, nil
}

type RecordResult struct {
	ID            bson.ObjectID
	ParcelUpdated bool
}

// Record stores the payment and then marks the referenced parcel paid.
// The two writes are not atomic: the payment is the primary record, and a
// failed or unmatched parcel update is logged and reported through
// ParcelUpdated rather than failing the call.
func (s *Service) Record(ctx context.Context, p *models.Payment) (RecordResult, error) {
	if p == nil {
		return RecordResult{}, models.Required("body")
	}
	if p.ParcelID == "" {
		return RecordResult{}, models.Required("parcelId")
	}
	if p.UserEmail == "" {
		return RecordResult{}, models.Required("userEmail")
	}
	if p.TransactionID == "" {
		return RecordResult{}, models.Required("transactionId")
	}
	parcelID, err := models.ParseID("parcelId", p.ParcelID)
	if err != nil {
		return RecordResult{}, err
	}

	p.CreatedAt = s.now().UTC()
	id, err := s.repo.CreatePayment(ctx, p)
	if err != nil {
		return RecordResult{}, err
	}

	res := RecordResult{ID: id}
	n, err := s.repo.MarkParcelPaid(ctx, parcelID)
	switch {
	case err != nil:
		slog.Error("payment recorded but parcel not marked paid",
			"payment_id", id.Hex(), "parcel_id", p.ParcelID, "error", err.Error())
	case n == 0:
		slog.Warn("payment recorded for unknown parcel", "payment_id", id.Hex(), "parcel_id", p.ParcelID)
	default:
		res.ParcelUpdated = true
	}

	s.publish(ctx, p, res)
	return res, nil
}

// List returns payments newest first, only userEmail's when it is non-empty.
func (s *Service) List(ctx context.Context, userEmail string) ([]*models.Payment, error) {
	return s.repo.ListPayments(ctx, userEmail)
}

func (s *Service) publish(ctx context.Context, p *models.Payment, res RecordResult) {
	if s.pub == nil || s.topic == "" {
		return
	}
	b, err := json.Marshal(messages.ParcelPaid{
		EventID:       uuid.NewString(),
		ParcelID:      p.ParcelID,
		PaymentID:     res.ID.Hex(),
		UserEmail:     p.UserEmail,
		TransactionID: p.TransactionID,
		ParcelUpdated: res.ParcelUpdated,
		PaidAt:        p.CreatedAt,
	})
	if err != nil {
		slog.Error("marshal parcel paid event", "error", err.Error())
		return
	}
	if err := s.pub.Publish(ctx, s.topic, []byte(p.ParcelID), b); err != nil {
		slog.Error("publish parcel paid event", "parcel_id", p.ParcelID, "error", err.Error())
	}
}
