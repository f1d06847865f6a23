package pgstore

import (
	"context"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Storage) CreatePayment(ctx context.Context, p *models.Payment) (bson.ObjectID, error) {
	p.ID = bson.NewObjectID()
	_, err := s.db.Exec(ctx, `
INSERT INTO payments (id, parcel_id, user_email, transaction_id, created_at, extra)
VALUES ($1,$2,$3,$4,$5,$6)
`, p.ID.Hex(), p.ParcelID, p.UserEmail, p.TransactionID, p.CreatedAt.UTC(), extraOrEmpty(p.Extra))
	if err != nil {
		return bson.ObjectID{}, errors.Wrap(err, "insert payment")
	}
	return p.ID, nil
}

func (s *Storage) ListPayments(ctx context.Context, userEmail string) ([]*models.Payment, error) {
	rows, err := s.db.Query(ctx, `
SELECT id, parcel_id, user_email, transaction_id, created_at, extra
FROM payments
WHERE $1 = '' OR user_email = $1
ORDER BY created_at DESC, id DESC
`, userEmail)
	if err != nil {
		return nil, errors.Wrap(err, "select payments")
	}
	defer rows.Close()

	out := []*models.Payment{}
	for rows.Next() {
		var p models.Payment
		var id string
		var extra []byte
		if err := rows.Scan(&id, &p.ParcelID, &p.UserEmail, &p.TransactionID, &p.CreatedAt, &extra); err != nil {
			return nil, errors.Wrap(err, "scan payment")
		}
		if p.ID, err = bson.ObjectIDFromHex(id); err != nil {
			return nil, errors.Wrap(err, "payment id")
		}
		p.CreatedAt = p.CreatedAt.UTC()
		if p.Extra, err = decodeExtra(extra, "payment extra"); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}
