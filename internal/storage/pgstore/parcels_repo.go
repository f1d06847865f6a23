package pgstore

import (
	"context"
	"time"

	"github.com/BearBump/ZapShift/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// creation_date lives in extra as sent; creation_sort is its parsed shadow
// and stays NULL when the value is not a timestamp.
const parcelColumns = `id, creator_email, payment_status, extra`

func scanParcel(row pgx.Row) (*models.Parcel, error) {
	var p models.Parcel
	var id string
	var extra []byte
	if err := row.Scan(&id, &p.CreatorEmail, &p.PaymentStatus, &extra); err != nil {
		return nil, err
	}
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrap(err, "parcel id")
	}
	p.ID = oid
	if p.Extra, err = decodeExtra(extra, "parcel extra"); err != nil {
		return nil, err
	}
	return &p, nil
}

func creationSort(p *models.Parcel) *time.Time {
	t, ok := p.CreationTime()
	if !ok {
		return nil
	}
	t = t.UTC()
	return &t
}

func (s *Storage) ListParcels(ctx context.Context, creatorEmail string) ([]*models.Parcel, error) {
	rows, err := s.db.Query(ctx, `
SELECT `+parcelColumns+`
FROM parcels
WHERE $1 = '' OR creator_email = $1
ORDER BY creation_sort DESC NULLS LAST, id DESC
`, creatorEmail)
	if err != nil {
		return nil, errors.Wrap(err, "select parcels")
	}
	defer rows.Close()

	out := []*models.Parcel{}
	for rows.Next() {
		p, err := scanParcel(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan parcel")
		}
		out = append(out, p)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func (s *Storage) GetParcel(ctx context.Context, id bson.ObjectID) (*models.Parcel, error) {
	p, err := scanParcel(s.db.QueryRow(ctx, `SELECT `+parcelColumns+` FROM parcels WHERE id = $1`, id.Hex()))
	if err != nil {
		return nil, mapNoRows(err, "select parcel")
	}
	return p, nil
}

func (s *Storage) CreateParcel(ctx context.Context, p *models.Parcel) (bson.ObjectID, error) {
	p.ID = bson.NewObjectID()
	_, err := s.db.Exec(ctx, `
INSERT INTO parcels (id, creator_email, creation_sort, payment_status, extra)
VALUES ($1,$2,$3,$4,$5)
`, p.ID.Hex(), p.CreatorEmail, creationSort(p), p.PaymentStatus, extraOrEmpty(p.Extra))
	if err != nil {
		return bson.ObjectID{}, errors.Wrap(err, "insert parcel")
	}
	return p.ID, nil
}

func (s *Storage) DeleteParcel(ctx context.Context, id bson.ObjectID) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM parcels WHERE id = $1`, id.Hex())
	if err != nil {
		return 0, errors.Wrap(err, "delete parcel")
	}
	return tag.RowsAffected(), nil
}

func (s *Storage) MarkParcelPaid(ctx context.Context, id bson.ObjectID) (int64, error) {
	tag, err := s.db.Exec(ctx, `UPDATE parcels SET payment_status = $2 WHERE id = $1`, id.Hex(), models.PaymentStatusPaid)
	if err != nil {
		return 0, errors.Wrap(err, "mark parcel paid")
	}
	return tag.RowsAffected(), nil
}
