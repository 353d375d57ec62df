package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/repository/common"
)

var ErrEnrollmentNotFound = errors.New("vendor enrollment not found")

const enrollmentSelect = `
	SELECT cve.*,
		vp.name AS vendor_name,
		vp.logo_url AS vendor_logo_url,
		(SELECT COUNT(*) FROM expert_network.experts e
			WHERE e.campaign_id = cve.campaign_id AND e.vendor_platform_id = cve.vendor_platform_id
			AND e.status = 'proposed') AS experts_proposed_count,
		(SELECT COUNT(*) FROM expert_network.experts e
			WHERE e.campaign_id = cve.campaign_id AND e.vendor_platform_id = cve.vendor_platform_id
			AND e.status IN ('reviewed', 'approved', 'scheduled')) AS experts_reviewed_count,
		(SELECT COUNT(*) FROM expert_network.interviews i
			JOIN expert_network.experts e ON e.id = i.expert_id
			WHERE i.campaign_id = cve.campaign_id AND e.vendor_platform_id = cve.vendor_platform_id
			AND i.status = 'scheduled') AS interviews_scheduled_count
	FROM expert_network.campaign_vendor_enrollments cve
	JOIN expert_network.vendor_platforms vp ON vp.id = cve.vendor_platform_id
`

// EnrollmentRepository хранит подключения вендорских платформ к кампаниям.
type EnrollmentRepository struct {
	db *sqlx.DB
}

func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List возвращает подключения кампании со счётчиками воронки по каждому вендору.
func (r *EnrollmentRepository) List(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.VendorEnrollment, error) {
	owned, err := campaignOwned(ctx, r.db, campaignID, userID, false)
	if err != nil {
		return nil, fmt.Errorf("enrollment repository: check campaign: %w", err)
	}
	if !owned {
		return nil, ErrCampaignNotFound
	}

	items, err := common.SelectAll[models.VendorEnrollment](ctx, r.db,
		enrollmentSelect+" WHERE cve.campaign_id = $1 ORDER BY cve.created_at", campaignID)
	if err != nil {
		return nil, fmt.Errorf("enrollment repository: list: %w", err)
	}
	return items, nil
}

// Enroll подключает вендора к кампании. Повторное подключение возвращает статус в pending.
func (r *EnrollmentRepository) Enroll(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) (*models.VendorEnrollment, error) {
	var enrollment *models.VendorEnrollment

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := campaignOwned(ctx, tx, campaignID, userID, true)
		if err != nil {
			return fmt.Errorf("check campaign: %w", err)
		}
		if !owned {
			return ErrCampaignNotFound
		}

		exists, err := common.Exists(ctx, tx,
			`SELECT 1 FROM expert_network.vendor_platforms WHERE id = $1`, vendorID)
		if err != nil {
			return fmt.Errorf("check vendor: %w", err)
		}
		if !exists {
			return ErrVendorNotFound
		}

		var id uuid.UUID
		if err := tx.GetContext(ctx, &id, `
			INSERT INTO expert_network.campaign_vendor_enrollments (campaign_id, vendor_platform_id, status)
			VALUES ($1, $2, 'pending')
			ON CONFLICT (campaign_id, vendor_platform_id)
			DO UPDATE SET status = 'pending', updated_at = NOW()
			RETURNING id
		`, campaignID, vendorID); err != nil {
			return fmt.Errorf("upsert: %w", err)
		}

		enrollment, err = common.GetOne[models.VendorEnrollment](ctx, tx, ErrEnrollmentNotFound,
			enrollmentSelect+" WHERE cve.id = $1", id)
		return err
	})
	if err != nil {
		if isDomainNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("enrollment repository: enroll: %w", err)
	}
	return enrollment, nil
}

// UpdateStatus меняет статус подключения.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, campaignID, vendorID uuid.UUID, userID, status string) (*models.VendorEnrollment, error) {
	var enrollment *models.VendorEnrollment

	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := campaignOwned(ctx, tx, campaignID, userID, false)
		if err != nil {
			return fmt.Errorf("check campaign: %w", err)
		}
		if !owned {
			return ErrCampaignNotFound
		}

		var row models.VendorEnrollment
		found, err := common.ExecUpdate(ctx, tx, common.UpdateQuery{
			Table:     common.Table("campaign_vendor_enrollments"),
			Set:       common.Assignments{}.Set("status", status),
			Where:     "campaign_id = $1 AND vendor_platform_id = $2",
			WhereArgs: []interface{}{campaignID, vendorID},
		}, &row)
		if err != nil {
			return err
		}
		if !found {
			return ErrEnrollmentNotFound
		}

		enrollment, err = common.GetOne[models.VendorEnrollment](ctx, tx, ErrEnrollmentNotFound,
			enrollmentSelect+" WHERE cve.id = $1", row.ID)
		return err
	})
	if err != nil {
		if isDomainNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("enrollment repository: update status: %w", err)
	}
	return enrollment, nil
}

// Remove отключает вендора от кампании.
func (r *EnrollmentRepository) Remove(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) error {
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		owned, err := campaignOwned(ctx, tx, campaignID, userID, false)
		if err != nil {
			return fmt.Errorf("check campaign: %w", err)
		}
		if !owned {
			return ErrCampaignNotFound
		}

		res, err := tx.ExecContext(ctx, `
			DELETE FROM expert_network.campaign_vendor_enrollments
			WHERE campaign_id = $1 AND vendor_platform_id = $2
		`, campaignID, vendorID)
		if err != nil {
			return fmt.Errorf("delete: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		} else if n == 0 {
			return ErrEnrollmentNotFound
		}
		return nil
	})
	if err != nil && !isDomainNotFound(err) {
		return fmt.Errorf("enrollment repository: remove: %w", err)
	}
	return err
}
