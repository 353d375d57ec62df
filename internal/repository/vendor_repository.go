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

var ErrVendorNotFound = errors.New("vendor platform not found")

// VendorRepository читает общий каталог вендорских платформ.
type VendorRepository struct {
	db *sqlx.DB
}

func NewVendorRepository(db *sqlx.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

// ListActive возвращает активные платформы по алфавиту.
func (r *VendorRepository) ListActive(ctx context.Context) ([]models.VendorPlatform, error) {
	items, err := common.SelectAll[models.VendorPlatform](ctx, r.db, `
		SELECT * FROM expert_network.vendor_platforms
		WHERE is_active = TRUE
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("vendor repository: list: %w", err)
	}
	return items, nil
}

// GetByID возвращает платформу независимо от признака активности.
func (r *VendorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VendorPlatform, error) {
	vendor, err := common.GetOne[models.VendorPlatform](ctx, r.db, ErrVendorNotFound,
		`SELECT * FROM expert_network.vendor_platforms WHERE id = $1`, id)
	if err != nil && !errors.Is(err, ErrVendorNotFound) {
		return nil, fmt.Errorf("vendor repository: get by id: %w", err)
	}
	return vendor, err
}
