package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmfresh-backend/internal/repo"
	"github.com/angelmondragon/farmfresh-backend/pkg/db/models"
)

// FarmerRepository persists farmer profiles and their owned product ids.
type FarmerRepository struct {
	repo.Base
}

func NewFarmerRepository(db *gorm.DB) *FarmerRepository {
	return &FarmerRepository{Base: repo.NewBase(db)}
}

func (r *FarmerRepository) WithTx(tx *gorm.DB) *FarmerRepository {
	return &FarmerRepository{Base: r.Base.WithTx(tx)}
}

// Create inserts the farmer profile.
func (r *FarmerRepository) Create(ctx context.Context, dto CreateFarmerProfileDTO) (*models.FarmerProfile, error) {
	profile := dto.ToModel()
	if err := r.DB(ctx).Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// FindByUserID loads the profile owned by the given farmer user.
func (r *FarmerRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	if err := r.DB(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByID loads a profile by its id.
func (r *FarmerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	if err := r.DB(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByIDs loads the profiles matching ids, keyed by profile id.
func (r *FarmerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.FarmerProfile, error) {
	out := make(map[uuid.UUID]models.FarmerProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.FarmerProfile
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// AppendProductID adds productID to the profile's product list.
// The row is locked for the read-modify-write on dialects that support it.
func (r *FarmerRepository) AppendProductID(ctx context.Context, profileID, productID uuid.UUID) error {
	var profile models.FarmerProfile
	if err := r.ForUpdate(ctx).First(&profile, "id = ?", profileID).Error; err != nil {
		return err
	}
	return r.DB(ctx).
		Model(&models.FarmerProfile{}).
		Where("id = ?", profileID).
		UpdateColumn("product_ids", profile.ProductIDs.Append(productID)).Error
}

// RemoveProductID drops productID from the profile's product list.
func (r *FarmerRepository) RemoveProductID(ctx context.Context, profileID, productID uuid.UUID) error {
	var profile models.FarmerProfile
	if err := r.ForUpdate(ctx).First(&profile, "id = ?", profileID).Error; err != nil {
		return err
	}
	return r.DB(ctx).
		Model(&models.FarmerProfile{}).
		Where("id = ?", profileID).
		UpdateColumn("product_ids", profile.ProductIDs.Without(productID)).Error
}

// UpdateFields writes only the supplied columns of the profile owned by userID.
func (r *FarmerRepository) UpdateFields(ctx context.Context, userID uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB(ctx).
		Model(&models.FarmerProfile{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}

// List returns every farmer profile with its user, ordered by farm name.
func (r *FarmerRepository) List(ctx context.Context) ([]models.FarmerProfile, error) {
	var rows []models.FarmerProfile
	if err := r.DB(ctx).
		Preload("User").
		Order("farm_name ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
