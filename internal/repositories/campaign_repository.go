package repositories

import (
	"context"
	"errors"

	"campaignhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
)

// CampaignRepository - кампании workflow только читает, Create нужен для сидов
type CampaignRepository interface {
	Create(ctx context.Context, campaign *models.Campaign) error
	FindByID(ctx context.Context, id string) (*models.Campaign, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Campaign, error)
}

type CampaignRepositoryImpl struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &CampaignRepositoryImpl{db: db}
}

func (r *CampaignRepositoryImpl) Create(ctx context.Context, campaign *models.Campaign) error {
	return r.db.WithContext(ctx).Create(campaign).Error
}

func (r *CampaignRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.db.WithContext(ctx).First(&campaign, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, err
	}
	return &campaign, nil
}

func (r *CampaignRepositoryImpl) FindByIDs(ctx context.Context, ids []string) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	if len(ids) == 0 {
		return campaigns, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&campaigns).Error
	return campaigns, err
}
