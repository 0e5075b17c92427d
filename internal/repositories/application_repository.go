package repositories

import (
	"context"
	"errors"

	"campaignhub_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
)

// ApplicationFilter - фильтр списка заявок, пустые поля не участвуют
type ApplicationFilter struct {
	CampaignID   string
	InfluencerID string
	Statuses     []models.ApplicationStatus
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id string) (*models.Application, error)
	FindByInfluencerAndCampaign(ctx context.Context, influencerID, campaignID string) (*models.Application, error)
	Update(ctx context.Context, app *models.Application) error
	List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error)
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *ApplicationRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

// FindByInfluencerAndCampaign возвращает самую свежую заявку пары
func (r *ApplicationRepositoryImpl) FindByInfluencerAndCampaign(ctx context.Context, influencerID, campaignID string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).
		Where("influencer_id = ? AND campaign_id = ?", influencerID, campaignID).
		Order("created_at DESC").
		First(&app).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) Update(ctx context.Context, app *models.Application) error {
	result := r.db.WithContext(ctx).Save(app)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *ApplicationRepositoryImpl) List(ctx context.Context, filter ApplicationFilter) ([]models.Application, error) {
	var apps []models.Application
	query := r.db.WithContext(ctx).Model(&models.Application{})

	if filter.CampaignID != "" {
		query = query.Where("campaign_id = ?", filter.CampaignID)
	}
	if filter.InfluencerID != "" {
		query = query.Where("influencer_id = ?", filter.InfluencerID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}

	err := query.Order("created_at DESC").Find(&apps).Error
	return apps, err
}
