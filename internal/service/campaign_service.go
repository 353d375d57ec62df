package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/validation"
)

const (
	entityCampaign   = "campaign"
	entityEnrollment = "enrollment"
)

// CampaignRepository описывает хранилище кампаний.
type CampaignRepository interface {
	List(ctx context.Context, userID string, filter models.CampaignFilter) ([]models.Campaign, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Campaign, error)
	Create(ctx context.Context, userID string, in models.CampaignInput) (*models.Campaign, error)
	Update(ctx context.Context, id uuid.UUID, userID string, patch models.CampaignPatch) (*models.Campaign, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

// EnrollmentRepository описывает хранилище подключений вендоров.
type EnrollmentRepository interface {
	List(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.VendorEnrollment, error)
	Enroll(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) (*models.VendorEnrollment, error)
	UpdateStatus(ctx context.Context, campaignID, vendorID uuid.UUID, userID, status string) (*models.VendorEnrollment, error)
	Remove(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) error
}

// CampaignService содержит бизнес-логику кампаний и подключений вендоров.
type CampaignService struct {
	repo        CampaignRepository
	enrollments EnrollmentRepository
	events      EventPublisher
}

// NewCampaignService создаёт сервис кампаний. events может быть nil.
func NewCampaignService(repo CampaignRepository, enrollments EnrollmentRepository, events EventPublisher) *CampaignService {
	return &CampaignService{repo: repo, enrollments: enrollments, events: events}
}

func (s *CampaignService) ListCampaigns(ctx context.Context, userID string, filter models.CampaignFilter) ([]models.Campaign, error) {
	items, err := s.repo.List(ctx, userID, filter)
	return items, translateError(err)
}

func (s *CampaignService) GetCampaign(ctx context.Context, id uuid.UUID, userID string) (*models.Campaign, error) {
	campaign, err := s.repo.GetByID(ctx, id, userID)
	return campaign, translateError(err)
}

// CreateCampaign проверяет данные и создаёт кампанию.
func (s *CampaignService) CreateCampaign(ctx context.Context, userID string, in models.CampaignInput) (*models.Campaign, error) {
	if err := validateCampaignInput(in); err != nil {
		return nil, validationError(err)
	}

	campaign, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return nil, translateError(err)
	}

	publish(s.events, userID, entityCampaign, models.ActionCreated, campaign)
	return campaign, nil
}

// UpdateCampaign применяет частичное обновление кампании.
func (s *CampaignService) UpdateCampaign(ctx context.Context, id uuid.UUID, userID string, patch models.CampaignPatch) (*models.Campaign, error) {
	if patch.IsEmpty() {
		return nil, apperror.ErrNoFieldsToUpdate
	}
	if err := validateCampaignPatch(patch); err != nil {
		return nil, validationError(err)
	}
	if err := s.validateAgainstStored(ctx, id, userID, patch); err != nil {
		return nil, err
	}

	campaign, err := s.repo.Update(ctx, id, userID, patch)
	if err != nil {
		return nil, translateError(err)
	}

	publish(s.events, userID, entityCampaign, models.ActionUpdated, campaign)
	return campaign, nil
}

// DeleteCampaign удаляет кампанию со всем содержимым.
func (s *CampaignService) DeleteCampaign(ctx context.Context, id uuid.UUID, userID string) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return translateError(err)
	}

	publish(s.events, userID, entityCampaign, models.ActionDeleted, map[string]uuid.UUID{"id": id})
	return nil
}

// ListEnrollments возвращает вендоров кампании со счётчиками воронки.
func (s *CampaignService) ListEnrollments(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.VendorEnrollment, error) {
	items, err := s.enrollments.List(ctx, campaignID, userID)
	return items, translateError(err)
}

// EnrollVendor подключает вендора к кампании. Повторный вызов сбрасывает статус в pending.
func (s *CampaignService) EnrollVendor(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) (*models.VendorEnrollment, error) {
	enrollment, err := s.enrollments.Enroll(ctx, campaignID, vendorID, userID)
	if err != nil {
		return nil, translateError(err)
	}

	publish(s.events, userID, entityEnrollment, models.ActionCreated, enrollment)
	return enrollment, nil
}

// UpdateEnrollmentStatus меняет статус подключения вендора.
func (s *CampaignService) UpdateEnrollmentStatus(ctx context.Context, campaignID, vendorID uuid.UUID, userID, status string) (*models.VendorEnrollment, error) {
	if err := validation.ValidateEnum("status", status, models.ValidEnrollmentStatuses); err != nil {
		return nil, validationError(err)
	}

	enrollment, err := s.enrollments.UpdateStatus(ctx, campaignID, vendorID, userID, status)
	if err != nil {
		return nil, translateError(err)
	}

	publish(s.events, userID, entityEnrollment, models.ActionUpdated, enrollment)
	return enrollment, nil
}

// UnenrollVendor отключает вендора от кампании.
func (s *CampaignService) UnenrollVendor(ctx context.Context, campaignID, vendorID uuid.UUID, userID string) error {
	if err := s.enrollments.Remove(ctx, campaignID, vendorID, userID); err != nil {
		return translateError(err)
	}

	publish(s.events, userID, entityEnrollment, models.ActionDeleted, map[string]uuid.UUID{
		"campaign_id":        campaignID,
		"vendor_platform_id": vendorID,
	})
	return nil
}

func validateCampaignInput(in models.CampaignInput) error {
	if in.StartDate.IsZero() {
		return fmt.Errorf("start_date is required")
	}
	if in.TargetCompletionDate.IsZero() {
		return fmt.Errorf("target_completion_date is required")
	}

	return validation.FirstError(
		validation.ValidateRequiredName("campaign_name", in.CampaignName, validation.MaxNameLength),
		validation.ValidateRequiredName("industry_vertical", in.IndustryVertical, validation.MaxNameLength),
		validation.ValidateOptionalLength("custom_industry", in.CustomIndustry, validation.MaxNameLength),
		validation.ValidateStringList("target_regions", in.TargetRegions, validation.MaxRegionsCount, validation.MaxNameLength),
		validateDateOrder("target_completion_date", &in.StartDate, &in.TargetCompletionDate),
		validateCallBounds(in.MinCalls, in.MaxCalls),
	)
}

func validateCampaignPatch(p models.CampaignPatch) error {
	var errs []error
	if p.CampaignName != nil {
		errs = append(errs, validation.ValidateRequiredName("campaign_name", *p.CampaignName, validation.MaxNameLength))
	}
	if p.IndustryVertical != nil {
		errs = append(errs, validation.ValidateRequiredName("industry_vertical", *p.IndustryVertical, validation.MaxNameLength))
	}
	if p.TargetRegions != nil {
		errs = append(errs, validation.ValidateStringList("target_regions", *p.TargetRegions, validation.MaxRegionsCount, validation.MaxNameLength))
	}
	if p.StartDate != nil && p.StartDate.IsZero() {
		errs = append(errs, fmt.Errorf("start_date must not be null"))
	}
	if p.TargetCompletionDate != nil && p.TargetCompletionDate.IsZero() {
		errs = append(errs, fmt.Errorf("target_completion_date must not be null"))
	}

	errs = append(errs,
		validation.ValidateOptionalLength("custom_industry", p.CustomIndustry, validation.MaxNameLength),
		validateDateOrder("target_completion_date", p.StartDate, p.TargetCompletionDate),
		validateCallBounds(p.MinCalls, p.MaxCalls),
	)
	return validation.FirstError(errs...)
}

// validateAgainstStored сверяет даты и границы звонков с сохранёнными значениями,
// когда патч меняет только одну колонку из пары.
func (s *CampaignService) validateAgainstStored(ctx context.Context, id uuid.UUID, userID string, patch models.CampaignPatch) error {
	if patch.StartDate == nil && patch.TargetCompletionDate == nil && patch.MinCalls == nil && patch.MaxCalls == nil {
		return nil
	}

	current, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return translateError(err)
	}

	start, end := current.StartDate, current.TargetCompletionDate
	if patch.StartDate != nil {
		start = *patch.StartDate
	}
	if patch.TargetCompletionDate != nil {
		end = *patch.TargetCompletionDate
	}
	minCalls, maxCalls := current.MinCalls, current.MaxCalls
	if patch.MinCalls != nil {
		minCalls = patch.MinCalls
	}
	if patch.MaxCalls != nil {
		maxCalls = patch.MaxCalls
	}

	return validationError(validation.FirstError(
		validateDateOrder("target_completion_date", &start, &end),
		validateCallBounds(minCalls, maxCalls),
	))
}

func validateCallBounds(minCalls, maxCalls *int) error {
	if err := validation.FirstError(
		validation.ValidateNonNegative("min_calls", minCalls),
		validation.ValidateNonNegative("max_calls", maxCalls),
	); err != nil {
		return err
	}
	if minCalls != nil && maxCalls != nil && *minCalls > *maxCalls {
		return fmt.Errorf("min_calls must not exceed max_calls")
	}
	return nil
}
