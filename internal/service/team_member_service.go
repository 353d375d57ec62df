package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/expertnet-backend/internal/logger"
	"github.com/ignatzorin/expertnet-backend/internal/models"
	"github.com/ignatzorin/expertnet-backend/internal/pkg/apperror"
	"github.com/ignatzorin/expertnet-backend/internal/storage"
	"github.com/ignatzorin/expertnet-backend/internal/validation"
)

// MediaURLPrefix префикс, по которому раздаются загруженные файлы.
const MediaURLPrefix = "/media/"

// TeamMemberRepository описывает хранилище команды и назначений.
type TeamMemberRepository interface {
	List(ctx context.Context, userID string) ([]models.TeamMember, error)
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.TeamMember, error)
	Create(ctx context.Context, userID string, in models.TeamMemberInput) (*models.TeamMember, error)
	Update(ctx context.Context, id uuid.UUID, userID string, patch models.TeamMemberPatch) (*models.TeamMember, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
	ListForCampaign(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.TeamMember, error)
	Assign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error
	Unassign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error
}

// AvatarStorage сохраняет файлы аватаров.
type AvatarStorage interface {
	Save(ctx context.Context, owner, ext string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
}

// TeamMemberService управляет командой пользователя.
type TeamMemberService struct {
	repo    TeamMemberRepository
	avatars AvatarStorage
}

// NewTeamMemberService создаёт сервис команды. avatars может быть nil, тогда загрузка аватаров недоступна.
func NewTeamMemberService(repo TeamMemberRepository, avatars AvatarStorage) *TeamMemberService {
	return &TeamMemberService{repo: repo, avatars: avatars}
}

func (s *TeamMemberService) ListTeamMembers(ctx context.Context, userID string) ([]models.TeamMember, error) {
	items, err := s.repo.List(ctx, userID)
	return items, translateError(err)
}

func (s *TeamMemberService) GetTeamMember(ctx context.Context, id uuid.UUID, userID string) (*models.TeamMember, error) {
	member, err := s.repo.GetByID(ctx, id, userID)
	return member, translateError(err)
}

func (s *TeamMemberService) CreateTeamMember(ctx context.Context, userID string, in models.TeamMemberInput) (*models.TeamMember, error) {
	if err := validation.FirstError(
		validation.ValidateRequiredName("name", in.Name, validation.MaxNameLength),
		validation.ValidateRequiredName("designation", in.Designation, validation.MaxNameLength),
		validation.ValidateOptionalEmail(in.Email),
		validation.ValidateOptionalLength("avatar_url", in.AvatarURL, validation.MaxURLLength),
	); err != nil {
		return nil, validationError(err)
	}

	member, err := s.repo.Create(ctx, userID, in)
	return member, translateError(err)
}

func (s *TeamMemberService) UpdateTeamMember(ctx context.Context, id uuid.UUID, userID string, patch models.TeamMemberPatch) (*models.TeamMember, error) {
	if patch.IsEmpty() {
		return nil, apperror.ErrNoFieldsToUpdate
	}

	var errs []error
	if patch.Name != nil {
		errs = append(errs, validation.ValidateRequiredName("name", *patch.Name, validation.MaxNameLength))
	}
	if patch.Designation != nil {
		errs = append(errs, validation.ValidateRequiredName("designation", *patch.Designation, validation.MaxNameLength))
	}
	errs = append(errs,
		validation.ValidateOptionalEmail(patch.Email),
		validation.ValidateOptionalLength("avatar_url", patch.AvatarURL, validation.MaxURLLength),
	)
	if err := validation.FirstError(errs...); err != nil {
		return nil, validationError(err)
	}

	member, err := s.repo.Update(ctx, id, userID, patch)
	return member, translateError(err)
}

// DeleteTeamMember удаляет участника и его загруженный аватар.
func (s *TeamMemberService) DeleteTeamMember(ctx context.Context, id uuid.UUID, userID string) error {
	member, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return translateError(err)
	}
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return translateError(err)
	}

	s.removeStoredAvatar(ctx, member.AvatarURL)
	return nil
}

// UploadAvatar сохраняет файл аватара и проставляет avatar_url участнику.
// ext расширение, определённое по содержимому файла.
func (s *TeamMemberService) UploadAvatar(ctx context.Context, id uuid.UUID, userID, ext string, r io.Reader) (*models.TeamMember, error) {
	if s.avatars == nil {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "Avatar uploads are disabled")
	}

	current, err := s.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, translateError(err)
	}

	rel, _, err := s.avatars.Save(ctx, userID, ext, r)
	if err != nil {
		if errors.Is(err, storage.ErrFileTooLarge) {
			return nil, apperror.Validation("File is too large")
		}
		return nil, err
	}

	url := MediaURLPrefix + rel
	member, err := s.repo.Update(ctx, id, userID, models.TeamMemberPatch{AvatarURL: &url})
	if err != nil {
		s.removeStoredAvatar(ctx, &url)
		return nil, translateError(err)
	}

	s.removeStoredAvatar(ctx, current.AvatarURL)
	return member, nil
}

func (s *TeamMemberService) ListCampaignTeam(ctx context.Context, campaignID uuid.UUID, userID string) ([]models.TeamMember, error) {
	items, err := s.repo.ListForCampaign(ctx, campaignID, userID)
	return items, translateError(err)
}

// AssignToCampaign назначает участника на кампанию; повторный вызов ничего не меняет.
func (s *TeamMemberService) AssignToCampaign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error {
	return translateError(s.repo.Assign(ctx, campaignID, memberID, userID))
}

func (s *TeamMemberService) UnassignFromCampaign(ctx context.Context, campaignID, memberID uuid.UUID, userID string) error {
	return translateError(s.repo.Unassign(ctx, campaignID, memberID, userID))
}

// removeStoredAvatar удаляет файл, если URL указывает на локальное хранилище.
func (s *TeamMemberService) removeStoredAvatar(ctx context.Context, avatarURL *string) {
	if s.avatars == nil || avatarURL == nil || !strings.HasPrefix(*avatarURL, MediaURLPrefix) {
		return
	}
	rel := strings.TrimPrefix(*avatarURL, MediaURLPrefix)
	if err := s.avatars.Delete(ctx, rel); err != nil {
		logger.Entry(logrus.Fields{"path": rel, "error": err}).Warn("team members: не удалось удалить файл аватара")
	}
}
