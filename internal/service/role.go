package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/catalog-service/internal/model"
	"github.com/maxviazov/catalog-service/internal/query"
	"github.com/maxviazov/catalog-service/internal/repository"
)

// RoleInput is the writable part of a role. NormalizedName is derived.
type RoleInput struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Code     string `json:"code" validate:"required,min=2,max=10"`
	IsActive *bool  `json:"is_active"`
}

// RoleUpdate carries the id of the role being replaced.
type RoleUpdate struct {
	ID int64 `json:"id" validate:"gt=0"`
	RoleInput
}

type roleService struct {
	repo repository.RoleRepository
	tx   repository.TxManager
	log  zerolog.Logger
	now  func() time.Time
}

func NewRoleService(repo repository.RoleRepository, tx repository.TxManager, logger zerolog.Logger) RoleService {
	l := logger.With().Str("module", "service").Str("component", "role").Logger()
	return &roleService{repo: repo, tx: tx, log: l, now: time.Now}
}

func (s *roleService) GetPaginated(ctx context.Context, q PageQuery) (query.Page[model.Role], error) {
	p, err := listParams(q, model.RoleSearchText, nil)
	if err != nil {
		return query.Page[model.Role]{}, err
	}
	return s.repo.GetPaginated(ctx, p)
}

func (s *roleService) GetAll(ctx context.Context) ([]model.Role, error) {
	return s.repo.List(ctx)
}

func (s *roleService) GetByID(ctx context.Context, id int64) (model.Role, error) {
	if err := requirePositiveID(id); err != nil {
		return model.Role{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *roleService) Create(ctx context.Context, in RoleInput) (model.Role, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	if err := validateInput(in); err != nil {
		s.log.Debug().Interface("field_errors", FieldErrors(err)).Msg("role validation failed")
		return model.Role{}, err
	}

	now := s.now().UTC()
	r := model.Role{
		Name:           in.Name,
		NormalizedName: strings.ToUpper(in.Name),
		Code:           in.Code,
		IsActive:       boolOr(in.IsActive, true),
		Audit:          model.Audit{EntryBy: ActorFrom(ctx), EntryDate: &now},
	}
	var out model.Role
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkUnique(ctx, 0, in); err != nil {
			return err
		}
		var err error
		out, err = s.repo.Create(ctx, r)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Str("name", in.Name).Msg("create role failed")
		return model.Role{}, err
	}
	s.log.Info().Int64("role_id", out.ID).Msg("role created")
	return out, nil
}

func (s *roleService) Update(ctx context.Context, in RoleUpdate) (model.Role, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
	if err := validateInput(in); err != nil {
		return model.Role{}, err
	}

	var out model.Role
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if err := s.checkUnique(ctx, in.ID, in.RoleInput); err != nil {
			return err
		}
		now := s.now().UTC()
		current.Name = in.Name
		current.NormalizedName = strings.ToUpper(in.Name)
		current.Code = in.Code
		current.IsActive = boolOr(in.IsActive, current.IsActive)
		current.UpdatedBy = ActorFrom(ctx)
		current.UpdatedDate = &now
		out, err = s.repo.Update(ctx, current)
		return err
	})
	if err != nil {
		s.log.Error().Err(err).Int64("role_id", in.ID).Msg("update role failed")
		return model.Role{}, err
	}
	return out, nil
}

func (s *roleService) Delete(ctx context.Context, id int64) error {
	if err := requirePositiveID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("role_id", id).Msg("delete role failed")
		return err
	}
	s.log.Info().Int64("role_id", id).Msg("role deleted")
	return nil
}

func (s *roleService) checkUnique(ctx context.Context, excludeID int64, in RoleInput) error {
	return checkUnique[model.Role](ctx, s.repo, "role", excludeID,
		unique{field: "Name", json: "name", value: in.Name},
		unique{field: "Code", json: "code", value: in.Code},
	)
}
