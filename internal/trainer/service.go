package trainer

import (
	"context"
	"fmt"
	"strings"

	"gymroster/internal/apperrors"
	"gymroster/internal/db"
	"gymroster/internal/logger"
)

var (
	ErrTrainerNotFound     = fmt.Errorf("trainer %w", apperrors.ErrNotFound)
	ErrDuplicateNationalID = fmt.Errorf("trainer national id already registered: %w", apperrors.ErrConflict)
	ErrDuplicateCode       = fmt.Errorf("trainer code already registered: %w", apperrors.ErrConflict)
)

type Service interface {
	Register(ctx context.Context, req RegisterTrainerRequest) (*Trainer, error)
	Get(ctx context.Context, code string) (*Trainer, error)
	Delete(ctx context.Context, code string) error
}

type service struct {
	repo Repository
	tx   db.Transactor
}

func NewService(repo Repository, tx db.Transactor) Service {
	return &service{
		repo: repo,
		tx:   tx,
	}
}

func (s *service) Register(ctx context.Context, req RegisterTrainerRequest) (*Trainer, error) {
	t := &Trainer{
		Code:       strings.ToUpper(strings.TrimSpace(req.Code)),
		NationalID: strings.ToUpper(strings.TrimSpace(req.NationalID)),
		Name:       strings.TrimSpace(req.Name),
		Phone:      strings.TrimSpace(req.Phone),
		Email:      strings.TrimSpace(req.Email),
		HireDate:   strings.TrimSpace(req.HireDate),
		Nickname:   strings.TrimSpace(req.Nickname),
	}
	if t.Name == "" || t.NationalID == "" {
		return nil, fmt.Errorf("name and national id are required: %w", apperrors.ErrInvalidInput)
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if t.Code == "" {
			last, err := s.repo.LastCode(ctx)
			if err != nil {
				return apperrors.Persistence("next trainer code", err)
			}
			t.Code = db.NextCode(last, 1, 3, "T001")
		} else {
			existing, err := s.repo.FindByCode(ctx, t.Code)
			if err != nil {
				return apperrors.Persistence("find trainer", err)
			}
			if existing != nil {
				return ErrDuplicateCode
			}
		}

		taken, err := s.repo.ExistsByNationalID(ctx, t.NationalID)
		if err != nil {
			return apperrors.Persistence("check trainer national id", err)
		}
		if taken {
			return ErrDuplicateNationalID
		}

		if err := s.repo.Create(ctx, t); err != nil {
			switch {
			case nationalIDKey.ViolatedBy(err):
				return ErrDuplicateNationalID
			case db.IsUniqueViolation(err):
				return ErrDuplicateCode
			}
			return apperrors.Persistence("create trainer", err)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Persistence("register trainer", err)
	}

	logger.Info("trainer registered", "code", t.Code)
	return t, nil
}

func (s *service) Get(ctx context.Context, code string) (*Trainer, error) {
	t, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, apperrors.Persistence("find trainer", err)
	}
	if t == nil {
		return nil, ErrTrainerNotFound
	}
	return t, nil
}

func (s *service) Delete(ctx context.Context, code string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		deleted, err := s.repo.Delete(ctx, code)
		if err != nil {
			return apperrors.Persistence("delete trainer", err)
		}
		if !deleted {
			return ErrTrainerNotFound
		}
		return nil
	})
	if err != nil {
		return apperrors.Persistence("delete trainer", err)
	}
	logger.Info("trainer deleted", "code", code)
	return nil
}
