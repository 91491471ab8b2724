package client

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gymroster/internal/apperrors"
	"gymroster/internal/db"
	"gymroster/internal/logger"
)

const minimumAge = 18

var (
	ErrClientNotFound      = fmt.Errorf("client %w", apperrors.ErrNotFound)
	ErrDuplicateNationalID = fmt.Errorf("national id already registered: %w", apperrors.ErrConflict)
	ErrDuplicateNumber     = fmt.Errorf("client number already registered: %w", apperrors.ErrConflict)
	ErrInvalidNationalID   = fmt.Errorf("national id must be 8 digits followed by an upper-case letter: %w", apperrors.ErrInvalidInput)
	ErrInvalidEmail        = fmt.Errorf("malformed email address: %w", apperrors.ErrInvalidInput)
	ErrInvalidDate         = fmt.Errorf("dates must use dd/mm/yyyy: %w", apperrors.ErrInvalidInput)
	ErrUnderage            = fmt.Errorf("client must be at least 18 years old: %w", apperrors.ErrInvalidInput)
	ErrMissingField        = fmt.Errorf("required field missing: %w", apperrors.ErrInvalidInput)
)

var (
	nationalIDPattern = regexp.MustCompile(`^\d{8}[A-Z]$`)
	emailPattern      = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)
)

type Service interface {
	Register(ctx context.Context, req RegisterClientRequest) (*Client, error)
	Get(ctx context.Context, number string) (*Client, error)
	Update(ctx context.Context, number string, req RegisterClientRequest) (*Client, error)
	Delete(ctx context.Context, number string) error
}

type service struct {
	repo Repository
	tx   db.Transactor
	now  func() time.Time
}

type Option func(*service)

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func NewService(repo Repository, tx db.Transactor, opts ...Option) Service {
	s := &service{
		repo: repo,
		tx:   tx,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Register(ctx context.Context, req RegisterClientRequest) (*Client, error) {
	c, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if c.Number == "" {
			last, err := s.repo.LastNumber(ctx)
			if err != nil {
				return apperrors.Persistence("next client number", err)
			}
			c.Number = db.NextCode(last, 1, 3, "S001")
		} else {
			existing, err := s.repo.FindByNumber(ctx, c.Number)
			if err != nil {
				return apperrors.Persistence("find client", err)
			}
			if existing != nil {
				return ErrDuplicateNumber
			}
		}

		taken, err := s.repo.ExistsByNationalID(ctx, c.NationalID)
		if err != nil {
			return apperrors.Persistence("check national id", err)
		}
		if taken {
			return ErrDuplicateNationalID
		}

		if err := s.repo.Create(ctx, c); err != nil {
			switch {
			case nationalIDKey.ViolatedBy(err):
				return ErrDuplicateNationalID
			case db.IsUniqueViolation(err):
				return ErrDuplicateNumber
			}
			return apperrors.Persistence("create client", err)
		}
		return nil
	})
	if err != nil {
		if !apperrors.IsKnown(err) {
			logger.Error("client registration failed", "error", err)
		}
		return nil, apperrors.Persistence("register client", err)
	}

	logger.Info("client registered", "number", c.Number)
	return c, nil
}

func (s *service) Get(ctx context.Context, number string) (*Client, error) {
	c, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		return nil, apperrors.Persistence("find client", err)
	}
	if c == nil {
		return nil, ErrClientNotFound
	}
	return c, nil
}

// Update replaces the client's details. The number in the path wins over
// any number in req, and an empty start date keeps the stored one.
func (s *service) Update(ctx context.Context, number string, req RegisterClientRequest) (*Client, error) {
	req.Number = number
	c, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.FindByNumber(ctx, c.Number)
		if err != nil {
			return apperrors.Persistence("find client", err)
		}
		if existing == nil {
			return ErrClientNotFound
		}
		if strings.TrimSpace(req.StartDate) == "" {
			c.StartDate = existing.StartDate
		}

		if c.NationalID != existing.NationalID {
			taken, err := s.repo.ExistsByNationalID(ctx, c.NationalID)
			if err != nil {
				return apperrors.Persistence("check national id", err)
			}
			if taken {
				return ErrDuplicateNationalID
			}
		}

		updated, err := s.repo.Update(ctx, c)
		if err != nil {
			if nationalIDKey.ViolatedBy(err) {
				return ErrDuplicateNationalID
			}
			return apperrors.Persistence("update client", err)
		}
		if !updated {
			return ErrClientNotFound
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Persistence("update client", err)
	}

	logger.Info("client updated", "number", c.Number)
	return c, nil
}

func (s *service) Delete(ctx context.Context, number string) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		deleted, err := s.repo.Delete(ctx, number)
		if err != nil {
			return apperrors.Persistence("delete client", err)
		}
		if !deleted {
			return ErrClientNotFound
		}
		return nil
	})
	if err != nil {
		return apperrors.Persistence("delete client", err)
	}
	logger.Info("client deleted", "number", number)
	return nil
}

func (s *service) validate(req RegisterClientRequest) (*Client, error) {
	c := &Client{
		Number:     strings.ToUpper(strings.TrimSpace(req.Number)),
		NationalID: strings.ToUpper(strings.TrimSpace(req.NationalID)),
		Name:       strings.TrimSpace(req.Name),
		BirthDate:  strings.TrimSpace(req.BirthDate),
		Phone:      strings.TrimSpace(req.Phone),
		Email:      strings.TrimSpace(req.Email),
		StartDate:  strings.TrimSpace(req.StartDate),
		Category:   NormalizeCategory(req.Category),
	}

	if c.Name == "" || c.NationalID == "" || c.BirthDate == "" || c.Category == "" {
		return nil, ErrMissingField
	}
	if !nationalIDPattern.MatchString(c.NationalID) {
		return nil, ErrInvalidNationalID
	}
	if c.Email != "" && !emailPattern.MatchString(c.Email) {
		return nil, ErrInvalidEmail
	}

	birth, err := time.Parse(DateLayout, c.BirthDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	now := s.now()
	if ageAt(birth, now) < minimumAge {
		return nil, ErrUnderage
	}

	if c.StartDate == "" {
		c.StartDate = now.Format(DateLayout)
	} else if _, err := time.Parse(DateLayout, c.StartDate); err != nil {
		return nil, ErrInvalidDate
	}

	return c, nil
}

func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

