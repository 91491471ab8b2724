package trainer

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gymroster/internal/apperrors"
	"gymroster/internal/db/dbtest"
)

type MockTrainerRepo struct{ mock.Mock }

func (m *MockTrainerRepo) FindByCode(ctx context.Context, code string) (*Trainer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Trainer), args.Error(1)
}

func (m *MockTrainerRepo) ExistsByNationalID(ctx context.Context, nationalID string) (bool, error) {
	args := m.Called(ctx, nationalID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTrainerRepo) LastCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTrainerRepo) Create(ctx context.Context, t *Trainer) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTrainerRepo) Delete(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		req        RegisterTrainerRequest
		setupMocks func(repo *MockTrainerRepo)
		wantCode   string
		wantErr    error
	}{
		{
			name: "generates code",
			req:  RegisterTrainerRequest{NationalID: "87654321X", Name: "Marta"},
			setupMocks: func(repo *MockTrainerRepo) {
				repo.On("LastCode", ctx).Return("T009", nil)
				repo.On("ExistsByNationalID", ctx, "87654321X").Return(false, nil)
				repo.On("Create", ctx, mock.AnythingOfType("*trainer.Trainer")).Return(nil)
			},
			wantCode: "T010",
		},
		{
			name: "explicit code",
			req:  RegisterTrainerRequest{Code: "t100", NationalID: "87654321X", Name: "Marta"},
			setupMocks: func(repo *MockTrainerRepo) {
				repo.On("FindByCode", ctx, "T100").Return(nil, nil)
				repo.On("ExistsByNationalID", ctx, "87654321X").Return(false, nil)
				repo.On("Create", ctx, mock.AnythingOfType("*trainer.Trainer")).Return(nil)
			},
			wantCode: "T100",
		},
		{
			name: "duplicate national id",
			req:  RegisterTrainerRequest{NationalID: "87654321X", Name: "Marta"},
			setupMocks: func(repo *MockTrainerRepo) {
				repo.On("LastCode", ctx).Return("", nil)
				repo.On("ExistsByNationalID", ctx, "87654321X").Return(true, nil)
			},
			wantErr: apperrors.ErrConflict,
		},
		{
			name:       "missing name",
			req:        RegisterTrainerRequest{NationalID: "87654321X"},
			setupMocks: func(repo *MockTrainerRepo) {},
			wantErr:    apperrors.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTrainerRepo)
			tt.setupMocks(repo)

			tr, err := NewService(repo, dbtest.NopTx{}).Register(ctx, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantCode, tr.Code)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTrainerRepo)
	repo.On("FindByCode", ctx, "T404").Return(nil, nil)

	_, err := NewService(repo, dbtest.NopTx{}).Get(ctx, "T404")
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestRegister_ConcurrentInsert(t *testing.T) {
	ctx := context.Background()
	req := RegisterTrainerRequest{NationalID: "87654321X", Name: "Marta"}

	tests := []struct {
		name       string
		constraint string
		wantErr    error
	}{
		{"national id", "trainers_national_id_key", ErrDuplicateNationalID},
		{"code", "trainers_pkey", ErrDuplicateCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockTrainerRepo)
			repo.On("LastCode", ctx).Return("T001", nil)
			repo.On("ExistsByNationalID", ctx, "87654321X").Return(false, nil)
			repo.On("Create", ctx, mock.Anything).Return(&pq.Error{Code: "23505", Constraint: tt.constraint})

			_, err := NewService(repo, dbtest.NopTx{}).Register(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
			repo.AssertExpectations(t)
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTrainerRepo)
	repo.On("Delete", ctx, "T001").Return(true, nil)
	repo.On("Delete", ctx, "T404").Return(false, nil)
	repo.On("Delete", ctx, "T500").Return(false, errors.New("disk I/O error"))

	svc := NewService(repo, dbtest.NopTx{})

	assert.NoError(t, svc.Delete(ctx, "T001"))
	assert.ErrorIs(t, svc.Delete(ctx, "T404"), ErrTrainerNotFound)
	assert.True(t, apperrors.IsPersistence(svc.Delete(ctx, "T500")))
}
