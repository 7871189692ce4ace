package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/vozlab/asistente-backend/internal/domain"
)

var (
	_ interactionRepo = &interactionRepoMock{}
	_ userRepo        = &userRepoMock{}
)

type interactionRepoMock struct {
	ListFunc      func(ctx context.Context, userID *uuid.UUID, textFilter string) ([]*domain.Interaction, error)
	UpdateFunc    func(ctx context.Context, id uuid.UUID, userID *uuid.UUID, upd domain.InteractionUpdate) (*domain.Interaction, error)
	SetActiveFunc func(ctx context.Context, id uuid.UUID, userID *uuid.UUID, active bool) (bool, error)
	PurgeFunc     func(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (bool, error)
}

func (m *interactionRepoMock) List(ctx context.Context, userID *uuid.UUID, textFilter string) ([]*domain.Interaction, error) {
	if m.ListFunc == nil {
		panic("interactionRepoMock.ListFunc: method is nil but List was just called")
	}
	return m.ListFunc(ctx, userID, textFilter)
}

func (m *interactionRepoMock) Update(ctx context.Context, id uuid.UUID, userID *uuid.UUID, upd domain.InteractionUpdate) (*domain.Interaction, error) {
	if m.UpdateFunc == nil {
		panic("interactionRepoMock.UpdateFunc: method is nil but Update was just called")
	}
	return m.UpdateFunc(ctx, id, userID, upd)
}

func (m *interactionRepoMock) SetActive(ctx context.Context, id uuid.UUID, userID *uuid.UUID, active bool) (bool, error) {
	if m.SetActiveFunc == nil {
		panic("interactionRepoMock.SetActiveFunc: method is nil but SetActive was just called")
	}
	return m.SetActiveFunc(ctx, id, userID, active)
}

func (m *interactionRepoMock) Purge(ctx context.Context, id uuid.UUID, userID *uuid.UUID) (bool, error) {
	if m.PurgeFunc == nil {
		panic("interactionRepoMock.PurgeFunc: method is nil but Purge was just called")
	}
	return m.PurgeFunc(ctx, id, userID)
}

type userRepoMock struct {
	GetByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

func (m *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but GetByID was just called")
	}
	return m.GetByIDFunc(ctx, id)
}
