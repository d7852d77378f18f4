package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/apperror"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"
	"github.com/agro-trimobe/rural-credit-app-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type fakeVisitRepo struct {
	visits map[string]*model.Visit
}

func newFakeVisitRepo() *fakeVisitRepo {
	return &fakeVisitRepo{visits: make(map[string]*model.Visit)}
}

func (f *fakeVisitRepo) Create(ctx context.Context, v *model.Visit) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	clone := *v
	f.visits[v.TenantID+"|"+v.ID] = &clone
	return nil
}

func (f *fakeVisitRepo) GetByID(ctx context.Context, tenantID, visitID string) (*model.Visit, error) {
	v, ok := f.visits[tenantID+"|"+visitID]
	if !ok {
		return nil, nil
	}
	clone := *v
	return &clone, nil
}

func (f *fakeVisitRepo) List(ctx context.Context, tenantID string, page repository.Page) ([]model.Visit, string, error) {
	var out []model.Visit
	for _, v := range f.visits {
		if v.TenantID == tenantID {
			out = append(out, *v)
		}
	}
	return out, "", nil
}

func (f *fakeVisitRepo) ListByClient(ctx context.Context, tenantID, clientID string, page repository.Page) ([]model.Visit, string, error) {
	var out []model.Visit
	for _, v := range f.visits {
		if v.TenantID == tenantID && v.ClienteID == clientID {
			out = append(out, *v)
		}
	}
	return out, "", nil
}

func (f *fakeVisitRepo) Update(ctx context.Context, v *model.Visit) error {
	if _, ok := f.visits[v.TenantID+"|"+v.ID]; !ok {
		return errors.New("missing visit")
	}
	clone := *v
	f.visits[v.TenantID+"|"+v.ID] = &clone
	return nil
}

func (f *fakeVisitRepo) Delete(ctx context.Context, tenantID, visitID string) error {
	delete(f.visits, tenantID+"|"+visitID)
	return nil
}

func TestVisitCreateDefaultsToAgendada(t *testing.T) {
	svc := NewVisitService(newFakeVisitRepo(), zerolog.Nop())
	v, err := svc.Create(context.Background(), &model.Visit{
		TenantID: "t1", ClienteID: "c1", Propriedade: "Fazenda Boa Vista",
		Data: time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v.Status != model.VisitAgendada {
		t.Fatalf("got status %s, want %s", v.Status, model.VisitAgendada)
	}
}

func TestVisitCreateRejectsUnknownStatus(t *testing.T) {
	svc := NewVisitService(newFakeVisitRepo(), zerolog.Nop())
	_, err := svc.Create(context.Background(), &model.Visit{TenantID: "t1", Status: "Pendente"})
	var ve *apperror.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestVisitUpdateStatusTransitions(t *testing.T) {
	cases := []struct {
		name    string
		from    model.VisitStatus
		to      model.VisitStatus
		allowed bool
	}{
		{"agendada to realizada", model.VisitAgendada, model.VisitRealizada, true},
		{"agendada to cancelada", model.VisitAgendada, model.VisitCancelada, true},
		{"realizada back to agendada", model.VisitRealizada, model.VisitAgendada, false},
		{"cancelada to realizada", model.VisitCancelada, model.VisitRealizada, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeVisitRepo()
			svc := NewVisitService(repo, zerolog.Nop())
			v, err := svc.Create(context.Background(), &model.Visit{TenantID: "t1", Status: tc.from})
			if err != nil {
				t.Fatalf("create: %v", err)
			}

			updated, err := svc.Update(context.Background(), "t1", v.ID, VisitUpdate{Status: &tc.to})
			if tc.allowed {
				if err != nil {
					t.Fatalf("update: %v", err)
				}
				if updated.Status != tc.to {
					t.Fatalf("got status %s, want %s", updated.Status, tc.to)
				}
				return
			}
			var ve *apperror.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			stored, _ := repo.GetByID(context.Background(), "t1", v.ID)
			if stored.Status != tc.from {
				t.Fatalf("rejected transition still mutated status to %s", stored.Status)
			}
		})
	}
}

// Setting the same status again is a no-op, not a transition.
func TestVisitUpdateSameStatus(t *testing.T) {
	svc := NewVisitService(newFakeVisitRepo(), zerolog.Nop())
	v, err := svc.Create(context.Background(), &model.Visit{TenantID: "t1", Status: model.VisitRealizada})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	status := model.VisitRealizada
	obs := "laudo anexado"
	updated, err := svc.Update(context.Background(), "t1", v.ID, VisitUpdate{Status: &status, Observacoes: &obs})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Observacoes != "laudo anexado" {
		t.Fatalf("partial update lost observacoes: %+v", updated)
	}
}

func TestVisitGetMissing(t *testing.T) {
	svc := NewVisitService(newFakeVisitRepo(), zerolog.Nop())
	if _, err := svc.Get(context.Background(), "t1", "ghost"); !apperror.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
