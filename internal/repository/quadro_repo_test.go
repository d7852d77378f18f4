package repository

import (
	"context"
	"testing"

	"github.com/agro-trimobe/rural-credit-app-sub002/internal/model"

	"github.com/rs/zerolog"
)

func seedBoard(t *testing.T, repo QuadroRepository) (quadro *model.Quadro, lista *model.Lista, tarefa *model.Tarefa) {
	t.Helper()
	ctx := context.Background()

	quadro = &model.Quadro{TenantID: "t1", Titulo: "Projetos 2026"}
	if err := repo.CreateQuadro(ctx, quadro); err != nil {
		t.Fatalf("create quadro: %v", err)
	}
	lista = &model.Lista{TenantID: "t1", QuadroID: quadro.ID, Titulo: "Em andamento"}
	if err := repo.CreateLista(ctx, lista); err != nil {
		t.Fatalf("create lista: %v", err)
	}
	tarefa = &model.Tarefa{TenantID: "t1", QuadroID: quadro.ID, ListaID: lista.ID, Titulo: "Enviar proposta"}
	if err := repo.CreateTarefa(ctx, tarefa); err != nil {
		t.Fatalf("create tarefa: %v", err)
	}
	return quadro, lista, tarefa
}

// Listing boards must not pick up the lists and tasks that share the
// QUADRO# sort-key prefix.
func TestQuadroListFiltersHierarchy(t *testing.T) {
	repo := NewQuadroRepo(newFakeDynamo(), testTables(), zerolog.Nop())
	seedBoard(t, repo)

	quadros, _, err := repo.ListQuadros(context.Background(), "t1", Page{})
	if err != nil {
		t.Fatalf("list quadros: %v", err)
	}
	if len(quadros) != 1 {
		t.Fatalf("got %d boards, want 1", len(quadros))
	}

	listas, _, err := repo.ListListas(context.Background(), "t1", quadros[0].ID, Page{})
	if err != nil {
		t.Fatalf("list listas: %v", err)
	}
	if len(listas) != 1 {
		t.Fatalf("got %d listas, want 1", len(listas))
	}
}

func TestQuadroDeleteCascades(t *testing.T) {
	fake := newFakeDynamo()
	repo := NewQuadroRepo(fake, testTables(), zerolog.Nop())
	ctx := context.Background()

	quadro, lista, tarefa := seedBoard(t, repo)

	if err := repo.DeleteQuadro(ctx, "t1", quadro.ID); err != nil {
		t.Fatalf("delete quadro: %v", err)
	}
	if len(fake.items) != 0 {
		t.Fatalf("cascade left %d items behind", len(fake.items))
	}
	got, err := repo.GetTarefa(ctx, "t1", quadro.ID, lista.ID, tarefa.ID)
	if err != nil {
		t.Fatalf("get tarefa: %v", err)
	}
	if got != nil {
		t.Fatalf("task survived board deletion: %+v", got)
	}
}

func TestListaDeleteCascadesTasksOnly(t *testing.T) {
	repo := NewQuadroRepo(newFakeDynamo(), testTables(), zerolog.Nop())
	ctx := context.Background()

	quadro, lista, _ := seedBoard(t, repo)

	if err := repo.DeleteLista(ctx, "t1", quadro.ID, lista.ID); err != nil {
		t.Fatalf("delete lista: %v", err)
	}
	tarefas, _, err := repo.ListTarefas(ctx, "t1", quadro.ID, lista.ID, Page{})
	if err != nil {
		t.Fatalf("list tarefas: %v", err)
	}
	if len(tarefas) != 0 {
		t.Fatalf("tasks survived list deletion: %d", len(tarefas))
	}
	board, err := repo.GetQuadro(ctx, "t1", quadro.ID)
	if err != nil || board == nil {
		t.Fatalf("board should survive list deletion, got %v (%v)", board, err)
	}
}
