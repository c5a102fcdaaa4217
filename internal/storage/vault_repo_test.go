package storage

import (
	"context"
	"testing"
)

func TestNewVaultRepo(t *testing.T) {
	db := openTestDB(t)

	repo := NewVaultRepo(db)
	if repo == nil {
		t.Fatal("NewVaultRepo() returned nil")
	}
}

func TestVaultRepo_GetOrCreateByName(t *testing.T) {
	db := openTestDB(t)
	repo := NewVaultRepo(db)
	ctx := context.Background()

	created, err := repo.GetOrCreateByName(ctx, "notes", "/tmp/notes")
	if err != nil {
		t.Fatalf("GetOrCreateByName() create error = %v", err)
	}
	if created.ID <= 0 || created.Name != "notes" || created.RootPath != "/tmp/notes" {
		t.Errorf("GetOrCreateByName() = %+v", created)
	}
	if created.CreatedAt.IsZero() {
		t.Error("GetOrCreateByName() CreatedAt should be set")
	}

	again, err := repo.GetOrCreateByName(ctx, "notes", "/tmp/notes")
	if err != nil {
		t.Fatalf("GetOrCreateByName() get error = %v", err)
	}
	if again.ID != created.ID {
		t.Errorf("GetOrCreateByName() ID = %d, want %d", again.ID, created.ID)
	}

	moved, err := repo.GetOrCreateByName(ctx, "notes", "/srv/notes")
	if err != nil {
		t.Fatalf("GetOrCreateByName() move error = %v", err)
	}
	if moved.ID != created.ID || moved.RootPath != "/srv/notes" {
		t.Errorf("GetOrCreateByName() after move = %+v", moved)
	}

	other, err := repo.GetOrCreateByName(ctx, "work", "/tmp/work")
	if err != nil {
		t.Fatalf("GetOrCreateByName() second vault error = %v", err)
	}
	if other.ID == created.ID {
		t.Error("GetOrCreateByName() second vault should get a new ID")
	}
}
