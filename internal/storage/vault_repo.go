package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vault_store.go -package=mocks attendees-extractor/internal/storage VaultStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// VaultStore defines the interface for vault storage operations.
type VaultStore interface {
	// GetOrCreateByName gets a vault by name, creating it when missing.
	// The stored root path is updated when it differs from rootPath.
	GetOrCreateByName(ctx context.Context, name, rootPath string) (VaultRecord, error)
}

// VaultRepo provides methods for vault operations.
// It implements the VaultStore interface.
type VaultRepo struct {
	db *sql.DB
}

// NewVaultRepo creates a new VaultRepo.
func NewVaultRepo(db *sql.DB) *VaultRepo {
	return &VaultRepo{db: db}
}

// GetOrCreateByName gets an existing vault by name, or creates it if it doesn't exist.
func (r *VaultRepo) GetOrCreateByName(ctx context.Context, name, rootPath string) (VaultRecord, error) {
	vault, err := r.getByName(ctx, name)
	if err == nil {
		if vault.RootPath == rootPath {
			return vault, nil
		}
		// Vault moved on disk since the last start.
		if _, err := r.db.ExecContext(ctx, "UPDATE vaults SET root_path = ? WHERE id = ?", rootPath, vault.ID); err != nil {
			return VaultRecord{}, fmt.Errorf("failed to update vault root path: %w", err)
		}
		vault.RootPath = rootPath
		return vault, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return VaultRecord{}, err
	}

	if _, err := r.db.ExecContext(ctx,
		"INSERT INTO vaults (name, root_path, created_at) VALUES (?, ?, ?)",
		name, rootPath, formatTime(time.Now()),
	); err != nil {
		return VaultRecord{}, fmt.Errorf("failed to insert vault: %w", err)
	}

	return r.getByName(ctx, name)
}

func (r *VaultRepo) getByName(ctx context.Context, name string) (VaultRecord, error) {
	var vault VaultRecord
	var createdAt string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, root_path, created_at FROM vaults WHERE name = ?",
		name,
	).Scan(&vault.ID, &vault.Name, &vault.RootPath, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return VaultRecord{}, ErrNotFound
	}
	if err != nil {
		return VaultRecord{}, fmt.Errorf("failed to query vault: %w", err)
	}

	vault.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return VaultRecord{}, err
	}
	return vault, nil
}
