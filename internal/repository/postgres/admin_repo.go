package postgres

import (
	"context"

	"github.com/and161185/evote/internal/model"
)

// AdminRepo implements AdminRepository using PostgreSQL.
type AdminRepo struct{ db *DB }

// NewAdminRepo constructs an admin repository.
func NewAdminRepo(db *DB) *AdminRepo { return &AdminRepo{db: db} }

// CreateIfAbsent inserts the singleton admin row unless it already exists.
func (r *AdminRepo) CreateIfAbsent(ctx context.Context, a *model.Admin) (bool, error) {
	const q = `
INSERT INTO admins (singleton, id, email, pwd_hash, salt)
VALUES (true, $1, $2, $3, $4)
ON CONFLICT (singleton) DO NOTHING`
	tag, err := r.db.Pool.Exec(ctx, q, a.ID, a.Email, a.Cred.PwdHash, a.Cred.Salt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Get selects the admin row.
func (r *AdminRepo) Get(ctx context.Context) (*model.Admin, error) {
	const q = `SELECT id, email, pwd_hash, salt, created_at FROM admins WHERE singleton`
	var a model.Admin
	if err := r.db.Pool.QueryRow(ctx, q).Scan(&a.ID, &a.Email, &a.Cred.PwdHash, &a.Cred.Salt, &a.CreatedAt); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}
