package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/evote/internal/errs"
	"github.com/and161185/evote/internal/model"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

var voterColumns = []string{"id", "voter_id", "name", "email", "pwd_hash", "salt", "has_voted", "voted_candidate", "registered_at"}

func TestVoterRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVoterRepo(db)
	ctx := context.Background()
	now := time.Now().UTC()
	v := &model.Voter{
		ID:      uuid.Must(uuid.NewV4()),
		VoterID: "VTR-ABC123XYZ",
		Name:    "Ada",
		Email:   "ada@example.org",
		Cred:    model.Credential{PwdHash: []byte("h"), Salt: []byte("s")},
	}

	mock.ExpectQuery(`INSERT INTO voters \(id, voter_id, name, email, pwd_hash, salt\)`).
		WithArgs(v.ID, v.VoterID, v.Name, v.Email, v.Cred.PwdHash, v.Cred.Salt).
		WillReturnRows(pgxmock.NewRows([]string{"registered_at"}).AddRow(now))
	require.NoError(t, r.Create(ctx, v))
	require.Equal(t, now, v.RegisteredAt)

	mock.ExpectQuery(`INSERT INTO voters`).
		WithArgs(v.ID, v.VoterID, v.Name, v.Email, v.Cred.PwdHash, v.Cred.Salt).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Create(ctx, v), errs.ErrAlreadyExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVoterRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVoterRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	cand := uuid.Must(uuid.NewV4())
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, voter_id, name, email, pwd_hash, salt, has_voted, voted_candidate, registered_at FROM voters WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(voterColumns).
			AddRow(id, "VTR-1", "Ada", "ada@example.org", []byte("h"), []byte("s"), true, uuid.NullUUID{UUID: cand, Valid: true}, now))
	v, err := r.GetByID(ctx, id)
	require.NoError(t, err)
	require.True(t, v.HasVoted)
	require.NotNil(t, v.VotedCandidate)
	require.Equal(t, cand, *v.VotedCandidate)

	mock.ExpectQuery(`FROM voters WHERE id=\$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(voterColumns).
			AddRow(id, "VTR-1", "Ada", "ada@example.org", []byte("h"), []byte("s"), false, nil, now))
	v, err = r.GetByID(ctx, id)
	require.NoError(t, err)
	require.False(t, v.HasVoted)
	require.Nil(t, v.VotedCandidate)

	mock.ExpectQuery(`FROM voters WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, errs.ErrNotFound)

	boom := errors.New("conn reset")
	mock.ExpectQuery(`FROM voters WHERE id=\$1`).
		WithArgs(id).
		WillReturnError(boom)
	_, err = r.GetByID(ctx, id)
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVoterRepo_GetByVoterID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewVoterRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`FROM voters WHERE voter_id=\$1`).
		WithArgs("VTR-XYZ").
		WillReturnRows(pgxmock.NewRows(voterColumns).
			AddRow(id, "VTR-XYZ", "Bo", "bo@example.org", []byte("h"), []byte("s"), false, nil, time.Now()))
	v, err := r.GetByVoterID(ctx, "VTR-XYZ")
	require.NoError(t, err)
	require.Equal(t, id, v.ID)

	mock.ExpectQuery(`FROM voters WHERE voter_id=\$1`).
		WithArgs("VTR-NOPE").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByVoterID(ctx, "VTR-NOPE")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
