package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), GormConfig())
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, EnsureSQLiteSchema(conn))
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db)

	ctx := context.Background()
	insert := func(tx *gorm.DB, name string) error {
		return tx.Exec(
			`INSERT INTO items (name, description, price, weight, dimensions) VALUES (?, ?, ?, ?, ?)`,
			name, "desc", 1.5, 2.0, "1x1x1",
		).Error
	}

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return insert(tx, "committed")
	}))

	var count int64
	require.NoError(t, db.Table("items").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := insert(tx, "rolled"); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)
	require.NoError(t, db.Table("items").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPingAndDialect(t *testing.T) {
	client := NewFromGorm(newTestDB(t))
	require.NoError(t, client.Ping(context.Background()))
	assert.Equal(t, DialectSQLite, client.Dialect())
}

func TestEnsureSQLiteSchemaIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, EnsureSQLiteSchema(db))
}

func TestSQLiteEnforcesConstraints(t *testing.T) {
	db := newTestDB(t)

	err := db.Exec(`INSERT INTO inventory (location, volume_occupied, volume_available, volume_reserved, name, description, threshold, location_id)
		VALUES ('x', 1, 1, 1, 'n', 'd', 1, 999)`).Error
	require.Error(t, err)
	assert.True(t, IsForeignKeyViolation(err))
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(Classify(err, "create inventory")))

	require.NoError(t, db.Exec(`INSERT INTO admin (name, email, password) VALUES ('a', 'a@example.com', 'p')`).Error)
	err = db.Exec(`INSERT INTO admin (name, email, password) VALUES ('b', 'a@example.com', 'p')`).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err, ""))
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(Classify(err, "create admin")))

	err = db.Exec(`INSERT INTO dashboard_metrics (metric_type, value) VALUES ('revenue', 1)`).Error
	require.Error(t, err)
	assert.True(t, IsCheckViolation(err))
}

func TestClassifyPostgresCodes(t *testing.T) {
	cases := map[string]pkgerrors.Code{
		"23505": pkgerrors.CodeConflict,
		"23503": pkgerrors.CodeValidation,
		"22P02": pkgerrors.CodeValidation,
		"08006": pkgerrors.CodeDependency,
	}
	for state, want := range cases {
		err := Classify(&pgconn.PgError{Code: state, Message: "pg failure"}, "op")
		assert.Equal(t, want, pkgerrors.CodeOf(err), state)
	}

	typed := pkgerrors.New(pkgerrors.CodeNotFound, "missing")
	assert.Same(t, typed, Classify(typed, "op"))
	assert.NoError(t, Classify(nil, "op"))
}
