package dbh

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"
)

type IntTimeTester struct {
	ID     int64   `gorm:"primaryKey"`
	MyTime IntTime
}

func TestIntTime(t *testing.T) {
	a := time.Date(2022, time.February, 3, 4, 5, 6, 777*1000*1000, time.UTC)
	require.Equal(t, a, MakeIntTime(a).Get())

	log := logs.NewTestingLog(t)
	migs := []string{"CREATE TABLE int_time_tester (id INTEGER PRIMARY KEY, my_time INT)"}
	db, err := OpenDB(log, filepath.Join(t.TempDir(), "unit-test.sqlite"), MakeMigrations(log, migs), 0)
	require.NoError(t, err)

	// Ensure that an IntTime value of zero ends up as 'null' in the database.
	null := IntTimeTester{ID: 1}
	require.NoError(t, db.Create(&null).Error)
	read := IntTimeTester{}
	require.NoError(t, db.First(&read).Error)
	require.Equal(t, null, read)

	nullable := sql.NullInt64{}
	require.NoError(t, db.Raw("SELECT my_time FROM int_time_tester WHERE id = 1").Row().Scan(&nullable))
	require.False(t, nullable.Valid)

	start := MakeIntTime(a)
	require.Equal(t, 1500*time.Millisecond, MakeIntTime(a.Add(1500*time.Millisecond)).Sub(start))
	require.Equal(t, time.Duration(0), IntTime(0).Sub(start))

	t0 := IntTime(0)
	require.True(t, t0.IsZero())
	require.True(t, t0.Get().IsZero())
	require.Equal(t, t0, MakeIntTime(time.Time{}))

	other := IntTimeTester{ID: 2, MyTime: MakeIntTime(a)}
	require.NoError(t, db.Create(&other).Error)
	other2 := IntTimeTester{}
	require.NoError(t, db.Where("id = 2").First(&other2).Error)
	require.Equal(t, other.MyTime, other2.MyTime)
}

func TestOpenDBMigratesOnce(t *testing.T) {
	log := logs.NewTestingLog(t)
	fn := filepath.Join(t.TempDir(), "migrate.sqlite")
	migs := func() []string {
		return []string{
			"CREATE TABLE a (id INTEGER PRIMARY KEY)",
			"CREATE TABLE b (id INTEGER PRIMARY KEY)",
		}
	}
	_, err := OpenDB(log, fn, MakeMigrations(log, migs()), 0)
	require.NoError(t, err)
	// Reopening must not try to create the tables again
	db, err := OpenDB(log, fn, MakeMigrations(log, migs()), 0)
	require.NoError(t, err)
	require.NoError(t, db.Exec("INSERT INTO b (id) VALUES (1)").Error)

	// Wipe
	db, err = OpenDB(log, fn, MakeMigrations(log, migs()), OpenFlagWipe)
	require.NoError(t, err)
	count := int64(0)
	require.NoError(t, db.Raw("SELECT COUNT(*) FROM b").Row().Scan(&count))
	require.Equal(t, int64(0), count)
}
