package sqldb

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/kailas-cloud/estaterec/internal/domain/property"
)

func TestOpen_SQLiteMigrates(t *testing.T) {
	gdb, err := Open(Config{Driver: DriverSQLite, DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	for _, table := range []string{"users", "properties", "feedback"} {
		assert.True(t, gdb.Migrator().HasTable(table), "table %s should exist", table)
	}
	assert.True(t, gdb.Migrator().HasIndex(&FeedbackRow{}, "idx_feedback_user_property"))

	require.NoError(t, NewPinger(gdb).Ping(context.Background()))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(Config{Driver: "oracle", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestPing_AfterClose(t *testing.T) {
	gdb, err := Open(Config{Driver: DriverSQLite, DSN: "file::memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, Close(gdb))

	assert.Error(t, NewPinger(gdb).Ping(context.Background()))
}

func TestPropertyRow_TextSizesMatchDomainLimits(t *testing.T) {
	s, err := schema.Parse(&PropertyRow{}, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)

	sizes := map[string]int{
		"name":            property.MaxNameLength,
		"location":        property.MaxLocationLength,
		"property_images": property.MaxImageLength,
	}
	for column, want := range sizes {
		f := s.LookUpField(column)
		require.NotNil(t, f, "column %s", column)
		assert.Equal(t, want, f.Size, "column %s", column)
	}
}
