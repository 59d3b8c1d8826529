package migration

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OrdersAndChecksums(t *testing.T) {
	src := fstest.MapFS{
		"V2__roles.sql":   {Data: []byte("CREATE TABLE b (id INT);\n")},
		"V1__init.sql":    {Data: []byte("CREATE TABLE a (id INT);")},
		"README.md":       {Data: []byte("ignored")},
		"V3_bad_name.sql": {Data: []byte("SELECT 1")},
	}

	migs, err := Load(src)
	require.NoError(t, err)
	require.Len(t, migs, 2)
	assert.Equal(t, int64(1), migs[0].Version)
	assert.Equal(t, "init", migs[0].Name)
	assert.Equal(t, int64(2), migs[1].Version)
	assert.Equal(t, "CREATE TABLE b (id INT);", migs[1].SQL)
	assert.Len(t, migs[0].Checksum, 64)
	assert.NotEqual(t, migs[0].Checksum, migs[1].Checksum)
}

func TestLoad_RejectsEmptyAndDuplicate(t *testing.T) {
	_, err := Load(fstest.MapFS{"V1__empty.sql": {Data: []byte("  \n")}})
	assert.Error(t, err)

	_, err = Load(fstest.MapFS{
		"V1__a.sql":  {Data: []byte("SELECT 1")},
		"V01__b.sql": {Data: []byte("SELECT 2")},
	})
	assert.ErrorContains(t, err, "duplicate migration version")
}

func TestEmbedded_ContainsSchema(t *testing.T) {
	migs, err := Load(Embedded())
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	assert.Equal(t, int64(1), migs[0].Version)
	for _, table := range []string{"skills", "persons", "roles", "capabilities", "validations", "requirements"} {
		assert.Contains(t, migs[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
