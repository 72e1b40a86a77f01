package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adeqintegrated/adeqsite/config"
)

func tempLocalDisk(t *testing.T) Disk {
	t.Helper()
	config.Set("STORAGE_LOCAL_ROOT", t.TempDir())
	return newLocalDisk()
}

func TestLocalDiskPutGet(t *testing.T) {
	d := tempLocalDisk(t)

	require.NoError(t, d.Put("booking.json", []byte(`{"surveyTypes":[]}`)))
	got, err := d.Get("booking.json")
	require.NoError(t, err)
	assert.Equal(t, `{"surveyTypes":[]}`, string(got))
}

func TestLocalDiskCreatesParentDirs(t *testing.T) {
	d := tempLocalDisk(t)

	require.NoError(t, d.Put(filepath.Join("nested", "deep", "doc.json"), []byte("{}")))
	assert.True(t, d.Exists(filepath.Join("nested", "deep", "doc.json")))
}

func TestLocalDiskExistsMissing(t *testing.T) {
	d := tempLocalDisk(t)

	assert.False(t, d.Exists("hero.json"))
	assert.True(t, d.Missing("hero.json"))

	require.NoError(t, d.Put("hero.json", []byte("{}")))
	assert.True(t, d.Exists("hero.json"))
	assert.False(t, d.Missing("hero.json"))
}

func TestLocalDiskDelete(t *testing.T) {
	d := tempLocalDisk(t)

	require.NoError(t, d.Put("old.json", []byte("{}")))
	require.NoError(t, d.Delete("old.json"))
	assert.True(t, d.Missing("old.json"))
}

func TestLocalDiskFilesAndMetadata(t *testing.T) {
	d := tempLocalDisk(t)

	require.NoError(t, d.Put("a.json", []byte("aa")))
	require.NoError(t, d.Put("b.json", []byte("bbbb")))

	files, err := d.Files("")
	require.NoError(t, err)
	assert.Len(t, files, 2)

	size, err := d.Size("b.json")
	require.NoError(t, err)
	assert.EqualValues(t, 4, size)

	mod, err := d.LastModified("a.json")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), mod, time.Minute)
}

func TestManagerRegisterAndDefault(t *testing.T) {
	d := tempLocalDisk(t)
	RegisterDisk("testdisk", d)
	SetDefault("testdisk")
	defer SetDefault("local")

	assert.Equal(t, d, Default())
	assert.Equal(t, d, Use("testdisk"))
}
