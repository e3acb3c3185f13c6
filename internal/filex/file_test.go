package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureParentDir_CreatesNestedDirectory(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "a", "b", "fluxapi.db")

	got, err := EnsureParentDir(path)
	require.NoError(t, err)
	require.Equal(t, path, got)

	fi, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	require.True(t, fi.IsDir(), "should create a directory")

	// повторный вызов не должен падать
	_, err = EnsureParentDir(path)
	require.NoError(t, err)
}

func TestEnsureParentDir_BareFileName(t *testing.T) {
	got, err := EnsureParentDir("fluxapi.db")
	require.NoError(t, err)
	require.Equal(t, "fluxapi.db", got)
}

func TestEnsureParentDir_ErrorWhenParentIsFile(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := EnsureParentDir(filepath.Join(blocker, "sub", "db"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "mkdir")
}

func TestReadDataURL(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "payload.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0o600))

	fi, err := ReadDataURL(path)
	require.NoError(t, err)
	assert.Equal(t, "payload.json", fi.Name)
	assert.Equal(t, "application/json", fi.Type)
	assert.Equal(t, int64(7), fi.Size)
	assert.Equal(t, "data:application/json;base64,eyJhIjoxfQ==", fi.DataURL)

	_, err = ReadDataURL(filepath.Join(tmp, "missing"))
	require.Error(t, err)
}

func TestDecodeDataURL(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		want     string
		wantType string
		wantErr  bool
	}{
		{name: "base64 data URL", in: "data:text/plain;base64,aGVsbG8=", want: "hello", wantType: "text/plain"},
		{name: "params before base64", in: "data:text/plain;charset=utf-8;base64,aGk=", want: "hi", wantType: "text/plain"},
		{name: "percent encoded", in: "data:text/plain,a%20b", want: "a b", wantType: "text/plain"},
		{name: "bare base64", in: "aGVsbG8=", want: "hello"},
		{name: "not base64", in: "%%%", wantErr: true},
		{name: "missing comma", in: "data:text/plain;base64", wantErr: true},
		{name: "broken payload", in: "data:;base64,***", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ct, err := DecodeDataURL(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.wantType, ct)
		})
	}
}

func TestEncodeDecodeDataURL(t *testing.T) {
	raw := []byte{0x00, 0xff, 0x10}
	got, ct, err := DecodeDataURL(EncodeDataURL("application/octet-stream", raw))
	require.NoError(t, err)
	assert.Equal(t, raw, got)
	assert.Equal(t, "application/octet-stream", ct)
}
