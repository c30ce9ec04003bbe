package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	reg := Default()

	tests := []struct {
		name    string
		code    string
		want    string
		wantErr bool
	}{
		{
			name: "Exact code",
			code: "RA12",
			want: "دكتوره روجينا",
		},
		{
			name: "Lowercase input",
			code: "ra12",
			want: "دكتوره روجينا",
		},
		{
			name: "Surrounding whitespace",
			code: " RK36 ",
			want: "دكتور رامي",
		},
		{
			name:    "Unknown code",
			code:    "ZZ99",
			wantErr: true,
		},
		{
			name:    "Empty code",
			code:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := reg.Lookup(tt.code)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Name)
		})
	}
}

func TestDefaultRoster(t *testing.T) {
	reg := Default()
	assert.Len(t, reg.All(), 8)
	assert.Len(t, reg.NonAdmins(), 7)

	admin, err := reg.Lookup("RK36")
	require.NoError(t, err)
	assert.True(t, admin.Admin)
}

func TestNonAdminsKeepDeclarationOrder(t *testing.T) {
	reg := New([]Doctor{
		{Code: "B1", Name: "b"},
		{Code: "A1", Name: "a", Admin: true},
		{Code: "C1", Name: "c"},
		{Code: "B1", Name: "dup ignored"},
	})

	var codes []string
	for _, d := range reg.NonAdmins() {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []string{"B1", "C1"}, codes)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doctors.json")
	payload := `[{"code":"AB12","name":"Doc A"},{"code":"CD34","name":"Doc B","admin":true}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, reg.All(), 2)

	d, err := reg.Lookup("cd34")
	require.NoError(t, err)
	assert.True(t, d.Admin)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	reg := Default()
	assert.Equal(t, "دكتوره كاتي", reg.Name("KK00"))
	assert.Equal(t, "غير معروف", reg.Name("nope"))
}
