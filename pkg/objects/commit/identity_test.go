package commit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utkarsh5026/rgit/pkg/common/errs"
)

func TestParseIdentity(t *testing.T) {
	tests := []struct {
		in      string
		want    Identity
		wantErr bool
	}{
		{in: "Ada Lovelace <ada@example.com>", want: Identity{"Ada Lovelace", "ada@example.com"}},
		{in: "  Bob <bob@x.io>  ", want: Identity{"Bob", "bob@x.io"}},
		{in: "no-email", wantErr: true},
		{in: "<only@email>", wantErr: true},
		{in: "Name <>", wantErr: true},
		{in: "Bad<Name <x@y>", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIdentity(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errs.ErrInvalidInput), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Name+" <"+tt.want.Email+">", got.String())
		})
	}
}

func TestNewIdentity_Trims(t *testing.T) {
	id, err := NewIdentity("  Ada ", " ada@example.com\t")
	require.NoError(t, err)
	assert.Equal(t, Identity{Name: "Ada", Email: "ada@example.com"}, id)

	_, err = NewIdentity("Ada", "ada@\nexample.com")
	assert.Error(t, err)
}
