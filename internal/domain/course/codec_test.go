package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-records/internal/domain/shared"
)

func TestEncodePrerequisites(t *testing.T) {
	s, err := EncodePrerequisites([]string{"Data Structures", `Intro "CS"`})
	require.NoError(t, err)
	assert.Equal(t, `["Data Structures","Intro \"CS\""]`, s)

	s, err = EncodePrerequisites(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", s)
}

func TestDecodePrerequisites(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"json", `["Data Structures","Discrete Math"]`, []string{"Data Structures", "Discrete Math"}},
		{"json empty", `[]`, []string{}},
		{"empty", "", []string{}},
		{"legacy", "Data Structures,Discrete Math", []string{"Data Structures", "Discrete Math"}},
		{"legacy single", "Intro to Programming", []string{"Intro to Programming"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePrerequisites(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := DecodePrerequisites(`["unterminated`)
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestValidateName(t *testing.T) {
	assert.NoError(t, ValidateName("Data Structures"))

	for _, bad := range []string{"", " Padded", "A,B", "Tab\tName"} {
		err := ValidateName(bad)
		assert.True(t, shared.IsValidation(err), "name %q", bad)
	}
}
