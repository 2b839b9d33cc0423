package pathcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anhth20011/dockprep/pkg/errors"
)

func TestValidateEnginePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty means unset", "", false},
		{"unix absolute", "/usr/local/bin/vina", false},
		{"windows absolute", `C:\vina\vina.exe`, false},
		{"bare command", "vina", false},
		{"relative", "./bin/vina", false},
		{"pipe character", "vina|exe", true},
		{"redirect character", "vina>out", true},
		{"quote character", `vi"na`, true},
		{"wildcard", "C:/tools/vina*", true},
		{"question mark", "vina?", true},
		{"trailing slash", "/usr/local/bin/", true},
		{"trailing backslash", `C:\vina\`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEnginePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidEnginePath))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestReservedCharacterBeatsTrailingSeparator(t *testing.T) {
	// Both rules apply; the reserved-character rule is checked first.
	err := ValidateEnginePath(`C:\vi|na\`)
	assert.Contains(t, err.Error(), "reserved character")
}
