// Package pathcheck validates user-supplied docking-engine paths before they
// are embedded into generated run scripts. Validation is purely syntactic:
// no filesystem access happens here. Whether the path actually exists is
// checked later, at package-generation time, and only as a soft fallback.
package pathcheck

import (
	"strings"

	"github.com/anhth20011/dockprep/pkg/errors"
)

// reservedChars are characters that are either reserved by Windows filenames
// or ambiguous to a shell; embedding them in a script would change its
// meaning.
const reservedChars = `<>"|?*`

// ValidateEnginePath checks a user-supplied engine path. Rules apply in fixed
// order, first match wins:
//
//  1. An empty path is valid: it means "unset", deferring to the execution
//     host's search path.
//  2. Any reserved character makes the path invalid.
//  3. A trailing path separator makes the path invalid; the value must name
//     an executable file, not a directory.
//
// A nil return means the path may be embedded into generated scripts.
func ValidateEnginePath(path string) error {
	if path == "" {
		return nil
	}
	if i := strings.IndexAny(path, reservedChars); i >= 0 {
		return errors.Newf(errors.ErrCodeInvalidEnginePath,
			"engine path contains reserved character %q", path[i])
	}
	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, `\`) {
		return errors.New(errors.ErrCodeInvalidEnginePath,
			"engine path must reference an executable file, not a directory")
	}
	return nil
}
