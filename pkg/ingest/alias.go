package ingest

import (
	"io"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/impactriver/pkg/cache"
	"github.com/matzehuels/impactriver/pkg/errors"
)

// Aliases maps author names or emails to a canonical display name, merging
// identities that git records inconsistently.
//
//	[aliases]
//	"jdoe" = "Jane Doe"
//	"jane@old-employer.com" = "Jane Doe"
type Aliases map[string]string

type aliasFile struct {
	Aliases Aliases `toml:"aliases"`
}

// ReadAliases decodes an alias table from TOML.
func ReadAliases(r io.Reader) (Aliases, error) {
	var f aliasFile
	md, err := toml.NewDecoder(r).Decode(&f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode alias file")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown alias file keys: %v", undecoded)
	}
	for from, to := range f.Aliases {
		if strings.TrimSpace(to) == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "alias %q maps to an empty name", from)
		}
	}
	return f.Aliases, nil
}

// LoadAliases reads an alias file from disk.
func LoadAliases(path string) (Aliases, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "alias file not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	a, err := ReadAliases(f)
	if err != nil {
		return nil, errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return a, nil
}

// Resolve returns the display name for a commit author. The email takes
// precedence over the name; unknown authors keep their name.
func (a Aliases) Resolve(name, email string) string {
	if to, ok := a[email]; ok && email != "" {
		return to
	}
	if to, ok := a[name]; ok {
		return to
	}
	return name
}

// Hash identifies the alias table for cache keys. Nil and empty tables
// hash to "".
func (a Aliases) Hash() string {
	if len(a) == 0 {
		return ""
	}
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		sb.WriteByte(0)
		sb.WriteString(a[k])
		sb.WriteByte(0)
	}
	return cache.Hash([]byte(sb.String()))
}
