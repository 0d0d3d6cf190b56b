package assets

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var FS embed.FS

// Migration is one embedded SQL script.
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the embedded migrations in lexical (apply) order.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(FS, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		b, err := FS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{
			Name: strings.TrimPrefix(name, "migrations/"),
			SQL:  string(b),
		})
	}
	return out, nil
}
