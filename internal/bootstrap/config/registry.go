package config

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/vtjnash/whedon-api/internal/errs"
)

// RosterSource resolves a team given as "org/slug" to member logins.
type RosterSource interface {
	TeamMembers(ctx context.Context, team string) ([]string, error)
}

// Registry is the process-wide journal configuration map: populated once
// before request processing begins, read-only afterward. Repositories
// with no entry are rejected before any further processing.
type Registry struct {
	once     sync.Once
	initErr  error
	journals map[string]*Journal
}

// NewRegistry indexes journals by repository full name. Lookups are
// case-normalized because the settings loader lower-cases map keys.
func NewRegistry(journals map[string]*Journal) *Registry {
	m := make(map[string]*Journal, len(journals))
	for repo, j := range journals {
		if j == nil {
			continue
		}
		m[strings.ToLower(repo)] = j
	}
	return &Registry{journals: m}
}

// Init resolves each journal's editor roster from its configured team,
// exactly once for the process lifetime. Concurrent first callers all
// observe the completed (or failed) initialization.
func (r *Registry) Init(ctx context.Context, roster RosterSource) error {
	r.once.Do(func() {
		if roster == nil {
			r.initErr = errors.New("roster source is required")
			return
		}
		for repo, j := range r.journals {
			if j.EditorTeam == "" {
				continue
			}
			members, err := roster.TeamMembers(ctx, j.EditorTeam)
			if err != nil {
				r.initErr = errs.Wrapf(err, "resolve editor team for %s", repo)
				return
			}
			sort.Strings(members)
			j.Editors = members
		}
	})
	return r.initErr
}

// Lookup returns the journal for a repository full name, or nil when the
// repository is not configured.
func (r *Registry) Lookup(repoFullName string) *Journal {
	return r.journals[strings.ToLower(repoFullName)]
}
