package conversation

import (
	"fmt"
	"strings"

	"github.com/matheus3301/localchat/internal/storage"
	"golang.org/x/text/cases"
)

// SearchUsers returns every stored profile whose username contains term,
// ignoring case, except excludeKey. A blank term matches nothing.
func (s *Store) SearchUsers(term, excludeKey string) ([]storage.ProfileSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, nil
	}

	profiles, err := s.storage.ListProfiles()
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}

	fold := cases.Fold()
	needle := fold.String(term)
	var matches []storage.ProfileSummary
	for _, p := range profiles {
		if p.Key == excludeKey {
			continue
		}
		if strings.Contains(fold.String(p.Username), needle) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}
