package allocator

import (
	"sort"
	"strings"
	"time"
)

// BulkResult reports how many invites a bulk import created and updated.
type BulkResult struct {
	Created int
	Updated int
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// BulkUpsert imports a batch of invitees. Emails are normalized and
// deduplicated, then processed in ascending order; names pair with that
// order positionally, so callers must supply names sorted the same way or
// not at all. An existing invite gets its name refreshed when one was
// supplied and, while it is still pending, a fresh token (an unused link
// may have been shared before the guest list was final). Unknown emails
// become new pending invites with freshly generated tokens.
func (r *Roster) BulkUpsert(emails, names []string, newToken func() string, now time.Time) BulkResult {
	seen := make(map[string]struct{}, len(emails))
	unique := make([]string, 0, len(emails))
	for _, raw := range emails {
		email := NormalizeEmail(raw)
		if email == "" {
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		unique = append(unique, email)
	}
	sort.Strings(unique)

	var result BulkResult
	for i, email := range unique {
		name := ""
		if i < len(names) {
			name = strings.TrimSpace(names[i])
		}

		if idx := r.indexOfEmail(email); idx >= 0 {
			if name != "" {
				r.Invites[idx].Name = name
			}
			if r.Invites[idx].Status == StatusPending {
				r.Invites[idx].Token = newToken()
			}
			result.Updated++
			continue
		}

		r.Invites = append(r.Invites, Invite{
			Email:     email,
			Name:      name,
			Token:     newToken(),
			Status:    StatusPending,
			CreatedAt: now,
		})
		result.Created++
	}

	r.sortByCreation()
	return result
}

func (r *Roster) indexOfEmail(email string) int {
	for i := range r.Invites {
		if r.Invites[i].Email == email {
			return i
		}
	}
	return -1
}
