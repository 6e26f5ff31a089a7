// Package people resolves contact addresses to the compact slugs used in
// narrow fragments.
//
// A slug is the sorted, comma-separated list of user IDs followed by '-' and
// either the lower-cased local part of the single address or "group", e.g.
// "3-alice" or "3,7-group". Only the ID prefix is significant when resolving.
package people

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Person is one directory entry.
type Person struct {
	ID       int    `yaml:"id"`
	Email    string `yaml:"email"`
	FullName string `yaml:"full_name"`
}

// Directory is an in-memory address book. It is safe for concurrent use.
type Directory struct {
	mu      sync.RWMutex
	byEmail map[string]Person
	byID    map[int]Person
}

// NewDirectory returns a directory holding people.
func NewDirectory(people ...Person) *Directory {
	d := &Directory{
		byEmail: make(map[string]Person),
		byID:    make(map[int]Person),
	}
	for _, p := range people {
		d.Add(p)
	}
	return d
}

// Add inserts or replaces p. Emails are matched case-insensitively.
func (d *Directory) Add(p Person) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byEmail[strings.ToLower(strings.TrimSpace(p.Email))] = p
	d.byID[p.ID] = p
}

// Len returns the number of people.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}

// EmailsToSlug returns the slug for a comma-separated address list. It fails
// if any address is unknown.
func (d *Directory) EmailsToSlug(emails string) (string, bool) {
	ids, ok := d.emailsToIDs(emails)
	if !ok {
		return "", false
	}
	slug := joinIDs(ids) + "-"
	list := splitList(emails)
	if len(list) == 1 {
		local, _, _ := strings.Cut(list[0], "@")
		slug += strings.ToLower(local)
	} else {
		slug += "group"
	}
	return slug, true
}

var slugPattern = regexp.MustCompile(`^([\d,]+)-`)

// SlugToEmails returns the sorted, comma-separated address list named by
// slug. It fails if the slug has no ID prefix or names an unknown ID.
func (d *Directory) SlugToEmails(slug string) (string, bool) {
	m := slugPattern.FindStringSubmatch(slug)
	if m == nil {
		return "", false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	var emails []string
	for _, raw := range strings.Split(m[1], ",") {
		if raw == "" {
			continue
		}
		id, err := strconv.Atoi(raw)
		if err != nil {
			return "", false
		}
		p, ok := d.byID[id]
		if !ok {
			return "", false
		}
		emails = append(emails, strings.ToLower(p.Email))
	}
	if len(emails) == 0 {
		return "", false
	}
	sort.Strings(emails)
	return strings.Join(emails, ","), true
}

func (d *Directory) emailsToIDs(emails string) ([]int, bool) {
	list := splitList(emails)
	if len(list) == 0 {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	ids := make([]int, 0, len(list))
	for _, e := range list {
		p, ok := d.byEmail[strings.ToLower(e)]
		if !ok {
			return nil, false
		}
		ids = append(ids, p.ID)
	}
	sort.Ints(ids)
	return ids, true
}

func splitList(emails string) []string {
	var out []string
	for _, e := range strings.Split(emails, ",") {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
