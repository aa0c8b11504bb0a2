package access

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/spf13/viper"
)

// bannedFileKey is the key holding the username list in a banned-users file.
const bannedFileKey = "banned_usernames"

// BannedRegistry holds the process-wide set of banned usernames.
//
// Reads go through an atomically swapped immutable snapshot, so IsBanned never
// locks and never does I/O. Load replaces the whole snapshot at once.
type BannedRegistry struct {
	snapshot atomic.Pointer[map[string]struct{}]
}

// NewBannedRegistry builds a registry populated with usernames.
func NewBannedRegistry(usernames ...string) *BannedRegistry {
	r := &BannedRegistry{}
	r.Load(usernames)
	return r
}

// Load replaces the registry contents. Blank entries are ignored; usernames
// are matched exactly, including case.
func (r *BannedRegistry) Load(usernames []string) {
	set := make(map[string]struct{}, len(usernames))
	for _, u := range usernames {
		if strings.TrimSpace(u) == "" {
			continue
		}
		set[u] = struct{}{}
	}
	r.snapshot.Store(&set)
}

// IsBanned reports whether username is in the registry.
func (r *BannedRegistry) IsBanned(username string) bool {
	set := r.snapshot.Load()
	if set == nil {
		return false
	}
	_, ok := (*set)[username]
	return ok
}

// Usernames returns the banned usernames in sorted order.
func (r *BannedRegistry) Usernames() []string {
	set := r.snapshot.Load()
	if set == nil {
		return nil
	}
	out := make([]string, 0, len(*set))
	for u := range *set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of banned usernames.
func (r *BannedRegistry) Len() int {
	set := r.snapshot.Load()
	if set == nil {
		return 0
	}
	return len(*set)
}

// ReadBannedFile reads the banned_usernames list from a yaml, json or toml
// file. The format is chosen by the file extension.
func ReadBannedFile(path string) ([]string, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read banned users file %s: %w", path, err)
	}
	if !v.IsSet(bannedFileKey) {
		return nil, fmt.Errorf("banned users file %s: missing %q", path, bannedFileKey)
	}
	return v.GetStringSlice(bannedFileKey), nil
}
