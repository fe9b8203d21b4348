// Package posting implements the inverted index store: one posting per
// (term, service) pair, regenerated wholesale on every reindex.
package posting

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/serviplace/searchapi/internal/domain/index"
)

// store is the consumer interface for postings (ISP).
type store interface {
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	HLen(ctx context.Context, key string) (int64, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	Eval(ctx context.Context, script string, keys, args []string) error
}

// reindexScript replaces a service's posting set in one atomic server-side
// unit: a concurrent reader either sees the old postings or the new ones,
// never a half-cleared index.
//
// KEYS[1] = the service's term set; ARGV[1] = term key prefix,
// ARGV[2] = service id, ARGV[3..] = alternating term, count.
//
// Term hashes are addressed through ARGV[1], not declared in KEYS: the old
// terms are only known after the SMEMBERS call inside the script. That makes
// the script single-node only — Redis Cluster rejects access to undeclared
// keys.
const reindexScript = `
local old = redis.call('SMEMBERS', KEYS[1])
for i = 1, #old do
  redis.call('HDEL', ARGV[1] .. old[i], ARGV[2])
end
redis.call('DEL', KEYS[1])
for i = 3, #ARGV, 2 do
  redis.call('HSET', ARGV[1] .. ARGV[i], ARGV[2], ARGV[i+1])
  redis.call('SADD', KEYS[1], ARGV[i])
end
return (#ARGV - 2) / 2
`

// Repo implements the posting store over the db facade.
type Repo struct {
	store  store
	prefix string
}

// New creates a posting repository. keyPrefix namespaces every key.
func New(s store, keyPrefix string) *Repo {
	return &Repo{store: s, prefix: keyPrefix}
}

// Reindex tokenizes title+" "+description and replaces every posting for the
// service with the fresh set. Idempotent; a document that tokenizes to
// nothing leaves the service with an empty posting set.
func (r *Repo) Reindex(ctx context.Context, serviceID int64, title, description string) error {
	terms := index.Tokenize(title + " " + description)

	args := make([]string, 0, 2+2*len(terms))
	args = append(args, r.termPrefix(), formatID(serviceID))
	for _, tc := range terms {
		args = append(args, tc.Term, strconv.Itoa(tc.Count))
	}

	if err := r.store.Eval(ctx, reindexScript, []string{r.svcTermsKey(serviceID)}, args); err != nil {
		return fmt.Errorf("reindex service %d: %w", serviceID, err)
	}
	return nil
}

// Remove drops every posting for the service (reconciliation on removal).
func (r *Repo) Remove(ctx context.Context, serviceID int64) error {
	args := []string{r.termPrefix(), formatID(serviceID)}
	if err := r.store.Eval(ctx, reindexScript, []string{r.svcTermsKey(serviceID)}, args); err != nil {
		return fmt.Errorf("remove postings for service %d: %w", serviceID, err)
	}
	return nil
}

// ForTerm returns the postings of one exact term.
func (r *Repo) ForTerm(ctx context.Context, term string) ([]index.Posting, error) {
	fields, err := r.store.HGetAll(ctx, r.termKey(term))
	if err != nil {
		return nil, fmt.Errorf("postings for term %q: %w", term, err)
	}
	return postingsFromFields(term, fields), nil
}

// Matching returns the postings of every stored plain-word term containing
// the fragment as a substring. Hashtag terms never match here; they are
// looked up exactly via WithAllHashtags.
func (r *Repo) Matching(ctx context.Context, fragment string) ([]index.Posting, error) {
	keys, err := r.store.Scan(ctx, r.termPrefix()+"*"+fragment+"*")
	if err != nil {
		return nil, fmt.Errorf("scan terms matching %q: %w", fragment, err)
	}

	words := keys[:0]
	for _, key := range keys {
		if !strings.HasPrefix(r.termFromKey(key), "#") {
			words = append(words, key)
		}
	}
	if len(words) == 0 {
		return nil, nil
	}
	sort.Strings(words)

	maps, err := r.store.HGetAllMulti(ctx, words)
	if err != nil {
		return nil, fmt.Errorf("fetch postings matching %q: %w", fragment, err)
	}

	var out []index.Posting
	for i, fields := range maps {
		out = append(out, postingsFromFields(r.termFromKey(words[i]), fields)...)
	}
	return out, nil
}

// WithAllHashtags returns the ids of services carrying every given hashtag.
// An empty hashtag list means "no constraint" and is reported as a nil slice;
// a conjunction with no survivors returns an empty non-nil slice.
func (r *Repo) WithAllHashtags(ctx context.Context, hashtags []string) ([]int64, error) {
	if len(hashtags) == 0 {
		return nil, nil
	}

	var matched map[int64]bool
	for _, tag := range hashtags {
		fields, err := r.store.HGetAll(ctx, r.termKey(tag))
		if err != nil {
			return nil, fmt.Errorf("postings for hashtag %q: %w", tag, err)
		}

		ids := make(map[int64]bool, len(fields))
		for field := range fields {
			id, err := strconv.ParseInt(field, 10, 64)
			if err != nil {
				continue
			}
			if matched == nil || matched[id] {
				ids[id] = true
			}
		}
		matched = ids
		if len(matched) == 0 {
			return []int64{}, nil
		}
	}

	out := make([]int64, 0, len(matched))
	for id := range matched {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// TopHashtags returns the n hashtag terms carried by the most services,
// most popular first, ties broken alphabetically.
func (r *Repo) TopHashtags(ctx context.Context, n int) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.termPrefix()+"#*")
	if err != nil {
		return nil, fmt.Errorf("scan hashtag terms: %w", err)
	}

	type tagCount struct {
		tag   string
		count int64
	}
	counts := make([]tagCount, 0, len(keys))
	for _, key := range keys {
		c, err := r.store.HLen(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("count services for %q: %w", r.termFromKey(key), err)
		}
		counts = append(counts, tagCount{tag: r.termFromKey(key), count: c})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].tag < counts[j].tag
	})

	if n > len(counts) {
		n = len(counts)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = counts[i].tag
	}
	return out, nil
}

func (r *Repo) termPrefix() string { return r.prefix + "term:" }

func (r *Repo) termKey(term string) string { return r.termPrefix() + term }

func (r *Repo) termFromKey(key string) string { return strings.TrimPrefix(key, r.termPrefix()) }

func (r *Repo) svcTermsKey(serviceID int64) string {
	return r.prefix + "svc:" + formatID(serviceID) + ":terms"
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }

func postingsFromFields(term string, fields map[string]string) []index.Posting {
	if len(fields) == 0 {
		return nil
	}
	out := make([]index.Posting, 0, len(fields))
	for field, value := range fields {
		id, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		count, err := strconv.Atoi(value)
		if err != nil {
			continue
		}
		out = append(out, index.Posting{Term: term, ServiceID: id, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ServiceID < out[j].ServiceID })
	return out
}
