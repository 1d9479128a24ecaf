package quota

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"

	"edusaarthi/internal/domain"
)

var defaultLimits = map[domain.ResourceType]int{
	domain.ResourceQuiz:    5,
	domain.ResourceTutor:   10,
	domain.ResourceContent: 20,
}

// Policy holds the daily limits of free users and the timezone whose midnight
// rolls counters over.
type Policy struct {
	Limits   map[domain.ResourceType]int
	Location *time.Location
}

// DefaultPolicy is quiz=5, tutor=10, content=20 per UTC day.
func DefaultPolicy() Policy {
	limits := make(map[domain.ResourceType]int, len(defaultLimits))
	for r, l := range defaultLimits {
		limits[r] = l
	}
	return Policy{Limits: limits, Location: time.UTC}
}

// LoadPolicy reads the policy from an optional file (yaml, json or toml) and
// QUOTA_* environment variables, e.g. QUOTA_LIMITS_QUIZ=8 or
// QUOTA_TIMEZONE=Asia/Kolkata. Files may introduce extra resource types.
func LoadPolicy(path string) (Policy, error) {
	v := viper.New()
	v.SetDefault("timezone", "UTC")
	for r, l := range defaultLimits {
		v.SetDefault("limits."+string(r), l)
	}
	v.SetEnvPrefix("QUOTA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Policy{}, fmt.Errorf("read quota policy %s: %w", path, err)
		}
	}

	// Several names may spell one resource type ("ai_tutor" and "tutor").
	// A name set in the file or the environment beats the built-in default;
	// two explicit names for the same type are a configuration error.
	names := make(map[domain.ResourceType][]string)
	addName := func(name string) {
		name = strings.ToLower(strings.TrimSpace(name))
		r := domain.ParseResourceType(name)
		for _, n := range names[r] {
			if n == name {
				return
			}
		}
		names[r] = append(names[r], name)
	}
	for r := range defaultLimits {
		addName(string(r))
	}
	addName("ai_tutor")
	for name := range v.GetStringMap("limits") {
		addName(name)
	}

	explicit := func(name string) bool {
		if v.InConfig("limits." + name) {
			return true
		}
		_, ok := os.LookupEnv("QUOTA_LIMITS_" + strings.ToUpper(name))
		return ok
	}

	limits := make(map[domain.ResourceType]int, len(names))
	for r, spellings := range names {
		chosen := ""
		for _, name := range spellings {
			if !explicit(name) {
				continue
			}
			if chosen != "" {
				return Policy{}, fmt.Errorf("quota policy: limits %q and %q both set the %s limit", chosen, name, r)
			}
			chosen = name
		}
		if chosen == "" {
			if _, ok := defaultLimits[r]; !ok {
				continue
			}
			chosen = string(r)
		}
		limit := v.GetInt("limits." + chosen)
		if limit < 0 {
			return Policy{}, fmt.Errorf("quota policy: negative limit %d for %q", limit, chosen)
		}
		limits[r] = limit
	}

	tz := strings.TrimSpace(v.GetString("timezone"))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Policy{}, fmt.Errorf("quota policy: timezone %q: %w", tz, err)
	}
	return Policy{Limits: limits, Location: loc}, nil
}

// Limit returns the daily limit for r. Unknown resource types are not metered
// and must be rejected by the caller.
func (p Policy) Limit(r domain.ResourceType) (int, bool) {
	l, ok := p.Limits[r]
	return l, ok
}

// Resources lists the configured resource types in name order.
func (p Policy) Resources() []domain.ResourceType {
	out := make([]domain.ResourceType, 0, len(p.Limits))
	for r := range p.Limits {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
