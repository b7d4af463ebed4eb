// Package sheet serves character sheet queries and updates addressed with
// attribute aliases.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/rollkeeper/internal/sheet/alias"
	"github.com/louisbranch/rollkeeper/internal/sheet/filter"
	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
)

var (
	// ErrInvalidProfileName indicates a profile name that cannot be used as a scope.
	ErrInvalidProfileName = errors.New("profile name must be a single word starting with a letter")
	// ErrConflictingValues indicates two aliases for one attribute with different values.
	ErrConflictingValues = errors.New("conflicting values for the same attribute")
	// ErrInvalidFilter indicates a malformed attribute filter.
	ErrInvalidFilter = errors.New("invalid attribute filter")
)

// Service resolves alias expressions against stored sheets. Every operation
// holds the owner's lock for its whole duration.
type Service struct {
	store    storage.SheetStore
	resolver *alias.Resolver
	locks    ownerLocks
}

// NewService returns a Service over store. A nil resolver uses the default
// alias table.
func NewService(store storage.SheetStore, resolver *alias.Resolver) *Service {
	if resolver == nil {
		resolver = alias.NewResolver(nil)
	}
	return &Service{store: store, resolver: resolver}
}

// QueryResult is an evaluated alias expression.
type QueryResult struct {
	alias.Resolution
	// Profile is the default profile unscoped aliases were read from.
	Profile string
}

// UpdateResult describes one attribute write.
type UpdateResult struct {
	alias.Resolution
	Profile   string
	Attribute string
	// Previous is nil when the attribute had no value.
	Previous *int
	Value    int
}

// View is a profile and the attributes listed from it.
type View struct {
	Profile    storage.Profile
	Attributes []storage.Attribute
}

// CreateProfile adds a named profile for owner.
func (s *Service) CreateProfile(ctx context.Context, owner storage.Owner, name string) (storage.Profile, error) {
	name = strings.TrimSpace(name)
	if !alias.ValidProfileName(name) {
		return storage.Profile{}, fmt.Errorf("%q: %w", name, ErrInvalidProfileName)
	}
	defer s.locks.lock(owner)()
	return s.store.CreateProfile(ctx, owner, name)
}

// SetDefaultProfile makes name the profile unscoped aliases read from.
func (s *Service) SetDefaultProfile(ctx context.Context, owner storage.Owner, name string) error {
	defer s.locks.lock(owner)()
	if err := s.store.SetDefaultProfile(ctx, owner, strings.TrimSpace(name)); err != nil {
		return profileError(name, err)
	}
	return nil
}

// Profiles lists owner's profiles.
func (s *Service) Profiles(ctx context.Context, owner storage.Owner) ([]storage.Profile, error) {
	defer s.locks.lock(owner)()
	return s.store.ListProfiles(ctx, owner)
}

// Query resolves and evaluates text such as "for+2" or "ana\des*2".
func (s *Service) Query(ctx context.Context, owner storage.Owner, text string) (QueryResult, error) {
	defer s.locks.lock(owner)()

	defaults := &defaultProfile{store: s.store, owner: owner}
	resolution, err := s.resolver.Resolve(ctx, text, s.lookup(owner, s.store, defaults))
	if err != nil {
		return QueryResult{}, err
	}
	return QueryResult{Resolution: resolution, Profile: defaults.name}, nil
}

// Update evaluates valueExpr and stores it in the attribute named by target,
// written as "[profile\]alias". valueExpr may read the sheet, so "for+1"
// increments força. The read, evaluation and write happen in one transaction.
func (s *Service) Update(ctx context.Context, owner storage.Owner, target, valueExpr string) (UpdateResult, error) {
	scope, canonical, err := s.resolver.Target(target)
	if err != nil {
		return UpdateResult{}, err
	}
	defer s.locks.lock(owner)()

	defaults := &defaultProfile{store: s.store, owner: owner}
	profile := scope
	if profile == "" {
		if profile, err = defaults.get(ctx); err != nil {
			return UpdateResult{}, err
		}
	} else if _, err := s.store.GetProfile(ctx, owner, profile); err != nil {
		return UpdateResult{}, profileError(profile, err)
	}

	result := UpdateResult{Profile: profile, Attribute: canonical}
	err = s.store.UpdateAttributes(ctx, owner, profile, func(ctx context.Context, current storage.AttributeReader) (map[string]int, error) {
		resolution, err := s.resolver.Resolve(ctx, valueExpr, s.lookup(owner, current, defaults))
		if err != nil {
			return nil, err
		}
		value, err := resolution.Value.Int()
		if err != nil {
			return nil, fmt.Errorf("%s = %s: %w", canonical, resolution.Value, err)
		}
		previous, err := current.GetAttribute(ctx, owner, profile, canonical)
		switch {
		case err == nil:
			result.Previous = &previous
		case !errors.Is(err, storage.ErrNotFound):
			return nil, err
		}
		result.Resolution = resolution
		result.Value = value
		return map[string]int{canonical: value}, nil
	})
	if err != nil {
		return UpdateResult{}, err
	}
	return result, nil
}

// KeyError reports the import key that rejected a SetAttributes batch.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string { return fmt.Sprintf("%q: %v", e.Key, e.Err) }
func (e *KeyError) Unwrap() error { return e.Err }

// SetAttributes stores values keyed by alias on profile, or on the default
// profile when profile is empty. Every alias is resolved before anything is
// written, and the returned map is keyed by canonical name.
func (s *Service) SetAttributes(ctx context.Context, owner storage.Owner, profile string, values map[string]int) (map[string]int, error) {
	canonical := make(map[string]int, len(values))
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		name, ok := s.resolver.Table().Canonical(key)
		if !ok {
			return nil, &KeyError{Key: key, Err: alias.ErrUnknownAlias}
		}
		if existing, dup := canonical[name]; dup && existing != values[key] {
			return nil, &KeyError{Key: key, Err: fmt.Errorf("%s: %d and %d: %w", name, existing, values[key], ErrConflictingValues)}
		}
		canonical[name] = values[key]
	}

	defer s.locks.lock(owner)()
	profile, err := s.profileOrDefault(ctx, owner, profile)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetAttributes(ctx, owner, profile, canonical); err != nil {
		return nil, profileError(profile, err)
	}
	return canonical, nil
}

// Sheet lists the attributes of profile, or of the default profile when
// profile is empty, optionally narrowed by an AIP-160 filter over name and
// value.
func (s *Service) Sheet(ctx context.Context, owner storage.Owner, profile, filterExpr string) (View, error) {
	cond, err := filter.ParseAttributeFilter(filterExpr)
	if err != nil {
		return View{}, fmt.Errorf("%w: %v", ErrInvalidFilter, err)
	}

	defer s.locks.lock(owner)()
	profile, err = s.profileOrDefault(ctx, owner, profile)
	if err != nil {
		return View{}, err
	}
	record, err := s.store.GetProfile(ctx, owner, profile)
	if err != nil {
		return View{}, profileError(profile, err)
	}
	attributes, err := s.store.ListAttributes(ctx, storage.ListAttributesRequest{
		Owner:        owner,
		Profile:      profile,
		FilterClause: cond.Clause,
		FilterParams: cond.Params,
	})
	if err != nil {
		return View{}, err
	}
	return View{Profile: record, Attributes: attributes}, nil
}

func (s *Service) profileOrDefault(ctx context.Context, owner storage.Owner, profile string) (string, error) {
	profile = strings.TrimSpace(profile)
	if profile != "" {
		return profile, nil
	}
	return (&defaultProfile{store: s.store, owner: owner}).get(ctx)
}

// lookup reads attributes through reader. Scoped references are checked
// against the store so a missing profile and a missing attribute report
// different errors.
func (s *Service) lookup(owner storage.Owner, reader storage.AttributeReader, defaults *defaultProfile) alias.Lookup {
	return func(ctx context.Context, scope, canonical string) (int, error) {
		profile := scope
		if profile == "" {
			name, err := defaults.get(ctx)
			if err != nil {
				return 0, err
			}
			profile = name
		} else if _, err := s.store.GetProfile(ctx, owner, profile); err != nil {
			return 0, profileError(profile, err)
		}

		value, err := reader.GetAttribute(ctx, owner, profile, canonical)
		if errors.Is(err, storage.ErrNotFound) {
			return 0, fmt.Errorf("%s has no %s: %w", profile, canonical, alias.ErrUnknownAlias)
		}
		return value, err
	}
}

// defaultProfile resolves the owner's default profile at most once.
type defaultProfile struct {
	store storage.SheetStore
	owner storage.Owner
	name  string
}

func (d *defaultProfile) get(ctx context.Context) (string, error) {
	if d.name != "" {
		return d.name, nil
	}
	profile, err := d.store.DefaultProfile(ctx, d.owner)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", fmt.Errorf("no default profile: %w", alias.ErrUnknownProfile)
		}
		return "", err
	}
	d.name = profile.Name
	return d.name, nil
}

func profileError(name string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%q: %w", name, alias.ErrUnknownProfile)
	}
	return err
}
