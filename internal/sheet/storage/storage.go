// Package storage defines persistence contracts for character sheets.
package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a requested sheet record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained sheet record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// Owner identifies whose sheets are addressed: one user within one community.
type Owner struct {
	CommunityID string
	UserID      string
}

// Profile is one named character sheet of an owner.
type Profile struct {
	Owner     Owner
	Name      string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Attribute is one canonical attribute value stored on a profile.
type Attribute struct {
	Name      string
	Value     int
	UpdatedAt time.Time
}

// ListAttributesRequest selects the attributes of one profile.
type ListAttributesRequest struct {
	Owner   Owner
	Profile string
	// FilterClause is an optional SQL WHERE clause fragment over name and value.
	FilterClause string
	// FilterParams are the positional parameters for the filter clause.
	FilterParams []any
}

// AttributeReader reads single attribute values.
type AttributeReader interface {
	// GetAttribute returns ErrNotFound when the profile or the attribute is missing.
	GetAttribute(ctx context.Context, owner Owner, profile, name string) (int, error)
}

// UpdateFunc computes the values to write from the current sheet state.
type UpdateFunc func(ctx context.Context, current AttributeReader) (map[string]int, error)

// SheetStore persists profiles and their attribute values.
type SheetStore interface {
	AttributeReader

	// CreateProfile adds a profile. The first profile of an owner becomes the default.
	CreateProfile(ctx context.Context, owner Owner, name string) (Profile, error)
	GetProfile(ctx context.Context, owner Owner, name string) (Profile, error)
	DefaultProfile(ctx context.Context, owner Owner) (Profile, error)
	SetDefaultProfile(ctx context.Context, owner Owner, name string) error
	ListProfiles(ctx context.Context, owner Owner) ([]Profile, error)
	ListAttributes(ctx context.Context, req ListAttributesRequest) ([]Attribute, error)
	// SetAttributes writes every value in one transaction; either all values
	// are stored or none are.
	SetAttributes(ctx context.Context, owner Owner, profile string, values map[string]int) error
	// UpdateAttributes reads through current and writes the values fn returns
	// in a single transaction. Nothing is written when fn fails.
	UpdateAttributes(ctx context.Context, owner Owner, profile string, fn UpdateFunc) error
}
