package genderapi

import (
	"context"
)

// API defines the lookup operations of the service
type API interface {
	// LookupByName infers a gender from a personal name
	LookupByName(ctx context.Context, q NameQuery) (Result, error)

	// LookupByEmail infers a gender from an email address
	LookupByEmail(ctx context.Context, q EmailQuery) (Result, error)

	// LookupByUsername infers a gender from a social media username
	LookupByUsername(ctx context.Context, q UsernameQuery) (Result, error)
}

var _ API = (*Client)(nil)
