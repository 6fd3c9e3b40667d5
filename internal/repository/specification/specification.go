package specification

import (
	"github.com/supabase-community/postgrest-go"
	"gorm.io/gorm"
)

// Specification defines the interface for query specifications
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// RestSpecification is implemented by specifications that can also be
// expressed as a PostgREST filter or ordering.
type RestSpecification interface {
	ApplyRest(fb *postgrest.FilterBuilder) *postgrest.FilterBuilder
}
