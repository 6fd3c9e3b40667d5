package specification

import (
	"fmt"
	"strconv"

	"github.com/supabase-community/postgrest-go"
	"gorm.io/gorm"
)

// ByID filters by ID
type ByID struct {
	ID int64
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id = ?", s.ID)
}

func (s ByID) ApplyRest(fb *postgrest.FilterBuilder) *postgrest.FilterBuilder {
	return fb.Eq("id", strconv.FormatInt(s.ID, 10))
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

// ApplyRest appends to the order parameter, so calls chain into a
// multi-key ordering.
func (s OrderBy) ApplyRest(fb *postgrest.FilterBuilder) *postgrest.FilterBuilder {
	return fb.Order(s.Field, &postgrest.OrderOpts{Ascending: !s.Desc})
}
