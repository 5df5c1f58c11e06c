package repository

import (
	"fmt"

	"math_tutor_backend/internal/util"

	"gorm.io/gorm"
)

const adminRowLimit = 100

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) ListTables() ([]string, error) {
	return r.DB.Migrator().GetTables()
}

// TableData dumps up to 100 rows of the named table. The name is
// checked against the live table list before it is interpolated, so
// arbitrary SQL can never reach the database.
func (r *AdminRepository) TableData(table string) (columns []string, rows [][]interface{}, err error) {
	tables, err := r.ListTables()
	if err != nil {
		return nil, nil, err
	}
	known := false
	for _, t := range tables {
		if t == table {
			known = true
			break
		}
	}
	if !known {
		return nil, nil, util.ErrUnknownTable
	}

	result, err := r.DB.Raw(fmt.Sprintf("SELECT * FROM `%s` LIMIT %d", table, adminRowLimit)).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer result.Close()

	columns, err = result.Columns()
	if err != nil {
		return nil, nil, err
	}

	for result.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := result.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		rows = append(rows, values)
	}

	return columns, rows, result.Err()
}
