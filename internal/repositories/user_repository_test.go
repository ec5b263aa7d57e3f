package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// TestIsUniqueViolation - гонка двух регистраций пробивает проверку
// select-then-insert, и нарушение уникального индекса должно
// распознаваться как "пользователь уже существует", а не как 500.
func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"pg unique_violation", &pgconn.PgError{Code: "23505"}, true},
		{"обернутая pg ошибка", fmt.Errorf("create user: %w", &pgconn.PgError{Code: "23505"}), true},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, true},
		{"другая pg ошибка", &pgconn.PgError{Code: "23503"}, false},
		{"произвольная ошибка", errors.New("connection reset"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, isUniqueViolation(tc.err), tc.name)
	}
}
