package repository

import (
	"errors"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ErrEmailTaken is returned by a backend when its own uniqueness constraint on
// the email column rejected a write.
var ErrEmailTaken = errors.New("customer email already stored")

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return mongo.IsDuplicateKeyError(err)
}
