package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/mjosh1982/customerservice-repo/internal/model"
	"github.com/mjosh1982/customerservice-repo/internal/repository/crud"
)

// Backend names a concrete CustomerRepositoryInterface implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQL    Backend = "sql"
	BackendORM    Backend = "orm"
	BackendMongo  Backend = "mongo"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendMemory, BackendSQL, BackendORM, BackendMongo:
		return b, nil
	default:
		return "", fmt.Errorf("unknown customer backend %q", s)
	}
}

// Deps holds the storage handles a backend may need. Only the handle of the
// selected backend has to be set.
type Deps struct {
	SQL   *sql.DB
	Gorm  *gorm.DB
	Mongo *mongo.Database
}

// New builds the repository for backend.
func New(ctx context.Context, backend Backend, deps Deps) (CustomerRepositoryInterface, error) {
	switch backend {
	case BackendMemory:
		return NewInMemoryCustomerRepository(), nil

	case BackendSQL:
		if deps.SQL == nil {
			return nil, fmt.Errorf("backend %q needs a sql database", backend)
		}
		return &CustomerRepository{DB: deps.SQL}, nil

	case BackendORM:
		if deps.Gorm == nil {
			return nil, fmt.Errorf("backend %q needs a gorm database", backend)
		}
		return &ORMCustomerRepository{Crud: crud.New[model.Customer](deps.Gorm)}, nil

	case BackendMongo:
		if deps.Mongo == nil {
			return nil, fmt.Errorf("backend %q needs a mongo database", backend)
		}
		repo := NewMongoCustomerRepository(deps.Mongo)
		if err := repo.Setup(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	}

	return nil, fmt.Errorf("unknown customer backend %q", backend)
}
