package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjosh1982/customerservice-repo/internal/model"
)

func TestNewInMemoryCustomerRepository_Seed(t *testing.T) {
	repo := NewInMemoryCustomerRepository(
		model.Customer{ID: 40, Name: "Alex", Email: "alex@gmail.com", Age: 21},
		model.Customer{ID: 40, Name: "Jamila", Email: "jamila@gmail.com", Age: 19},
	)

	all, err := repo.SelectAllCustomers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Customer{
		{ID: 1, Name: "Alex", Email: "alex@gmail.com", Age: 21},
		{ID: 2, Name: "Jamila", Email: "jamila@gmail.com", Age: 19},
	}, all)
}

func TestInMemoryCustomerRepository_IDsAreNotReused(t *testing.T) {
	repo := NewInMemoryCustomerRepository()
	ctx := context.Background()

	first := &model.Customer{Name: "Alex", Email: "alex@gmail.com"}
	require.NoError(t, repo.AddCustomer(ctx, first))

	deleted, err := repo.DeleteCustomerByID(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	second := &model.Customer{Name: "Jamila", Email: "jamila@gmail.com"}
	require.NoError(t, repo.AddCustomer(ctx, second))
	assert.Greater(t, second.ID, first.ID)
}

func TestInMemoryCustomerRepository_ReturnsCopies(t *testing.T) {
	repo := NewInMemoryCustomerRepository(model.Customer{Name: "Alex", Email: "alex@gmail.com", Age: 21})
	ctx := context.Background()

	all, err := repo.SelectAllCustomers(ctx)
	require.NoError(t, err)
	all[0].Name = "Mutated"

	c, err := repo.SelectCustomerByID(ctx, 1)
	require.NoError(t, err)
	c.Age = 99

	again, err := repo.SelectCustomerByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Alex", again.Name)
	assert.Equal(t, 21, again.Age)
}

func TestInMemoryCustomerRepository_ConcurrentAdds(t *testing.T) {
	repo := NewInMemoryCustomerRepository()
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repo.AddCustomer(ctx, &model.Customer{Name: "C", Email: fmt.Sprintf("c%d@gmail.com", i)})
		}(i)
	}
	wg.Wait()

	all, err := repo.SelectAllCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, all, n)

	ids := map[int]bool{}
	for _, c := range all {
		ids[c.ID] = true
	}
	assert.Len(t, ids, n)
}
