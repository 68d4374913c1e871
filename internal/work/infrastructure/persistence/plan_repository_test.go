package persistence_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database/dbtest"
	"github.com/felixgeelhaar/atelier/internal/work/domain/plan"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/internal/work/infrastructure/persistence"
)

func TestPlanRepository_CreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewPlanRepository(dbtest.NewSQLite(t))
	date := vo.MustParseDate("2024-06-07")

	entries := []plan.Entry{
		{TaskID: uuid.New(), BaseScore: 280, AdjustedScore: 290},
		{TaskID: uuid.New(), BaseScore: 200, AdjustedScore: 200},
	}
	first, err := plan.New(date, entries, testNow)
	require.NoError(t, err)

	stored, created, err := repo.CreateIfAbsent(ctx, first)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, first.ID(), stored.ID())
	assert.Equal(t, vo.Friday, stored.Theme())
	assert.Equal(t, entries, stored.Entries())

	t.Run("second writer gets the first plan", func(t *testing.T) {
		second, err := plan.New(date, nil, testNow)
		require.NoError(t, err)

		stored, created, err := repo.CreateIfAbsent(ctx, second)

		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID(), stored.ID())
		assert.Equal(t, first.TaskIDs(), stored.TaskIDs())
	})

	t.Run("find by date", func(t *testing.T) {
		found, err := repo.FindByDate(ctx, date)
		require.NoError(t, err)
		assert.Equal(t, first.ID(), found.ID())

		_, err = repo.FindByDate(ctx, date.AddDays(1))
		assert.ErrorIs(t, err, plan.ErrPlanNotFound)
	})
}

func TestPlanRepository_EmptyPlanIsStored(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewPlanRepository(dbtest.NewSQLite(t))

	empty, err := plan.New(vo.MustParseDate("2024-06-08"), nil, testNow)
	require.NoError(t, err)

	stored, created, err := repo.CreateIfAbsent(ctx, empty)

	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, stored.IsEmpty())
}

func TestPlanRepository_ConcurrentCreatorsAgree(t *testing.T) {
	ctx := context.Background()
	repo := persistence.NewPlanRepository(dbtest.NewSQLite(t))
	date := vo.MustParseDate("2024-06-10")

	const writers = 8
	ids := make(map[uuid.UUID]struct{})
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := plan.New(date, []plan.Entry{{TaskID: uuid.New(), BaseScore: 160, AdjustedScore: 160}}, testNow)
			if !assert.NoError(t, err) {
				return
			}
			stored, created, err := repo.CreateIfAbsent(ctx, p)
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			ids[stored.ID()] = struct{}{}
			if created {
				winners++
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 1, "every writer sees the same plan")
	assert.Equal(t, 1, winners)
}
