package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadforge/internal/models"
)

func TestSeederFillsEmptyStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seeder := NewDataSeeder(env.leads, env.opps, nil)

	res, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedTarget, res.LeadsAdded)

	leads, err := env.leads.List(ctx)
	require.NoError(t, err)
	require.Len(t, leads, SeedTarget)
	assert.Equal(t, "lead_001", leads[0].ID)
	for _, l := range leads {
		assert.GreaterOrEqual(t, l.Score, 50)
		assert.LessOrEqual(t, l.Score, 100)
		assert.True(t, l.Source.Valid())
		assert.True(t, l.Status.Valid())
	}

	opps, err := env.opps.List(ctx)
	require.NoError(t, err)
	require.Len(t, opps, 5)
	assert.Equal(t, "opp_lead_003", opps[0].ID)
	assert.Equal(t, 25000.0, opps[0].AmountValue())
	assert.Equal(t, 65000.0, opps[4].AmountValue())
}

func TestSeederKeepsExistingAndIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	mine, err := env.lead.Create(ctx, validLeadRequest())
	require.NoError(t, err)

	seeder := NewDataSeeder(env.leads, env.opps, nil)
	res, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, SeedTarget-1, res.LeadsAdded)

	leads, _ := env.leads.List(ctx)
	assert.Equal(t, mine.ID, leads[0].ID)

	res, err = seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Zero(t, res.LeadsAdded)
	assert.Zero(t, res.OpportunitiesAdded)
}

func TestSeederSampleOpportunitiesWithoutConvertedLeads(t *testing.T) {
	seeder := NewDataSeeder(nil, nil, nil)
	opps := seeder.sampleOpportunities([]models.Lead{{ID: "x", Status: models.StatusNew}})
	require.Len(t, opps, 2)
	assert.Equal(t, "opp_sample_1", opps[0].ID)
	assert.Equal(t, 75000.0, opps[1].AmountValue())
}

func TestSeederConcurrentRunsSeedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seeder := NewDataSeeder(env.leads, env.opps, nil)

	const n = 4
	var (
		wg    sync.WaitGroup
		added atomic.Int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := seeder.Seed(ctx)
			assert.NoError(t, err)
			added.Add(int32(res.LeadsAdded))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(SeedTarget), added.Load())
	leads, err := env.leads.List(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, SeedTarget)
}
