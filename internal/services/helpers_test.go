package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"leadforge/internal/models"
	"leadforge/internal/repositories"
	"leadforge/internal/storage"
)

type testEnv struct {
	store *storage.Store
	leads *repositories.LeadRepository
	opps  *repositories.OpportunityRepository
	feed  *ToastFeed
	lead  *LeadService
	opp   *OpportunityService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := zaptest.NewLogger(t)
	store := storage.NewStore(storage.NewMemoryKV(), log)
	leads := repositories.NewLeadRepository(store, repositories.NoLatency)
	opps := repositories.NewOpportunityRepository(store, repositories.NoLatency)
	feed := NewToastFeed(time.Minute)
	notifier := NewFanout(log, Channel{Name: "toast", Notifier: feed})
	return &testEnv{
		store: store,
		leads: leads,
		opps:  opps,
		feed:  feed,
		lead:  NewLeadService(leads, opps, notifier, log),
		opp:   NewOpportunityService(opps, leads, notifier, log),
	}
}

func (e *testEnv) seedLeads(t *testing.T, leads ...models.Lead) {
	t.Helper()
	require.NoError(t, e.leads.ReplaceAll(context.Background(), leads))
}

func ptr[T any](v T) *T { return &v }

func validLeadRequest() models.CreateLeadRequest {
	return models.CreateLeadRequest{
		Name:    "Jane Doe",
		Company: "Acme Corp",
		Email:   "Jane@Acme.io ",
		Source:  models.SourceWebsite,
		Score:   80,
		Status:  models.StatusHot,
	}
}
