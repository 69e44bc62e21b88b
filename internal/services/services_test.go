package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unihub/unidrop/internal/db"
	"github.com/unihub/unidrop/internal/messaging"
	"github.com/unihub/unidrop/internal/models"
	"github.com/unihub/unidrop/internal/store"
)

type fixture struct {
	store     store.Store
	events    *messaging.Memory
	alerts    *recordingNotifier
	settings  *SettingsService
	catalog   *CatalogService
	orders    *OrderService
	directory *DirectoryService
	hubs      map[string]*models.Hub
}

type recordingNotifier struct{ texts []string }

func (n *recordingNotifier) Notify(_ context.Context, text string) error {
	n.texts = append(n.texts, text)
	return nil
}

func newGormStore(t *testing.T) store.Store {
	t.Helper()
	gdb, err := db.OpenSQLite("file:"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared", nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return store.NewGorm(gdb)
}

func newFixture(t *testing.T, st store.Store) *fixture {
	t.Helper()
	ctx := context.Background()
	events := &messaging.Memory{}
	alerts := &recordingNotifier{}
	hooks := &Hooks{Publisher: events, Notifier: alerts}
	settings := NewSettingsService(st)
	f := &fixture{
		store:     st,
		events:    events,
		alerts:    alerts,
		settings:  settings,
		catalog:   NewCatalogService(st, settings, hooks),
		orders:    NewOrderService(st, hooks),
		directory: NewDirectoryService(st),
		hubs:      map[string]*models.Hub{},
	}
	require.NoError(t, st.SaveSettings(ctx, &models.BusinessSettings{
		StoreName: "UniHub", ContactNumber: "+233 20 000 0000", Currency: "GHS", DefaultMarkupPercent: 30,
	}))
	for _, name := range []string{"Accra", "Kumasi"} {
		h, err := f.directory.CreateHub(ctx, name)
		require.NoError(t, err)
		f.hubs[name] = h
	}
	return f
}

// eachStore runs fn against a fixture on each store adapter.
func eachStore(t *testing.T, fn func(t *testing.T, f *fixture)) {
	t.Run("memory", func(t *testing.T) { fn(t, newFixture(t, store.NewMemory())) })
	t.Run("gorm", func(t *testing.T) { fn(t, newFixture(t, newGormStore(t))) })
}

func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }
