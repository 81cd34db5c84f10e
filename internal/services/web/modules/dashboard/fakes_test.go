package dashboard

import (
	"context"

	"github.com/louisbranch/fleettrack/internal/services/web/integration/backend"
)

type fakeGateway struct {
	summary backend.DashboardSummary
	err     error
	calls   int
}

func (f *fakeGateway) Dashboard(context.Context) (backend.DashboardSummary, error) {
	f.calls++
	return f.summary, f.err
}
