package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/fieldcrypt/internal/testutil"
)

func newTestProvider(t *testing.T, namespace string) *Provider {
	t.Helper()
	provider, err := NewProvider(namespace)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})
	return provider
}

func TestProvider_ServiceNameResource(t *testing.T) {
	provider := newTestProvider(t, "fieldcrypt")

	counter, err := provider.MeterProvider().Meter("test").Int64Counter("fieldcrypt_checks_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 1)

	assert.Regexp(t, `target_info\{[^}]*service_name="fieldcrypt"`, scrape(t, provider))
}

func TestProvider_DurationView(t *testing.T) {
	provider := newTestProvider(t, "fieldcrypt")
	meter := provider.MeterProvider().Meter("test")
	ctx := context.Background()

	seconds, err := meter.Float64Histogram("fieldcrypt_decode_duration_seconds")
	require.NoError(t, err)
	seconds.Record(ctx, 0.00005)

	other, err := meter.Float64Histogram("fieldcrypt_payload_bytes")
	require.NoError(t, err)
	other.Record(ctx, 64)

	output := scrape(t, provider)

	assertBizMetricLine(t, output, `fieldcrypt_decode_duration_seconds_bucket`, `le="0\.0001"`, `1`)
	assert.NotRegexp(t, `fieldcrypt_payload_bytes_bucket\{[^}]*le="0\.0001"`, output)
	assertBizMetricLine(t, output, `fieldcrypt_payload_bytes_bucket`, `le="75"`, `1`)
}

func TestProvider_ShutdownWithoutMeterProvider(t *testing.T) {
	assert.NoError(t, (&Provider{}).Shutdown(context.Background()))
}

func TestProvider_RuntimeCollectors(t *testing.T) {
	output := scrape(t, newTestProvider(t, "fieldcrypt"))

	assert.Contains(t, output, "go_goroutines")
	assert.Contains(t, output, "go_memstats_alloc_bytes")
}

func TestProvider_RegisterDB(t *testing.T) {
	provider := newTestProvider(t, "fieldcrypt")
	db, _ := testutil.NewMockDB(t)

	require.NoError(t, provider.RegisterDB(db, "customers"))
	assertBizMetricLine(t, scrape(t, provider), "go_sql_max_open_connections", `db_name="customers"`, "0")

	// a second pool under the same name would produce duplicate series
	assert.ErrorContains(t, provider.RegisterDB(db, "customers"), "register customers pool stats")
}
