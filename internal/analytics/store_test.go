package analytics

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dennis-web-tech-hub/proxy-checker/internal/model"
)

func result(host string, typ model.ProxyType, working bool) model.ProbeResult {
	out := model.ProbeResult{
		Endpoint: model.Endpoint{Host: host, Port: 8080, Type: typ},
		Outcome:  model.OutcomeFailure,
	}
	if working {
		out.Outcome = model.OutcomeSuccess
	}
	return out
}

func TestStore_CountsAndSummary(t *testing.T) {
	store := NewStore()

	// 5 endpoints, probes 1, 3 and 5 succeed, 2 and 4 fail.
	for i, working := range []bool{true, false, true, false, true} {
		store.Record(result(fmt.Sprintf("10.0.0.%d", i+1), model.TypeHTTP, working))
	}

	checked, working := store.Counts()
	require.Equal(t, 5, checked)
	require.Equal(t, 3, working)

	sum := store.Summary(2*time.Second, model.StatusCompleted)
	require.Equal(t, 5, sum.TotalChecked)
	require.Equal(t, 3, sum.TotalWorking)
	require.Equal(t, model.TypeStats{Checked: 5, Working: 3}, sum.PerType[model.TypeHTTP])
	require.Equal(t, 2*time.Second, sum.Elapsed)
	require.Equal(t, model.StatusCompleted, sum.Status)
}

func TestStore_GroupsByType(t *testing.T) {
	store := NewStore()
	store.Record(result("1.1.1.1", model.TypeHTTP, true))
	store.Record(result("2.2.2.2", model.TypeSOCKS4, false))
	store.Record(result("3.3.3.3", model.TypeSOCKS5, true))
	store.Record(result("4.4.4.4", model.TypeSOCKS5, true))

	snap := store.Snapshot()
	require.Len(t, snap[model.TypeHTTP], 1)
	require.Len(t, snap[model.TypeSOCKS4], 1)
	require.Len(t, snap[model.TypeSOCKS5], 2)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	store := NewStore()
	store.Record(result("1.1.1.1", model.TypeHTTP, true))

	snap := store.Snapshot()
	snap[model.TypeHTTP][0].Outcome = model.OutcomeFailure
	snap[model.TypeHTTP] = nil

	fresh := store.Snapshot()
	require.Len(t, fresh[model.TypeHTTP], 1)
	require.Equal(t, model.OutcomeSuccess, fresh[model.TypeHTTP][0].Outcome)
}

func TestStore_ConcurrentRecordLosesNothing(t *testing.T) {
	store := NewStore()

	const n = 200
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store.Record(result(fmt.Sprintf("10.0.%d.%d", i/256, i%256), model.TypeHTTP, i%2 == 0))
		}(i)
	}
	wg.Wait()

	checked, working := store.Counts()
	require.Equal(t, n, checked)
	require.Equal(t, n/2, working)

	hosts := map[string]int{}
	for _, r := range store.Snapshot()[model.TypeHTTP] {
		hosts[r.Endpoint.Host]++
	}
	require.Len(t, hosts, n)
	for host, count := range hosts {
		require.Equal(t, 1, count, "duplicate result for %s", host)
	}
}
