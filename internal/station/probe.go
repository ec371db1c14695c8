package station

import (
	"context"
	"log"
	"net/http"
	"time"

	"radio-domme/pkg/util"
)

const probeTimeout = 10 * time.Second

// Probe checks every station URL for reachability with a bounded worker pool.
// Unreachable stations are logged but never fail startup: streams come and go,
// and ffmpeg reports its own errors at play time anyway.
func (d *Directory) Probe(ctx context.Context, client *http.Client, workers int) {
	if client == nil {
		client = &http.Client{Timeout: probeTimeout}
	}

	_ = util.Parallel(d.stations, workers, func(_ context.Context, st Station) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, st.URL, nil)
		if err != nil {
			log.Printf("[Station] Probe skipped %q: %v", st.Name, err)
			return nil
		}

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("[Station] ⚠️ %q unreachable: %v", st.Name, err)
			return nil
		}
		resp.Body.Close()

		if resp.StatusCode >= 400 {
			log.Printf("[Station] ⚠️ %q responded with %s", st.Name, resp.Status)
		}
		return nil
	})
}
