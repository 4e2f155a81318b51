package mpc

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mlara/seculight/internal/htmlutil"
	"github.com/mlara/seculight/internal/httputil"
	"github.com/mlara/seculight/internal/metrics"
	"github.com/mlara/seculight/internal/models"
)

const objectURL = "https://www.minorplanetcenter.net/db_search/show_object"

// ObjectClient fetches the db_search page for one object: the dated
// observation rows plus the perihelion date and period from the orbit
// table, when the MPC has them.
type ObjectClient struct {
	client *http.Client
}

func NewObjectClient() *ObjectClient {
	return &ObjectClient{client: httputil.NewClient()}
}

// Fetch returns the observations, orbit-parameter hints, fetch
// bookkeeping and the raw page body for archiving.
func (c *ObjectClient) Fetch(object string) ([]models.ObservationRecord, models.OrbitParameters, *FetchResult, string, error) {
	query := url.Values{"object_id": {object}}

	result := &FetchResult{}
	var body []byte
	operation := func() error {
		began := time.Now()
		req, err := http.NewRequest(http.MethodGet, objectURL+"?"+query.Encode(), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("User-Agent", userAgent)
		resp, err := c.client.Do(req)
		if err != nil {
			metrics.MPCAPICallsTotal.WithLabelValues("object", "error").Inc()
			return backoff.Permanent(fmt.Errorf("fetch object page: %w", err))
		}
		defer resp.Body.Close()
		metrics.MPCAPILatency.WithLabelValues("object").Observe(time.Since(began).Seconds())
		metrics.MPCAPICallsTotal.WithLabelValues("object", strconv.Itoa(resp.StatusCode)).Inc()

		result.HTTPStatus = resp.StatusCode
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
			return fmt.Errorf("rate limited: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("fetch object page: status %d", resp.StatusCode))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("read body: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, models.OrbitParameters{}, result, "", err
	}

	result.ResponseSize = len(body)
	obs, hints, parseErrors := ParseObjectPage(htmlutil.ToText(string(body)))
	result.RecordCount = len(obs)
	result.ParseErrors = parseErrors
	metrics.RecordsFetched.WithLabelValues("observation").Add(float64(len(obs)))

	if len(obs) == 0 {
		return nil, hints, result, string(body), fmt.Errorf("no observations found for %q", object)
	}
	return obs, hints, result, string(body), nil
}
