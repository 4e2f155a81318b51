// Package mpc retrieves observations, ephemerides and orbit parameters
// for a named minor planet or comet from the Minor Planet Center.
package mpc

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mlara/seculight/internal/htmlutil"
	"github.com/mlara/seculight/internal/httputil"
	"github.com/mlara/seculight/internal/metrics"
	"github.com/mlara/seculight/internal/models"
)

const (
	ephemerisURL = "https://cgi.minorplanetcenter.net/cgi-bin/mpeph2.cgi"

	// the ephemeris service caps one request at 4001 daily samples;
	// longer windows are fetched in consecutive chunks
	maxDaysPerRequest = 4001

	sampleIntervalDays = 1

	// the form rejects requests that omit these fields
	formTitle   = "seculight"
	formBaseURL = "https://www.minorplanetcenter.net"

	userAgent = "seculight/1.0 (secular light-curve reduction)"
)

// FetchResult carries per-request bookkeeping for the fetch_runs audit
// table and the run log.
type FetchResult struct {
	HTTPStatus   int
	ResponseSize int
	RecordCount  int
	ParseErrors  int
}

func (r *FetchResult) add(other *FetchResult) {
	r.HTTPStatus = other.HTTPStatus
	r.ResponseSize += other.ResponseSize
	r.RecordCount += other.RecordCount
	r.ParseErrors += other.ParseErrors
}

// EphemerisClient fetches daily ephemeris samples from the MPC ephemeris
// service.
type EphemerisClient struct {
	client *http.Client
}

func NewEphemerisClient() *EphemerisClient {
	return &EphemerisClient{client: httputil.NewClient()}
}

// FetchWindow retrieves one sample per day covering [start, end], both
// inclusive, issuing as many chunked requests as the window needs.
func (c *EphemerisClient) FetchWindow(object string, start, end time.Time) ([]models.EphemerisSample, *FetchResult, error) {
	total := &FetchResult{}
	var samples []models.EphemerisSample

	remaining := int(end.Sub(start).Hours()/24) + 1
	cursor := start
	for remaining > 0 {
		days := remaining
		if days > maxDaysPerRequest {
			days = maxDaysPerRequest
		}
		chunk, res, err := c.fetch(object, cursor, days)
		if res != nil {
			total.add(res)
		}
		if err != nil {
			return samples, total, err
		}
		samples = append(samples, chunk...)
		cursor = cursor.AddDate(0, 0, days)
		remaining -= days
	}

	metrics.RecordsFetched.WithLabelValues("ephemeris").Add(float64(total.RecordCount))
	return samples, total, nil
}

func (c *EphemerisClient) fetch(object string, start time.Time, days int) ([]models.EphemerisSample, *FetchResult, error) {
	form := url.Values{
		"ty":       {"e"}, // return ephemerides
		"d":        {start.Format("2006-01-02")},
		"l":        {strconv.Itoa(days)},
		"TextArea": {object},
		"i":        {strconv.Itoa(sampleIntervalDays)},
		"u":        {"d"}, // interval unit: days
		"tit":      {formTitle},
		"bu":       {formBaseURL},
	}

	result := &FetchResult{}
	var body []byte
	operation := func() error {
		began := time.Now()
		req, err := http.NewRequest(http.MethodPost, ephemerisURL, strings.NewReader(form.Encode()))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", userAgent)
		resp, err := c.client.Do(req)
		if err != nil {
			metrics.MPCAPICallsTotal.WithLabelValues("ephemeris", "error").Inc()
			return backoff.Permanent(fmt.Errorf("fetch ephemeris: %w", err))
		}
		defer resp.Body.Close()
		metrics.MPCAPILatency.WithLabelValues("ephemeris").Observe(time.Since(began).Seconds())
		metrics.MPCAPICallsTotal.WithLabelValues("ephemeris", strconv.Itoa(resp.StatusCode)).Inc()

		result.HTTPStatus = resp.StatusCode
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
			return fmt.Errorf("rate limited: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch ephemeris: status %d: %s", resp.StatusCode, string(b)))
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
		return nil, result, err
	}

	result.ResponseSize = len(body)
	samples, parseErrors := ParseEphemeris(htmlutil.ToText(string(body)))
	result.RecordCount = len(samples)
	result.ParseErrors = parseErrors
	if len(samples) == 0 {
		return nil, result, fmt.Errorf("no ephemeris data for %q", object)
	}
	return samples, result, nil
}
