package mpc

import (
	"bufio"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/soniakeys/meeus/v3/julian"

	"github.com/mlara/seculight/internal/models"
)

const (
	defaultCatalogHost = "ftp.minorplanetcenter.net:21"
	defaultCatalogPath = "/pub/MPCORB/CometEls.txt"
)

// ElementsCatalog reads orbital-elements lines in the MPC comet-elements
// format from an anonymous FTP mirror. Used as a fallback source for the
// perihelion date and period when the object page lacks them.
type ElementsCatalog struct {
	host string
	path string
}

func NewElementsCatalog(host, path string) *ElementsCatalog {
	if host == "" {
		host = defaultCatalogHost
	}
	if path == "" {
		path = defaultCatalogPath
	}
	return &ElementsCatalog{host: host, path: path}
}

// FetchHints downloads the catalog and returns the orbit parameters of
// the first line matching the object designation or name.
func (c *ElementsCatalog) FetchHints(object string) (models.OrbitParameters, error) {
	conn, err := ftp.Dial(c.host, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return models.OrbitParameters{}, fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		return models.OrbitParameters{}, fmt.Errorf("ftp login: %w", err)
	}

	resp, err := conn.Retr(c.path)
	if err != nil {
		return models.OrbitParameters{}, fmt.Errorf("ftp retr: %w", err)
	}
	defer resp.Close()

	scanner := bufio.NewScanner(resp)
	for scanner.Scan() {
		line := scanner.Text()
		if !matchesObject(line, object) {
			continue
		}
		hints, err := ParseCometElements(line)
		if err != nil {
			continue
		}
		return hints, nil
	}
	if err := scanner.Err(); err != nil {
		return models.OrbitParameters{}, fmt.Errorf("read catalog: %w", err)
	}
	return models.OrbitParameters{}, fmt.Errorf("object %q not in elements catalog", object)
}

// matchesObject checks the designation column and the trailing name.
func matchesObject(line, object string) bool {
	fields := strings.Fields(line)
	if len(fields) < 10 {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(object))
	if needle == "" {
		return false
	}
	if strings.EqualFold(fields[0], object) {
		return true
	}
	// name sits after the fixed element columns
	tail := strings.ToLower(strings.Join(fields[10:], " "))
	return strings.Contains(tail, needle)
}

// ParseCometElements reads one comet-elements line: designation, then
// perihelion year/month/fractional day (TT), perihelion distance q (AU)
// and eccentricity e. The period follows from a = q/(1-e) for elliptical
// orbits; parabolic and hyperbolic lines yield no period.
func ParseCometElements(line string) (models.OrbitParameters, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return models.OrbitParameters{}, fmt.Errorf("short elements line")
	}

	year, err1 := strconv.Atoi(fields[1])
	month, err2 := strconv.Atoi(fields[2])
	day, err3 := strconv.ParseFloat(fields[3], 64)
	q, err4 := strconv.ParseFloat(fields[4], 64)
	e, err5 := strconv.ParseFloat(fields[5], 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return models.OrbitParameters{}, fmt.Errorf("malformed elements line")
	}
	if year < 1000 || year > 3000 || month < 1 || month > 12 || day < 1 || day >= 32 || q <= 0 || e < 0 {
		return models.OrbitParameters{}, fmt.Errorf("elements out of range")
	}

	hints := models.OrbitParameters{
		PerihelionJD: sql.NullFloat64{Float64: julian.CalendarGregorianToJD(year, month, day), Valid: true},
	}
	if e < 1 {
		a := q / (1 - e)
		hints.PeriodDays = sql.NullFloat64{Float64: math.Pow(a, 1.5) * daysPerYear, Valid: true}
	}
	return hints, nil
}
