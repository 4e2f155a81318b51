package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soniakeys/meeus/v3/julian"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/mlara/seculight/internal/dataset"
	"github.com/mlara/seculight/internal/models"
	"github.com/mlara/seculight/internal/mpc"
	"github.com/mlara/seculight/internal/pipeline"
	"github.com/mlara/seculight/internal/plot"
	"github.com/mlara/seculight/internal/store"
)

var cli struct {
	Object string `arg:"" required:"" help:"Object name or designation, e.g. '1P' or '2023 A3'."`
	Start  string `required:"" help:"Start date of observations (YYYY-MM-DD)."`
	End    string `required:"" help:"End date of observations (YYYY-MM-DD)."`

	Perihelion string  `help:"Override the perihelion date (YYYY-MM-DD)."`
	Period     float64 `help:"Override the orbital period, in days."`
	Bands      []string `help:"Accepted photometric bands. Default: every recognized band except U,u,B,I,J,H,K."`
	NoFold     bool    `help:"Keep raw perihelion offsets even when the window spans several orbits."`
	Tolerance  float64 `default:"0.5" help:"Epoch match tolerance, in days."`

	Out         string `default:"." help:"Base directory for the output tables."`
	Plot        bool   `help:"Render light-curve PNGs next to the output tables."`
	DB          string `default:"data/seculight.db" help:"Path to the SQLite fetch cache." env:"SECULIGHT_DB"`
	Offline     bool   `help:"Reduce from cached rows only; no MPC requests."`
	Yes         bool   `short:"y" help:"Accept the retrieved orbit parameters without prompting."`
	ElementsFTP string `help:"FTP mirror (host:port) of the MPC comet-elements catalog, used when the object page lacks orbit data." env:"SECULIGHT_ELEMENTS_FTP"`
	MetricsAddr string `help:"Expose Prometheus metrics on this address for the duration of the run." env:"SECULIGHT_METRICS_ADDR"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("seculight"),
		kong.Description("Download MPC photometry for a minor planet or comet and reduce it to a secular light curve."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	start, err := parseDate(cli.Start)
	if err != nil {
		log.Fatalf("invalid start date %q: use YYYY-MM-DD", cli.Start)
	}
	end, err := parseDate(cli.End)
	if err != nil {
		log.Fatalf("invalid end date %q: use YYYY-MM-DD", cli.End)
	}
	if end.Before(start) {
		log.Fatalf("end date %s is before start date %s", cli.End, cli.Start)
	}
	startJD := julian.TimeToJD(start)
	endJD := julian.TimeToJD(end) + 1 // include the whole end day

	if cli.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			log.Printf("metrics: listening on %s", cli.MetricsAddr)
			if err := http.ListenAndServe(cli.MetricsAddr, mux); err != nil {
				log.Printf("metrics: %v", err)
			}
		}()
	}

	if err := os.MkdirAll(filepath.Dir(cli.DB), 0o755); err != nil {
		log.Fatalf("create db dir: %v", err)
	}
	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var (
		obs   []models.ObservationRecord
		eph   []models.EphemerisSample
		hints models.OrbitParameters
	)
	if cli.Offline {
		obs, eph, err = loadCached(st, startJD, endJD)
	} else {
		obs, eph, hints, err = fetchAll(st, start, end, startJD, endJD)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	override, err := overridesFromFlags()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if !cli.Yes {
		hints, override = confirmOrbit(hints, override)
	}

	orbit, multi, err := pipeline.ResolveOrbit(hints, override, startJD, endJD)
	if err != nil {
		log.Fatalf("resolve orbit: %v (supply --perihelion)", err)
	}
	log.Printf("orbit: %s", orbit)
	if multi && !cli.NoFold {
		log.Printf("orbit: window spans more than one orbit, folding onto [-T/2, T/2)")
	}

	accepted := pipeline.DefaultAcceptedBands()
	if len(cli.Bands) > 0 {
		accepted = pipeline.AcceptedBandSet(cli.Bands)
	}

	ctx := models.RunContext{
		ObjectName:         cli.Object,
		StartJD:            startJD,
		EndJD:              endJD,
		Orbit:              orbit,
		MultiApparition:    multi && !cli.NoFold,
		AcceptedBands:      accepted,
		BandCorrections:    pipeline.DefaultVBandCorrections,
		MatchToleranceDays: cli.Tolerance,
	}

	writer := dataset.NewTextWriter(cli.Out, cli.Object, cli.Start, cli.End)
	result, err := pipeline.Run(ctx, obs, eph, writer)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	for _, line := range pipeline.SummaryLines(result.Report) {
		log.Println(line)
	}
	log.Printf("total observations written to %s", writer.TotalPath())
	log.Printf("reduced observations written to %s", writer.ReducedPath())

	if cli.Plot {
		if err := renderPlots(writer, result); err != nil {
			log.Fatalf("plot: %v", err)
		}
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// loadCached reduces from rows fetched on a previous run.
func loadCached(st *store.Store, startJD, endJD float64) ([]models.ObservationRecord, []models.EphemerisSample, error) {
	obs, err := st.GetObservations(cli.Object, startJD, endJD)
	if err != nil {
		return nil, nil, fmt.Errorf("load cached observations: %w", err)
	}
	eph, err := st.GetEphemerides(cli.Object, startJD, endJD)
	if err != nil {
		return nil, nil, fmt.Errorf("load cached ephemerides: %w", err)
	}
	log.Printf("cache: %d observations, %d ephemeris samples", len(obs), len(eph))
	return obs, eph, nil
}

// fetchAll downloads the ephemeris window and the object page, caches
// both, and falls back to the elements catalog when the page carries no
// orbit parameters.
func fetchAll(st *store.Store, start, end time.Time, startJD, endJD float64) ([]models.ObservationRecord, []models.EphemerisSample, models.OrbitParameters, error) {
	var hints models.OrbitParameters

	log.Printf("mpc: downloading ephemerides %s to %s", cli.Start, cli.End)
	run, _ := st.StartFetchRun("ephemeris", cli.Object)
	eph, res, err := mpc.NewEphemerisClient().FetchWindow(cli.Object, start, end)
	completeRun(st, run, res, err, len(eph))
	if err != nil {
		return nil, nil, hints, fmt.Errorf("download ephemerides: %w", err)
	}
	if _, err := st.InsertEphemerides(cli.Object, eph); err != nil {
		return nil, nil, hints, fmt.Errorf("cache ephemerides: %w", err)
	}

	log.Printf("mpc: downloading observations for %s", cli.Object)
	run, _ = st.StartFetchRun("object", cli.Object)
	obs, hints, res, raw, err := mpc.NewObjectClient().Fetch(cli.Object)
	completeRun(st, run, res, err, len(obs))
	if raw != "" && run != nil {
		st.StoreRawPayload(&run.ID, "object", cli.Object, []byte(raw))
	}
	if err != nil {
		return nil, nil, hints, fmt.Errorf("download observations: %w", err)
	}
	if _, err := st.InsertObservations(cli.Object, obs); err != nil {
		return nil, nil, hints, fmt.Errorf("cache observations: %w", err)
	}

	// narrow the observations to the requested window; the page returns
	// the full history
	inWindow := obs[:0:0]
	for _, o := range obs {
		if o.JD >= startJD && o.JD <= endJD {
			inWindow = append(inWindow, o)
		}
	}

	if !hints.PerihelionJD.Valid || !hints.PeriodDays.Valid {
		log.Printf("mpc: orbit data incomplete on object page, trying elements catalog")
		run, _ = st.StartFetchRun("elements", cli.Object)
		catalogHints, err := mpc.NewElementsCatalog(cli.ElementsFTP, "").FetchHints(cli.Object)
		completeRun(st, run, nil, err, 0)
		if err != nil {
			log.Printf("mpc: elements catalog: %v", err)
		} else {
			if !hints.PerihelionJD.Valid {
				hints.PerihelionJD = catalogHints.PerihelionJD
			}
			if !hints.PeriodDays.Valid {
				hints.PeriodDays = catalogHints.PeriodDays
			}
		}
	}

	return inWindow, eph, hints, nil
}

func completeRun(st *store.Store, run *store.FetchRun, res *mpc.FetchResult, err error, stored int) {
	if run == nil {
		return
	}
	run.Success = err == nil
	if err != nil {
		run.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	}
	if res != nil {
		run.HTTPStatus = sql.NullInt64{Int64: int64(res.HTTPStatus), Valid: res.HTTPStatus > 0}
		run.ResponseSizeBytes = sql.NullInt64{Int64: int64(res.ResponseSize), Valid: res.ResponseSize > 0}
		run.RecordsParsed = sql.NullInt64{Int64: int64(res.RecordCount), Valid: true}
		run.ParseErrors = sql.NullInt64{Int64: int64(res.ParseErrors), Valid: res.ParseErrors > 0}
	}
	run.RecordsStored = sql.NullInt64{Int64: int64(stored), Valid: true}
	if err := st.CompleteFetchRun(run); err != nil {
		log.Printf("store: complete fetch run: %v", err)
	}
}

// overridesFromFlags turns --perihelion/--period into orbit parameters.
func overridesFromFlags() (models.OrbitParameters, error) {
	var o models.OrbitParameters
	if cli.Perihelion != "" {
		jd, err := mpc.ParsePerihelionDate(cli.Perihelion)
		if err != nil {
			return o, fmt.Errorf("invalid --perihelion %q: use YYYY-MM-DD", cli.Perihelion)
		}
		o.PerihelionJD = sql.NullFloat64{Float64: jd, Valid: true}
	}
	if cli.Period > 0 {
		o.PeriodDays = sql.NullFloat64{Float64: cli.Period, Valid: true}
	}
	return o, nil
}

// confirmOrbit shows the retrieved orbit parameters and lets the user
// replace them. Runs entirely outside the pipeline: the core only ever
// sees the final values.
func confirmOrbit(hints, override models.OrbitParameters) (models.OrbitParameters, models.OrbitParameters) {
	merged := hints
	if override.PerihelionJD.Valid {
		merged.PerihelionJD = override.PerihelionJD
	}
	if override.PeriodDays.Valid {
		merged.PeriodDays = override.PeriodDays
	}
	fmt.Printf("Orbit parameters: %s\n", merged)
	fmt.Print("Do you agree with these values? (yes/no): ")

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.EqualFold(strings.TrimSpace(answer), "yes") {
		return hints, override
	}

	for {
		fmt.Print("Enter a new perihelion date (YYYY-MM-DD): ")
		line, _ := reader.ReadString('\n')
		jd, err := mpc.ParsePerihelionDate(strings.TrimSpace(line))
		if err != nil {
			fmt.Println("Invalid date. Please enter a valid date in YYYY-MM-DD format.")
			continue
		}
		override.PerihelionJD = sql.NullFloat64{Float64: jd, Valid: true}
		break
	}
	for {
		fmt.Print("Enter a new period in days (empty for none): ")
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			override.PeriodDays = sql.NullFloat64{}
			break
		}
		period, err := strconv.ParseFloat(line, 64)
		if err != nil || period <= 0 {
			fmt.Println("Invalid period. Please enter a positive number of days.")
			continue
		}
		override.PeriodDays = sql.NullFloat64{Float64: period, Valid: true}
		break
	}
	return hints, override
}

// renderPlots writes the two light-curve PNGs next to the text tables.
func renderPlots(writer *dataset.TextWriter, result pipeline.Result) error {
	totalPoints := make([]plot.Point, 0, len(result.Total))
	for _, rec := range result.Total {
		totalPoints = append(totalPoints, plot.Point{X: rec.Obs.JD, Y: rec.Obs.Magnitude})
	}
	b, err := plot.Render(cli.Object+" total observations", "JD", totalPoints)
	if err != nil {
		return err
	}
	totalPath := strings.TrimSuffix(writer.TotalPath(), ".txt") + ".png"
	if err := os.WriteFile(totalPath, b, 0o644); err != nil {
		return err
	}
	log.Printf("plot written to %s", totalPath)

	reducedPoints := make([]plot.Point, 0, len(result.Reduced))
	for _, rec := range result.Reduced {
		reducedPoints = append(reducedPoints, plot.Point{X: rec.TMinusTq, Y: rec.AbsoluteMagnitude})
	}
	b, err = plot.Render(cli.Object+" reduced observations", "days from perihelion", reducedPoints)
	if err != nil {
		return err
	}
	reducedPath := strings.TrimSuffix(writer.ReducedPath(), ".txt") + ".png"
	if err := os.WriteFile(reducedPath, b, 0o644); err != nil {
		return err
	}
	log.Printf("plot written to %s", reducedPath)
	return nil
}
