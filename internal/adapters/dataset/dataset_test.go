package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/okian/podium/internal/adapters/dataset"
	"github.com/okian/podium/internal/domain/continent"
	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const (
	medalsTotalCSV = "\xEF\xBB\xBFcountry_code,country,country_long,Gold Medal,Silver Medal,Bronze Medal,Total\n" +
		"USA,United States,United States of America,5,3,2,99\n" +
		"GER,Germany,Germany,1,,0,1\n" +
		"XYZ,Nowhere,Nowhere,0,1,1,2\n"
	medallistsCSV = "medal_type,name,gender,country_code,country,country_long,discipline,event\n" +
		"Gold Medal,BILES Simone,Female,USA,United States,United States of America,Artistic Gymnastics,Women's All-Around\n" +
		"GOLD,Léon MARCHAND,Male,FRA,France,France,Swimming,Men's 400m Individual Medley\n" +
		"silver medal,EVENEPOEL Remco,Male,BEL,Belgium,Belgium,Cycling Road,Men's Road Race\n" +
		"Platinum,Mystery Person,Male,AIN,AIN,Individual Neutral Athletes,Judo,Men -60 kg\n"
	athletesCSV = "code,name,gender,country_code,country,disciplines,birth_date\n" +
		"1,Simone BILES,Female,USA,United States,['Artistic Gymnastics'],1997-03-14\n" +
		"2,Remco EVENEPOEL,Male,BEL,Belgium,\"['Cycling Road', 'Cycling Track']\",2000-01-25\n" +
		"3,Unknown Age,Male,FRA,France,['Judo'],not-a-date\n" +
		"4,671,Male,KEN,Kenya,['Athletics'],\n"
	eventsCSV    = "event,tag,sport\nWomen's All-Around,artistic-gymnastics,Artistic Gymnastics\nMen's Road Race,cycling-road,Cycling Road\n"
	schedulesCSV = "start_date,end_date,discipline,event,venue\n" +
		"2024-07-28T10:00:00+02:00,2024-07-28T12:00:00+02:00,Artistic Gymnastics,Women's All-Around,Bercy Arena\n" +
		"soon,2024-08-03T17:00:00+02:00,Cycling Road,Men's Road Race,Trocadero\n"
	nocsCSV = "code,country,country_long\nUSA,United States,United States of America\nFRA,France,France\n"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFixture(t, dir, "medals_total.csv", medalsTotalCSV)
	writeFixture(t, dir, "medallists.csv", medallistsCSV)
	writeFixture(t, dir, "medals.csv", medallistsCSV)
	writeFixture(t, dir, "athletes.csv", athletesCSV)
	writeFixture(t, dir, "events.csv", eventsCSV)
	writeFixture(t, dir, "schedules.csv", schedulesCSV)
	writeFixture(t, dir, "venues.csv", "venue,sports\nBercy Arena,Artistic Gymnastics\n")
	writeFixture(t, dir, "teams.csv", "code,team,country_code\n")
	writeFixture(t, dir, "coaches.csv", "code,name,country_code\nC1,Cecile LANDI,USA\n")
	writeFixture(t, dir, "nocs.csv", nocsCSV)
	return dir
}

var reference = time.Date(2024, 7, 26, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // test fixture

func TestPrepareMedalsDatasets(t *testing.T) {
	Convey("Given a data directory with the medal extracts", t, func() {
		ctx := context.Background()
		l := dataset.NewLoader(fixtureDir(t), dataset.WithReferenceDate(reference))

		total, medallists, medals, err := l.PrepareMedalsDatasets(ctx)
		So(err, ShouldBeNil)

		Convey("Then medals_total uses canonical medal columns and a recomputed Total", func() {
			names := total.Names()
			So(names, ShouldContain, "Gold")
			So(names, ShouldContain, "Silver")
			So(names, ShouldContain, "Bronze")
			So(names, ShouldNotContain, "Gold Medal")

			gold, _ := dataset.IntColumn(total, "Gold")
			silver, _ := dataset.IntColumn(total, "Silver")
			bronze, _ := dataset.IntColumn(total, "Bronze")
			sum, _ := dataset.IntColumn(total, "Total")
			So(sum, ShouldResemble, []int{10, 1, 2})
			for i := range sum {
				So(gold[i]+silver[i]+bronze[i], ShouldEqual, sum[i])
			}
		})

		Convey("Then every row carries a continent", func() {
			So(total.Col("continent").Records(), ShouldResemble, []string{"Americas", "Europe", "Other"})
			So(medallists.Col("continent").Records(), ShouldResemble, []string{"Americas", "Europe", "Europe", "Other"})
		})

		Convey("Then medal types are canonical and unknown labels pass through", func() {
			So(medallists.Col("medal_type").Records(), ShouldResemble, []string{"Gold", "Gold", "Silver", "Platinum"})
			So(medals.Col("medal_type").Records(), ShouldResemble, []string{"Gold", "Gold", "Silver", "Platinum"})
		})

		Convey("Then medallist names get a join key", func() {
			So(medallists.Col("name_norm").Records(), ShouldResemble,
				[]string{"biles simone", "leon marchand", "evenepoel remco", "mystery person"})
		})

		Convey("When loading again after a reset", func() {
			before := total.Records()
			l.Reset()
			again, _, _, err := l.PrepareMedalsDatasets(ctx)

			Convey("Then the output is identical", func() {
				So(err, ShouldBeNil)
				So(again.Records(), ShouldResemble, before)
			})
		})
	})
}

func TestNormalizeMedalCounts(t *testing.T) {
	Convey("Given a totals table without any medal column", t, func() {
		df := dataframe.LoadRecords([][]string{
			{"country_code", "country"},
			{"USA", "United States"},
			{"FRA", "France"},
		})
		out := dataset.NormalizeMedalCounts(df)

		Convey("Then the medal columns are synthesized as zero and Total is zero", func() {
			for _, col := range []string{"Gold", "Silver", "Bronze", "Total"} {
				v, _ := dataset.IntColumn(out, col)
				So(v, ShouldResemble, []int{0, 0})
			}
			So(df.Names(), ShouldResemble, []string{"country_code", "country"})
		})

		Convey("Then normalizing again is a no-op", func() {
			So(dataset.NormalizeMedalCounts(out).Records(), ShouldResemble, out.Records())
		})
	})

	Convey("Given the single-row USA scenario", t, func() {
		df := dataframe.LoadRecords([][]string{
			{"country_code", "Gold", "Silver", "Bronze"},
			{"USA", "5", "3", "2"},
		})
		out := dataset.AddContinent(dataset.NormalizeMedalCounts(df), continent.New())

		Convey("Then Total is 10 and the continent is Americas", func() {
			v, _ := dataset.IntColumn(out, "Total")
			So(v, ShouldResemble, []int{10})
			So(out.Col("continent").Records(), ShouldResemble, []string{"Americas"})
		})
	})
}

func TestAthletes(t *testing.T) {
	Convey("Given the athletes extract", t, func() {
		ctx := context.Background()
		l := dataset.NewLoader(fixtureDir(t), dataset.WithReferenceDate(reference))
		df, err := l.Athletes(ctx)
		So(err, ShouldBeNil)

		Convey("Then age is computed at the reference date and null when unparseable", func() {
			ages, null := dataset.IntColumn(df, "age")
			So(ages[0], ShouldEqual, 27)
			So(ages[1], ShouldEqual, 24)
			So(null, ShouldResemble, []bool{false, false, true, true})
		})

		Convey("Then discipline is taken from the disciplines list", func() {
			So(df.Col("discipline").Records(), ShouldResemble,
				[]string{"Artistic Gymnastics", "Cycling Road", "Judo", "Athletics"})
		})

		Convey("Then name_norm matches the medallist key for reversed names", func() {
			So(df.Col("name_norm").Records()[1], ShouldEqual, "evenepoel remco")
		})

		Convey("When the resolver splits the Americas", func() {
			split := dataset.NewLoader(l.Catalog().Dir(),
				dataset.WithReferenceDate(reference),
				dataset.WithResolver(continent.New(continent.WithSplitAmericas(true))))
			df, err := split.Athletes(ctx)
			So(err, ShouldBeNil)
			So(df.Col("continent").Records()[0], ShouldEqual, "North America")
		})
	})
}

func TestNegativeMedalCounts(t *testing.T) {
	Convey("Given a totals table with a negative count", t, func() {
		df := dataframe.LoadRecords([][]string{
			{"country_code", "Gold", "Silver", "Bronze"},
			{"USA", "-4", "3", "2"},
			{"FRA", "1", "-0.5", "0"},
		})
		out := dataset.NormalizeMedalCounts(df)

		Convey("Then the negative cells count as zero", func() {
			gold, _ := dataset.IntColumn(out, "Gold")
			silver, _ := dataset.IntColumn(out, "Silver")
			total, _ := dataset.IntColumn(out, "Total")
			So(gold, ShouldResemble, []int{0, 1})
			So(silver, ShouldResemble, []int{3, 0})
			So(total, ShouldResemble, []int{5, 1})
		})
	})
}

// truncatedRows reads the truncated row counter for table from the registry.
func truncatedRows(table string) float64 {
	families, err := metrics.GetRegistry().Gather()
	if err != nil {
		return -1
	}
	for _, mf := range families {
		if mf.GetName() != "podium_dashboard_truncated_rows_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "table" && lp.GetValue() == table {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestLongRows(t *testing.T) {
	Convey("Given a table with rows longer than its header", t, func() {
		ctx := context.Background()
		dir := fixtureDir(t)
		writeFixture(t, dir, "coaches.csv", "code,name,country_code\n"+
			"C1,Cecile LANDI,USA,Head Coach,extra\n"+
			"C2,Jean DUPONT,FRA\n"+
			"C3,Ana SILVA,BRA,Assistant\n")
		before := truncatedRows("coaches")
		df, err := dataset.NewLoader(dir).Coaches(ctx)

		Convey("Then the header columns are kept and the long rows are counted", func() {
			So(err, ShouldBeNil)
			So(df.Nrow(), ShouldEqual, 3)
			So(df.Names(), ShouldResemble, []string{"code", "name", "country_code"})
			So(df.Col("country_code").Records(), ShouldResemble, []string{"USA", "FRA", "BRA"})
			So(truncatedRows("coaches"), ShouldEqual, before+2)
		})
	})
}

func TestLoaderErrors(t *testing.T) {
	Convey("Given a data directory", t, func() {
		ctx := context.Background()
		dir := fixtureDir(t)

		Convey("When a required file is missing", func() {
			So(os.Remove(filepath.Join(dir, "medals.csv")), ShouldBeNil)
			l := dataset.NewLoader(dir)

			Convey("Then preparing the medal tables fails with an open error", func() {
				_, _, _, err := l.PrepareMedalsDatasets(ctx)
				So(errors.Is(err, dataset.ErrOpenFile), ShouldBeTrue)
				So(dataset.IsMissingFile(err), ShouldBeTrue)
			})

			Convey("Then preload fails", func() {
				So(l.Preload(ctx), ShouldNotBeNil)
			})
		})

		Convey("When a required column is missing", func() {
			writeFixture(t, dir, "events.csv", "event,tag\nx,y\n")
			_, err := dataset.NewLoader(dir).Events(ctx)

			Convey("Then the error names the column", func() {
				So(errors.Is(err, dataset.ErrMissingColumn), ShouldBeTrue)
				So(err.Error(), ShouldContainSubstring, "events.sport")
			})
		})

		Convey("When a file is empty", func() {
			writeFixture(t, dir, "venues.csv", "")
			_, err := dataset.NewLoader(dir).Venues(ctx)
			So(errors.Is(err, dataset.ErrParseTable), ShouldBeTrue)
		})

		Convey("When a file only has a header", func() {
			df, err := dataset.NewLoader(dir).Teams(ctx)
			So(err, ShouldBeNil)
			So(df.Nrow(), ShouldEqual, 0)
			So(df.Names(), ShouldResemble, []string{"code", "team", "country_code"})
		})

		Convey("When the table name is unknown", func() {
			_, err := dataset.NewLoader(dir).Table(ctx, dataset.Table("podiums"))
			So(errors.Is(err, dataset.ErrUnknownTable), ShouldBeTrue)
		})

		Convey("When every file is present", func() {
			l := dataset.NewLoader(dir)
			So(l.Preload(ctx), ShouldBeNil)
			So(l.Cache().Len(), ShouldEqual, len(dataset.Tables))
		})
	})
}

func TestCache(t *testing.T) {
	Convey("Given a loader with a warm cache", t, func() {
		ctx := context.Background()
		dir := fixtureDir(t)
		l := dataset.NewLoader(dir)
		first, err := l.NOCs(ctx)
		So(err, ShouldBeNil)
		So(first.Nrow(), ShouldEqual, 2)
		So(l.Cache().Len(), ShouldEqual, 1)

		Convey("When the file is unchanged", func() {
			again, err := l.NOCs(ctx)
			So(err, ShouldBeNil)
			So(again.Records(), ShouldResemble, first.Records())
			So(l.Cache().Len(), ShouldEqual, 1)
		})

		Convey("When the file changes on disk", func() {
			writeFixture(t, dir, "nocs.csv", nocsCSV+"KEN,Kenya,Kenya\n")
			again, err := l.NOCs(ctx)

			Convey("Then the table is reloaded", func() {
				So(err, ShouldBeNil)
				So(again.Nrow(), ShouldEqual, 3)
				So(first.Nrow(), ShouldEqual, 2)
			})
		})

		Convey("When the cache is reset", func() {
			l.Reset()
			So(l.Cache().Len(), ShouldEqual, 0)
			_, err := l.NOCs(ctx)
			So(err, ShouldBeNil)
			So(l.Cache().Len(), ShouldEqual, 1)
		})
	})
}

func TestCatalog(t *testing.T) {
	Convey("Given a catalog", t, func() {
		c := dataset.NewCatalog("/srv/data")
		p, err := c.Path(dataset.Medallists)
		So(err, ShouldBeNil)
		So(p, ShouldEqual, filepath.Join("/srv/data", "medallists.csv"))
		_, err = c.Path("nope")
		So(errors.Is(err, dataset.ErrUnknownTable), ShouldBeTrue)
	})
}
