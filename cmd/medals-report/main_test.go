package main

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const testDataDir = "../../internal/app/testdata"

func execute(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append(args, "--no-color", "--data-dir", testDataDir, "--reference-date", "2024-07-26"))
	err := cmd.Execute()
	return out.String(), err
}

func TestOverviewCommand(t *testing.T) {
	Convey("Given the overview subcommand", t, func() {
		Convey("When no filter flag is set", func() {
			out, err := execute("overview")

			Convey("Then the key figures and top countries are printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Key figures")
				So(out, ShouldContainSubstring, "Athletes")
				So(out, ShouldContainSubstring, "United States")
				So(out, ShouldContainSubstring, "Kenya")
			})
		})

		Convey("When the country flag is given an empty value", func() {
			out, err := execute("overview", "--country=")

			Convey("Then the sections report no data", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, emptyNotice)
			})
		})
	})
}

func TestCountriesCommand(t *testing.T) {
	Convey("Given the countries subcommand", t, func() {
		Convey("When narrowed to Europe", func() {
			out, err := execute("countries", "--continent", "Europe")

			Convey("Then only European countries are listed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "FRA")
				So(out, ShouldNotContainSubstring, "USA")
				So(out, ShouldNotContainSubstring, "KEN")
			})
		})

		Convey("When the map medal is unknown", func() {
			_, err := execute("countries", "--map-medal", "Platinum")

			Convey("Then the command fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestFiltersCommand(t *testing.T) {
	Convey("Given the filters subcommand", t, func() {
		Convey("When the reference is athletes and a gender is chosen", func() {
			out, err := execute("filters", "--reference", "athletes", "--gender", "Female")

			Convey("Then options and the selection are printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "Filters on athletes")
				So(out, ShouldContainSubstring, "country_code")
				So(out, ShouldContainSubstring, "Female")
			})
		})

		Convey("When the reference table is not a filter reference", func() {
			_, err := execute("filters", "--reference", "venues")

			Convey("Then the command fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestMissingDataDir(t *testing.T) {
	Convey("Given a data directory without extracts", t, func() {
		var out, errOut bytes.Buffer
		cmd := newRootCmd(&out, &errOut)
		cmd.SetArgs([]string{"overview", "--data-dir", t.TempDir()})

		Convey("Then the command fails naming the directory", func() {
			err := cmd.Execute()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "--data-dir")
		})
	})
}

func TestBadReferenceDate(t *testing.T) {
	Convey("Given an unparseable reference date", t, func() {
		var out, errOut bytes.Buffer
		cmd := newRootCmd(&out, &errOut)
		cmd.SetArgs([]string{"overview", "--data-dir", testDataDir, "--reference-date", "26/07/2024"})
		err := cmd.Execute()

		Convey("Then the command fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
