package continent_test

import (
	"testing"

	"github.com/okian/podium/internal/domain/continent"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOf(t *testing.T) {
	Convey("Given the default resolver", t, func() {
		Convey("When the code is an ISO alpha-3 code", func() {
			Convey("Then the continent follows the ISO grouping", func() {
				So(continent.Of("USA"), ShouldEqual, continent.Americas)
				So(continent.Of("BRA"), ShouldEqual, continent.Americas)
				So(continent.Of("FRA"), ShouldEqual, continent.Europe)
				So(continent.Of("CHN"), ShouldEqual, continent.Asia)
				So(continent.Of("KEN"), ShouldEqual, continent.Africa)
				So(continent.Of("AUS"), ShouldEqual, continent.Oceania)
				So(continent.Of("ATA"), ShouldEqual, continent.Antarctica)
			})
		})

		Convey("When the code is only known to the country data", func() {
			Convey("Then its continent record is used", func() {
				So(continent.Of("NZL"), ShouldEqual, continent.Oceania)
				So(continent.Of("MAR"), ShouldEqual, continent.Africa)
				So(continent.Of("JAM"), ShouldEqual, continent.Americas)
				So(continent.Of("NOR"), ShouldEqual, continent.Europe)
			})
		})

		Convey("When the code is in the exception table", func() {
			Convey("Then the fixed bucket wins", func() {
				So(continent.Of("TPE"), ShouldEqual, continent.Asia)
				So(continent.Of("GBR"), ShouldEqual, continent.Europe)
				So(continent.Of("ROC"), ShouldEqual, continent.Europe)
				So(continent.Of("AIN"), ShouldEqual, continent.Other)
				So(continent.Of("EOR"), ShouldEqual, continent.Other)
			})
		})

		Convey("When the code is a NOC code that differs from ISO", func() {
			Convey("Then it resolves through the alias", func() {
				So(continent.Of("GER"), ShouldEqual, continent.Europe)
				So(continent.Of("NED"), ShouldEqual, continent.Europe)
				So(continent.Of("RSA"), ShouldEqual, continent.Africa)
				So(continent.Of("PUR"), ShouldEqual, continent.Americas)
				So(continent.Of("INA"), ShouldEqual, continent.Asia)
			})
		})

		Convey("When the code is unknown or malformed", func() {
			Convey("Then Other is returned without panicking", func() {
				for _, code := range []string{"XYZ", "", "  ", "U", "usa-", "ÜSA", "\x00\x01\x02"} {
					So(func() { continent.Of(code) }, ShouldNotPanic)
					So(continent.Of(code), ShouldEqual, continent.Other)
				}
			})
		})

		Convey("When the code has odd case or spacing", func() {
			Convey("Then it is normalized before lookup", func() {
				So(continent.Of(" usa "), ShouldEqual, continent.Americas)
			})
		})

		Convey("Then the mapping is deterministic", func() {
			for i := 0; i < 3; i++ {
				So(continent.Of("JPN"), ShouldEqual, continent.Asia)
			}
		})
	})
}

func TestResolver_Lookup(t *testing.T) {
	Convey("Given a resolver", t, func() {
		r := continent.New()

		Convey("When a code resolves", func() {
			label, ok := r.Lookup("CAN")
			So(label, ShouldEqual, continent.Americas)
			So(ok, ShouldBeTrue)
		})

		Convey("When a code is an explicit Other exception", func() {
			label, ok := r.Lookup("AIN")
			So(label, ShouldEqual, continent.Other)
			So(ok, ShouldBeTrue)
		})

		Convey("When a code falls back", func() {
			label, ok := r.Lookup("QQQ")
			So(label, ShouldEqual, continent.Other)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestResolver_SplitAmericas(t *testing.T) {
	Convey("Given a resolver that splits the Americas", t, func() {
		r := continent.New(continent.WithSplitAmericas(true))

		Convey("Then North and South America are separate buckets", func() {
			So(r.Of("USA"), ShouldEqual, continent.NorthAmerica)
			So(r.Of("MEX"), ShouldEqual, continent.NorthAmerica)
			So(r.Of("ARG"), ShouldEqual, continent.SouthAmerica)
			So(r.Of("COL"), ShouldEqual, continent.SouthAmerica)
			So(r.Labels(), ShouldContain, continent.SouthAmerica)
			So(r.Labels(), ShouldNotContain, continent.Americas)
		})

		Convey("Then the default resolver is unaffected", func() {
			So(continent.Of("USA"), ShouldEqual, continent.Americas)
			So(continent.New().Labels(), ShouldContain, continent.Americas)
		})
	})
}
