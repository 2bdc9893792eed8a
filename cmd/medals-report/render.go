package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	service "github.com/okian/podium/internal/app"
)

const emptyNotice = "No data for the current filters."

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	return table
}

var title = color.New(color.FgYellow, color.Bold) //nolint:gochecknoglobals // shared style

func section(w io.Writer, name string) {
	title.Fprintf(w, "\n%s\n", name)
}

func renderOverview(w io.Writer, page service.Overview) {
	section(w, "Key figures")
	kpis := newTable(w, "Metric", "Value")
	kpis.Append([]string{"Athletes", strconv.Itoa(page.KPIs.Athletes)})
	kpis.Append([]string{"Countries", strconv.Itoa(page.KPIs.Countries)})
	kpis.Append([]string{"Sports", strconv.Itoa(page.KPIs.Sports)})
	kpis.Append([]string{"Events", strconv.Itoa(page.KPIs.Events)})
	kpis.Append([]string{"Medals", strconv.Itoa(page.KPIs.Medals)})
	kpis.Render()

	section(w, "Medal distribution")
	if page.Distribution.Empty {
		fmt.Fprintln(w, emptyNotice)
	} else {
		table := newTable(w, "Medal", "Count")
		for _, r := range page.Distribution.Rows {
			table.Append([]string{r.Medal, strconv.Itoa(r.Count)})
		}
		table.Render()
	}

	section(w, "Top countries")
	if page.TopCountries.Empty {
		fmt.Fprintln(w, emptyNotice)
		return
	}
	table := newTable(w, "Rank", "Code", "Country", "Total")
	for i, r := range page.TopCountries.Rows {
		table.Append([]string{strconv.Itoa(i + 1), r.Code, r.Name, strconv.Itoa(r.Total)})
	}
	table.Render()
}

func renderCountries(w io.Writer, page service.Global) {
	section(w, "Medals by country")
	if page.Empty || page.TopCountries.Empty {
		fmt.Fprintln(w, emptyNotice)
		return
	}
	table := newTable(w, "Rank", "Code", "Country", "Gold", "Silver", "Bronze", "Total")
	for i, r := range page.TopCountries.Rows {
		table.Append([]string{
			strconv.Itoa(i + 1),
			r.Code,
			r.Name,
			strconv.Itoa(r.Gold),
			strconv.Itoa(r.Silver),
			strconv.Itoa(r.Bronze),
			strconv.Itoa(r.Total),
		})
	}
	table.Render()

	if !page.ByContinent.Empty {
		section(w, "Medals by continent")
		cont := newTable(w, "Continent", "Medal", "Count")
		for _, r := range page.ByContinent.Rows {
			cont.Append([]string{r.Group, r.Medal, strconv.Itoa(r.Count)})
		}
		cont.Render()
	}
}

func renderFilters(w io.Writer, f service.Filters) {
	section(w, "Filters on "+f.Reference)
	table := newTable(w, "Dimension", "Column", "Options", "Selected")
	selected := make(map[string]string, len(f.Criteria))
	for _, c := range f.Criteria {
		if c.All {
			selected[string(c.Dimension)] = "all"
			continue
		}
		selected[string(c.Dimension)] = strings.Join(c.Values, ", ")
	}
	for _, o := range f.Options {
		table.Append([]string{string(o.Dimension), o.Column, strings.Join(o.Values, ", "), selected[string(o.Dimension)]})
	}
	table.Render()
}
