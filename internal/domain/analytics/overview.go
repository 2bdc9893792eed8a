package analytics

import "github.com/go-gota/gota/dataframe"

// KPIs are the headline numbers of the overview page.
type KPIs struct {
	Athletes  int `json:"athletes"`
	Countries int `json:"countries"`
	Sports    int `json:"sports"`
	Events    int `json:"events"`
	Medals    int `json:"total_medals"`
}

// ComputeKPIs counts distinct athlete names in athletes, medals in the
// totals table, and distinct sports and events in the events table.
// When a country selection is in force the country KPI is the number of
// selected countries; otherwise it is the number of distinct country codes
// in totals.
func ComputeKPIs(athletes, totals, events dataframe.DataFrame, selectedCountries []string, countryFiltered bool) KPIs {
	k := KPIs{
		Athletes: CountDistinct(athletes, "name"),
		Sports:   CountDistinct(events, "sport"),
		Events:   CountDistinct(events, "event"),
		Medals:   SumInt(totals, "Total"),
	}
	if countryFiltered {
		k.Countries = len(selectedCountries)
	} else {
		k.Countries = CountDistinct(totals, "country_code")
	}
	return k
}
