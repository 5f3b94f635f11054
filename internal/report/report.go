// Package report flattens a stats.Summary into the ordered entry list that
// backs the console report, the CSV export, and the JSON output. All three
// read the same list, so they can never disagree for a given run.
package report

import (
	"fmt"

	"wrapped/internal/stats"
)

// Entry is one labeled value of the report. The slice order produced by
// Build is the display and export order.
type Entry struct {
	Section string `json:"section"`
	Label   string `json:"label"`
	Value   int64  `json:"value"`
}

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// Build flattens the summary in pipeline order. A no-data summary yields
// an empty list.
func Build(s *stats.Summary) []Entry {
	if s.NoData {
		return nil
	}

	entries := []Entry{
		{"Messages", "Total", s.Total},
		{"Messages", "Sent", s.Sent},
		{"Messages", "Received", s.Received},
		{"Reactions", "Given", s.ReactionsGiven},
		{"Reactions", "Received", s.ReactionsReceived},
	}
	for _, sc := range s.TapbacksGiven {
		entries = append(entries, Entry{"Reaction Style", sc.Symbol, sc.Count})
	}
	for _, sc := range s.CustomGiven {
		entries = append(entries, Entry{"Custom Reactions", sc.Symbol, sc.Count})
	}
	for i, cnt := range s.Monthly {
		entries = append(entries, Entry{"Monthly Volume", monthNames[i], cnt})
	}
	for _, sc := range s.TopReactions {
		entries = append(entries, Entry{"Top Reactions", sc.Symbol, sc.Count})
	}
	for _, sc := range s.Services {
		entries = append(entries, Entry{"Services", sc.Service, sc.Count})
	}
	for _, cc := range s.TopSMSContacts {
		entries = append(entries, Entry{"Green Texters", cc.Name, cc.Count})
	}
	for _, cc := range s.TopContacts {
		entries = append(entries, Entry{"Top Contacts", cc.Name, cc.Count})
	}
	for i, month := range s.MonthlyTopContacts {
		section := fmt.Sprintf("Top Contacts (%s)", monthNames[i])
		for _, cc := range month {
			entries = append(entries, Entry{section, cc.Name, cc.Count})
		}
	}
	return entries
}

// DefaultCSVName is the export target used when --csv is given without a
// filename.
func DefaultCSVName(year int) string {
	return fmt.Sprintf("imessage-wrapped-%d.csv", year)
}

// NoDataMessage is the user-facing notice for an empty window.
func NoDataMessage(year int) string {
	return fmt.Sprintf("No messages found for %d.\nTry a different year: wrapped %d", year, year-1)
}
