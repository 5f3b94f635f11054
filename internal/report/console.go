package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"wrapped/internal/stats"
)

const barWidth = 20

// Render writes the human-readable sectioned report. The layout is a
// presentation surface only, not a compatibility contract.
func Render(w io.Writer, s *stats.Summary, sourcePath string, now time.Time) {
	fmt.Fprintf(w, "\n🎁 iMessage Wrapped %d\n\n", s.Year)
	fmt.Fprintln(w, strings.Repeat("=", 40))

	fmt.Fprintf(w, "\n📱 Messages\n")
	fmt.Fprintf(w, "   Total:    %s\n", humanize.Comma(s.Total))
	fmt.Fprintf(w, "   Sent:     %s\n", humanize.Comma(s.Sent))
	fmt.Fprintf(w, "   Received: %s\n", humanize.Comma(s.Received))

	fmt.Fprintf(w, "\n💬 Reactions\n")
	fmt.Fprintf(w, "   Given:    %s\n", humanize.Comma(s.ReactionsGiven))
	fmt.Fprintf(w, "   Received: %s\n", humanize.Comma(s.ReactionsReceived))

	fmt.Fprintf(w, "\n🏆 Your Reaction Style\n")
	if len(s.TapbacksGiven) == 0 {
		fmt.Fprintln(w, "   (no reactions given)")
	}
	for _, sc := range s.TapbacksGiven {
		fmt.Fprintf(w, "   %s  %s\n", sc.Symbol, humanize.Comma(sc.Count))
	}

	if len(s.CustomGiven) > 0 {
		fmt.Fprintf(w, "\n🎯 Your Custom Reactions\n")
		for _, sc := range s.CustomGiven {
			fmt.Fprintf(w, "   %s  %s\n", sc.Symbol, humanize.Comma(sc.Count))
		}
	}

	fmt.Fprintf(w, "\n📈 Messages by Month\n")
	for i, cnt := range s.Monthly {
		fmt.Fprintf(w, "   %s  %s %s\n", monthNames[i], bar(cnt, s.MonthlyMax), humanize.Comma(cnt))
	}

	if len(s.TopReactions) > 0 {
		fmt.Fprintf(w, "\n🌟 Top Reactions (All)\n")
		for _, sc := range s.TopReactions {
			fmt.Fprintf(w, "   %s  %s\n", sc.Symbol, humanize.Comma(sc.Count))
		}
	}

	if len(s.Services) > 0 {
		fmt.Fprintf(w, "\n📡 Services\n")
		for _, sc := range s.Services {
			fmt.Fprintf(w, "   %-10s %s (%.1f%%)\n", sc.Service, humanize.Comma(sc.Count), sc.Percent)
		}
	}

	if len(s.TopSMSContacts) > 0 {
		fmt.Fprintf(w, "\n💚 Green Texters\n")
		for _, cc := range s.TopSMSContacts {
			fmt.Fprintf(w, "   %-24s %s\n", cc.Name, humanize.Comma(cc.Count))
		}
	}

	if len(s.TopContacts) > 0 {
		fmt.Fprintf(w, "\n👥 Top Contacts\n")
		for _, cc := range s.TopContacts {
			fmt.Fprintf(w, "   %-24s %s\n", cc.Name, humanize.Comma(cc.Count))
		}
	}

	printedHeader := false
	for i, month := range s.MonthlyTopContacts {
		if len(month) == 0 {
			continue
		}
		if !printedHeader {
			fmt.Fprintf(w, "\n📅 Month by Month\n")
			printedHeader = true
		}
		fmt.Fprintf(w, "   %s\n", monthNames[i])
		for _, cc := range month {
			fmt.Fprintf(w, "      %-21s %s\n", cc.Name, humanize.Comma(cc.Count))
		}
	}

	fmt.Fprintf(w, "\n%s\n", strings.Repeat("=", 40))
	fmt.Fprintf(w, "📊 Data from %s\n", sourcePath)
	fmt.Fprintf(w, "🕐 Generated %s\n\n", now.Format("2006-01-02 15:04"))
}

// bar renders a block bar proportional to cnt against the largest bucket.
func bar(cnt, max int64) string {
	if cnt == 0 || max == 0 {
		return ""
	}
	return strings.Repeat("█", int(barWidth*cnt/max))
}
