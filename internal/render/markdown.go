// Package render turns an aggregated overview into README markdown fragments
// and the JSON snapshot.
package render

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/montanaflynn/stats"
	"github.com/naka-gawa/readme-stats/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	filledGlyph = "█"
	emptyGlyph  = "░"
	separator   = "<br>"
)

var printer = message.NewPrinter(language.English)

// FormatNumber renders n with thousands separators, e.g. 12,345.
func FormatNumber(n int) string {
	return printer.Sprintf("%d", n)
}

// RankByStars keeps repositories with at least minStars stars, most starred
// first. Equal counts keep their input order.
func RankByStars(repos []domain.Repository, minStars int) []domain.Repository {
	ranked := make([]domain.Repository, 0, len(repos))
	for _, repo := range repos {
		if repo.Stars >= minStars {
			ranked = append(ranked, repo)
		}
	}
	slices.SortStableFunc(ranked, func(a, b domain.Repository) int {
		return b.Stars - a.Stars
	})
	return ranked
}

// ASCIIBar draws value relative to maxValue as exactly width glyphs. A
// positive value always gets at least one filled glyph.
func ASCIIBar(value, maxValue, width int) string {
	if width <= 0 {
		return ""
	}
	if maxValue <= 0 || value <= 0 {
		return strings.Repeat(emptyGlyph, width)
	}
	filled := int(math.Round(float64(value) / float64(maxValue) * float64(width)))
	filled = max(1, min(width, filled))
	return strings.Repeat(filledGlyph, filled) + strings.Repeat(emptyGlyph, width-filled)
}

// RankingList renders ranked repositories as one <br>-separated line.
func RankingList(repos []domain.Repository) string {
	lines := make([]string, 0, len(repos))
	for _, repo := range repos {
		line := fmt.Sprintf("• [%s](%s) - ⭐ %s / 🍴 %s", repo.Name, repo.URL, FormatNumber(repo.Stars), FormatNumber(repo.Forks))
		if repo.Description != "" {
			line += " - " + repo.Description
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, separator)
}

// ReleaseList renders recent releases as one <br>-separated line.
func ReleaseList(releases []domain.Release) string {
	lines := make([]string, 0, len(releases))
	for _, r := range releases {
		title := strings.TrimSpace(r.Repo + " " + r.Release)
		lines = append(lines, fmt.Sprintf("• [%s](%s) - %s", title, r.URL, r.PublishedAt))
	}
	return strings.Join(lines, separator)
}

// StatLine renders followers, totals and activity on a single line.
func StatLine(followers int, totals domain.RepoStats, activity domain.ActivityStats) string {
	return fmt.Sprintf("👥 %s followers · ⭐ %s stars · 🍴 %s forks · 💻 %s commits · 🔀 %s PRs · 🐛 %s issues · 👤 %s contributed",
		FormatNumber(followers),
		FormatNumber(totals.Stars),
		FormatNumber(totals.Forks),
		FormatNumber(activity.Commits),
		FormatNumber(activity.PRs),
		FormatNumber(activity.Issues),
		FormatNumber(activity.ContributedTo),
	)
}

// BarChart renders a titled chart as a fenced text block, one bar per item,
// scaled to the largest value.
func BarChart(title string, items []domain.ChartItem, width int) string {
	values := make([]int, 0, len(items))
	labelWidth, valueWidth := 0, 0
	for _, item := range items {
		values = append(values, item.Value)
		labelWidth = max(labelWidth, utf8.RuneCountInString(item.Label))
		valueWidth = max(valueWidth, len(FormatNumber(item.Value)))
	}
	top, err := stats.Max(stats.LoadRawData(values))
	if err != nil {
		top = 0
	}

	var b strings.Builder
	b.WriteString("```text\n")
	b.WriteString(title)
	b.WriteString("\n")
	for _, item := range items {
		pad := labelWidth - utf8.RuneCountInString(item.Label)
		fmt.Fprintf(&b, "%s%s  %s  %*s\n",
			item.Label, strings.Repeat(" ", pad),
			ASCIIBar(item.Value, int(top), width),
			valueWidth, FormatNumber(item.Value))
	}
	b.WriteString("```")
	return b.String()
}

// StarChartItems lists owned and member stars followed by one item per
// organization, most starred organization first.
func StarChartItems(overview *domain.Overview) []domain.ChartItem {
	items := []domain.ChartItem{
		{Label: domain.ScopeOwned, Value: overview.Scopes[domain.ScopeOwned].Stars},
		{Label: domain.ScopeMember, Value: overview.Scopes[domain.ScopeMember].Stars},
	}
	buckets := slices.Clone(overview.Organizations)
	slices.SortStableFunc(buckets, func(a, b domain.OrgBucket) int {
		return b.Stars - a.Stars
	})
	for _, bucket := range buckets {
		items = append(items, domain.ChartItem{Label: bucket.Login, Value: bucket.Stars})
	}
	return items
}

// ActivityChartItems lists the reconciled activity counts.
func ActivityChartItems(activity domain.ActivityStats) []domain.ChartItem {
	return []domain.ChartItem{
		{Label: "commits", Value: activity.Commits},
		{Label: "PRs", Value: activity.PRs},
		{Label: "issues", Value: activity.Issues},
	}
}

// Charts renders the star and activity charts.
func Charts(overview *domain.Overview, width int) string {
	return BarChart("Stars by scope", StarChartItems(overview), width) +
		"\n\n" +
		BarChart("Activity", ActivityChartItems(overview.Activity), width)
}
