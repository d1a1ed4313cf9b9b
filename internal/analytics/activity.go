package analytics

import (
	"sort"
	"time"
	"unicode/utf8"

	"github.com/Rrens/business-assistant/internal/domain"
)

const (
	ExampleLength      = 50
	ExamplesPerInsight = 3
)

// BuildDailyActivity builds the day histogram of conversations, ascending by date.
// The most active day is the earliest among equal counts.
func BuildDailyActivity(convs []domain.Conversation, loc *time.Location) domain.DailyActivity {
	counts := make(map[string]int)
	for _, c := range convs {
		counts[DayKey(c.CreatedAt, loc)]++
	}

	activity := domain.DailyActivity{
		Days:  make([]domain.DayCount, 0, len(counts)),
		Total: len(convs),
	}
	for day, count := range counts {
		activity.Days = append(activity.Days, domain.DayCount{Date: day, Count: count})
	}
	sort.Slice(activity.Days, func(i, j int) bool {
		return activity.Days[i].Date < activity.Days[j].Date
	})

	activity.MostActiveDay = mostActive(activity.Days)
	return activity
}

// BuildCategoryInsights groups conversations by category, most used first
func BuildCategoryInsights(convs []domain.Conversation) []domain.CategoryInsight {
	index := make(map[string]int)
	insights := []domain.CategoryInsight{}

	for _, c := range convs {
		category := categoryOf(c.Category)
		idx, ok := index[category]
		if !ok {
			idx = len(insights)
			index[category] = idx
			insights = append(insights, domain.CategoryInsight{
				Category: category,
				LastUsed: c.CreatedAt,
				Examples: []string{},
			})
		}

		in := &insights[idx]
		in.Count++
		if c.CreatedAt.After(in.LastUsed) {
			in.LastUsed = c.CreatedAt
		}
		if len(in.Examples) < ExamplesPerInsight {
			in.Examples = append(in.Examples, Snippet(c.UserMessage, ExampleLength))
		}
	}

	sort.SliceStable(insights, func(i, j int) bool {
		if insights[i].Count != insights[j].Count {
			return insights[i].Count > insights[j].Count
		}
		return insights[i].Category < insights[j].Category
	})
	return insights
}

// BuildActivityTrend counts conversations per calendar day of the period,
// filling days without conversations with zero. The average divides by every
// represented day, including the zero-filled ones.
func BuildActivityTrend(convs []domain.Conversation, period domain.Period, loc *time.Location) domain.ActivityTrend {
	if loc == nil {
		loc = time.UTC
	}

	counts := make(map[string]int)
	total := 0
	for _, c := range convs {
		if !period.Contains(c.CreatedAt) {
			continue
		}
		counts[DayKey(c.CreatedAt, loc)]++
		total++
	}

	trend := domain.ActivityTrend{Days: []domain.DayCount{}, Total: total}

	start := period.Start.In(loc)
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	last := DayKey(period.End, loc)
	for {
		key := day.Format(DateLayout)
		trend.Days = append(trend.Days, domain.DayCount{Date: key, Count: counts[key]})
		if key >= last {
			break
		}
		day = day.AddDate(0, 0, 1)
	}

	trend.AveragePerDay = safeDiv(float64(total), float64(len(trend.Days)))
	return trend
}

// Snippet truncates text to max runes, marking truncation with an ellipsis
func Snippet(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "…"
}

func mostActive(days []domain.DayCount) *domain.DayCount {
	var best *domain.DayCount
	for i := range days {
		if best == nil || days[i].Count > best.Count {
			d := days[i]
			best = &d
		}
	}
	return best
}
