package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// PlaceholderNA is shown wherever the backend has no value
const PlaceholderNA = "N/A"

// ParseAmount reads a decimal money string from the backend
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatKES renders an amount as "KES 12,345", or N/A when it cannot be read
func FormatKES(amount string) string {
	v, ok := ParseAmount(amount)
	if !ok {
		return PlaceholderNA
	}
	return "KES " + groupThousands(int64(v+sign(v)*0.5))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func groupThousands(n int64) string {
	negative := n < 0
	if negative {
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// FormatPercent renders an optional percentage as "87.5%" or N/A
func FormatPercent(v *float64) string {
	if v == nil {
		return PlaceholderNA
	}
	return strconv.FormatFloat(*v, 'f', -1, 64) + "%"
}

// OrNA returns s, or N/A when s is blank
func OrNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return PlaceholderNA
	}
	return s
}

// FormatFileSize renders a byte count for humans
func FormatFileSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// ParseTimestamp reads the ISO-8601 timestamps the backend emits
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	t, err := ParseDate(s)
	return t, err == nil
}

// RelativeTime renders t relative to now ("3 hours ago")
func RelativeTime(t, now time.Time) string {
	duration := now.Sub(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	} else if duration < 7*24*time.Hour {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
	return t.Format("Jan 2, 2006")
}

// MessageTimeLabel is the short timestamp of an inbox row: the clock time
// today, "Yesterday", then the date
func MessageTimeLabel(sentAt string, now time.Time) string {
	t, ok := ParseTimestamp(sentAt)
	if !ok {
		return sentAt
	}
	age := now.Sub(t)
	switch {
	case age < 24*time.Hour:
		return t.In(now.Location()).Format("15:04")
	case age < 48*time.Hour:
		return "Yesterday"
	default:
		return t.In(now.Location()).Format("Jan 2")
	}
}

// PreviewLength is how much of a message body an inbox row shows
const PreviewLength = 60

// Preview truncates content to PreviewLength characters plus "..."
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:PreviewLength]) + "..."
}
