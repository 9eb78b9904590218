package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatKES(t *testing.T) {
	assert.Equal(t, "KES 12,345", FormatKES("12345.00"))
	assert.Equal(t, "KES 1,234,567", FormatKES("1234566.6"))
	assert.Equal(t, "KES 0", FormatKES("0"))
	assert.Equal(t, "KES 950", FormatKES("950"))
	assert.Equal(t, "KES -2,000", FormatKES("-2000"))
	assert.Equal(t, "N/A", FormatKES(""))
	assert.Equal(t, "N/A", FormatKES("abc"))
}

func TestFormatPercent(t *testing.T) {
	v := 87.5
	assert.Equal(t, "87.5%", FormatPercent(&v))
	assert.Equal(t, "N/A", FormatPercent(nil))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "just now", RelativeTime(now.Add(-30*time.Second), now))
	assert.Equal(t, "1 minute ago", RelativeTime(now.Add(-time.Minute), now))
	assert.Equal(t, "5 hours ago", RelativeTime(now.Add(-5*time.Hour), now))
	assert.Equal(t, "2 days ago", RelativeTime(now.Add(-49*time.Hour), now))
	assert.Equal(t, "Feb 1, 2024", RelativeTime(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), now))
}

func TestMessageTimeLabel(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "09:30", MessageTimeLabel("2024-03-10T09:30:00Z", now))
	assert.Equal(t, "Yesterday", MessageTimeLabel("2024-03-09T08:00:00Z", now))
	assert.Equal(t, "Mar 1", MessageTimeLabel("2024-03-01T08:00:00+00:00", now))
	assert.Equal(t, "garbage", MessageTimeLabel("garbage", now))
}

func TestPreview(t *testing.T) {
	short := "Fees for term 2 received"
	assert.Equal(t, short, Preview(short))

	long := strings.Repeat("a", 61)
	assert.Equal(t, strings.Repeat("a", 60)+"...", Preview(long))

	exact := strings.Repeat("é", 60)
	assert.Equal(t, exact, Preview(exact))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.50 KB", FormatFileSize(1536))
	assert.Equal(t, "5.00 MB", FormatFileSize(5*1024*1024))
}
