package modules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDeployReportGroupsByVerdict(t *testing.T) {
	var r deployReport
	r.Result.Day = 14
	r.Result.Month.Name = "марта"
	r.Result.Year = 2025
	r.Result.Signs = []deploySign{
		{Name: "Овен", Status: "good", Comment: "ship it"},
		{Name: "Телец", Status: "good", Comment: "ship it"},
		{Name: "Близнецы", Status: "neutral", Comment: "maybe"},
		{Name: "Рак", Status: "bad", Comment: "do not"},
	}

	out := formatDeployReport(&r)
	assert.Contains(t, out, "14 марта 2025")
	assert.Contains(t, out, "✅ FAVORABLE:\nОвен, Телец\nship it")
	assert.Contains(t, out, "⚠️ NEUTRAL:\nБлизнецы\nmaybe")
	assert.Contains(t, out, "❌ UNFAVORABLE:\nРак\ndo not")
}

func TestFormatDeployReportSkipsEmptyGroups(t *testing.T) {
	var r deployReport
	r.Result.Day = 1
	r.Result.Month.Name = "мая"
	r.Result.Year = 2025
	r.Result.Signs = []deploySign{
		{Name: "Лев", Status: "bad", Comment: "rollback day"},
	}

	out := formatDeployReport(&r)
	assert.NotContains(t, out, "✅")
	assert.NotContains(t, out, "⚠️")
	assert.Contains(t, out, "❌ UNFAVORABLE:\nЛев\nrollback day")
}

func TestHumanBytes(t *testing.T) {
	assert.Equal(t, "512 B", humanBytes(512))
	assert.Equal(t, "1.0 KiB", humanBytes(1024))
	assert.Equal(t, "1.5 MiB", humanBytes(3*1024*1024/2))
	assert.Equal(t, "2.0 GiB", humanBytes(2*1024*1024*1024))
}
