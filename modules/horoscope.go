package modules

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	tg "github.com/amarnathcjd/gogram/telegram"
)

const deployHoroscopeURL = "https://deployhoroscope.ru/api/v1/day"

var deployClient = &http.Client{Timeout: 10 * time.Second}

type deploySign struct {
	Name    string `json:"name_ru"`
	Status  string `json:"status"`
	Comment string `json:"comment"`
}

type deployReport struct {
	Result struct {
		Day   int `json:"day"`
		Month struct {
			Name string `json:"name_ru"`
		} `json:"month"`
		Year  int          `json:"year"`
		Signs []deploySign `json:"signs"`
	} `json:"result"`
}

// DeployReportHandle fetches today's deploy horoscope and replies with
// the signs grouped by verdict.
func DeployReportHandle(m *tg.NewMessage) error {
	req, err := http.NewRequest(http.MethodGet, deployHoroscopeURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := deployClient.Do(req)
	if err != nil {
		m.Reply("Could not fetch the deploy horoscope.")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		m.Reply("Could not fetch the deploy horoscope.")
		return nil
	}

	var report deployReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		m.Reply("Could not fetch the deploy horoscope.")
		return nil
	}

	m.Reply(formatDeployReport(&report))
	return nil
}

func formatDeployReport(r *deployReport) string {
	var good, bad, neutral []string
	var goodComment, badComment, neutralComment string

	for _, sign := range r.Result.Signs {
		switch sign.Status {
		case "good":
			good = append(good, sign.Name)
			goodComment = sign.Comment
		case "bad":
			bad = append(bad, sign.Name)
			badComment = sign.Comment
		default:
			neutral = append(neutral, sign.Name)
			neutralComment = sign.Comment
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Deploy horoscope for %d %s %d\n\n",
		r.Result.Day, r.Result.Month.Name, r.Result.Year)

	if len(good) > 0 {
		fmt.Fprintf(&sb, "✅ FAVORABLE:\n%s\n%s\n\n", strings.Join(good, ", "), goodComment)
	}
	if len(neutral) > 0 {
		fmt.Fprintf(&sb, "⚠️ NEUTRAL:\n%s\n%s\n\n", strings.Join(neutral, ", "), neutralComment)
	}
	if len(bad) > 0 {
		fmt.Fprintf(&sb, "❌ UNFAVORABLE:\n%s\n%s", strings.Join(bad, ", "), badComment)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func init() {
	Mods.AddModule("Report", `<b>Report Module</b>

<code>/deploy</code> - today's deploy horoscope, signs grouped by verdict`)
}
