package modules

import (
	"fmt"
	"runtime"
	"time"

	tg "github.com/amarnathcjd/gogram/telegram"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

var startTime = time.Now()

func StartHandle(m *tg.NewMessage) error {
	m.Reply("Hello! Send a join request to the group and I will take it from there.\n\nUse /help to see what else I can do.")
	return nil
}

func PingHandle(m *tg.NewMessage) error {
	t := time.Now()
	sent, _ := m.Reply("Pinging...")
	_, err := sent.Edit(fmt.Sprintf("<code>Pong!</code> <code>%s</code>", time.Since(t).String()))
	return err
}

func GatherSystemInfo(m *tg.NewMessage) error {
	var cpuPerc float64
	if percs, err := cpu.Percent(0, false); err == nil && len(percs) > 0 {
		cpuPerc = percs[0]
	}

	info := "<b>💻 System Info:</b>\n\n"
	info += fmt.Sprintf("🖥️ <b>CPU:</b> %.2f%%\n", cpuPerc)
	if vm, err := mem.VirtualMemory(); err == nil {
		info += fmt.Sprintf("💾 <b>Memory:</b> %s / %s (%.2f%%)\n",
			humanBytes(vm.Used), humanBytes(vm.Total), vm.UsedPercent)
	}
	info += fmt.Sprintf("⏱️ <b>Uptime:</b> %s\n", time.Since(startTime).Round(time.Second))
	info += fmt.Sprintf("🧑‍💻 <b>OS:</b> %s | <b>Arch:</b> %s\n", runtime.GOOS, runtime.GOARCH)
	info += fmt.Sprintf("🚀 <b>CPUs:</b> %d | <b>Goroutines:</b> %d", runtime.NumCPU(), runtime.NumGoroutine())

	m.Reply(info)
	return nil
}

func humanBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func init() {
	Mods.AddModule("Start", `<b>Here are the commands available in Start module:</b>

<code>/start</code> - check if the bot is alive
<code>/ping</code> - check the bot's response time
<code>/sys</code> - host and process status`)
}
