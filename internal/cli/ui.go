package cli

import (
	"fmt"
	"strings"

	"Fincrew/internal/engine"
	"Fincrew/pkg/types"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorBold   = "\033[1m"
	ColorDim    = "\033[2m"
)

// Agent emojis - auto-assigned based on index
var agentEmojis = []string{"📊", "🔎", "💼", "⚠️", "🧠", "📝", "🤖", "💡"}

// GetAgentEmoji returns a unique emoji for each agent based on index
func GetAgentEmoji(index int) string {
	return agentEmojis[index%len(agentEmojis)]
}

// ColorText wraps text with ANSI color codes
func ColorText(text, color string) string {
	return color + text + ColorReset
}

// ProgressBar generates a text-based progress bar
func ProgressBar(current, total int, width int) string {
	if total == 0 {
		return ""
	}

	percent := float64(current) / float64(total)
	filled := int(percent * float64(width))

	bar := "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
	return fmt.Sprintf("%s %d/%d (%.0f%%)", bar, current, total, percent*100)
}

// FormatDuration formats seconds into human readable string
func FormatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	mins := int(seconds) / 60
	secs := int(seconds) % 60
	return fmt.Sprintf("%dm %ds", mins, secs)
}

func truncateStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func wordWrap(s string, width int) []string {
	if len(s) <= width {
		return []string{s}
	}

	result := []string{}
	for len(s) > width {
		// Find last space before width
		idx := width
		for idx > 0 && s[idx] != ' ' {
			idx--
		}
		if idx == 0 {
			idx = width
		}
		result = append(result, s[:idx])
		s = strings.TrimPrefix(s[idx:], " ")
	}
	if len(s) > 0 {
		result = append(result, s)
	}
	return result
}

// printBox prints a titled banner
func printBox(color, title string) {
	line := strings.Repeat("═", 78)
	fmt.Println(color + "╔" + line + "╗" + ColorReset)
	pad := 78 - len([]rune(title))
	left := pad / 2
	fmt.Println(color + "║" + ColorReset + ColorBold + strings.Repeat(" ", left) + title + strings.Repeat(" ", pad-left) + ColorReset + color + "║" + ColorReset)
	fmt.Println(color + "╚" + line + "╝" + ColorReset)
}

// printPlan draws the crew's execution waves, tasks of one wave side by side
func printPlan(c *types.CrewConfig, g *engine.TaskGraph) {
	waves := g.Waves()
	for i, wave := range waves {
		boxes := make([]string, 0, len(wave))
		for _, id := range wave {
			label := id
			if t := c.GetTask(id); t != nil {
				if a := c.GetAgent(t.Agent); a != nil && a.Role != "" {
					label = a.Role
				}
			}
			boxes = append(boxes, fmt.Sprintf("│ %-24s │", truncateStr(label, 24)))
		}
		border := strings.Repeat("─", 26)
		top := strings.Repeat("┌"+border+"┐   ", len(wave))
		bottom := strings.Repeat("└"+border+"┘   ", len(wave))

		fmt.Println("   " + top)
		fmt.Println("   " + strings.Join(boxes, "   "))
		fmt.Println("   " + bottom)
		if i < len(waves)-1 {
			fmt.Println("                 │")
			fmt.Println("                 ▼")
		}
	}
	fmt.Println()
}
