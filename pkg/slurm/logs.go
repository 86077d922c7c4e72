package slurm

import (
	"regexp"
	"strings"
)

// Tried in order, most specific first; training processes print the run url
// in a few different shapes.
var metricsURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`View run at (https://wandb\.ai/[^\s]+)`),
	regexp.MustCompile(`wandb: .*?(https://wandb\.ai/[^\s]+)`),
	regexp.MustCompile(`(https://wandb\.ai/[^\s]+)`),
}

// ExtractMetricsURL scans log output for an embedded metrics-dashboard url,
// returning the first match or "".
func ExtractMetricsURL(logs string) string {
	for _, p := range metricsURLPatterns {
		m := p.FindStringSubmatch(logs)
		if m != nil {
			return strings.TrimRight(m[1], ".,;)")
		}
	}
	return ""
}
