package schema

import (
	"regexp"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const scheduleFormat = "schedule"

var rateExpression = regexp.MustCompile(`^rate\(\s*([1-9][0-9]*)\s+(minute|minutes|hour|hours|day|days)\s*\)$`)

func init() {
	jsonschema.Formats[scheduleFormat] = isScheduleValue
}

// IsSchedule reports whether expr is a standard cron expression or a
// rate(<n> <unit>) expression.
func IsSchedule(expr string) bool {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false
	}
	if match := rateExpression.FindStringSubmatch(expr); match != nil {
		singular := match[1] == "1"
		plural := strings.HasSuffix(match[2], "s")
		return singular != plural
	}
	if _, err := cron.ParseStandard(expr); err != nil {
		return false
	}
	return true
}

func isScheduleValue(v any) bool {
	s, ok := v.(string)
	if !ok {
		return true
	}
	return IsSchedule(s)
}
