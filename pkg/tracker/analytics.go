// This file implements the analytics engine: categorical breakdowns,
// per-user performance counts, and time-bucketed creation trends. All
// grouping is done in memory as pure count-by-key functions over one
// live-task snapshot; the two counts of an overview may therefore reflect
// slightly different instants under concurrent writes, which is accepted.
package tracker

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// Trend granularities.
const (
	GranularityDay   = "day"
	GranularityWeek  = "week"
	GranularityMonth = "month"
)

// trendDefaultRange is the trailing window used when Trends is called
// without bounds.
const trendDefaultRange = 30 * 24 * time.Hour

// ErrInvalidGranularity is returned for a granularity outside day, week,
// and month.
var ErrInvalidGranularity = errors.New("invalid trend granularity")

// Overview holds the categorical breakdowns of live tasks.
type Overview struct {
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
}

// Performance holds per-user task counts. Overdue is strict: not completed
// and past due, regardless of how far past.
type Performance struct {
	TasksCompleted int `json:"tasks_completed"`
	Overdue        int `json:"overdue"`
}

// TrendPoint is one time bucket of the creation trend.
type TrendPoint struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// Overview computes independent grouped counts of live tasks by status and
// by priority. Group keys are the literal field values.
func (s *Service) Overview() (*Overview, error) {
	tasks, err := s.tasks.AllLive()
	if err != nil {
		s.logger.Error().Err(err).Msg("overview scan failed")
		return nil, err
	}
	return &Overview{
		ByStatus:   countBy(tasks, func(t *types.Task) string { return t.Status }),
		ByPriority: countBy(tasks, func(t *types.Task) string { return t.Priority }),
	}, nil
}

// UserPerformance counts the live tasks assigned to userID that are done,
// and those that are overdue. A done task is never overdue.
func (s *Service) UserPerformance(userID string) (*Performance, error) {
	tasks, err := s.tasks.AllLive()
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("performance scan failed")
		return nil, err
	}

	now := s.now()
	var p Performance
	for _, t := range tasks {
		if !t.AssignedTo(userID) {
			continue
		}
		if t.Status == types.StatusDone {
			p.TasksCompleted++
			continue
		}
		if t.DueDate != nil && t.DueDate.Before(now) {
			p.Overdue++
		}
	}
	return &p, nil
}

// Trends groups live tasks created within [from, to] by their bucket key
// and counts them, sorted ascending by bucket. Zero bounds default to the
// trailing 30 days ending now; an empty granularity defaults to day.
func (s *Service) Trends(from, to time.Time, granularity string) ([]TrendPoint, error) {
	if granularity == "" {
		granularity = GranularityDay
	}
	key, err := bucketKey(granularity)
	if err != nil {
		return nil, err
	}

	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.Add(-trendDefaultRange)
	}

	tasks, err := s.tasks.AllLive()
	if err != nil {
		s.logger.Error().Err(err).Msg("trends scan failed")
		return nil, err
	}

	inRange := tasks[:0:0]
	for _, t := range tasks {
		if t.CreatedAt.Before(from) || t.CreatedAt.After(to) {
			continue
		}
		inRange = append(inRange, t)
	}

	counts := countBy(inRange, func(t *types.Task) string { return key(t.CreatedAt) })

	points := make([]TrendPoint, 0, len(counts))
	for bucket, count := range counts {
		points = append(points, TrendPoint{Bucket: bucket, Count: count})
	}
	// Bucket keys are zero-padded, so plain string order is chronological.
	sort.Slice(points, func(i, j int) bool { return points[i].Bucket < points[j].Bucket })
	return points, nil
}

// bucketKey returns the date-bucketing key function for a granularity. Keys
// are zero-padded and therefore lexicographically sortable in chronological
// order. Weeks use the ISO week numbering.
func bucketKey(granularity string) (func(time.Time) string, error) {
	switch granularity {
	case GranularityDay:
		return func(t time.Time) string { return t.UTC().Format("2006-01-02") }, nil
	case GranularityWeek:
		return func(t time.Time) string {
			year, week := t.UTC().ISOWeek()
			return fmt.Sprintf("%04d-W%02d", year, week)
		}, nil
	case GranularityMonth:
		return func(t time.Time) string { return t.UTC().Format("2006-01") }, nil
	default:
		return nil, ErrInvalidGranularity
	}
}

// countBy groups tasks under the key selector and counts each group.
func countBy(tasks []*types.Task, key func(*types.Task) string) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[key(t)]++
	}
	return counts
}
