package services

import (
	"math"
	"sort"

	"run2rejuvenate-api/models"
	"run2rejuvenate-api/repositories"
)

// NameResolver maps a user id to a profile. A nil result means the lookup
// failed and the row keeps the raw id as its display name.
type NameResolver func(userID string) *models.User

type LeaderboardService struct {
	progressRepo *repositories.ProgressRepository
}

func NewLeaderboardService(progressRepo *repositories.ProgressRepository) *LeaderboardService {
	return &LeaderboardService{
		progressRepo: progressRepo,
	}
}

// EventLeaderboard recomputes the ranked per-user summary for one event from
// current storage state. The second return value is the number of malformed
// entries that were excluded from the sums.
func (s *LeaderboardService) EventLeaderboard(eventID string) ([]models.LeaderboardRow, int, error) {
	entries, err := s.progressRepo.EntriesForEvent(eventID)
	if err != nil {
		return nil, 0, err
	}

	userIDs := make([]string, 0, len(entries))
	seen := make(map[string]bool)
	for _, e := range entries {
		if !seen[e.UserID] {
			seen[e.UserID] = true
			userIDs = append(userIDs, e.UserID)
		}
	}

	users, err := s.progressRepo.UsersByID(userIDs)
	if err != nil {
		// Name resolution failing must not fail the aggregation
		users = map[string]models.User{}
	}

	rows, skipped := Aggregate(entries, func(userID string) *models.User {
		if u, ok := users[userID]; ok {
			return &u
		}
		return nil
	})
	return rows, skipped, nil
}

// UserSummary reduces one user's entries for an event and derives the
// target-completion percentage.
func (s *LeaderboardService) UserSummary(event *models.Event, userID string) (*models.ProgressSummary, error) {
	entries, err := s.progressRepo.EntriesForUser(userID, event.ID)
	if err != nil {
		return nil, err
	}

	var totalDistance, totalTime float64
	count := 0
	for _, e := range entries {
		distance, time, ok := entryValues(&e)
		if !ok {
			continue
		}
		totalDistance += distance
		totalTime += time
		count++
	}

	return &models.ProgressSummary{
		EventID:       event.ID,
		UserID:        userID,
		TotalDistance: totalDistance,
		TotalTime:     totalTime,
		Entries:       count,
		Percentage:    ProgressPercentage(event, totalDistance, totalTime),
	}, nil
}

// Aggregate reduces an event's progress entries to one ranked row per user.
// Input order is irrelevant: sums are commutative and the final ordering is
// fully determined by total distance desc, entry count desc, user id asc.
// Entries with negative distance or time are excluded from the sums and
// reported through the skipped count.
func Aggregate(entries []models.ProgressEntry, resolve NameResolver) ([]models.LeaderboardRow, int) {
	type totals struct {
		distance float64
		time     float64
		entries  int
	}

	byUser := make(map[string]*totals)
	order := make([]string, 0)
	skipped := 0

	for i := range entries {
		e := &entries[i]
		distance, time, ok := entryValues(e)
		if !ok {
			skipped++
			continue
		}

		t, exists := byUser[e.UserID]
		if !exists {
			t = &totals{}
			byUser[e.UserID] = t
			order = append(order, e.UserID)
		}
		t.distance += distance
		t.time += time
		t.entries++
	}

	rows := make([]models.LeaderboardRow, 0, len(order))
	for _, userID := range order {
		t := byUser[userID]

		row := models.LeaderboardRow{
			UserID:        userID,
			DisplayName:   userID,
			TotalDistance: t.distance,
			TotalTime:     t.time,
			Entries:       t.entries,
		}

		// Pace is defined only once there is distance to divide by
		if t.distance > 0 {
			pace := t.time / t.distance
			row.AveragePace = &pace
		}

		if resolve != nil {
			if user := resolve(userID); user != nil {
				row.DisplayName = user.DisplayName()
			}
		}

		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalDistance != rows[j].TotalDistance {
			return rows[i].TotalDistance > rows[j].TotalDistance
		}
		if rows[i].Entries != rows[j].Entries {
			return rows[i].Entries > rows[j].Entries
		}
		return rows[i].UserID < rows[j].UserID
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}

	return rows, skipped
}

// ProgressPercentage computes how far a user is toward the event target,
// clamped to [0, 100]. The distance target is checked first; the time target
// only applies when no distance was logged. No target set means 0.
func ProgressPercentage(event *models.Event, totalDistance, totalTime float64) int {
	if event.TargetDistance != nil && *event.TargetDistance > 0 && totalDistance > 0 {
		return clampPercentage(totalDistance / *event.TargetDistance)
	}
	if event.TargetTime != nil && *event.TargetTime > 0 && totalTime > 0 {
		return clampPercentage(totalTime / *event.TargetTime)
	}
	return 0
}

func clampPercentage(ratio float64) int {
	pct := int(math.Round(ratio * 100))
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// entryValues extracts the numeric fields of an entry, treating absent values
// as zero. Negative values mark the entry as malformed.
func entryValues(e *models.ProgressEntry) (distance, time float64, ok bool) {
	if e.Distance != nil {
		distance = *e.Distance
	}
	if e.Time != nil {
		time = *e.Time
	}
	if distance < 0 || time < 0 {
		return 0, 0, false
	}
	return distance, time, true
}
