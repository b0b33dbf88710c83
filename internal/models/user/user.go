package user

import "time"

type User struct {
	UserID         string     `json:"user_id" db:"user_id"`
	CanvasUsername string     `json:"canvas_username,omitempty" db:"canvas_username"`
	CanvasDomain   string     `json:"canvas_domain,omitempty" db:"canvas_domain"`
	ProfilePicture string     `json:"profile_picture,omitempty" db:"profile_picture"`
	TotalPoints    int        `json:"total_points" db:"total_points"`
	CurrentLevel   int        `json:"current_level" db:"current_level"`
	LastActivityAt *time.Time `json:"last_activity_at,omitempty" db:"last_activity_at"`
}

// минимальное количество очков для достижения уровня
var levelThresholds = map[int]int{
	0:  0,
	1:  100,
	2:  250,
	3:  500,
	4:  900,
	5:  1400,
	6:  2000,
	7:  2700,
	8:  3500,
	9:  4400,
	10: 5400,
}

// LevelForPoints возвращает максимальный уровень, порог которого достигнут
func LevelForPoints(totalPoints int) int {
	level := 0
	for lvl, minPoints := range levelThresholds {
		if totalPoints >= minPoints && lvl > level {
			level = lvl
		}
	}
	return level
}

type LevelProgress struct {
	CurrentLevel         int  `json:"current_level"`
	NextLevel            *int `json:"next_level"`
	NextLevelPoints      *int `json:"next_level_points"`
	ProgressPercent      int  `json:"progress_percent"`
	PointsIntoLevel      int  `json:"points_into_level"`
	PointsRequiredForNext int `json:"points_required_for_next"`
}

func ComputeLevelProgress(totalPoints, currentLevel int) LevelProgress {
	currentMin, ok := levelThresholds[currentLevel]
	if !ok {
		currentMin = totalPoints
	}

	nextLevel := currentLevel + 1
	nextMin, hasNext := levelThresholds[nextLevel]
	if !hasNext {
		// максимальный уровень
		return LevelProgress{
			CurrentLevel:    currentLevel,
			ProgressPercent: 100,
			PointsIntoLevel: totalPoints - currentMin,
		}
	}

	span := nextMin - currentMin
	if span < 1 {
		span = 1
	}

	percent := int(float64(totalPoints-currentMin)/float64(span)*100 + 0.5)
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	into := totalPoints - currentMin
	if into < 0 {
		into = 0
	}
	required := nextMin - totalPoints
	if required < 0 {
		required = 0
	}

	return LevelProgress{
		CurrentLevel:          currentLevel,
		NextLevel:             &nextLevel,
		NextLevelPoints:       &nextMin,
		ProgressPercent:       percent,
		PointsIntoLevel:       into,
		PointsRequiredForNext: required,
	}
}
