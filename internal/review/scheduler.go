package review

import (
	"time"

	"github.com/madmonkey007/EchoListenultra/domain/entities"
)

// intervalDays maps a review stage to the number of days until the word
// is due again. Stage 0 is due immediately.
var intervalDays = [entities.ReviewStageCount]int64{0, 1, 2, 4, 7, 15, 30, 90}

const millisPerDay = 24 * 60 * 60 * 1000

// Review applies one judgment to a review record: a known word climbs one
// stage (capped at the final stage), an unknown word drops back to stage
// zero. The next eligible review time follows the fixed interval table.
// Pure and total; a stage outside the table is clamped first.
func Review(current entities.ReviewRecord, known bool, now time.Time) entities.ReviewRecord {
	stage := current.Stage
	if stage < 0 {
		stage = 0
	}
	if stage >= entities.ReviewStageCount {
		stage = entities.ReviewStageCount - 1
	}

	if known {
		if stage < entities.ReviewStageCount-1 {
			stage++
		}
	} else {
		stage = 0
	}

	return entities.ReviewRecord{
		Stage:        stage,
		NextReviewAt: now.UnixMilli() + intervalDays[stage]*millisPerDay,
	}
}

// IntervalDays exposes the interval table for display purposes.
func IntervalDays(stage int) int64 {
	if stage < 0 || stage >= entities.ReviewStageCount {
		return 0
	}
	return intervalDays[stage]
}
